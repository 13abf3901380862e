package plannerService

import (
	"Eventra/internal/api/planner"
	"Eventra/internal/entity"
	contextPkg "Eventra/pkg/context"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

const treePromptTemplate = `You are an event planning assistant. The user describes an event; produce two taxonomies of needs as JSON.

Return exactly this JSON shape:
{"peopleTree": [{"emoji": "...", "label": "...", "selected": false, "children": [...]}], "placeTree": [...]}

The peopleTree top level must use exactly these four categories: Food, Drinks, Entertainment, Accommodation. Each top-level node carries two or more concrete child items relevant to the event. The placeTree top level lists at most six location-related need categories (venue, decoration, equipment and similar), each with concrete children.

Conversation so far:
%s

Event description: %s`

const treeRetryHint = `

The previous attempt returned no usable categories. Be concrete: every top-level category must contain at least two children named after purchasable goods or bookable services for this event.`

type generatedTrees struct {
	PeopleTree []entity.TreeNode `json:"peopleTree"`
	PlaceTree  []entity.TreeNode `json:"placeTree"`
}

// GenerateTrees fills session.PeopleTree and session.PlaceTree from
// the event description. An empty people tree is retried once with an
// enhanced prompt before being treated as a failure.
func (s *plannerService) GenerateTrees(ctx context.Context, session *entity.Session, description string) error {
	requestID := contextPkg.GetRequestID(ctx)

	prompt := fmt.Sprintf(treePromptTemplate, conversationText(session), description)

	trees, err := s.generateTreesOnce(ctx, prompt)
	if err == nil && len(trees.PeopleTree) == 0 {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
		}).Warn("Tree generation returned no people categories, retrying with enhanced prompt")
		trees, err = s.generateTreesOnce(ctx, prompt+treeRetryHint)
	}
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("Tree generation failed")
		return planner.ErrTreeGenerationFailed
	}
	if len(trees.PeopleTree) == 0 {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
		}).Error("Tree generation returned no people categories after retry")
		return planner.ErrTreeGenerationFailed
	}

	session.PeopleTree = entity.NormalizePeopleRoots(trees.PeopleTree)
	session.PlaceTree = entity.CapPlaceRoots(trees.PlaceTree)

	return nil
}

func (s *plannerService) generateTreesOnce(ctx context.Context, prompt string) (*generatedTrees, error) {
	raw, err := s.gemini.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var trees generatedTrees
	if err := json.Unmarshal([]byte(raw), &trees); err != nil {
		return nil, fmt.Errorf("malformed tree JSON: %w", err)
	}
	return &trees, nil
}

func (s *plannerService) TreesForSession(ctx context.Context, req planner.GenerateTreesRequest) (*planner.TreesResponse, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, planner.ErrEmptyEventDescription
	}

	session, err := s.store.GetOrCreate(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	if err := s.GenerateTrees(ctx, session, req.Description); err != nil {
		return nil, err
	}

	session.AddMessage("user", req.Description)
	session.AddMessage("assistant", "Generated planning trees for the event.")

	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	return &planner.TreesResponse{
		SessionID:  session.ID,
		PeopleTree: session.PeopleTree,
		PlaceTree:  session.PlaceTree,
	}, nil
}

func conversationText(session *entity.Session) string {
	if len(session.Conversation) == 0 {
		return "(no prior messages)"
	}

	var sb strings.Builder
	for _, msg := range session.Conversation {
		sb.WriteString(msg.Role)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
