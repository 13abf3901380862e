package plannerService

import (
	"Eventra/internal/api/planner"
	"Eventra/internal/entity"
	contextPkg "Eventra/pkg/context"
	"Eventra/pkg/sessionstore"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

const prefillSystemPrompt = `You prefill an event planning form. Given the conversation and the known fields, return JSON mapping the unknown field labels to your best guess, or an empty string when the conversation gives no basis for a guess: {"label": "value", ...}.`

// SubmitForm persists submitted fields on the session. Fields
// submitted without a value are prefilled from the conversation when
// the generator can justify a guess.
func (s *plannerService) SubmitForm(ctx context.Context, req planner.SubmitFormRequest) (*planner.FormResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	session, err := s.store.GetOrCreate(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	fields := make([]entity.FormField, 0, len(req.Fields))
	var missing []string
	for _, f := range req.Fields {
		value := f.Value
		field := entity.FormField{Label: f.Label, Key: f.Key, Value: &value}
		if value == "" {
			missing = append(missing, f.Label)
		}
		fields = append(fields, field)
	}

	if len(missing) > 0 {
		prefilled, err := s.prefillFields(ctx, session, missing)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": session.ID,
				"error":      err.Error(),
			}).Warn("Form prefill failed, keeping submitted values")
		} else {
			for i := range fields {
				if *fields[i].Value != "" {
					continue
				}
				if value, ok := prefilled[fields[i].Label]; ok && value != "" {
					fields[i].Value = &value
				}
			}
		}
	}

	session.SaveForm(fields)
	session.AddMessage("user", "Submitted the planning form.")

	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	return &planner.FormResponse{
		SessionID: session.ID,
		FormData:  session.FormData,
	}, nil
}

func (s *plannerService) prefillFields(ctx context.Context, session *entity.Session, labels []string) (map[string]string, error) {
	userPrompt := fmt.Sprintf(
		"Conversation:\n%s\nKnown fields:\n%s\nUnknown fields: %v",
		conversationText(session),
		formText(session.FormData),
		labels,
	)

	raw, err := s.chatGPT.CompleteJSON(ctx, prefillSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var prefilled map[string]string
	if err := json.Unmarshal([]byte(raw), &prefilled); err != nil {
		return nil, fmt.Errorf("malformed prefill JSON: %w", err)
	}
	return prefilled, nil
}

func (s *plannerService) GetSession(ctx context.Context, sessionID string) (*planner.SessionResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			return nil, planner.ErrSessionNotFound
		}
		return nil, err
	}

	return &planner.SessionResponse{Session: session}, nil
}
