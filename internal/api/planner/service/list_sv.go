package plannerService

import (
	"Eventra/internal/api/planner"
	"Eventra/internal/entity"
	contextPkg "Eventra/pkg/context"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const listSystemPrompt = `You are an event shopping assistant. Given the selected event needs and the planning form, produce a flat shopping list as JSON: {"items": ["item name (quantity unit)", ...], "priceRanges": {"item name": "$low-$high", ...}}. Item names are concrete purchasable products. Include a parenthesized quantity only when a specific pack size matters.`

// quantitySuffixPattern strips trailing "(24 bottles)"-style pack
// annotations off generated item names; the leading number becomes a
// quantity hint for cart building.
var quantitySuffixPattern = regexp.MustCompile(`\s*\((\d+)[^)]*\)\s*$`)

// GenerateShoppingList turns the session's selected tree nodes and
// form data into plain shopping-list items with price ranges and
// quantity hints.
func (s *plannerService) GenerateShoppingList(ctx context.Context, session *entity.Session) (*planner.ShoppingListResult, error) {
	requestID := contextPkg.GetRequestID(ctx)

	userPrompt := fmt.Sprintf(
		"Selected needs:\n%s\nPlanning form:\n%s",
		treesText(session),
		formText(session.FormData),
	)

	raw, err := s.chatGPT.CompleteJSON(ctx, listSystemPrompt, userPrompt)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("Shopping list generation failed")
		return nil, planner.ErrListGenerationFailed
	}

	var generated struct {
		Items       []string          `json:"items"`
		PriceRanges map[string]string `json:"priceRanges"`
	}
	if err := json.Unmarshal([]byte(raw), &generated); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("Malformed shopping list JSON")
		return nil, planner.ErrListGenerationFailed
	}

	result := &planner.ShoppingListResult{
		PriceRanges:   map[string]string{},
		QuantityHints: map[string]int{},
	}

	for _, rawItem := range generated.Items {
		name, hint := splitQuantityHint(rawItem)
		if name == "" {
			continue
		}
		result.Items = append(result.Items, name)
		if hint > 0 {
			result.QuantityHints[name] = hint
		}
	}

	for rawName, priceRange := range generated.PriceRanges {
		name, _ := splitQuantityHint(rawName)
		if name == "" {
			continue
		}
		result.PriceRanges[name] = priceRange
	}

	session.AddMessage("assistant", fmt.Sprintf("Generated a shopping list with %d items.", len(result.Items)))

	return result, nil
}

func splitQuantityHint(item string) (string, int) {
	name := strings.TrimSpace(item)
	match := quantitySuffixPattern.FindStringSubmatch(name)
	if match == nil {
		return name, 0
	}

	hint, err := strconv.Atoi(match[1])
	if err != nil || hint <= 0 {
		hint = 0
	}
	return strings.TrimSpace(quantitySuffixPattern.ReplaceAllString(name, "")), hint
}

func treesText(session *entity.Session) string {
	var sb strings.Builder
	writeForest(&sb, "People needs", entity.PruneSelected(session.PeopleTree))
	writeForest(&sb, "Place needs", entity.PruneSelected(session.PlaceTree))
	if sb.Len() == 0 {
		return "(nothing selected yet)"
	}
	return sb.String()
}

func writeForest(sb *strings.Builder, title string, nodes []entity.TreeNode) {
	if len(nodes) == 0 {
		return
	}
	sb.WriteString(title)
	sb.WriteString(":\n")
	writeNodes(sb, nodes, 1)
}

func writeNodes(sb *strings.Builder, nodes []entity.TreeNode, depth int) {
	for _, node := range nodes {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString("- ")
		sb.WriteString(node.Label)
		sb.WriteString("\n")
		writeNodes(sb, node.Children, depth+1)
	}
}

func formText(formData map[string]string) string {
	if len(formData) == 0 {
		return "(form not filled)"
	}

	var sb strings.Builder
	for _, label := range []string{"address", "budget", "date", "duration (hours)", "number of attendees"} {
		if value, ok := formData[label]; ok && value != "" {
			sb.WriteString(label)
			sb.WriteString(": ")
			sb.WriteString(value)
			sb.WriteString("\n")
		}
	}
	for label, value := range formData {
		if _, fixed := fixedFormLabels[label]; !fixed && value != "" {
			sb.WriteString(label)
			sb.WriteString(": ")
			sb.WriteString(value)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

var fixedFormLabels = map[string]struct{}{
	"address":             {},
	"budget":              {},
	"date":                {},
	"duration (hours)":    {},
	"number of attendees": {},
}
