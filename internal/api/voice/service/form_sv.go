package voiceService

import (
	"Eventra/internal/api/voice"
	"Eventra/internal/entity"
	contextPkg "Eventra/pkg/context"
	"Eventra/pkg/numword"
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

func (s *voiceService) handleFormCollection(ctx context.Context, session *entity.Session, input string) (*voice.VoiceTurn, error) {
	state := session.VoiceState

	if state.Entering {
		state.Entering = false
		field := state.FormFields[state.FormFieldIndex]
		text := fmt.Sprintf("Now let's fill in the details. What is the %s?", strings.ToLower(field.Label))
		return s.turn(state, text, true, map[string]interface{}{"field": field.Label}), nil
	}

	value := strings.TrimSpace(numword.Normalize(input))
	state.FormFields[state.FormFieldIndex].Value = &value
	state.FormFieldIndex++

	if state.FormFieldIndex < len(state.FormFields) {
		field := state.FormFields[state.FormFieldIndex]
		text := fmt.Sprintf("Got it. And the %s?", strings.ToLower(field.Label))
		return s.turn(state, text, true, map[string]interface{}{"field": field.Label}), nil
	}

	return s.finishForm(ctx, session)
}

// finishForm persists the completed form and synchronously builds the
// shopping list and cart before asking about the readout. Any
// generation failure surfaces as a spoken error turn, leaving the
// stored session still in form collection.
func (s *voiceService) finishForm(ctx context.Context, session *entity.Session) (*voice.VoiceTurn, error) {
	requestID := contextPkg.GetRequestID(ctx)
	state := session.VoiceState

	session.SaveForm(state.FormFields)

	list, err := s.planner.GenerateShoppingList(ctx, session)
	if err != nil {
		return nil, err
	}

	cart, missing, err := s.shopping.BuildCart(ctx, session, list)
	if err != nil {
		return nil, err
	}

	state.ShoppingListItems = list.Items
	state.Cart = cart
	state.Phase = entity.PhaseListReadoutPrompt

	if len(missing) > 0 {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"missing":    missing,
		}).Warn("Some shopping list items had no catalog match")
	}

	text := fmt.Sprintf(
		"Thanks! I've put together a shopping list with %d items for a total of %.2f dollars. Would you like me to read it out?",
		len(cart.Items),
		cart.Price,
	)
	return s.turn(state, text, true, map[string]interface{}{
		"items":         list.Items,
		"missing_items": missing,
		"total":         cart.Price,
	}), nil
}
