package voiceService

import (
	"Eventra/internal/api/voice"
	"Eventra/internal/entity"
	"fmt"
	"strings"
)

func (s *voiceService) handleListReadoutPrompt(state *entity.VoiceState, input string) (*voice.VoiceTurn, error) {
	switch parseYesNo(input) {
	case "yes":
		state.Phase = entity.PhaseListReadout
		state.Entering = true
		return nil, nil
	case "no":
		state.Phase = entity.PhasePurchaseConfirmation
		state.Entering = true
		return nil, nil
	default:
		return s.turn(state, "Should I read the shopping list out loud? Yes or no.", true, nil), nil
	}
}

// handleListReadout reads every recommended item with quantity, unit
// price and line total, then moves straight into the purchase
// question; the readout turn itself already awaits the confirmation.
func (s *voiceService) handleListReadout(state *entity.VoiceState) (*voice.VoiceTurn, error) {
	var lines []string
	for _, item := range state.Cart.Items {
		rec := item.RecommendedItem
		lineTotal := rec.Price * float64(rec.Amount)
		lines = append(lines, fmt.Sprintf(
			"%s: %d at %.2f dollars each, %.2f dollars total",
			rec.Name, rec.Amount, rec.Price, lineTotal,
		))
	}

	state.Phase = entity.PhasePurchaseConfirmation
	state.Entering = false

	text := fmt.Sprintf(
		"Here is your shopping list. %s. The overall total is %.2f dollars. Shall I proceed with the purchase?",
		strings.Join(lines, ". "),
		state.Cart.Price,
	)
	return s.turn(state, text, true, map[string]interface{}{"total": state.Cart.Price}), nil
}

func (s *voiceService) handlePurchaseConfirmation(state *entity.VoiceState, input string) (*voice.VoiceTurn, error) {
	if state.Entering {
		state.Entering = false
		text := fmt.Sprintf("Shall I proceed with the purchase for a total of %.2f dollars?", state.Cart.Price)
		return s.turn(state, text, true, map[string]interface{}{"total": state.Cart.Price}), nil
	}

	switch parseYesNo(input) {
	case "yes":
		state.Phase = entity.PhaseDone
		text := "Wonderful! Your order is confirmed. Everything will be ready in time for your event. Have a great one!"
		return s.turn(state, text, false, map[string]interface{}{"purchased": true}), nil
	case "no":
		state.Phase = entity.PhaseDone
		text := "No problem, I've saved your cart so you can come back to it later. Good luck with your event!"
		return s.turn(state, text, false, map[string]interface{}{"purchased": false}), nil
	default:
		return s.turn(state, "Sorry, should I go ahead with the purchase? Yes or no.", true, nil), nil
	}
}
