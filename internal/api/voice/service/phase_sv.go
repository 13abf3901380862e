package voiceService

import (
	"Eventra/internal/api/voice"
	"Eventra/internal/entity"
	"Eventra/pkg/fuzzy"
	"context"
	"fmt"
	"strings"
)

const greetingText = "Hi! I'm your event planning assistant. Tell me about the event you're planning and I'll help you organize everything, from the shopping list to the venue."

func (s *voiceService) handleGreeting(state *entity.VoiceState) (*voice.VoiceTurn, error) {
	state.Phase = entity.PhaseEventType
	state.Entering = false
	return s.turn(state, greetingText, true, nil), nil
}

func (s *voiceService) handleEventType(ctx context.Context, session *entity.Session, input string) (*voice.VoiceTurn, error) {
	state := session.VoiceState

	if strings.TrimSpace(input) == "" {
		return s.turn(state, "Tell me about your event. What are you planning?", true, nil), nil
	}

	if err := s.planner.GenerateTrees(ctx, session, input); err != nil {
		return nil, err
	}

	state.EventDescription = input
	state.Phase = entity.PhaseCategorySelection

	categories := rootLabels(session.PeopleTree)
	text := fmt.Sprintf(
		"Great, that sounds fun! For your event I can help with these categories: %s. Which ones would you like to cover?",
		strings.Join(categories, ", "),
	)
	return s.turn(state, text, true, map[string]interface{}{"categories": categories}), nil
}

func (s *voiceService) handleCategorySelection(session *entity.Session, input string) (*voice.VoiceTurn, error) {
	state := session.VoiceState
	categories := rootLabels(session.PeopleTree)

	matches := fuzzy.MatchAll(input, categories, s.fuzzyCfg.InclusionThreshold)
	if len(matches) == 0 {
		text := fmt.Sprintf(
			"I didn't catch which categories you meant. The options are: %s.",
			strings.Join(categories, ", "),
		)
		return s.turn(state, text, true, map[string]interface{}{"categories": categories}), nil
	}

	allPerfect := true
	for _, match := range matches {
		if match.Score < s.fuzzyCfg.PerfectThreshold {
			allPerfect = false
			break
		}
	}

	if allPerfect {
		state.SelectedCategories = matchLabels(matches)
		state.CurrentCategoryIndex = 0
		state.Pending = nil
		state.Phase = entity.PhaseSubcategorySelection
		state.Entering = true
		return nil, nil
	}

	var confident []string
	for _, match := range matches {
		if match.Score > s.fuzzyCfg.ConfidenceThreshold {
			confident = append(confident, match.Candidate)
		}
	}

	if len(confident) == 0 {
		text := fmt.Sprintf(
			"Sorry, I'm not sure which categories you meant. Could you pick from: %s?",
			strings.Join(categories, ", "),
		)
		return s.turn(state, text, true, map[string]interface{}{"categories": categories}), nil
	}

	state.Pending = &entity.PendingConfirmation{Type: "categories", Items: confident}
	state.Phase = entity.PhaseCategoryConfirmation
	text := fmt.Sprintf("Just to confirm, you'd like help with %s?", strings.Join(confident, " and "))
	return s.turn(state, text, true, map[string]interface{}{"pending": confident}), nil
}

func (s *voiceService) handleCategoryConfirmation(session *entity.Session, input string) (*voice.VoiceTurn, error) {
	state := session.VoiceState

	switch parseYesNo(input) {
	case "yes":
		if state.Pending != nil {
			state.SelectedCategories = state.Pending.Items
		}
		state.Pending = nil
		state.CurrentCategoryIndex = 0
		state.Phase = entity.PhaseSubcategorySelection
		state.Entering = true
		return nil, nil
	case "no":
		state.Pending = nil
		state.Phase = entity.PhaseCategorySelection
		categories := rootLabels(session.PeopleTree)
		text := fmt.Sprintf("No problem. Which categories would you like then? The options are: %s.", strings.Join(categories, ", "))
		return s.turn(state, text, true, map[string]interface{}{"categories": categories}), nil
	default:
		return s.turn(state, "Sorry, was that a yes or a no?", true, nil), nil
	}
}

func (s *voiceService) handleSubcategorySelection(session *entity.Session, input string) (*voice.VoiceTurn, error) {
	state := session.VoiceState

	if state.Entering {
		return s.enterSubcategorySelection(session)
	}

	category := state.SelectedCategories[state.CurrentCategoryIndex]
	node := findRoot(session.PeopleTree, category)
	if node != nil && !s.markMatchedChildren(node, input) {
		subcategories := childLabels(node)
		text := fmt.Sprintf(
			"I didn't catch any of the %s options. The choices are: %s. Which of these would you like?",
			category,
			strings.Join(subcategories, ", "),
		)
		return s.turn(state, text, true, map[string]interface{}{
			"category":      category,
			"subcategories": subcategories,
		}), nil
	}
	entity.PropagateSelection(session.PeopleTree)

	state.CurrentCategoryIndex++
	state.Entering = true
	return nil, nil
}

// enterSubcategorySelection is the entry action for one category of
// the selection loop: list that category's options, or skip ahead when
// the category has none. Exhausting the selected categories hands the
// machine to the completion check.
func (s *voiceService) enterSubcategorySelection(session *entity.Session) (*voice.VoiceTurn, error) {
	state := session.VoiceState

	for state.CurrentCategoryIndex < len(state.SelectedCategories) {
		category := state.SelectedCategories[state.CurrentCategoryIndex]
		node := findRoot(session.PeopleTree, category)
		if node == nil || len(node.Children) == 0 {
			if node != nil {
				node.Selected = true
			}
			state.CurrentCategoryIndex++
			continue
		}

		node.Selected = true
		subcategories := childLabels(node)
		state.Entering = false
		text := fmt.Sprintf(
			"For %s, we suggest: %s. Which of these would you like?",
			category,
			strings.Join(subcategories, ", "),
		)
		return s.turn(state, text, true, map[string]interface{}{
			"category":      category,
			"subcategories": subcategories,
		}), nil
	}

	state.Phase = entity.PhaseCompletionCheck
	state.Entering = true
	return nil, nil
}

// markMatchedChildren selects children matching the utterance at the
// subcategory threshold, falling back to the single best match above
// the inclusion threshold when nothing clears it. Returns false when
// the utterance matched no child at all.
func (s *voiceService) markMatchedChildren(node *entity.TreeNode, input string) bool {
	labels := childLabels(node)

	matches := fuzzy.MatchAll(input, labels, s.fuzzyCfg.SubcategoryThreshold)
	if len(matches) == 0 {
		best := fuzzy.MatchAll(input, labels, s.fuzzyCfg.InclusionThreshold)
		if len(best) == 0 {
			return false
		}
		matches = best[:1]
	}

	matched := map[string]bool{}
	for _, match := range matches {
		matched[match.Candidate] = true
	}

	for i := range node.Children {
		if matched[node.Children[i].Label] {
			node.Children[i].Selected = true
			node.Selected = true
		}
	}
	return true
}

func (s *voiceService) handleCompletionCheck(session *entity.Session, input string) (*voice.VoiceTurn, error) {
	state := session.VoiceState

	if state.Entering {
		state.Entering = false
		text := fmt.Sprintf(
			"So far we've covered %s. Are you done, would you like to add more categories, or hear the remaining ones?",
			strings.Join(state.SelectedCategories, ", "),
		)
		return s.turn(state, text, true, map[string]interface{}{"selected": state.SelectedCategories}), nil
	}

	lowered := strings.ToLower(input)

	if containsAny(lowered, "remaining", "rest", "other") {
		remaining := unselectedRootLabels(session.PeopleTree)
		if len(remaining) == 0 {
			return s.turn(state, "You've already covered every category. Are you ready to proceed?", true, nil), nil
		}
		state.Phase = entity.PhaseCategorySelection
		text := fmt.Sprintf("The remaining categories are: %s. Which would you like?", strings.Join(remaining, ", "))
		return s.turn(state, text, true, map[string]interface{}{"categories": remaining}), nil
	}

	if containsAny(lowered, "add", "more", "another") {
		state.Phase = entity.PhaseCategorySelection
		categories := rootLabels(session.PeopleTree)
		text := fmt.Sprintf("Sure. Which categories would you like to add? The options are: %s.", strings.Join(categories, ", "))
		return s.turn(state, text, true, map[string]interface{}{"categories": categories}), nil
	}

	if containsAny(lowered, "done", "proceed", "ready", "continue", "finish") || parseYesNo(input) == "yes" {
		state.Phase = entity.PhaseFormCollection
		state.Entering = true
		return nil, nil
	}

	return s.turn(state, "Would you like to add more categories, hear the remaining ones, or are you done?", true, nil), nil
}

func rootLabels(nodes []entity.TreeNode) []string {
	labels := make([]string, 0, len(nodes))
	for _, node := range nodes {
		labels = append(labels, node.Label)
	}
	return labels
}

func unselectedRootLabels(nodes []entity.TreeNode) []string {
	var labels []string
	for _, node := range nodes {
		if !node.Selected {
			labels = append(labels, node.Label)
		}
	}
	return labels
}

func childLabels(node *entity.TreeNode) []string {
	labels := make([]string, 0, len(node.Children))
	for _, child := range node.Children {
		labels = append(labels, child.Label)
	}
	return labels
}

func findRoot(nodes []entity.TreeNode, label string) *entity.TreeNode {
	for i := range nodes {
		if nodes[i].Label == label {
			return &nodes[i]
		}
	}
	return nil
}

func matchLabels(matches []fuzzy.Match) []string {
	labels := make([]string, 0, len(matches))
	for _, match := range matches {
		labels = append(labels, match.Candidate)
	}
	return labels
}

func containsAny(text string, words ...string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

var yesWords = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "sure": true,
	"ok": true, "okay": true, "correct": true, "right": true,
	"absolutely": true, "please": true,
}

var noWords = map[string]bool{
	"no": true, "nope": true, "nah": true, "not": true,
	"don't": true, "dont": true, "skip": true,
}

// parseYesNo classifies an utterance as yes, no or unclear. The "no"
// words win so "no, not yet" never reads as agreement.
func parseYesNo(input string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(input)))

	sawYes := false
	for _, word := range words {
		word = strings.Trim(word, ".,!?")
		if noWords[word] {
			return "no"
		}
		if yesWords[word] {
			sawYes = true
		}
	}

	if sawYes {
		return "yes"
	}
	return ""
}
