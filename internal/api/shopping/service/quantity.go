package shoppingService

import (
	"math"
	"strings"
)

var consumableKeywords = []string{
	"water", "coffee", "tea", "soda", "juice", "drink", "snack",
	"chips", "cookies", "meal", "lunch", "dinner", "breakfast",
	"fruit", "sandwich",
}

var perPersonPhrases = []string{"per person", "per attendee", "per guest"}

// InferAmount decides how many units of an item to buy: consumables
// and explicitly per-person items scale with headcount, with one
// replenishment cycle per four event hours; everything else is a
// one-off.
func InferAmount(itemName string, attendees, durationHours int) int {
	if attendees <= 0 {
		return 1
	}

	lowered := strings.ToLower(itemName)

	consumable := false
	for _, keyword := range consumableKeywords {
		if strings.Contains(lowered, keyword) {
			consumable = true
			break
		}
	}

	perPerson := false
	for _, phrase := range perPersonPhrases {
		if strings.Contains(lowered, phrase) {
			perPerson = true
			break
		}
	}

	if !consumable && !perPerson {
		return 1
	}

	amount := attendees
	if consumable && durationHours > 0 {
		multiplier := int(math.Ceil(float64(durationHours) / 4))
		if multiplier < 1 {
			multiplier = 1
		}
		amount *= multiplier
	}

	return amount
}
