package shoppingService

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferAmount(t *testing.T) {
	tests := []struct {
		name          string
		itemName      string
		attendees     int
		durationHours int
		expected      int
	}{
		{
			name:          "consumable scales with attendees and duration",
			itemName:      "Bottled Water",
			attendees:     50,
			durationHours: 8,
			expected:      100,
		},
		{
			name:          "durable item is a one-off",
			itemName:      "Folding Table",
			attendees:     50,
			durationHours: 8,
			expected:      1,
		},
		{
			name:          "no attendee count known",
			itemName:      "Orange Juice",
			attendees:     0,
			durationHours: 8,
			expected:      1,
		},
		{
			name:          "consumable without duration",
			itemName:      "Sandwich Platter",
			attendees:     20,
			durationHours: 0,
			expected:      20,
		},
		{
			name:          "per person phrasing scales without duration multiplier",
			itemName:      "Party Favor (per guest)",
			attendees:     30,
			durationHours: 8,
			expected:      30,
		},
		{
			name:          "short event keeps single cycle",
			itemName:      "Coffee",
			attendees:     10,
			durationHours: 3,
			expected:      10,
		},
		{
			name:          "duration rounds up to next cycle",
			itemName:      "Snack Mix",
			attendees:     10,
			durationHours: 5,
			expected:      20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InferAmount(tt.itemName, tt.attendees, tt.durationHours))
		})
	}
}
