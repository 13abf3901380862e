package numword

import (
	"strconv"
	"strings"
)

var wordToNum = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13,
	"fourteen": 14, "fifteen": 15, "sixteen": 16, "seventeen": 17,
	"eighteen": 18, "nineteen": 19, "twenty": 20, "thirty": 30,
	"forty": 40, "fifty": 50, "sixty": 60, "seventy": 70,
	"eighty": 80, "ninety": 90, "hundred": 100, "thousand": 1000,
}

// Normalize converts English number words embedded in prose into digit
// strings, leaving every other token alone. Compound forms are
// handled: "one hundred" multiplies the preceding digit token by 100,
// "twenty one" merges the tens and units tokens into one number and
// consumes both words. Ordinals, fractions and negatives pass through
// unchanged. Voice-dictated form fields (budget, attendee count,
// duration) need parseable numeric strings, which is the only reason
// this exists.
func Normalize(text string) string {
	words := strings.Fields(strings.ToLower(text))
	var result []string

	for i := 0; i < len(words); i++ {
		word := words[i]

		value, known := wordToNum[word]
		if !known {
			result = append(result, word)
			continue
		}

		switch {
		case word == "hundred" && len(result) > 0 && isDigits(result[len(result)-1]):
			prev, _ := strconv.Atoi(result[len(result)-1])
			result[len(result)-1] = strconv.Itoa(prev * 100)
		case word == "thousand" && len(result) > 0 && isDigits(result[len(result)-1]):
			prev, _ := strconv.Atoi(result[len(result)-1])
			result[len(result)-1] = strconv.Itoa(prev * 1000)
		case isTensWord(word) && i+1 < len(words) && isUnitsWord(words[i+1]):
			next := wordToNum[words[i+1]]
			result = append(result, strconv.Itoa(value+next))
			i++ // consumed the units word
		default:
			result = append(result, strconv.Itoa(value))
		}
	}

	return strings.Join(result, " ")
}

func isUnitsWord(word string) bool {
	value, ok := wordToNum[word]
	return ok && value >= 1 && value <= 9
}

func isTensWord(word string) bool {
	value, ok := wordToNum[word]
	return ok && value >= 20 && value <= 90 && value%10 == 0
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
