package bank

import (
	"fmt"
	"strings"
)

// Difficulty is one of the three question buckets.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the buckets in ascending order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty normalizes a difficulty string ("Easy", "EASY", "easy")
// to its canonical bucket. Returns false for anything else.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(s) {
	case "easy":
		return Easy, true
	case "medium":
		return Medium, true
	case "hard":
		return Hard, true
	}
	return "", false
}

// Title returns the difficulty with its first letter capitalized, the form
// used in corpus section headings ("Easy", "Medium", "Hard").
func (d Difficulty) Title() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[0])) + string(d[1:])
}

// Points returns the score awarded for a correct answer at this difficulty.
func (d Difficulty) Points() int {
	switch d {
	case Easy:
		return 10
	case Medium:
		return 20
	case Hard:
		return 30
	}
	return 0
}

// Question is a single practice question. Immutable once parsed; identity
// encodes its position within the subject's difficulty bucket.
type Question struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Subject    string `json:"subject"`
	Difficulty string `json:"difficulty"`
	Number     int    `json:"number"`
}

// questionID builds the canonical id: subject_difficulty_number.
func questionID(subject string, d Difficulty, number int) string {
	return fmt.Sprintf("%s_%s_%d", subject, d, number)
}
