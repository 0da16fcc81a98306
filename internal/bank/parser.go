package bank

import (
	"regexp"
	"strings"
)

// Bucketed holds one subject's questions split by difficulty. Indices
// within each slice are stable and 0-based.
type Bucketed struct {
	Easy   []Question
	Medium []Question
	Hard   []Question
}

// Bucket returns the slice for the given difficulty.
func (b *Bucketed) Bucket(d Difficulty) []Question {
	switch d {
	case Easy:
		return b.Easy
	case Medium:
		return b.Medium
	case Hard:
		return b.Hard
	}
	return nil
}

// Total returns the number of questions across all buckets.
func (b *Bucketed) Total() int {
	return len(b.Easy) + len(b.Medium) + len(b.Hard)
}

// numberedLine matches a question line: an integer prefix followed by a dot.
var numberedLine = regexp.MustCompile(`^\d+\.\s*`)

// Parse segments raw corpus text for one subject into difficulty buckets.
//
// A line switches the active difficulty when it contains a difficulty word
// together with the word "Questions", or the difficulty word immediately
// followed by an opening parenthesis ("Easy (30 Questions)", "EASY (").
// A non-empty line starting with "N." under an active difficulty is captured
// as a question; the numeric prefix is stripped and the question is numbered
// by its position in the bucket, not by the digits in the source. Lines
// before the first heading are dropped.
func Parse(content, subject string) *Bucketed {
	out := &Bucketed{}

	var current Difficulty
	number := 1

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)

		if d, ok := matchHeading(line); ok {
			current = d
			number = 1
			continue
		}

		if line == "" || current == "" || !numberedLine.MatchString(line) {
			continue
		}

		text := numberedLine.ReplaceAllString(line, "")
		q := Question{
			ID:         questionID(subject, current, number),
			Text:       text,
			Subject:    subject,
			Difficulty: string(current),
			Number:     number,
		}
		switch current {
		case Easy:
			out.Easy = append(out.Easy, q)
		case Medium:
			out.Medium = append(out.Medium, q)
		case Hard:
			out.Hard = append(out.Hard, q)
		}
		number++
	}

	return out
}

// matchHeading reports whether the line is a difficulty section heading.
func matchHeading(line string) (Difficulty, bool) {
	for _, d := range Difficulties {
		title := d.Title()
		upper := strings.ToUpper(title)
		switch {
		case strings.Contains(line, title) && strings.Contains(line, "Questions"),
			strings.Contains(line, title+" ("),
			strings.Contains(line, upper+" ("):
			return d, true
		}
	}
	return "", false
}
