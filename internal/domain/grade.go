package domain

import (
	"fmt"
	"strings"
)

// Grade represents the outcome of a single card review.
type Grade string

// Possible grade values.
const (
	GradeEasy   Grade = "easy"
	GradeMedium Grade = "medium"
	GradeHard   Grade = "hard"
	GradeFail   Grade = "fail"
)

// gradeDeltas maps each grade to its fixed review-score delta.
var gradeDeltas = map[Grade]int{
	GradeEasy:   1,
	GradeMedium: 0,
	GradeHard:   -1,
	GradeFail:   -2,
}

// Delta returns the score delta associated with the grade.
// Calling Delta on an invalid grade returns 0; callers are expected to
// validate grades at the input boundary via ParseGrade before use.
func (g Grade) Delta() int {
	return gradeDeltas[g]
}

// Valid reports whether the grade is one of the closed set of outcomes.
func (g Grade) Valid() bool {
	_, ok := gradeDeltas[g]
	return ok
}

// ParseGrade converts raw user input into a Grade.
// Matching is case-insensitive. Returns ErrInvalidGrade for any value
// outside the closed enumeration; this is the only place invalid grade
// input is rejected.
func ParseGrade(s string) (Grade, error) {
	g := Grade(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidGrade, s)
	}
	return g, nil
}
