package service

import "strings"

// gradePoints maps letter grades to points. Anything else is worth zero so
// malformed data degrades ranking instead of failing the request.
var gradePoints = map[string]int{
	"A": 5,
	"B": 4,
	"C": 3,
	"D": 2,
	"E": 1,
}

// PointsOf returns the point value of a letter grade, or 0 when unknown.
func PointsOf(grade string) int {
	return gradePoints[strings.ToUpper(strings.TrimSpace(grade))]
}

// ValidGrade reports whether grade is one of A to E once normalised.
func ValidGrade(grade string) bool {
	_, ok := gradePoints[strings.ToUpper(strings.TrimSpace(grade))]
	return ok
}

// NormalizeGrade trims and upper-cases grade, substituting fallback when blank.
func NormalizeGrade(grade, fallback string) string {
	g := strings.ToUpper(strings.TrimSpace(grade))
	if g == "" {
		return strings.ToUpper(strings.TrimSpace(fallback))
	}
	return g
}
