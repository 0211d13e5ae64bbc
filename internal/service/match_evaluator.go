package service

import (
	"strings"

	"github.com/noah-isme/programme-match-api/internal/models"
)

// MatchResult is the outcome of checking one programme against a subject list.
type MatchResult struct {
	Eligible bool
	Score    int
}

// subjectPoints indexes a student's grades by normalised subject name. When a
// subject appears twice the better grade wins.
func subjectPoints(subjects []models.StudentSubject) map[string]int {
	index := make(map[string]int, len(subjects))
	for _, s := range subjects {
		key := subjectKey(s.Subject)
		if key == "" {
			continue
		}
		points := PointsOf(s.Grade)
		if current, ok := index[key]; !ok || points > current {
			index[key] = points
		}
	}
	return index
}

func subjectKey(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}

// IsEligible reports whether every requirement is met by a held subject with
// at least the required grade. No requirements means eligible.
func IsEligible(requirements []models.Requirement, subjects []models.StudentSubject) bool {
	return evaluate(requirements, subjectPoints(subjects)).Eligible
}

// MatchScore sums (held - required + 1) over satisfied requirements. Missing or
// insufficient subjects add nothing, so the score is defined for any input.
func MatchScore(requirements []models.Requirement, subjects []models.StudentSubject) int {
	return evaluate(requirements, subjectPoints(subjects)).Score
}

// Evaluate computes eligibility and score in a single pass.
func Evaluate(requirements []models.Requirement, subjects []models.StudentSubject) MatchResult {
	return evaluate(requirements, subjectPoints(subjects))
}

// evaluate does not de-duplicate requirement subjects; a subject listed twice
// scores twice.
func evaluate(requirements []models.Requirement, held map[string]int) MatchResult {
	result := MatchResult{Eligible: true}
	for _, req := range requirements {
		required := PointsOf(req.Grade)
		points, ok := held[subjectKey(req.Subject)]
		if !ok || points < required {
			result.Eligible = false
			continue
		}
		result.Score += points - required + 1
	}
	return result
}
