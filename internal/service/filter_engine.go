package service

import (
	"sort"

	"github.com/noah-isme/programme-match-api/internal/models"
	appErrors "github.com/noah-isme/programme-match-api/pkg/errors"
)

// FilterStrategy turns a fetched page of programmes into the list shown for one mode.
type FilterStrategy interface {
	Apply(programmes []models.Programme, subjects []models.StudentSubject) ([]models.Programme, error)
}

// FilterStrategyFunc adapts a function to FilterStrategy.
type FilterStrategyFunc func([]models.Programme, []models.StudentSubject) ([]models.Programme, error)

// Apply implements FilterStrategy.
func (f FilterStrategyFunc) Apply(programmes []models.Programme, subjects []models.StudentSubject) ([]models.Programme, error) {
	return f(programmes, subjects)
}

// FilterEngine dispatches to the strategy registered for a filter mode.
type FilterEngine struct {
	strategies map[models.FilterMode]FilterStrategy
}

// NewFilterEngine registers the passthrough, grade-ranking and server-trusted strategies.
func NewFilterEngine() *FilterEngine {
	return &FilterEngine{strategies: map[models.FilterMode]FilterStrategy{
		models.FilterDefault: FilterStrategyFunc(passthrough),
		models.FilterGrades:  FilterStrategyFunc(rankByGrades),
		models.FilterCustom:  FilterStrategyFunc(serverTrusted),
	}}
}

// WithStrategy returns a copy of the engine using s for mode.
func (e *FilterEngine) WithStrategy(mode models.FilterMode, s FilterStrategy) *FilterEngine {
	next := &FilterEngine{strategies: make(map[models.FilterMode]FilterStrategy, len(e.strategies)+1)}
	for k, v := range e.strategies {
		next.strategies[k] = v
	}
	next.strategies[mode] = s
	return next
}

// Apply filters a copy of programmes for mode. The input slice is never modified.
func (e *FilterEngine) Apply(programmes []models.Programme, mode models.FilterMode, subjects []models.StudentSubject) ([]models.Programme, error) {
	strategy, ok := e.strategies[mode]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown filter mode")
	}
	return strategy.Apply(models.CloneProgrammes(programmes), subjects)
}

// passthrough shows everything unranked in fetch order.
func passthrough(programmes []models.Programme, _ []models.StudentSubject) ([]models.Programme, error) {
	for i := range programmes {
		programmes[i].MatchScore = 0
	}
	return programmes, nil
}

// rankByGrades drops ineligible programmes and orders the rest by descending
// score. Equal scores keep fetch order.
func rankByGrades(programmes []models.Programme, subjects []models.StudentSubject) ([]models.Programme, error) {
	if len(subjects) == 0 {
		return nil, appErrors.ErrSubjectsUnavailable
	}
	held := subjectPoints(subjects)
	kept := programmes[:0]
	for _, p := range programmes {
		result := evaluate(p.SpecificRequirements, held)
		if !result.Eligible {
			continue
		}
		p.Eligible = true
		p.MatchScore = result.Score
		kept = append(kept, p)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].MatchScore > kept[j].MatchScore
	})
	return kept, nil
}

// serverTrusted keeps the list exactly as the catalog service matched it.
func serverTrusted(programmes []models.Programme, _ []models.StudentSubject) ([]models.Programme, error) {
	return programmes, nil
}
