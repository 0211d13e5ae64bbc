package models

import (
	"fmt"
	"strings"
)

// FilterMode selects which evaluator pass runs over fetched programmes.
type FilterMode string

const (
	// FilterDefault shows everything, unranked.
	FilterDefault FilterMode = "default"
	// FilterGrades keeps programmes the stored subjects satisfy, best match first.
	FilterGrades FilterMode = "grades"
	// FilterCustom trusts a server-side match against an ad-hoc subject list.
	FilterCustom FilterMode = "custom"
)

// ParseFilterMode accepts the three known modes case-insensitively. An empty
// string means FilterDefault.
func ParseFilterMode(raw string) (FilterMode, error) {
	switch mode := FilterMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "":
		return FilterDefault, nil
	case FilterDefault, FilterGrades, FilterCustom:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown filter mode %q", raw)
	}
}

// Local reports whether the mode is refined by the local filter engine.
func (m FilterMode) Local() bool {
	return m == FilterGrades
}
