package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Requirement is a mandatory subject paired with the minimum letter grade accepted.
type Requirement struct {
	Subject string `json:"subject"`
	Grade   string `json:"grade"`
}

// Combination labels a subject combination accepted by a programme.
type Combination struct {
	Short string `json:"short"`
	Long  string `json:"long"`
}

// Programme is a degree programme as published by the catalog service. Eligible
// and MatchScore are derived locally and never sent back upstream.
type Programme struct {
	CourseAbbr           string        `json:"courseAbbr"`
	UniversityAbbr       string        `json:"universityAbbr"`
	University           string        `json:"university"`
	College              string        `json:"college"`
	CollegeAbbr          string        `json:"collegeAbbr"`
	Course               string        `json:"course"`
	GradeScale           string        `json:"grade_scale,omitempty"`
	MinimumPoints        Points        `json:"minimum_points"`
	RequiredCombinations []Combination `json:"required_combinations,omitempty"`
	SpecificRequirements []Requirement `json:"specific_requirements"`
	Eligible             bool          `json:"eligible"`
	MatchScore           int           `json:"match_score"`
}

// Summary aggregates the dashboard counters derived from the last result set.
type Summary struct {
	Eligible            int `json:"eligible"`
	AvailableUniversity int `json:"available_university"`
	AvailableCourses    int `json:"available_courses"`
}

// College is a faculty within a university.
type College struct {
	CollegeAbbr string `json:"collegeAbbr"`
	CollegeName string `json:"collegeName"`
}

// Points is an integer threshold the catalog service sends either as a JSON
// number or as a numeric string. Anything unparsable decodes to zero.
type Points int

// UnmarshalJSON implements json.Unmarshaler.
func (p *Points) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			*p = 0
			return nil
		}
		data = []byte(strings.TrimSpace(raw))
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*p = 0
		return nil
	}
	*p = Points(int(f))
	return nil
}

// BuildSummary derives the dashboard counters from a result set and the
// server-reported total.
func BuildSummary(programmes []Programme, total int) Summary {
	universities := make(map[string]struct{})
	eligible := 0
	for _, p := range programmes {
		if p.Eligible {
			eligible++
		}
		if p.UniversityAbbr != "" {
			universities[p.UniversityAbbr] = struct{}{}
		}
	}
	return Summary{Eligible: eligible, AvailableUniversity: len(universities), AvailableCourses: total}
}

// CloneProgrammes returns a copy of the slice whose nested slices are detached
// from the source.
func CloneProgrammes(src []Programme) []Programme {
	if src == nil {
		return nil
	}
	out := make([]Programme, len(src))
	for i, p := range src {
		if p.RequiredCombinations != nil {
			p.RequiredCombinations = append([]Combination(nil), p.RequiredCombinations...)
		}
		if p.SpecificRequirements != nil {
			p.SpecificRequirements = append([]Requirement(nil), p.SpecificRequirements...)
		}
		out[i] = p
	}
	return out
}
