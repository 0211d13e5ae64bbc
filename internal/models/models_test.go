package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointsDecodesNumbersAndStrings(t *testing.T) {
	var payload struct {
		A Points `json:"a"`
		B Points `json:"b"`
		C Points `json:"c"`
		D Points `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12,"b":"9","c":"n/a","d":null}`), &payload))
	assert.Equal(t, Points(12), payload.A)
	assert.Equal(t, Points(9), payload.B)
	assert.Equal(t, Points(0), payload.C)
	assert.Equal(t, Points(0), payload.D)
}

func TestIDDecodesNumbersAndStrings(t *testing.T) {
	var s Student
	require.NoError(t, json.Unmarshal([]byte(`{"student_id":42,"username":"amina"}`), &s))
	assert.Equal(t, "42", s.StudentID.String())

	require.NoError(t, json.Unmarshal([]byte(`{"student_id":"S-7"}`), &s))
	assert.Equal(t, ID("S-7"), s.StudentID)
}

func TestBuildSummary(t *testing.T) {
	programmes := []Programme{
		{CourseAbbr: "BSc-CS", UniversityAbbr: "UDOM", Eligible: true},
		{CourseAbbr: "BSc-SE", UniversityAbbr: "UDOM", Eligible: false},
		{CourseAbbr: "BA-ED", UniversityAbbr: "UDSM", Eligible: true},
	}
	summary := BuildSummary(programmes, 40)
	assert.Equal(t, Summary{Eligible: 2, AvailableUniversity: 2, AvailableCourses: 40}, summary)
}

func TestCloneProgrammesDetachesRequirements(t *testing.T) {
	src := []Programme{{CourseAbbr: "X", SpecificRequirements: []Requirement{{Subject: "Math", Grade: "B"}}}}
	clone := CloneProgrammes(src)
	clone[0].SpecificRequirements[0].Grade = "A"
	assert.Equal(t, "B", src[0].SpecificRequirements[0].Grade)
	assert.Nil(t, CloneProgrammes(nil))
}

func TestParseFilterMode(t *testing.T) {
	mode, err := ParseFilterMode(" Grades ")
	require.NoError(t, err)
	assert.Equal(t, FilterGrades, mode)

	mode, err = ParseFilterMode("")
	require.NoError(t, err)
	assert.Equal(t, FilterDefault, mode)

	_, err = ParseFilterMode("fuzzy")
	assert.Error(t, err)
	assert.True(t, FilterGrades.Local())
	assert.False(t, FilterCustom.Local())
}

func TestPaginationRangeAndContains(t *testing.T) {
	p := Pagination{Total: 14, PerPage: 6, CurrentPage: 3, LastPage: 3}
	from, to := p.Range()
	assert.Equal(t, 13, from)
	assert.Equal(t, 14, to)
	assert.True(t, p.Contains(3))
	assert.False(t, p.Contains(0))
	assert.False(t, p.Contains(4))

	from, to = Pagination{PerPage: 6, CurrentPage: 1, LastPage: 1}.Range()
	assert.Zero(t, from)
	assert.Zero(t, to)
}

func TestPaginationWindow(t *testing.T) {
	cases := []struct {
		current, last int
		want          []int
	}{
		{1, 1, []int{1}},
		{1, 2, []int{1, 2}},
		{1, 10, []int{1, 2, PageEllipsis, 10}},
		{5, 10, []int{1, PageEllipsis, 4, 5, 6, PageEllipsis, 10}},
		{10, 10, []int{1, PageEllipsis, 9, 10}},
		{2, 3, []int{1, 2, 3}},
	}
	for _, tc := range cases {
		p := Pagination{CurrentPage: tc.current, LastPage: tc.last, PerPage: 6}
		assert.Equal(t, tc.want, p.Window(), "current=%d last=%d", tc.current, tc.last)
	}
}

func TestPaginationNormalize(t *testing.T) {
	p := Pagination{Total: -1, PerPage: 0, CurrentPage: 9, LastPage: 0}.Normalize()
	assert.Equal(t, Pagination{Total: 0, PerPage: 1, CurrentPage: 1, LastPage: 1}, p)
}
