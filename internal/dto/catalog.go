package dto

import "github.com/noah-isme/programme-match-api/internal/models"

// ListProgrammesRequest queries one page of the catalog for a student.
type ListProgrammesRequest struct {
	StudentID string
	Filter    models.FilterMode
	Page      int
	PerPage   int
}

// CustomMatchRequest asks the catalog service to match an ad-hoc subject list.
type CustomMatchRequest struct {
	Subjects []models.StudentSubject `json:"subjects"`
	Page     int                     `json:"page"`
	PerPage  int                     `json:"per_page"`
}

// ProgrammesResponse is returned by both the list and custom match endpoints.
type ProgrammesResponse struct {
	Success    bool               `json:"success"`
	Courses    []models.Programme `json:"courses"`
	Pagination models.Pagination  `json:"pagination"`
	Error      string             `json:"error,omitempty"`
}

// ProgrammeData carries the editable programme fields.
type ProgrammeData struct {
	Course               string               `json:"course" validate:"required"`
	CollegeAbbr          string               `json:"collegeAbbr" validate:"required"`
	MinimumPoints        models.Points        `json:"minimum_points" validate:"gte=0"`
	UniversityAbbr       string               `json:"universityAbbr,omitempty"`
	SpecificRequirements []models.Requirement `json:"specific_requirements"`
}

// ProgrammeMutationRequest is posted to the create, update and delete endpoints.
type ProgrammeMutationRequest struct {
	CourseAbbr string         `json:"courseAbbr"`
	UserRole   string         `json:"user_role,omitempty"`
	CourseData *ProgrammeData `json:"courseData,omitempty"`
}

// MutationResponse acknowledges a programme create, update or delete.
type MutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CollegesResponse lists the colleges of one university.
type CollegesResponse struct {
	Success  bool             `json:"success"`
	Colleges []models.College `json:"colleges"`
	Error    string           `json:"error,omitempty"`
}

// FilterModeRequest switches the filter mode of the caller's session.
type FilterModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// PageRequest moves the caller's session to another page.
type PageRequest struct {
	Page int `json:"page"`
}

// CustomFilterRequest runs an ad-hoc subject match for the caller.
type CustomFilterRequest struct {
	Subjects []models.StudentSubject `json:"subjects"`
	Page     int                     `json:"page"`
	PerPage  int                     `json:"per_page"`
}

// ProgrammeCreateRequest is the browser payload for adding a programme.
type ProgrammeCreateRequest struct {
	CourseAbbr string        `json:"courseAbbr" binding:"required"`
	CourseData ProgrammeData `json:"courseData"`
}
