package models

// StudentSubject is a subject a student sat together with the letter grade achieved.
type StudentSubject struct {
	Subject string `json:"subject"`
	Grade   string `json:"grade"`
}
