package models

import (
	"bytes"
	"encoding/json"
)

// Role values the student service assigns.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Student is the profile the student service returns on sign-in or update.
type Student struct {
	StudentID ID     `json:"student_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ID is an identifier the student service emits as either a JSON string or number.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier as text.
func (id ID) String() string {
	return string(id)
}
