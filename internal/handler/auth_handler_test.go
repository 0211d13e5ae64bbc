package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/programme-match-api/internal/dto"
	"github.com/noah-isme/programme-match-api/internal/models"
	appErrors "github.com/noah-isme/programme-match-api/pkg/errors"
)

type fakeStudents struct {
	signIn    *dto.SessionResponse
	err       error
	signedOut string
	updateFor string
}

func (f *fakeStudents) SignIn(context.Context, dto.SignInRequest) (*dto.SessionResponse, error) {
	return f.signIn, f.err
}

func (f *fakeStudents) Register(context.Context, dto.RegisterRequest) (models.ID, error) {
	return "19", f.err
}

func (f *fakeStudents) Profile(context.Context, string) (*dto.SessionResponse, error) {
	return f.signIn, f.err
}

func (f *fakeStudents) UpdateProfile(_ context.Context, studentID string, _ dto.UpdateProfileRequest) (*models.Student, error) {
	f.updateFor = studentID
	return &models.Student{StudentID: models.ID(studentID)}, f.err
}

func (f *fakeStudents) SignOut(_ context.Context, studentID string) error {
	f.signedOut = studentID
	return f.err
}

func TestAuthSignIn(t *testing.T) {
	h := NewAuthHandler(&fakeStudents{signIn: &dto.SessionResponse{Token: "tok"}})
	c, rec := newTestContext(http.MethodPost, "/auth/signin", `{"username":"a","password":"b"}`)

	h.SignIn(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "tok", data["token"])
}

func TestAuthSignInBadJSON(t *testing.T) {
	h := NewAuthHandler(&fakeStudents{})
	c, rec := newTestContext(http.MethodPost, "/auth/signin", `{`)
	h.SignIn(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthSignInUpstreamFailure(t *testing.T) {
	h := NewAuthHandler(&fakeStudents{err: appErrors.Clone(appErrors.ErrUpstream, "invalid username or password")})
	c, rec := newTestContext(http.MethodPost, "/auth/signin", `{"username":"a","password":"b"}`)
	h.SignIn(c)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAuthRegister(t *testing.T) {
	h := NewAuthHandler(&fakeStudents{})
	c, rec := newTestContext(http.MethodPost, "/auth/register", `{"username":"n"}`)
	h.Register(c)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "19", decodeEnvelope(t, rec)["data"].(map[string]interface{})["student_id"])
}

func TestAuthSignOutAndProfile(t *testing.T) {
	students := &fakeStudents{signIn: &dto.SessionResponse{Student: models.Student{StudentID: "7"}}}
	h := NewAuthHandler(students)

	c, _ := newTestContext(http.MethodPost, "/auth/signout", "")
	withSession(c)
	h.SignOut(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, "7", students.signedOut)

	c, rec := newTestContext(http.MethodPut, "/me", `{"full_name":"A","email":"a@x.tz"}`)
	withSession(c)
	h.UpdateMe(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", students.updateFor)

	c, rec = newTestContext(http.MethodGet, "/me", "")
	h.Me(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
