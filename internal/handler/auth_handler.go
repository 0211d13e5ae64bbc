package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/programme-match-api/internal/dto"
	"github.com/noah-isme/programme-match-api/internal/models"
	"github.com/noah-isme/programme-match-api/pkg/response"
)

type studentSessions interface {
	SignIn(ctx context.Context, req dto.SignInRequest) (*dto.SessionResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest) (models.ID, error)
	Profile(ctx context.Context, studentID string) (*dto.SessionResponse, error)
	UpdateProfile(ctx context.Context, studentID string, req dto.UpdateProfileRequest) (*models.Student, error)
	SignOut(ctx context.Context, studentID string) error
}

// AuthHandler wires sign-in, registration and profile endpoints.
type AuthHandler struct {
	students studentSessions
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(students studentSessions) *AuthHandler {
	return &AuthHandler{students: students}
}

// SignIn godoc
// @Summary Sign in
// @Description Verify credentials with the student service and open a dashboard session
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.SignInRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid sign-in payload"))
		return
	}
	res, err := h.students.SignIn(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Register godoc
// @Summary Register a student
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.RegisterRequest true "Registration form"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid registration payload"))
		return
	}
	id, err := h.students.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"student_id": id})
}

// SignOut godoc
// @Summary Sign out
// @Tags Authentication
// @Security BearerAuth
// @Success 204
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	if err := h.students.SignOut(c.Request.Context(), claims.StudentID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Me godoc
// @Summary Current student
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	profile, err := h.students.Profile(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// UpdateMe godoc
// @Summary Update profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /me [put]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid profile payload"))
		return
	}
	student, err := h.students.UpdateProfile(c.Request.Context(), claims.StudentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}
