package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/programme-match-api/internal/dto"
	"github.com/noah-isme/programme-match-api/internal/models"
	"github.com/noah-isme/programme-match-api/internal/service"
	"github.com/noah-isme/programme-match-api/pkg/response"
)

type programmeAdmin interface {
	Create(ctx context.Context, actor service.Actor, req dto.ProgrammeMutationRequest) (string, error)
	Update(ctx context.Context, actor service.Actor, courseAbbr string, data dto.ProgrammeData) (string, error)
	Delete(ctx context.Context, actor service.Actor, courseAbbr string) (string, error)
	Colleges(ctx context.Context, universityAbbr string) ([]models.College, error)
}

// AdminHandler exposes programme maintenance endpoints.
type AdminHandler struct {
	programmes programmeAdmin
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(programmes programmeAdmin) *AdminHandler {
	return &AdminHandler{programmes: programmes}
}

func actorFrom(claims *models.SessionClaims) service.Actor {
	return service.Actor{StudentID: claims.StudentID, Role: claims.Role}
}

// Create godoc
// @Summary Add a programme
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ProgrammeCreateRequest true "Programme"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /admin/programmes [post]
func (h *AdminHandler) Create(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req dto.ProgrammeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid programme payload"))
		return
	}
	data := req.CourseData
	msg, err := h.programmes.Create(c.Request.Context(), actorFrom(claims), dto.ProgrammeMutationRequest{CourseAbbr: req.CourseAbbr, CourseData: &data})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"message": msg, "courseAbbr": req.CourseAbbr})
}

// Update godoc
// @Summary Update a programme
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseAbbr path string true "Course code"
// @Param payload body dto.ProgrammeData true "Programme fields"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/programmes/{courseAbbr} [put]
func (h *AdminHandler) Update(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var data dto.ProgrammeData
	if err := c.ShouldBindJSON(&data); err != nil {
		response.Error(c, bindError(err, "invalid programme payload"))
		return
	}
	msg, err := h.programmes.Update(c.Request.Context(), actorFrom(claims), c.Param("courseAbbr"), data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": msg}, nil)
}

// Delete godoc
// @Summary Delete a programme
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param courseAbbr path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /admin/programmes/{courseAbbr} [delete]
func (h *AdminHandler) Delete(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	msg, err := h.programmes.Delete(c.Request.Context(), actorFrom(claims), c.Param("courseAbbr"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": msg}, nil)
}

// Colleges godoc
// @Summary Colleges of a university
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param universityAbbr path string true "University code"
// @Success 200 {object} response.Envelope
// @Router /admin/universities/{universityAbbr}/colleges [get]
func (h *AdminHandler) Colleges(c *gin.Context) {
	if _, ok := sessionFromContext(c); !ok {
		return
	}
	colleges, err := h.programmes.Colleges(c.Request.Context(), c.Param("universityAbbr"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, colleges, nil)
}
