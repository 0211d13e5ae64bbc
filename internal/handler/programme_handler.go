package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/programme-match-api/internal/dto"
	"github.com/noah-isme/programme-match-api/internal/middleware"
	"github.com/noah-isme/programme-match-api/internal/models"
	"github.com/noah-isme/programme-match-api/internal/service"
	appErrors "github.com/noah-isme/programme-match-api/pkg/errors"
	"github.com/noah-isme/programme-match-api/pkg/response"
)

type programmeBrowser interface {
	Fetch(ctx context.Context, studentID string, page int, mode models.FilterMode) (service.SessionSnapshot, error)
	Current(studentID string) service.SessionSnapshot
	Reload(ctx context.Context, studentID string) (service.SessionSnapshot, error)
	SetFilterMode(ctx context.Context, studentID string, mode models.FilterMode) (service.SessionSnapshot, error)
	ChangePage(ctx context.Context, studentID string, n int) (service.SessionSnapshot, error)
	Custom(ctx context.Context, studentID string, subjects []models.StudentSubject, page, perPage int) (service.SessionSnapshot, error)
	Summary(ctx context.Context, studentID string) (models.Summary, error)
	View(ctx context.Context, studentID, courseAbbr string) (*models.Programme, error)
	LastViewed(ctx context.Context, studentID string) (*models.Programme, error)
	Export(ctx context.Context, studentID string, format service.ExportFormat) (*service.ExportFile, error)
}

// ProgrammeHandler serves the programme browsing endpoints of the dashboard.
type ProgrammeHandler struct {
	browser programmeBrowser
}

// NewProgrammeHandler constructs a ProgrammeHandler.
func NewProgrammeHandler(browser programmeBrowser) *ProgrammeHandler {
	return &ProgrammeHandler{browser: browser}
}

// List godoc
// @Summary Fetch programmes
// @Description Fetch a page of programmes for the signed-in student in the given filter mode
// @Tags Programmes
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param filter query string false "Filter mode" Enums(default, grades, custom)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /programmes [get]
func (h *ProgrammeHandler) List(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	page, err := queryInt(c, "page", 1)
	if err != nil {
		response.Error(c, err)
		return
	}
	mode, err := models.ParseFilterMode(c.Query("filter"))
	if err != nil {
		response.Error(c, bindError(err, "filter must be default, grades or custom"))
		return
	}

	snap, err := h.browser.Fetch(c.Request.Context(), claims.StudentID, page, mode)
	respondSnapshot(c, snap, err)
}

// Current godoc
// @Summary Current programme view
// @Description Returns what the session is displaying without contacting the catalog
// @Tags Programmes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /programmes/current [get]
func (h *ProgrammeHandler) Current(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	respondSnapshot(c, h.browser.Current(claims.StudentID), nil)
}

// Reload godoc
// @Summary Reload programmes
// @Tags Programmes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /programmes/reload [post]
func (h *ProgrammeHandler) Reload(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	snap, err := h.browser.Reload(c.Request.Context(), claims.StudentID)
	respondSnapshot(c, snap, err)
}

// SetFilter godoc
// @Summary Switch filter mode
// @Description grades re-ranks the loaded page with the stored subjects; default and custom refetch page one
// @Tags Programmes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.FilterModeRequest true "Filter mode"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /programmes/filter [put]
func (h *ProgrammeHandler) SetFilter(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req dto.FilterModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid filter payload"))
		return
	}
	mode, err := models.ParseFilterMode(req.Mode)
	if err != nil {
		response.Error(c, bindError(err, "mode must be default, grades or custom"))
		return
	}

	snap, err := h.browser.SetFilterMode(c.Request.Context(), claims.StudentID, mode)
	respondSnapshot(c, snap, err)
}

// ChangePage godoc
// @Summary Change page
// @Description Pages outside the known range leave the session unchanged
// @Tags Programmes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.PageRequest true "Target page"
// @Success 200 {object} response.Envelope
// @Router /programmes/page [put]
func (h *ProgrammeHandler) ChangePage(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req dto.PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid page payload"))
		return
	}

	snap, err := h.browser.ChangePage(c.Request.Context(), claims.StudentID, req.Page)
	respondSnapshot(c, snap, err)
}

// Custom godoc
// @Summary Match a custom subject list
// @Tags Programmes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CustomFilterRequest true "Subjects"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /programmes/custom [post]
func (h *ProgrammeHandler) Custom(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req dto.CustomFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid custom filter payload"))
		return
	}

	snap, err := h.browser.Custom(c.Request.Context(), claims.StudentID, req.Subjects, req.Page, req.PerPage)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondSnapshot(c, snap, nil)
}

// Summary godoc
// @Summary Dashboard counters
// @Tags Programmes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /programmes/summary [get]
func (h *ProgrammeHandler) Summary(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	summary, err := h.browser.Summary(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Detail godoc
// @Summary Programme detail
// @Description Returns a programme from the displayed list and remembers it as last viewed
// @Tags Programmes
// @Produce json
// @Security BearerAuth
// @Param courseAbbr path string true "Course code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /programmes/{courseAbbr} [get]
func (h *ProgrammeHandler) Detail(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	programme, err := h.browser.View(c.Request.Context(), claims.StudentID, c.Param("courseAbbr"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programme, nil)
}

// LastViewed godoc
// @Summary Last viewed programme
// @Tags Programmes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /programmes/last-viewed [get]
func (h *ProgrammeHandler) LastViewed(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	programme, err := h.browser.LastViewed(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programme, nil)
}

// Export godoc
// @Summary Export displayed programmes
// @Tags Programmes
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /programmes/export [get]
func (h *ProgrammeHandler) Export(c *gin.Context) {
	claims, ok := sessionFromContext(c)
	if !ok {
		return
	}
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.browser.Export(c.Request.Context(), claims.StudentID, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

// respondSnapshot renders a session state. A failed fetch that fell back to
// the stored list is still served, flagged stale.
func respondSnapshot(c *gin.Context, snap service.SessionSnapshot, err error) {
	if err != nil && !(snap.Stale && !errors.Is(err, appErrors.ErrSuperseded)) {
		response.Error(c, err)
		return
	}
	from, to := snap.Pagination.Range()
	middleware.SetMeta(c, "window", snap.Pagination.Window())
	middleware.SetMeta(c, "from", from)
	middleware.SetMeta(c, "to", to)
	middleware.SetMeta(c, "stale", snap.Stale)
	if err != nil {
		middleware.SetMeta(c, "error", appErrors.FromError(err).Message)
	}
	pagination := snap.Pagination
	response.JSON(c, http.StatusOK, snap, &pagination, middleware.ExtractMeta(c))
}
