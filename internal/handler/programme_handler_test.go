package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/programme-match-api/internal/middleware"
	"github.com/noah-isme/programme-match-api/internal/models"
	"github.com/noah-isme/programme-match-api/internal/service"
	appErrors "github.com/noah-isme/programme-match-api/pkg/errors"
)

type fakeBrowser struct {
	snap      service.SessionSnapshot
	err       error
	lastPage  int
	lastMode  models.FilterMode
	lastStud  string
	subjects  []models.StudentSubject
	programme *models.Programme
	file      *service.ExportFile
	current   int
}

func (f *fakeBrowser) Current(studentID string) service.SessionSnapshot {
	f.lastStud = studentID
	f.current++
	return f.snap
}

func (f *fakeBrowser) Fetch(_ context.Context, studentID string, page int, mode models.FilterMode) (service.SessionSnapshot, error) {
	f.lastStud, f.lastPage, f.lastMode = studentID, page, mode
	return f.snap, f.err
}

func (f *fakeBrowser) Reload(context.Context, string) (service.SessionSnapshot, error) {
	return f.snap, f.err
}

func (f *fakeBrowser) SetFilterMode(_ context.Context, _ string, mode models.FilterMode) (service.SessionSnapshot, error) {
	f.lastMode = mode
	return f.snap, f.err
}

func (f *fakeBrowser) ChangePage(_ context.Context, _ string, n int) (service.SessionSnapshot, error) {
	f.lastPage = n
	return f.snap, f.err
}

func (f *fakeBrowser) Custom(_ context.Context, _ string, subjects []models.StudentSubject, _, _ int) (service.SessionSnapshot, error) {
	f.subjects = subjects
	return f.snap, f.err
}

func (f *fakeBrowser) Summary(context.Context, string) (models.Summary, error) {
	return f.snap.Summary, f.err
}

func (f *fakeBrowser) View(context.Context, string, string) (*models.Programme, error) {
	return f.programme, f.err
}

func (f *fakeBrowser) LastViewed(context.Context, string) (*models.Programme, error) {
	return f.programme, f.err
}

func (f *fakeBrowser) Export(context.Context, string, service.ExportFormat) (*service.ExportFile, error) {
	return f.file, f.err
}

func sampleSnapshot() service.SessionSnapshot {
	return service.SessionSnapshot{
		StudentID:  "7",
		State:      service.StateReady,
		Mode:       models.FilterDefault,
		Programmes: []models.Programme{{CourseAbbr: "BSC-CS"}},
		Pagination: models.Pagination{Total: 20, PerPage: 6, CurrentPage: 2, LastPage: 4},
		Summary:    models.Summary{AvailableCourses: 20},
	}
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, rec
}

func withSession(c *gin.Context) {
	c.Set(middleware.ContextSessionKey, &models.SessionClaims{StudentID: "7", Role: models.RoleAdmin})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestProgrammeListRequiresSession(t *testing.T) {
	h := NewProgrammeHandler(&fakeBrowser{})
	c, rec := newTestContext(http.MethodGet, "/programmes", "")
	h.List(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProgrammeListParsesQuery(t *testing.T) {
	browser := &fakeBrowser{snap: sampleSnapshot()}
	h := NewProgrammeHandler(browser)
	c, rec := newTestContext(http.MethodGet, "/programmes?page=2&filter=GRADES", "")
	withSession(c)

	h.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", browser.lastStud)
	assert.Equal(t, 2, browser.lastPage)
	assert.Equal(t, models.FilterGrades, browser.lastMode)

	body := decodeEnvelope(t, rec)
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, float64(7), meta["from"])
	assert.Equal(t, float64(12), meta["to"])
	assert.Len(t, meta["window"], 4)
	assert.Equal(t, float64(4), body["pagination"].(map[string]interface{})["last_page"])
}

func TestProgrammeCurrentServesSessionState(t *testing.T) {
	snap := sampleSnapshot()
	snap.State = service.StateError
	snap.Error = "catalog unavailable"
	snap.Stale = true
	browser := &fakeBrowser{snap: snap, err: appErrors.ErrUpstream}
	h := NewProgrammeHandler(browser)
	c, rec := newTestContext(http.MethodGet, "/programmes/current", "")
	withSession(c)

	h.Current(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, browser.current)
	assert.Equal(t, "7", browser.lastStud)
	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "error", data["state"])
	assert.Equal(t, "catalog unavailable", data["error"])
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, true, meta["stale"])
	assert.NotContains(t, meta, "error")
}

func TestProgrammeCurrentRequiresSession(t *testing.T) {
	browser := &fakeBrowser{}
	h := NewProgrammeHandler(browser)
	c, rec := newTestContext(http.MethodGet, "/programmes/current", "")
	h.Current(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, browser.current)
}

func TestProgrammeListRejectsBadInput(t *testing.T) {
	h := NewProgrammeHandler(&fakeBrowser{})
	for _, target := range []string{"/programmes?page=abc", "/programmes?filter=bogus"} {
		c, rec := newTestContext(http.MethodGet, target, "")
		withSession(c)
		h.List(c)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestProgrammeListServesStaleFallback(t *testing.T) {
	snap := sampleSnapshot()
	snap.State = service.StateError
	snap.Stale = true
	h := NewProgrammeHandler(&fakeBrowser{snap: snap, err: appErrors.Clone(appErrors.ErrUpstream, "catalog down")})
	c, rec := newTestContext(http.MethodGet, "/programmes", "")
	withSession(c)

	h.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	meta := decodeEnvelope(t, rec)["meta"].(map[string]interface{})
	assert.Equal(t, true, meta["stale"])
	assert.Equal(t, "catalog down", meta["error"])
}

func TestProgrammeListSupersededIsConflict(t *testing.T) {
	h := NewProgrammeHandler(&fakeBrowser{snap: sampleSnapshot(), err: appErrors.ErrSuperseded})
	c, rec := newTestContext(http.MethodGet, "/programmes", "")
	withSession(c)
	h.List(c)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestProgrammeSetFilterSubjectsUnavailable(t *testing.T) {
	browser := &fakeBrowser{snap: sampleSnapshot(), err: appErrors.ErrSubjectsUnavailable}
	h := NewProgrammeHandler(browser)
	c, rec := newTestContext(http.MethodPut, "/programmes/filter", `{"mode":"grades"}`)
	withSession(c)

	h.SetFilter(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.FilterGrades, browser.lastMode)
	assert.Equal(t, "SUBJECTS_UNAVAILABLE", decodeEnvelope(t, rec)["error"].(map[string]interface{})["code"])
}

func TestProgrammeChangePage(t *testing.T) {
	browser := &fakeBrowser{snap: sampleSnapshot()}
	h := NewProgrammeHandler(browser)
	c, rec := newTestContext(http.MethodPut, "/programmes/page", `{"page":3}`)
	withSession(c)

	h.ChangePage(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, browser.lastPage)
}

func TestProgrammeCustom(t *testing.T) {
	browser := &fakeBrowser{snap: sampleSnapshot()}
	h := NewProgrammeHandler(browser)
	c, rec := newTestContext(http.MethodPost, "/programmes/custom", `{"subjects":[{"subject":"Math","grade":"A"}]}`)
	withSession(c)

	h.Custom(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []models.StudentSubject{{Subject: "Math", Grade: "A"}}, browser.subjects)
}

func TestProgrammeDetailNotFound(t *testing.T) {
	h := NewProgrammeHandler(&fakeBrowser{err: appErrors.Clone(appErrors.ErrNotFound, "programme not found")})
	c, rec := newTestContext(http.MethodGet, "/programmes/NOPE", "")
	c.Params = gin.Params{{Key: "courseAbbr", Value: "NOPE"}}
	withSession(c)

	h.Detail(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProgrammeExport(t *testing.T) {
	h := NewProgrammeHandler(&fakeBrowser{file: &service.ExportFile{Filename: "p.csv", ContentType: "text/csv", Payload: []byte("a,b\n")}})
	c, rec := newTestContext(http.MethodGet, "/programmes/export?format=csv", "")
	withSession(c)

	h.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "p.csv")
	assert.Equal(t, "a,b\n", rec.Body.String())

	c, rec = newTestContext(http.MethodGet, "/programmes/export?format=doc", "")
	withSession(c)
	h.Export(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
