package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/programme-match-api/internal/dto"
	"github.com/noah-isme/programme-match-api/internal/models"
	appErrors "github.com/noah-isme/programme-match-api/pkg/errors"
)

// SessionState is the lifecycle position of a catalog session.
type SessionState string

const (
	StateIdle    SessionState = "idle"
	StateLoading SessionState = "loading"
	StateReady   SessionState = "ready"
	StateError   SessionState = "error"
)

// ProgrammeLister fetches one page of the remote catalog.
type ProgrammeLister interface {
	List(ctx context.Context, req dto.ListProgrammesRequest) (*dto.ProgrammesResponse, error)
}

// SessionSnapshot is a detached copy of a session's visible state.
type SessionSnapshot struct {
	StudentID  string             `json:"student_id"`
	State      SessionState       `json:"state"`
	Mode       models.FilterMode  `json:"mode"`
	Programmes []models.Programme `json:"programmes"`
	Pagination models.Pagination  `json:"pagination"`
	Summary    models.Summary     `json:"summary"`
	Error      string             `json:"error,omitempty"`
	Stale      bool               `json:"stale"`
}

// CatalogSession holds one student's browsing state over the remote catalog.
// The mutex guards in-memory state only and is released around every network
// and store call. Each fetch takes a sequence number; a response that is no
// longer the latest is dropped with ErrSuperseded.
type CatalogSession struct {
	studentID string
	store     KeyValueStore
	catalog   ProgrammeLister
	engine    *FilterEngine
	metrics   *MetricsService
	logger    *zap.Logger
	perPage   int

	mu         sync.Mutex
	seq        uint64
	state      SessionState
	settled    SessionState
	mode       models.FilterMode
	raw        []models.Programme
	view       []models.Programme
	pagination models.Pagination
	summary    models.Summary
	lastErr    error
	stale      bool
}

// CatalogSessionOptions collects the collaborators of a session.
type CatalogSessionOptions struct {
	Store   KeyValueStore
	Catalog ProgrammeLister
	Engine  *FilterEngine
	Metrics *MetricsService
	Logger  *zap.Logger
	PerPage int
}

// NewCatalogSession builds an idle session for studentID.
func NewCatalogSession(studentID string, opts CatalogSessionOptions) *CatalogSession {
	if opts.Engine == nil {
		opts.Engine = NewFilterEngine()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.PerPage <= 0 {
		opts.PerPage = 6
	}
	return &CatalogSession{
		studentID:  studentID,
		store:      opts.Store,
		catalog:    opts.Catalog,
		engine:     opts.Engine,
		metrics:    opts.Metrics,
		logger:     opts.Logger.With(zap.String("student_id", studentID)),
		perPage:    opts.PerPage,
		state:      StateIdle,
		mode:       models.FilterDefault,
		pagination: models.NewPagination(opts.PerPage),
	}
}

// StudentID returns the owner of the session.
func (s *CatalogSession) StudentID() string {
	return s.studentID
}

// Fetch loads page for mode from the catalog service.
func (s *CatalogSession) Fetch(ctx context.Context, page int, mode models.FilterMode) (SessionSnapshot, error) {
	if page < 1 {
		page = 1
	}
	studentID, err := s.resolveStudentID(ctx)
	if err != nil {
		return s.Snapshot(), err
	}

	seq := s.begin()
	resp, fetchErr := s.catalog.List(ctx, dto.ListProgrammesRequest{
		StudentID: studentID,
		Filter:    mode,
		Page:      page,
		PerPage:   s.perPage,
	})
	if fetchErr != nil {
		return s.fail(ctx, seq, fetchErr)
	}

	var subjects []models.StudentSubject
	if mode != models.FilterDefault {
		subjects, err = loadSubjects(ctx, s.store)
		if err != nil {
			s.logger.Warn("failed to load subjects for filtering", zap.Error(err))
		}
	}

	view := resp.Courses
	if mode != models.FilterDefault && (len(subjects) > 0 || !mode.Local()) {
		filtered, filterErr := s.engine.Apply(resp.Courses, mode, subjects)
		s.metrics.RecordFilterRun(string(mode), filterErr)
		if filterErr == nil {
			view = filtered
		}
	}

	snap, err := s.commit(seq, mode, resp.Courses, view, resp.Pagination)
	if err != nil {
		return snap, err
	}
	s.persist(ctx, snap)
	return snap, nil
}

// SetFilterMode switches the displayed list. grades re-filters the loaded page
// locally; default and custom refetch page one from the service. With nothing
// fetched yet (idle, or showing a stale fallback) grades fetches page one too.
func (s *CatalogSession) SetFilterMode(ctx context.Context, mode models.FilterMode) (SessionSnapshot, error) {
	if !mode.Local() {
		return s.Fetch(ctx, 1, mode)
	}

	subjects, err := loadSubjects(ctx, s.store)
	if err != nil {
		return s.Snapshot(), err
	}
	if len(subjects) == 0 {
		s.metrics.RecordFilterRun(string(mode), appErrors.ErrSubjectsUnavailable)
		return s.Snapshot(), appErrors.ErrSubjectsUnavailable
	}

	s.mu.Lock()
	if len(s.raw) == 0 {
		s.mu.Unlock()
		return s.Fetch(ctx, 1, mode)
	}
	filtered, err := s.engine.Apply(s.raw, mode, subjects)
	s.metrics.RecordFilterRun(string(mode), err)
	if err != nil {
		s.mu.Unlock()
		return s.Snapshot(), err
	}
	s.seq++
	s.state = StateReady
	s.lastErr = nil
	s.mode = mode
	s.view = filtered
	s.summary = models.BuildSummary(filtered, s.pagination.Total)
	s.stale = false
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snap)
	return snap, nil
}

// ChangePage fetches page n in the current mode. Pages outside 1..last_page are ignored.
func (s *CatalogSession) ChangePage(ctx context.Context, n int) (SessionSnapshot, error) {
	s.mu.Lock()
	inRange := s.pagination.Contains(n)
	mode := s.mode
	s.mu.Unlock()

	if !inRange {
		return s.Snapshot(), nil
	}
	return s.Fetch(ctx, n, mode)
}

// Reload refetches the current page in the current mode.
func (s *CatalogSession) Reload(ctx context.Context) (SessionSnapshot, error) {
	s.mu.Lock()
	page, mode := s.pagination.CurrentPage, s.mode
	s.mu.Unlock()
	return s.Fetch(ctx, page, mode)
}

// ApplyCustomResult swaps in a server-matched result tagged custom.
func (s *CatalogSession) ApplyCustomResult(ctx context.Context, programmes []models.Programme, pagination models.Pagination) (SessionSnapshot, error) {
	return s.applyCustomResult(ctx, s.begin(), programmes, pagination)
}

func (s *CatalogSession) applyCustomResult(ctx context.Context, seq uint64, programmes []models.Programme, pagination models.Pagination) (SessionSnapshot, error) {
	view, err := s.engine.Apply(programmes, models.FilterCustom, nil)
	s.metrics.RecordFilterRun(string(models.FilterCustom), err)
	if err != nil {
		s.abandon(seq)
		return s.Snapshot(), err
	}
	snap, err := s.commit(seq, models.FilterCustom, programmes, view, pagination)
	if err != nil {
		return snap, err
	}
	s.persist(ctx, snap)
	return snap, nil
}

// ViewProgramme looks courseAbbr up in the displayed list and records it as last viewed.
func (s *CatalogSession) ViewProgramme(ctx context.Context, courseAbbr string) (*models.Programme, error) {
	courseAbbr = strings.TrimSpace(courseAbbr)
	s.mu.Lock()
	var found *models.Programme
	for _, p := range s.view {
		if strings.EqualFold(p.CourseAbbr, courseAbbr) {
			match := models.CloneProgrammes([]models.Programme{p})[0]
			found = &match
			break
		}
	}
	s.mu.Unlock()

	if found == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "programme not found")
	}
	if err := s.store.Set(ctx, KeyProgramme, found); err != nil {
		s.logger.Warn("failed to store viewed programme", zap.Error(err))
	}
	return found, nil
}

// LastViewed returns the programme stored by the latest ViewProgramme.
func (s *CatalogSession) LastViewed(ctx context.Context) (*models.Programme, error) {
	var p models.Programme
	ok, err := s.store.Get(ctx, KeyProgramme, &p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no programme viewed yet")
	}
	return &p, nil
}

// Summary returns the counters of the displayed list, falling back to the
// persisted ones before the first fetch.
func (s *CatalogSession) Summary(ctx context.Context) (models.Summary, error) {
	s.mu.Lock()
	state, summary := s.state, s.summary
	s.mu.Unlock()
	if state != StateIdle {
		return summary, nil
	}

	var stored models.Summary
	if _, err := s.store.Get(ctx, KeySummary, &stored); err != nil {
		return models.Summary{}, err
	}
	return stored, nil
}

// Snapshot returns a copy of the current state.
func (s *CatalogSession) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *CatalogSession) snapshotLocked() SessionSnapshot {
	snap := SessionSnapshot{
		StudentID:  s.studentID,
		State:      s.state,
		Mode:       s.mode,
		Programmes: models.CloneProgrammes(s.view),
		Pagination: s.pagination,
		Summary:    s.summary,
		Stale:      s.stale,
	}
	if snap.Programmes == nil {
		snap.Programmes = []models.Programme{}
	}
	if s.lastErr != nil {
		snap.Error = appErrors.FromError(s.lastErr).Message
	}
	return snap
}

// begin claims the next sequence number and marks the session loading.
func (s *CatalogSession) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if s.state != StateLoading {
		s.settled = s.state
	}
	s.state = StateLoading
	return s.seq
}

// abandon returns to the pre-loading state when seq is still the latest and
// its request failed before producing a result.
func (s *CatalogSession) abandon(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq == s.seq && s.state == StateLoading {
		s.state = s.settled
	}
}

// commit installs a successful result if seq is still the latest.
func (s *CatalogSession) commit(seq uint64, mode models.FilterMode, raw, view []models.Programme, pagination models.Pagination) (SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.metrics.RecordStaleDiscard()
		return s.snapshotLocked(), appErrors.ErrSuperseded
	}
	s.state = StateReady
	s.mode = mode
	s.raw = models.CloneProgrammes(raw)
	s.view = models.CloneProgrammes(view)
	s.pagination = pagination.Normalize()
	s.summary = models.BuildSummary(s.view, s.pagination.Total)
	s.lastErr = nil
	s.stale = false
	return s.snapshotLocked(), nil
}

// fail records a fetch error. An empty view is backfilled from the last
// persisted result and flagged stale.
func (s *CatalogSession) fail(ctx context.Context, seq uint64, fetchErr error) (SessionSnapshot, error) {
	s.mu.Lock()
	empty := len(s.view) == 0
	s.mu.Unlock()

	var (
		fallback      []models.Programme
		storedSummary models.Summary
		haveSummary   bool
	)
	if empty {
		if _, err := s.store.Get(ctx, KeyEligibleCourses, &fallback); err != nil {
			s.logger.Warn("failed to load cached programmes", zap.Error(err))
		}
		if len(fallback) > 0 {
			ok, err := s.store.Get(ctx, KeySummary, &storedSummary)
			if err != nil {
				s.logger.Warn("failed to load cached summary", zap.Error(err))
			}
			haveSummary = ok && err == nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.metrics.RecordStaleDiscard()
		return s.snapshotLocked(), appErrors.ErrSuperseded
	}
	s.state = StateError
	s.lastErr = fetchErr
	if len(s.view) == 0 && len(fallback) > 0 {
		s.view = fallback
		if haveSummary {
			s.summary = storedSummary
		} else {
			s.summary = models.BuildSummary(fallback, len(fallback))
		}
		s.stale = true
	}
	s.logger.Warn("catalog fetch failed", zap.Error(fetchErr), zap.Bool("stale", s.stale))
	return s.snapshotLocked(), fetchErr
}

func (s *CatalogSession) persist(ctx context.Context, snap SessionSnapshot) {
	if err := s.store.Set(ctx, KeyEligibleCourses, snap.Programmes); err != nil {
		s.logger.Warn("failed to persist programmes", zap.Error(err))
	}
	if err := s.store.Set(ctx, KeySummary, snap.Summary); err != nil {
		s.logger.Warn("failed to persist summary", zap.Error(err))
	}
}

// resolveStudentID prefers the stored profile and falls back to the session owner.
func (s *CatalogSession) resolveStudentID(ctx context.Context) (string, error) {
	student, ok, err := loadStudent(ctx, s.store)
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("failed to load student", zap.Error(err))
	}
	if ok && student.StudentID != "" {
		return student.StudentID.String(), nil
	}
	if s.studentID == "" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "no signed-in student")
	}
	return s.studentID, nil
}
