package service

import (
	"context"

	"github.com/noah-isme/programme-match-api/internal/models"
)

// CatalogService exposes the catalog session operations keyed by student id.
type CatalogService struct {
	registry *SessionRegistry
	custom   *CustomFilterService
	exporter *ExportService
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(registry *SessionRegistry, custom *CustomFilterService, exporter *ExportService) *CatalogService {
	return &CatalogService{registry: registry, custom: custom, exporter: exporter}
}

// Fetch loads page for mode into the student's session.
func (s *CatalogService) Fetch(ctx context.Context, studentID string, page int, mode models.FilterMode) (SessionSnapshot, error) {
	return s.registry.Get(studentID).Fetch(ctx, page, mode)
}

// Current returns the session state without any network call.
func (s *CatalogService) Current(studentID string) SessionSnapshot {
	return s.registry.Get(studentID).Snapshot()
}

// Reload refetches the current page.
func (s *CatalogService) Reload(ctx context.Context, studentID string) (SessionSnapshot, error) {
	return s.registry.Get(studentID).Reload(ctx)
}

// SetFilterMode switches the filter mode.
func (s *CatalogService) SetFilterMode(ctx context.Context, studentID string, mode models.FilterMode) (SessionSnapshot, error) {
	return s.registry.Get(studentID).SetFilterMode(ctx, mode)
}

// ChangePage moves to page n when it exists.
func (s *CatalogService) ChangePage(ctx context.Context, studentID string, n int) (SessionSnapshot, error) {
	return s.registry.Get(studentID).ChangePage(ctx, n)
}

// Custom runs an ad-hoc subject match.
func (s *CatalogService) Custom(ctx context.Context, studentID string, subjects []models.StudentSubject, page, perPage int) (SessionSnapshot, error) {
	return s.custom.Run(ctx, s.registry.Get(studentID), subjects, page, perPage)
}

// Summary returns the dashboard counters.
func (s *CatalogService) Summary(ctx context.Context, studentID string) (models.Summary, error) {
	return s.registry.Get(studentID).Summary(ctx)
}

// View records courseAbbr as the last viewed programme and returns it.
func (s *CatalogService) View(ctx context.Context, studentID, courseAbbr string) (*models.Programme, error) {
	return s.registry.Get(studentID).ViewProgramme(ctx, courseAbbr)
}

// LastViewed returns the last viewed programme.
func (s *CatalogService) LastViewed(ctx context.Context, studentID string) (*models.Programme, error) {
	return s.registry.Get(studentID).LastViewed(ctx)
}

// Export renders the displayed list.
func (s *CatalogService) Export(ctx context.Context, studentID string, format ExportFormat) (*ExportFile, error) {
	return s.exporter.Export(ctx, studentID, format)
}
