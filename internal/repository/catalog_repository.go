package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/noah-isme/programme-match-api/internal/dto"
	"github.com/noah-isme/programme-match-api/internal/models"
)

const (
	generalRequestsPath = "/api/general-requests.php"
	addCoursePath       = "/api/add_courses.php"
	updateCoursePath    = "/api/update_course.php"
	deleteCoursePath    = "/api/delete_course.php"
	collegesPath        = "/api/get_colleges.php"
)

// CatalogRepository reads and mutates programme records held by the catalog service.
type CatalogRepository struct {
	client *CatalogClient
}

// NewCatalogRepository constructs the repository.
func NewCatalogRepository(client *CatalogClient) *CatalogRepository {
	return &CatalogRepository{client: client}
}

// List fetches one page of programmes for a student and filter.
func (r *CatalogRepository) List(ctx context.Context, req dto.ListProgrammesRequest) (*dto.ProgrammesResponse, error) {
	query := url.Values{}
	query.Set("action", "get_courses")
	query.Set("student_id", req.StudentID)
	query.Set("filter", string(req.Filter))
	query.Set("page", strconv.Itoa(req.Page))
	query.Set("per_page", strconv.Itoa(req.PerPage))

	var resp dto.ProgrammesResponse
	if err := r.client.call(ctx, "list_programmes", http.MethodGet, generalRequestsPath, query, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, upstreamFailure(resp.Error, "failed to fetch programmes")
	}
	return &resp, nil
}

// CustomMatch asks the service to match programmes against an ad-hoc subject list.
func (r *CatalogRepository) CustomMatch(ctx context.Context, req dto.CustomMatchRequest) (*dto.ProgrammesResponse, error) {
	query := url.Values{}
	query.Set("action", "get_custom_courses")

	var resp dto.ProgrammesResponse
	if err := r.client.call(ctx, "custom_match", http.MethodPost, generalRequestsPath, query, req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, upstreamFailure(resp.Error, "failed to check eligibility")
	}
	return &resp, nil
}

// Create adds a programme and returns the service acknowledgement message.
func (r *CatalogRepository) Create(ctx context.Context, req dto.ProgrammeMutationRequest) (string, error) {
	return r.mutate(ctx, "create_programme", addCoursePath, req, "failed to add programme")
}

// Update replaces the fields of the programme keyed by req.CourseAbbr.
func (r *CatalogRepository) Update(ctx context.Context, req dto.ProgrammeMutationRequest) (string, error) {
	return r.mutate(ctx, "update_programme", updateCoursePath, req, "failed to update programme")
}

// Delete removes the programme keyed by req.CourseAbbr.
func (r *CatalogRepository) Delete(ctx context.Context, req dto.ProgrammeMutationRequest) (string, error) {
	return r.mutate(ctx, "delete_programme", deleteCoursePath, req, "failed to delete programme")
}

// Colleges lists the colleges of a university.
func (r *CatalogRepository) Colleges(ctx context.Context, universityAbbr string) ([]models.College, error) {
	query := url.Values{}
	query.Set("universityAbbr", universityAbbr)

	var resp dto.CollegesResponse
	if err := r.client.call(ctx, "list_colleges", http.MethodGet, collegesPath, query, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, upstreamFailure(resp.Error, "failed to load colleges")
	}
	if resp.Colleges == nil {
		resp.Colleges = []models.College{}
	}
	return resp.Colleges, nil
}

func (r *CatalogRepository) mutate(ctx context.Context, operation, path string, req dto.ProgrammeMutationRequest, fallback string) (string, error) {
	var resp dto.MutationResponse
	if err := r.client.call(ctx, operation, http.MethodPost, path, nil, req, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", upstreamFailure(resp.Error, fallback)
	}
	return resp.Message, nil
}
