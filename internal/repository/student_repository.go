package repository

import (
	"context"
	"net/http"
	"net/url"

	"github.com/noah-isme/programme-match-api/internal/dto"
	"github.com/noah-isme/programme-match-api/internal/models"
)

const updateUserPath = "/api/update-user.php"

// StudentRepository talks to the student account endpoints of the catalog service.
type StudentRepository struct {
	client *CatalogClient
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(client *CatalogClient) *StudentRepository {
	return &StudentRepository{client: client}
}

// SignIn verifies credentials and returns the profile plus subjects on record.
func (r *StudentRepository) SignIn(ctx context.Context, req dto.SignInRequest) (*dto.SignInResponse, error) {
	query := url.Values{}
	query.Set("action", "signin")

	var resp dto.SignInResponse
	if err := r.client.call(ctx, "signin", http.MethodPost, generalRequestsPath, query, req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, upstreamFailure(resp.Error, "invalid username or password")
	}
	return &resp, nil
}

// Register creates a student account and returns its id.
func (r *StudentRepository) Register(ctx context.Context, req dto.RegisterRequest) (models.ID, error) {
	query := url.Values{}
	query.Set("action", "register")

	var resp dto.RegisterResponse
	if err := r.client.call(ctx, "register", http.MethodPost, generalRequestsPath, query, req, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", upstreamFailure(resp.Error, "registration failed")
	}
	return resp.StudentID, nil
}

// UpdateProfile edits name and email and returns the stored profile.
func (r *StudentRepository) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*models.Student, error) {
	var resp dto.UpdateProfileResponse
	if err := r.client.call(ctx, "update_profile", http.MethodPost, updateUserPath, nil, req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, upstreamFailure(resp.Error, "failed to update user")
	}
	return &resp.User, nil
}
