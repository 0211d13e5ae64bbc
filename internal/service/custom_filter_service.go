package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/programme-match-api/internal/dto"
	"github.com/noah-isme/programme-match-api/internal/models"
	appErrors "github.com/noah-isme/programme-match-api/pkg/errors"
)

// CustomMatcher asks the catalog service to match an ad-hoc subject list.
type CustomMatcher interface {
	CustomMatch(ctx context.Context, req dto.CustomMatchRequest) (*dto.ProgrammesResponse, error)
}

// CustomFilterService runs "what if" matches for subject lists the student types in.
type CustomFilterService struct {
	matcher      CustomMatcher
	perPage      int
	defaultGrade string
	logger       *zap.Logger
}

// NewCustomFilterService constructs the service. defaultGrade fills blank grades.
func NewCustomFilterService(matcher CustomMatcher, perPage int, defaultGrade string, logger *zap.Logger) *CustomFilterService {
	if perPage <= 0 {
		perPage = 6
	}
	if !ValidGrade(defaultGrade) {
		defaultGrade = "C"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomFilterService{matcher: matcher, perPage: perPage, defaultGrade: defaultGrade, logger: logger}
}

// Normalize validates subjects and returns them trimmed with grades upper-cased.
func (s *CustomFilterService) Normalize(subjects []models.StudentSubject) ([]models.StudentSubject, error) {
	if len(subjects) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "please add at least one subject")
	}
	out := make([]models.StudentSubject, 0, len(subjects))
	for _, subject := range subjects {
		name := strings.TrimSpace(subject.Subject)
		if name == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "please fill in all subject fields")
		}
		grade := NormalizeGrade(subject.Grade, s.defaultGrade)
		if !ValidGrade(grade) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "grade must be one of A, B, C, D, E")
		}
		out = append(out, models.StudentSubject{Subject: name, Grade: grade})
	}
	return out, nil
}

// Run matches subjects on the service and swaps the result into session.
// Session state, including a fetch already in flight, is left untouched when
// validation or the call fails; the result only claims a sequence once it is in hand.
func (s *CustomFilterService) Run(ctx context.Context, session *CatalogSession, subjects []models.StudentSubject, page, perPage int) (SessionSnapshot, error) {
	normalized, err := s.Normalize(subjects)
	if err != nil {
		return session.Snapshot(), err
	}
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = s.perPage
	}

	resp, err := s.matcher.CustomMatch(ctx, dto.CustomMatchRequest{Subjects: normalized, Page: page, PerPage: perPage})
	if err != nil {
		s.logger.Warn("custom match failed", zap.String("student_id", session.StudentID()), zap.Error(err))
		appErr := appErrors.FromError(err)
		if appErr.Code != appErrors.ErrUpstream.Code {
			return session.Snapshot(), appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to check eligibility")
		}
		return session.Snapshot(), appErr
	}
	return session.ApplyCustomResult(ctx, resp.Courses, resp.Pagination)
}
