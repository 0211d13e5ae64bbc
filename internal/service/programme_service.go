package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/programme-match-api/internal/dto"
	"github.com/noah-isme/programme-match-api/internal/models"
	appErrors "github.com/noah-isme/programme-match-api/pkg/errors"
)

type programmeCatalog interface {
	Create(ctx context.Context, req dto.ProgrammeMutationRequest) (string, error)
	Update(ctx context.Context, req dto.ProgrammeMutationRequest) (string, error)
	Delete(ctx context.Context, req dto.ProgrammeMutationRequest) (string, error)
	Colleges(ctx context.Context, universityAbbr string) ([]models.College, error)
}

// Actor identifies the student performing an admin change.
type Actor struct {
	StudentID string
	Role      string
}

// ProgrammeService edits catalog programmes and keeps the editor's view fresh.
type ProgrammeService struct {
	catalog   programmeCatalog
	registry  *SessionRegistry
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgrammeService constructs a ProgrammeService.
func NewProgrammeService(catalog programmeCatalog, registry *SessionRegistry, validate *validator.Validate, logger *zap.Logger) *ProgrammeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProgrammeService{catalog: catalog, registry: registry, validator: validate, logger: logger}
}

// Create adds a programme under req.CourseAbbr.
func (s *ProgrammeService) Create(ctx context.Context, actor Actor, req dto.ProgrammeMutationRequest) (string, error) {
	courseAbbr, err := requireCourseAbbr(req.CourseAbbr)
	if err != nil {
		return "", err
	}
	if req.CourseData == nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "courseData is required")
	}
	data, err := s.cleanData(*req.CourseData)
	if err != nil {
		return "", err
	}

	msg, err := s.catalog.Create(ctx, dto.ProgrammeMutationRequest{CourseAbbr: courseAbbr, UserRole: actor.Role, CourseData: &data})
	if err != nil {
		return "", err
	}
	s.afterMutation(ctx, actor, "created", courseAbbr)
	return messageOr(msg, "programme added"), nil
}

// Update replaces the editable fields of courseAbbr.
func (s *ProgrammeService) Update(ctx context.Context, actor Actor, courseAbbr string, data dto.ProgrammeData) (string, error) {
	courseAbbr, err := requireCourseAbbr(courseAbbr)
	if err != nil {
		return "", err
	}
	data, err = s.cleanData(data)
	if err != nil {
		return "", err
	}

	msg, err := s.catalog.Update(ctx, dto.ProgrammeMutationRequest{CourseAbbr: courseAbbr, CourseData: &data})
	if err != nil {
		return "", err
	}
	s.afterMutation(ctx, actor, "updated", courseAbbr)
	return messageOr(msg, "programme updated"), nil
}

// Delete removes courseAbbr from the catalog.
func (s *ProgrammeService) Delete(ctx context.Context, actor Actor, courseAbbr string) (string, error) {
	courseAbbr, err := requireCourseAbbr(courseAbbr)
	if err != nil {
		return "", err
	}

	msg, err := s.catalog.Delete(ctx, dto.ProgrammeMutationRequest{CourseAbbr: courseAbbr, UserRole: actor.Role})
	if err != nil {
		return "", err
	}
	s.afterMutation(ctx, actor, "deleted", courseAbbr)
	return messageOr(msg, "programme deleted"), nil
}

// Colleges lists the colleges of universityAbbr.
func (s *ProgrammeService) Colleges(ctx context.Context, universityAbbr string) ([]models.College, error) {
	universityAbbr = strings.TrimSpace(universityAbbr)
	if universityAbbr == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "universityAbbr is required")
	}
	return s.catalog.Colleges(ctx, universityAbbr)
}

// cleanData drops requirement rows with a blank subject or grade and
// upper-cases the rest.
func (s *ProgrammeService) cleanData(data dto.ProgrammeData) (dto.ProgrammeData, error) {
	data.Course = strings.TrimSpace(data.Course)
	data.CollegeAbbr = strings.TrimSpace(data.CollegeAbbr)
	data.UniversityAbbr = strings.TrimSpace(data.UniversityAbbr)
	if err := s.validator.Struct(data); err != nil {
		return data, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid programme payload")
	}

	cleaned := make([]models.Requirement, 0, len(data.SpecificRequirements))
	for _, req := range data.SpecificRequirements {
		subject := strings.TrimSpace(req.Subject)
		grade := NormalizeGrade(req.Grade, "")
		if subject == "" || grade == "" {
			continue
		}
		if !ValidGrade(grade) {
			return data, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid grade %q for %s", req.Grade, subject))
		}
		cleaned = append(cleaned, models.Requirement{Subject: subject, Grade: grade})
	}
	data.SpecificRequirements = cleaned
	return data, nil
}

func (s *ProgrammeService) afterMutation(ctx context.Context, actor Actor, action, courseAbbr string) {
	s.logger.Info("programme "+action,
		zap.String("course_abbr", courseAbbr),
		zap.String("student_id", actor.StudentID),
		zap.String("role", actor.Role))
	if s.registry == nil || actor.StudentID == "" {
		return
	}
	if _, err := s.registry.Get(actor.StudentID).Reload(ctx); err != nil {
		s.logger.Warn("failed to reload session after programme change", zap.String("student_id", actor.StudentID), zap.Error(err))
	}
}

func requireCourseAbbr(raw string) (string, error) {
	courseAbbr := strings.TrimSpace(raw)
	if courseAbbr == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "courseAbbr is required")
	}
	return courseAbbr, nil
}

func messageOr(msg, fallback string) string {
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}
