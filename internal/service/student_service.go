package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/programme-match-api/internal/dto"
	"github.com/noah-isme/programme-match-api/internal/models"
	appErrors "github.com/noah-isme/programme-match-api/pkg/errors"
)

type studentAccounts interface {
	SignIn(ctx context.Context, req dto.SignInRequest) (*dto.SignInResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest) (models.ID, error)
	UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*models.Student, error)
}

// SessionTokenConfig defines how session tokens are signed.
type SessionTokenConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// StudentService signs students in and out and keeps their profile in the session store.
type StudentService struct {
	accounts  studentAccounts
	registry  *SessionRegistry
	validator *validator.Validate
	logger    *zap.Logger
	config    SessionTokenConfig
	now       func() time.Time
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(accounts studentAccounts, registry *SessionRegistry, validate *validator.Validate, logger *zap.Logger, config SessionTokenConfig) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.TTL <= 0 {
		config.TTL = 24 * time.Hour
	}
	return &StudentService{
		accounts:  accounts,
		registry:  registry,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

// SignIn authenticates against the student service, resets the student's
// session, warms it with the first catalog page and issues a session token.
func (s *StudentService) SignIn(ctx context.Context, req dto.SignInRequest) (*dto.SessionResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "username and password are required")
	}

	resp, err := s.accounts.SignIn(ctx, req)
	if err != nil {
		return nil, err
	}
	student := resp.Student
	if student.StudentID == "" {
		return nil, appErrors.Clone(appErrors.ErrUpstream, "student service returned no student id")
	}
	if student.Role == "" {
		student.Role = models.RoleUser
	}
	subjects := resp.Subjects
	if subjects == nil {
		subjects = []models.StudentSubject{}
	}

	id := student.StudentID.String()
	if err := s.registry.Drop(ctx, id); err != nil {
		s.logger.Warn("failed to reset session", zap.String("student_id", id), zap.Error(err))
	}
	store := s.registry.Store(id)
	if err := store.Set(ctx, KeyStudent, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store student")
	}
	if err := store.Set(ctx, KeySubjects, subjects); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store subjects")
	}

	if _, err := s.registry.Get(id).Fetch(ctx, 1, models.FilterDefault); err != nil {
		s.logger.Warn("failed to warm catalog session", zap.String("student_id", id), zap.Error(err))
	}

	token, _, err := s.IssueToken(student)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}

	s.logger.Info("student signed in", zap.String("student_id", id))
	return &dto.SessionResponse{
		Token:     token,
		ExpiresIn: int64(s.config.TTL.Seconds()),
		Student:   student,
		Subjects:  subjects,
	}, nil
}

// Register creates an account with the subjects the student sat.
func (s *StudentService) Register(ctx context.Context, req dto.RegisterRequest) (models.ID, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	subjects := make([]models.StudentSubject, 0, len(req.Subjects))
	for _, subject := range req.Subjects {
		name := strings.TrimSpace(subject.Subject)
		grade := NormalizeGrade(subject.Grade, "")
		if name == "" {
			return "", appErrors.Clone(appErrors.ErrValidation, "please fill in all subject fields")
		}
		if !ValidGrade(grade) {
			return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid grade for %s", name))
		}
		subjects = append(subjects, models.StudentSubject{Subject: name, Grade: grade})
	}
	req.Subjects = subjects

	id, err := s.accounts.Register(ctx, req)
	if err != nil {
		return "", err
	}
	s.logger.Info("student registered", zap.String("student_id", id.String()))
	return id, nil
}

// Profile returns the stored profile and subjects of studentID.
func (s *StudentService) Profile(ctx context.Context, studentID string) (*dto.SessionResponse, error) {
	store := s.registry.Store(studentID)
	student, ok, err := loadStudent(ctx, store)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found, sign in again")
	}
	subjects, err := loadSubjects(ctx, store)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	if subjects == nil {
		subjects = []models.StudentSubject{}
	}
	return &dto.SessionResponse{Student: *student, Subjects: subjects}, nil
}

// UpdateProfile changes name and email and refreshes the stored profile.
func (s *StudentService) UpdateProfile(ctx context.Context, studentID string, req dto.UpdateProfileRequest) (*models.Student, error) {
	req.StudentID = studentID
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	updated, err := s.accounts.UpdateProfile(ctx, req)
	if err != nil {
		return nil, err
	}

	store := s.registry.Store(studentID)
	merged := *updated
	if current, ok, loadErr := loadStudent(ctx, store); loadErr == nil && ok {
		merged = mergeProfile(*current, *updated)
	}
	if merged.StudentID == "" {
		merged.StudentID = models.ID(studentID)
	}
	if err := store.Set(ctx, KeyStudent, merged); err != nil {
		s.logger.Warn("failed to store updated profile", zap.String("student_id", studentID), zap.Error(err))
	}
	return &merged, nil
}

// SignOut drops the student's session and its stored keys.
func (s *StudentService) SignOut(ctx context.Context, studentID string) error {
	if err := s.registry.Drop(ctx, studentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session")
	}
	s.logger.Info("student signed out", zap.String("student_id", studentID))
	return nil
}

// IssueToken signs a session token for student.
func (s *StudentService) IssueToken(student models.Student) (string, time.Time, error) {
	now := s.now().UTC()
	expiresAt := now.Add(s.config.TTL)
	claims := models.SessionClaims{
		StudentID: student.StudentID.String(),
		Role:      student.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   student.StudentID.String(),
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and validates a session token returning the claims.
func (s *StudentService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session token")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.StudentID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session token claims")
	}
	return claims, nil
}

// mergeProfile overlays the non-empty fields of update on current.
func mergeProfile(current, update models.Student) models.Student {
	if update.StudentID != "" {
		current.StudentID = update.StudentID
	}
	if update.Username != "" {
		current.Username = update.Username
	}
	if update.Email != "" {
		current.Email = update.Email
	}
	if update.FullName != "" {
		current.FullName = update.FullName
	}
	if update.Role != "" {
		current.Role = update.Role
	}
	if update.CreatedAt != "" {
		current.CreatedAt = update.CreatedAt
	}
	return current
}
