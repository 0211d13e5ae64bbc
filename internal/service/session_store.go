package service

import (
	"context"
	"fmt"

	"github.com/noah-isme/programme-match-api/internal/models"
)

// Keys a catalog session reads from and writes to its store.
const (
	KeyStudent         = "student"
	KeySubjects        = "subjects"
	KeyEligibleCourses = "eligible_courses"
	KeySummary         = "summary"
	KeyProgramme       = "programme"
)

// KeyValueStore is the get/set view a catalog session holds over persisted state.
type KeyValueStore interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// SessionStore namespaces a CacheService under one student.
type SessionStore struct {
	cache  *CacheService
	prefix string
}

// NewSessionStore scopes cache to studentID.
func NewSessionStore(cache *CacheService, studentID string) *SessionStore {
	return &SessionStore{cache: cache, prefix: sessionPrefix(studentID)}
}

func sessionPrefix(studentID string) string {
	return fmt.Sprintf("session:%s:", studentID)
}

// Get implements KeyValueStore.
func (s *SessionStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return s.cache.Get(ctx, s.prefix+key, dest)
}

// Set implements KeyValueStore.
func (s *SessionStore) Set(ctx context.Context, key string, value interface{}) error {
	return s.cache.Set(ctx, s.prefix+key, value)
}

// Clear drops every key of the session.
func (s *SessionStore) Clear(ctx context.Context) error {
	return s.cache.Invalidate(ctx, s.prefix+"*")
}

// loadStudent reads the stored profile; ok is false when absent.
func loadStudent(ctx context.Context, store KeyValueStore) (*models.Student, bool, error) {
	var student models.Student
	ok, err := store.Get(ctx, KeyStudent, &student)
	if err != nil || !ok {
		return nil, false, err
	}
	return &student, true, nil
}

// loadSubjects reads the stored subject list; an absent key yields nil.
func loadSubjects(ctx context.Context, store KeyValueStore) ([]models.StudentSubject, error) {
	var subjects []models.StudentSubject
	if _, err := store.Get(ctx, KeySubjects, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}
