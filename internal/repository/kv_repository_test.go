package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/programme-match-api/internal/models"
	appErrors "github.com/noah-isme/programme-match-api/pkg/errors"
)

func newKVRepoMock(t *testing.T) (*KVRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewKVRepository(sqlxDB)
	repo.now = func() time.Time { return time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC) }
	return repo, mock, func() {
		sqlxDB.Close()
	}
}

func TestKVRepositoryGet(t *testing.T) {
	repo, mock, cleanup := newKVRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"value", "expires_at"}).
		AddRow([]byte(`{"eligible":2,"available_university":1,"available_courses":9}`), nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value, expires_at FROM kv_store WHERE key = $1")).
		WithArgs("session:1:summary").
		WillReturnRows(rows)

	var summary models.Summary
	require.NoError(t, repo.Get(context.Background(), "session:1:summary", &summary))
	assert.Equal(t, models.Summary{Eligible: 2, AvailableUniversity: 1, AvailableCourses: 9}, summary)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepositoryGetMissing(t *testing.T) {
	repo, mock, cleanup := newKVRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT value, expires_at FROM kv_store").
		WithArgs("session:1:student").
		WillReturnError(sql.ErrNoRows)

	var dest models.Student
	err := repo.Get(context.Background(), "session:1:student", &dest)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
}

func TestKVRepositoryGetExpired(t *testing.T) {
	repo, mock, cleanup := newKVRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"value", "expires_at"}).
		AddRow([]byte(`"x"`), time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC))
	mock.ExpectQuery("SELECT value, expires_at FROM kv_store").
		WithArgs("k").
		WillReturnRows(rows)

	var dest string
	assert.True(t, errors.Is(repo.Get(context.Background(), "k", &dest), appErrors.ErrCacheMiss))
}

func TestKVRepositorySet(t *testing.T) {
	repo, mock, cleanup := newKVRepoMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO kv_store").
		WithArgs("session:1:subjects", `[{"subject":"Math","grade":"A"}]`, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Set(context.Background(), "session:1:subjects", []models.StudentSubject{{Subject: "Math", Grade: "A"}}, time.Hour)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepositoryDeleteByPattern(t *testing.T) {
	repo, mock, cleanup := newKVRepoMock(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM kv_store WHERE key LIKE").
		WithArgs(`session:1\_a:%`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.DeleteByPattern(context.Background(), "session:1_a:*"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepositoryPurgeExpired(t *testing.T) {
	repo, mock, cleanup := newKVRepoMock(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM kv_store WHERE expires_at IS NOT NULL").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestGlobToLike(t *testing.T) {
	assert.Equal(t, "session:%", globToLike("session:*"))
	assert.Equal(t, `a\%b_`, globToLike("a%b?"))
}
