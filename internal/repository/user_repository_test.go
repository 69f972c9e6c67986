package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRepoMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db), mock
}

func signupPayload() NewUser {
	return NewUser{
		FullName: "Rahul Verma", Email: "Rahul@Example.com", Password: "password123",
		Phone: "9000000001", StudyYear: "2nd Year", RoomNo: "204",
		ParentName: "Suresh Verma", ParentPhone: "9000000002",
		GuardianName: "Mohan Verma", GuardianPhone: "9000000003",
		AadharNo: "123412341234", CollegeID: "CS2201", Address: "Pune",
	}
}

func TestCreateNormalizesEmail(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := repo.Create(context.Background(), signupPayload(), 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'rahul@example.com' for key 'users.uq_users_email'"))

	_, err := repo.Create(context.Background(), signupPayload(), 4)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestCreateDuplicateAadhar(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '123412341234' for key 'users.uq_users_aadhar'"))

	_, err := repo.Create(context.Background(), signupPayload(), 4)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NotErrorIs(t, err, ErrEmailExists)
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetPresenceTouchesMatchingColumn(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_present=0, last_check_out=?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetPresence(context.Background(), 7, false, time.Now()))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_present=1, last_check_in=?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetPresence(context.Background(), 7, true, time.Now()))
	require.NoError(t, mock.ExpectationsWereMet())
}
