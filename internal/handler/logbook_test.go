package handler

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/madhavprabhu/hostelhub/internal/repository"
)

func newLogBookHandler(t *testing.T) (*LogBookHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewLogBookHandler(repository.NewLogBookRepo(db), repository.NewUserRepo(db),
		zap.NewNop().Sugar()), mock
}

func logRow(inTime interface{}) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "user_id", "name", "phone", "permission",
		"out_time", "in_time", "reason", "created_at", "updated_at"}).
		AddRow(4, 7, "Suresh Verma", "9000000002", "Father", now, inTime, "weekend home visit", now, now)
}

func TestCheckOutValidation(t *testing.T) {
	h, _ := newLogBookHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing fields", `{"name":"Suresh"}`},
		{"bad permission", `{"name":"Suresh","phone":"9000000002","permission":"Uncle","reason":"visit"}`},
		{"bad out time", `{"name":"Suresh","phone":"9000000002","permission":"Father","reason":"visit","outTime":"tomorrow"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := residentContext(t, http.MethodPost, "/api/logbook/checkout", tc.body)
			require.NoError(t, h.CheckOut(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCheckOutMarksResidentAbsent(t *testing.T) {
	h, mock := newLogBookHandler(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO logbook_entries")).
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_present=0")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WillReturnRows(logRow(nil))

	c, rec := residentContext(t, http.MethodPost, "/api/logbook/checkout",
		`{"name":"Suresh Verma","phone":"9000000002","permission":"Father","reason":"weekend home visit"}`)
	require.NoError(t, h.CheckOut(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"out"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInOnce(t *testing.T) {
	h, mock := newLogBookHandler(t)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE logbook_entries SET in_time=?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WillReturnRows(logRow(now))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_present=1")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := residentContext(t, http.MethodPut, "/api/logbook/checkin/4", "")
	c.SetParamNames("id")
	c.SetParamValues("4")
	require.NoError(t, h.CheckIn(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"in"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInTwiceRejected(t *testing.T) {
	h, mock := newLogBookHandler(t)
	now := time.Now()

	// The guarded UPDATE touches nothing; the follow-up read shows the
	// entry already closed.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE logbook_entries SET in_time=?")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WillReturnRows(logRow(now))

	c, rec := residentContext(t, http.MethodPut, "/api/logbook/checkin/4", "")
	c.SetParamNames("id")
	c.SetParamValues("4")
	require.NoError(t, h.CheckIn(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Already checked in")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInUnknownEntry(t *testing.T) {
	h, mock := newLogBookHandler(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE logbook_entries SET in_time=?")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := residentContext(t, http.MethodPut, "/api/logbook/checkin/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")
	require.NoError(t, h.CheckIn(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
