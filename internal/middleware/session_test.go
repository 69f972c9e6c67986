package middleware

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madhavprabhu/hostelhub/internal/config"
	"github.com/madhavprabhu/hostelhub/internal/model"
	"github.com/madhavprabhu/hostelhub/internal/repository"
	"github.com/madhavprabhu/hostelhub/internal/utils"
)

var testCfg = config.Config{
	Env:            "test",
	JWTSecret:      "user-secret",
	JWTAdminSecret: "admin-secret",
	SessionTTLDays: 7,
}

func newTestSessions(t *testing.T) (*Sessions, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSessions(testCfg, repository.NewUserRepo(db), repository.NewAdminRepo(db)), mock
}

func userRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "full_name", "email", "password_hash", "phone",
		"study_year", "room_no", "profile_pic", "parent_name", "parent_phone",
		"guardian_name", "guardian_phone", "aadhar_no", "college_id", "address",
		"is_present", "last_check_in", "last_check_out", "created_at", "updated_at"}).
		AddRow(7, "Rahul Verma", "rahul@example.com", "hash", "9000000001",
			"2nd Year", "204", "", "Suresh Verma", "9000000002",
			"Mohan Verma", "9000000003", "123412341234", "CS2201", "Pune",
			true, nil, nil, now, now)
}

func adminRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "phone",
		"created_at", "updated_at"}).
		AddRow(3, "Warden", "warden@example.com", "hash", "9000000009", now, now)
}

func runGuard(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, handler(c))
	return rec, c
}

func TestRequireUserNoCookie(t *testing.T) {
	s, _ := newTestSessions(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, _ := runGuard(t, s.RequireUser(), req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireUserTamperedToken(t *testing.T) {
	s, _ := newTestSessions(t)
	tok, err := utils.NewSessionToken("wrong-secret", 7, model.RoleUser, 7)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: UserCookie, Value: tok.Token})
	rec, _ := runGuard(t, s.RequireUser(), req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireUserAdminTokenRejected(t *testing.T) {
	// An admin token presented on a resident route must not pass, even
	// though it is validly signed (with the other secret).
	s, _ := newTestSessions(t)
	tok, err := utils.NewSessionToken(testCfg.JWTAdminSecret, 3, model.RoleAdmin, 7)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: UserCookie, Value: tok.Token})
	rec, _ := runGuard(t, s.RequireUser(), req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireUserLoadsPrincipal(t *testing.T) {
	s, mock := newTestSessions(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WillReturnRows(userRow())

	tok, err := utils.NewSessionToken(testCfg.JWTSecret, 7, model.RoleUser, 7)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: UserCookie, Value: tok.Token})
	rec, c := runGuard(t, s.RequireUser(), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), PrincipalID(c))
	u, ok := SessionUser(c)
	require.True(t, ok)
	assert.Equal(t, "rahul@example.com", u.Email)
}

func TestRequireUserDeletedAccount(t *testing.T) {
	s, mock := newTestSessions(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	tok, err := utils.NewSessionToken(testCfg.JWTSecret, 7, model.RoleUser, 7)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: UserCookie, Value: tok.Token})
	rec, _ := runGuard(t, s.RequireUser(), req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireUserBearerFallback(t *testing.T) {
	s, mock := newTestSessions(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WillReturnRows(userRow())

	tok, err := utils.NewSessionToken(testCfg.JWTSecret, 7, model.RoleUser, 7)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec, _ := runGuard(t, s.RequireUser(), req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	s, mock := newTestSessions(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WillReturnRows(adminRow())

	tok, err := utils.NewSessionToken(testCfg.JWTAdminSecret, 3, model.RoleAdmin, 7)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookie, Value: tok.Token})
	rec, c := runGuard(t, s.RequireAdmin(), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	a, ok := SessionAdmin(c)
	require.True(t, ok)
	assert.Equal(t, uint64(3), a.ID)
}

func TestResolveAdminWinsOverUser(t *testing.T) {
	// With both cookies present and valid, the admin session wins.
	s, mock := newTestSessions(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WillReturnRows(adminRow())

	userTok, err := utils.NewSessionToken(testCfg.JWTSecret, 7, model.RoleUser, 7)
	require.NoError(t, err)
	adminTok, err := utils.NewSessionToken(testCfg.JWTAdminSecret, 3, model.RoleAdmin, 7)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: UserCookie, Value: userTok.Token})
	req.AddCookie(&http.Cookie{Name: AdminCookie, Value: adminTok.Token})
	c := e.NewContext(req, httptest.NewRecorder())

	id, role, err := s.Resolve(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), id)
	assert.Equal(t, model.RoleAdmin, role)
}

func TestResolveFallsBackToUser(t *testing.T) {
	s, mock := newTestSessions(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WillReturnRows(userRow())

	userTok, err := utils.NewSessionToken(testCfg.JWTSecret, 7, model.RoleUser, 7)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: UserCookie, Value: userTok.Token})
	c := e.NewContext(req, httptest.NewRecorder())

	id, role, err := s.Resolve(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.Equal(t, model.RoleUser, role)
}

func TestResolveNoSession(t *testing.T) {
	s, _ := newTestSessions(t)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	_, _, err := s.Resolve(c)
	assert.ErrorIs(t, err, utils.ErrInvalidSession)
}
