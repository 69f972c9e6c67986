package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/madhavprabhu/hostelhub/internal/config"
	"github.com/madhavprabhu/hostelhub/internal/middleware"
	"github.com/madhavprabhu/hostelhub/internal/repository"
	"github.com/madhavprabhu/hostelhub/internal/utils"
)

var authTestCfg = config.Config{
	Env:            "test",
	JWTSecret:      "user-secret",
	JWTAdminSecret: "admin-secret",
	SessionTTLDays: 7,
	BcryptCost:     4, // fast hashing in tests
}

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := repository.NewUserRepo(db)
	admins := repository.NewAdminRepo(db)
	sessions := middleware.NewSessions(authTestCfg, users, admins)
	return NewAuthHandler(authTestCfg, users, sessions, zap.NewNop().Sugar()), mock
}

func anonContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func loginUserRow(t *testing.T, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := utils.HashPassword(password, authTestCfg.BcryptCost)
	require.NoError(t, err)
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "full_name", "email", "password_hash", "phone",
		"study_year", "room_no", "profile_pic", "parent_name", "parent_phone",
		"guardian_name", "guardian_phone", "aadhar_no", "college_id", "address",
		"is_present", "last_check_in", "last_check_out", "created_at", "updated_at"}).
		AddRow(7, "Rahul Verma", "rahul@example.com", hash, "9000000001",
			"2nd Year", "204", "", "Suresh Verma", "9000000002",
			"Mohan Verma", "9000000003", "123412341234", "CS2201", "Pune",
			true, nil, nil, now, now)
}

func sessionCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestLoginSetsSessionCookie(t *testing.T) {
	h, mock := newAuthHandler(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WillReturnRows(loginUserRow(t, "password123"))

	c, rec := anonContext(t, http.MethodPost, "/api/user/login",
		`{"email":"Rahul@Example.com","password":"password123"}`)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	ck := sessionCookie(rec, middleware.UserCookie)
	require.NotNil(t, ck, "login must set the jwt cookie")
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)

	claims, err := utils.ParseSessionToken(authTestCfg.JWTSecret, ck.Value)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.ID)
	assert.Equal(t, "user", claims.Role)

	// The password hash never appears in the response body.
	assert.NotContains(t, rec.Body.String(), "password_hash")
	assert.NotContains(t, rec.Body.String(), "$2a$")
}

func TestLoginWrongPassword(t *testing.T) {
	h, mock := newAuthHandler(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WillReturnRows(loginUserRow(t, "password123"))

	c, rec := anonContext(t, http.MethodPost, "/api/user/login",
		`{"email":"rahul@example.com","password":"wrong"}`)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
	assert.Nil(t, sessionCookie(rec, middleware.UserCookie))
}

func TestLoginUnknownEmailSameMessage(t *testing.T) {
	h, mock := newAuthHandler(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := anonContext(t, http.MethodPost, "/api/user/login",
		`{"email":"nobody@example.com","password":"password123"}`)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// Identical message for unknown email and wrong password.
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
}

func TestSignupRejectsMissingFields(t *testing.T) {
	h, _ := newAuthHandler(t)

	c, rec := anonContext(t, http.MethodPost, "/api/user/signup",
		`{"fullName":"Rahul Verma","email":"rahul@example.com","password":"password123"}`)
	require.NoError(t, h.Signup(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "All fields are required")
}

func TestSignupRejectsShortPassword(t *testing.T) {
	h, _ := newAuthHandler(t)

	body := `{"fullName":"Rahul Verma","email":"rahul@example.com","password":"abc",
		"phone":"9000000001","studyYear":"2nd Year","roomNo":"204",
		"parentName":"Suresh Verma","parentPhone":"9000000002",
		"guardianName":"Mohan Verma","guardianPhone":"9000000003",
		"aadharNo":"123412341234","collegeId":"CS2201","address":"Pune"}`
	c, rec := anonContext(t, http.MethodPost, "/api/user/signup", body)
	require.NoError(t, h.Signup(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password must be at least 6 characters")
}

func TestSignupDuplicateEmail(t *testing.T) {
	h, mock := newAuthHandler(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&mysqlError{msg: "Error 1062 (23000): Duplicate entry 'rahul@example.com' for key 'users.uq_users_email'"})

	body := `{"fullName":"Rahul Verma","email":"rahul@example.com","password":"password123",
		"phone":"9000000001","studyYear":"2nd Year","roomNo":"204",
		"parentName":"Suresh Verma","parentPhone":"9000000002",
		"guardianName":"Mohan Verma","guardianPhone":"9000000003",
		"aadharNo":"123412341234","collegeId":"CS2201","address":"Pune"}`
	c, rec := anonContext(t, http.MethodPost, "/api/user/signup", body)
	require.NoError(t, h.Signup(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exists")
}

// mysqlError mimics a driver duplicate-key error string.
type mysqlError struct{ msg string }

func (e *mysqlError) Error() string { return e.msg }

func TestLogoutClearsCookie(t *testing.T) {
	h, _ := newAuthHandler(t)

	c, rec := anonContext(t, http.MethodPost, "/api/user/logout", "")
	require.NoError(t, h.Logout(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	ck := sessionCookie(rec, middleware.UserCookie)
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value)
	assert.Negative(t, ck.MaxAge)
}

func TestProfileEnvelope(t *testing.T) {
	h, _ := newAuthHandler(t)

	c, rec := residentContext(t, http.MethodGet, "/api/user/profile", "")
	require.NoError(t, h.Profile(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			ID   uint64 `json:"id"`
			Role string `json:"role"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, uint64(7), body.Data.ID)
	assert.Equal(t, "user", body.Data.Role)
}
