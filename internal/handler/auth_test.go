package handler

import (
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

	"github.com/agrovia/agrocontrol/internal/repository"
	"github.com/agrovia/agrocontrol/internal/service"
)

const userByUsername = "SELECT id, username, dni_or_ruc, email_address, phone, role, password_hashed, create_date, is_active FROM user WHERE username = ? AND is_active = 1"

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	users := service.NewUserCommandService(repository.NewUserRepo(db), "test-secret", 15, 4)
	return NewAuthHandler(users), mock
}

func postJSON(path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegisterCreated(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(userByUsername)).
		WithArgs("pedro1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, username, dni_or_ruc, email_address, phone, role, password_hashed, create_date, is_active FROM user WHERE dni_or_ruc = ? AND is_active = 1")).
		WithArgs("12345678").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO user (username, dni_or_ruc, email_address, phone, role, password_hashed, is_active) VALUES (?,?,?,?,?,?,1)")).
		WithArgs("pedro1", "12345678", "pedro@example.com", "987654321", "Farmer", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	c, rec := postJSON("/api/v1/auth/register", `{
		"username": "pedro1",
		"dni_or_ruc": "12345678",
		"email_address": "pedro@example.com",
		"phone": "987654321",
		"password": "secret1",
		"confirm_password": "secret1"
	}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id": 5}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateConflict(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(userByUsername)).
		WithArgs("pedro1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "dni_or_ruc", "email_address",
			"phone", "role", "password_hashed", "create_date", "is_active"}).
			AddRow(1, "pedro1", "12345678", "pedro@example.com", "987654321", "Farmer", "$2a$hash",
				time.Now(), 1))

	c, rec := postJSON("/api/v1/auth/register", `{
		"username": "pedro1",
		"dni_or_ruc": "12345678",
		"email_address": "pedro@example.com",
		"phone": "987654321",
		"password": "secret1",
		"confirm_password": "secret1"
	}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterValidationErrors(t *testing.T) {
	h, mock := newAuthHandler(t)

	c, rec := postJSON("/api/v1/auth/register", `{"username": "ab"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"errors"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginUnknownUserUnauthorized(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(userByUsername)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := postJSON("/api/v1/auth/login", `{"username": "ghost", "password": "whatever"}`)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error": "unauthorized"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
