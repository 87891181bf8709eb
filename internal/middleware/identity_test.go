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

	"github.com/agrovia/agrocontrol/internal/repository"
)

const (
	activeUserByID = "SELECT id, username, dni_or_ruc, email_address, phone, role, password_hashed, create_date, is_active FROM user WHERE id = ? AND is_active = 1"
	anyUserByID    = "SELECT id, username, dni_or_ruc, email_address, phone, role, password_hashed, create_date, is_active FROM user WHERE id = ?"
)

func userRow(id uint64, active int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "dni_or_ruc", "email_address", "phone",
		"role", "password_hashed", "create_date", "is_active"}).
		AddRow(id, "pedro1", "12345678", "pedro@example.com", "987654321", "Farmer", "$2a$hash",
			time.Now(), active)
}

func resolveWith(t *testing.T, mock func(sqlmock.Sqlmock)) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	db, m, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock(m)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(7))

	reachedNext := false
	h := ResolveIdentity(repository.NewUserRepo(db))(func(c echo.Context) error {
		reachedNext = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	require.NoError(t, m.ExpectationsWereMet())
	return rec, reachedNext
}

func TestResolveIdentityActiveUser(t *testing.T) {
	rec, reachedNext := resolveWith(t, func(m sqlmock.Sqlmock) {
		m.ExpectQuery(regexp.QuoteMeta(activeUserByID)).
			WithArgs(uint64(7)).
			WillReturnRows(userRow(7, 1))
	})
	assert.True(t, reachedNext)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResolveIdentityDeactivatedUser(t *testing.T) {
	rec, reachedNext := resolveWith(t, func(m sqlmock.Sqlmock) {
		m.ExpectQuery(regexp.QuoteMeta(activeUserByID)).
			WithArgs(uint64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		m.ExpectQuery(regexp.QuoteMeta(anyUserByID)).
			WithArgs(uint64(7)).
			WillReturnRows(userRow(7, 0))
	})
	assert.False(t, reachedNext)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "account is not active")
}

func TestResolveIdentityUnknownSubject(t *testing.T) {
	rec, reachedNext := resolveWith(t, func(m sqlmock.Sqlmock) {
		m.ExpectQuery(regexp.QuoteMeta(activeUserByID)).
			WithArgs(uint64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		m.ExpectQuery(regexp.QuoteMeta(anyUserByID)).
			WithArgs(uint64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
	})
	assert.False(t, reachedNext)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}
