package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovia/agrocontrol/internal/repository"
	"github.com/agrovia/agrocontrol/internal/utils"
)

const (
	userByUsername = "SELECT id, username, dni_or_ruc, email_address, phone, role, password_hashed, create_date, is_active FROM user WHERE username = ? AND is_active = 1"
	userByDni      = "SELECT id, username, dni_or_ruc, email_address, phone, role, password_hashed, create_date, is_active FROM user WHERE dni_or_ruc = ? AND is_active = 1"
)

func validRegister() RegisterCommand {
	return RegisterCommand{
		Username:        "pedro1",
		DniOrRuc:        "12345678",
		EmailAddress:    "pedro@example.com",
		Phone:           "987654321",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewUserCommandService(repository.NewUserRepo(db), "test-secret", 15, 4)

	cmd := RegisterCommand{
		Username:        "ab",
		DniOrRuc:        "12ab",
		EmailAddress:    "not-an-email",
		Phone:           "123",
		Password:        "123",
		ConfirmPassword: "456",
	}
	_, err := svc.Register(context.Background(), cmd)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "dni_or_ruc")
	assert.Contains(t, verr.Fields, "email_address")
	assert.Contains(t, verr.Fields, "phone")
	assert.Contains(t, verr.Fields, "password")
	assert.Contains(t, verr.Fields, "confirm_password")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewUserCommandService(repository.NewUserRepo(db), "test-secret", 15, 4)

	mock.ExpectQuery(regexp.QuoteMeta(userByUsername)).
		WithArgs("pedro1").
		WillReturnRows(activeUserRow(1))

	_, err := svc.Register(context.Background(), validRegister())
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterPersistsWithHashedPassword(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewUserCommandService(repository.NewUserRepo(db), "test-secret", 15, 4)

	mock.ExpectQuery(regexp.QuoteMeta(userByUsername)).
		WithArgs("pedro1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta(userByDni)).
		WithArgs("12345678").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO user (username, dni_or_ruc, email_address, phone, role, password_hashed, is_active) VALUES (?,?,?,?,?,?,1)")).
		WithArgs("pedro1", "12345678", "pedro@example.com", "987654321", "Farmer", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	id, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	assert.Equal(t, uint64(5), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewUserCommandService(repository.NewUserRepo(db), "test-secret", 15, 4)

	hash, err := utils.HashPassword("right-password", 4)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "username", "dni_or_ruc", "email_address", "phone",
		"role", "password_hashed", "create_date", "is_active"}).
		AddRow(1, "pedro1", "12345678", "pedro@example.com", "987654321", "Farmer", hash, time.Now(), 1)
	mock.ExpectQuery(regexp.QuoteMeta(userByUsername)).
		WithArgs("pedro1").
		WillReturnRows(rows)

	_, _, err = svc.Login(context.Background(), LoginCommand{Username: "pedro1", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginUnknownUser(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewUserCommandService(repository.NewUserRepo(db), "test-secret", 15, 4)

	mock.ExpectQuery(regexp.QuoteMeta(userByUsername)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := svc.Login(context.Background(), LoginCommand{Username: "ghost", Password: "whatever"})
	// Same error as a bad password so the API does not leak which usernames exist.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginIssuesToken(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewUserCommandService(repository.NewUserRepo(db), "test-secret", 15, 4)

	hash, err := utils.HashPassword("secret1", 4)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "username", "dni_or_ruc", "email_address", "phone",
		"role", "password_hashed", "create_date", "is_active"}).
		AddRow(3, "pedro1", "12345678", "pedro@example.com", "987654321", "Farmer", hash, time.Now(), 1)
	mock.ExpectQuery(regexp.QuoteMeta(userByUsername)).
		WithArgs("pedro1").
		WillReturnRows(rows)

	tok, u, err := svc.Login(context.Background(), LoginCommand{Username: "pedro1", Password: "secret1"})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, uint64(3), u.ID)
	assert.NotEmpty(t, tok.Token)
	assert.True(t, tok.Exp.After(time.Now()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
