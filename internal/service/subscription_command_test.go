package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovia/agrocontrol/internal/model"
	"github.com/agrovia/agrocontrol/internal/repository"
)

const subByUser = "SELECT id, user_id, plan_type, start_date, end_date, create_date, is_active FROM subscription WHERE user_id = ? AND is_active = 1 LIMIT 1"

func newSubService(t *testing.T) (*SubscriptionCommandService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	svc := NewSubscriptionCommandService(repository.NewSubscriptionRepo(db), repository.NewUserRepo(db))
	svc.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	return svc, mock
}

func TestCreateSubscriptionRejectsPastStart(t *testing.T) {
	svc, mock := newSubService(t)

	cmd := CreateSubscriptionCommand{
		UserID:    1,
		PlanType:  model.PlanStandard,
		StartDate: time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 29, 0, 0, 0, 0, time.UTC),
	}
	_, err := svc.CreateSubscription(context.Background(), cmd)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "start_date")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSubscriptionRejectsInvertedDates(t *testing.T) {
	svc, mock := newSubService(t)

	cmd := CreateSubscriptionCommand{
		UserID:    1,
		PlanType:  model.PlanBasic,
		StartDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err := svc.CreateSubscription(context.Background(), cmd)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "end_date")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSubscriptionSecondActiveRejected(t *testing.T) {
	svc, mock := newSubService(t)

	mock.ExpectQuery(regexp.QuoteMeta(userSelect)).
		WithArgs(uint64(1)).
		WillReturnRows(activeUserRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(subByUser)).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "plan_type", "start_date",
			"end_date", "create_date", "is_active"}).
			AddRow(2, 1, 1, time.Now(), time.Now().AddDate(0, 1, 0), time.Now(), 1))

	cmd := CreateSubscriptionCommand{
		UserID:    1,
		PlanType:  model.PlanPremium,
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err := svc.CreateSubscription(context.Background(), cmd)
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSubscriptionPersists(t *testing.T) {
	svc, mock := newSubService(t)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(userSelect)).
		WithArgs(uint64(1)).
		WillReturnRows(activeUserRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(subByUser)).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO subscription (user_id, plan_type, start_date, end_date, is_active) VALUES (?,?,?,?,1)")).
		WithArgs(uint64(1), uint8(model.PlanStandard), start, end).
		WillReturnResult(sqlmock.NewResult(6, 1))
	mock.ExpectCommit()

	id, err := svc.CreateSubscription(context.Background(), CreateSubscriptionCommand{
		UserID: 1, PlanType: model.PlanStandard, StartDate: start, EndDate: end,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(6), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
