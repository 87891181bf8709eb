package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agrovia/agrocontrol/internal/model"
	"github.com/agrovia/agrocontrol/internal/repository"
)

// SubscriptionCommandService owns the write path for subscriptions and
// enforces the one-active-subscription-per-user invariant.
type SubscriptionCommandService struct {
	subs  *repository.SubscriptionRepo
	users *repository.UserRepo
	// now is swapped out in tests to pin the "start date is not in the
	// past" check to a known day.
	now func() time.Time
}

// NewSubscriptionCommandService wires the service with its repository and
// the user repository for parent checks.
func NewSubscriptionCommandService(subs *repository.SubscriptionRepo, users *repository.UserRepo) *SubscriptionCommandService {
	return &SubscriptionCommandService{subs: subs, users: users, now: time.Now}
}

// CreateSubscriptionCommand is the creation payload.  UserID is stamped
// from the authenticated identity by the handler.
type CreateSubscriptionCommand struct {
	UserID    uint64         `json:"-"`
	PlanType  model.PlanType `json:"plan_type"`
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
}

func (c *CreateSubscriptionCommand) validate(today time.Time) *ValidationError {
	v := newValidation()
	if !c.PlanType.Valid() {
		v.add("plan_type", "must be Basic, Standard or Premium")
	}
	switch {
	case c.StartDate.IsZero():
		v.add("start_date", "is required")
	case c.StartDate.Before(today):
		v.add("start_date", "must not be before today")
	}
	switch {
	case c.EndDate.IsZero():
		v.add("end_date", "is required")
	case !c.EndDate.After(c.StartDate):
		v.add("end_date", "must be after start_date")
	}
	if v.ok() {
		return nil
	}
	return v
}

// CreateSubscription persists a subscription after confirming the owner
// exists and holds no other active subscription.  The start date may not
// precede the creation day.
func (s *SubscriptionCommandService) CreateSubscription(ctx context.Context, cmd CreateSubscriptionCommand) (uint64, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	if verr := cmd.validate(today); verr != nil {
		return 0, verr
	}
	if _, err := s.users.GetByID(ctx, cmd.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("user %d: %w", cmd.UserID, ErrParentNotFound)
		}
		return 0, err
	}
	if _, err := s.subs.GetActiveByUserID(ctx, cmd.UserID); err == nil {
		return 0, fmt.Errorf("user %d subscription: %w", cmd.UserID, repository.ErrDuplicate)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}
	sub := &model.Subscription{
		UserID:    cmd.UserID,
		PlanType:  cmd.PlanType,
		StartDate: cmd.StartDate,
		EndDate:   cmd.EndDate,
	}
	return s.subs.Save(ctx, sub)
}

// UpdateSubscriptionCommand replaces every mutable subscription column.
// The past-start-date rule only applies at creation; renewals may keep
// their original start date.
type UpdateSubscriptionCommand struct {
	PlanType  model.PlanType `json:"plan_type"`
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
}

func (c *UpdateSubscriptionCommand) Validate() *ValidationError {
	v := newValidation()
	if !c.PlanType.Valid() {
		v.add("plan_type", "must be Basic, Standard or Premium")
	}
	if c.StartDate.IsZero() {
		v.add("start_date", "is required")
	}
	if c.EndDate.IsZero() {
		v.add("end_date", "is required")
	} else if !c.EndDate.After(c.StartDate) {
		v.add("end_date", "must be after start_date")
	}
	if v.ok() {
		return nil
	}
	return v
}

// UpdateSubscription overwrites an active subscription in place.
func (s *SubscriptionCommandService) UpdateSubscription(ctx context.Context, id uint64, cmd UpdateSubscriptionCommand) error {
	if verr := cmd.Validate(); verr != nil {
		return verr
	}
	if _, err := s.subs.GetByID(ctx, id); err != nil {
		return err
	}
	sub := &model.Subscription{
		Base:      model.Base{ID: id},
		PlanType:  cmd.PlanType,
		StartDate: cmd.StartDate,
		EndDate:   cmd.EndDate,
	}
	return s.subs.Update(ctx, sub)
}

// DeleteSubscription deactivates a subscription, freeing the user's slot.
func (s *SubscriptionCommandService) DeleteSubscription(ctx context.Context, id uint64) error {
	return s.subs.Delete(ctx, id)
}
