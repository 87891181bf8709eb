package service

import (
	"context"
	"time"

	"github.com/agrovia/agrocontrol/internal/model"
	"github.com/agrovia/agrocontrol/internal/repository"
)

// SubscriptionView is the response shape for subscriptions.  The plan is
// rendered as its name through the PlanType JSON codec.
type SubscriptionView struct {
	ID         uint64         `json:"id"`
	UserID     uint64         `json:"user_id"`
	PlanType   model.PlanType `json:"plan_type"`
	StartDate  time.Time      `json:"start_date"`
	EndDate    time.Time      `json:"end_date"`
	CreateDate time.Time      `json:"create_date"`
}

func toSubscriptionView(s *model.Subscription) SubscriptionView {
	return SubscriptionView{ID: s.ID, UserID: s.UserID, PlanType: s.PlanType,
		StartDate: s.StartDate, EndDate: s.EndDate, CreateDate: s.CreateDate}
}

// SubscriptionQueryService owns the read path for subscriptions.
type SubscriptionQueryService struct {
	subs *repository.SubscriptionRepo
}

// NewSubscriptionQueryService wires the service with its repository.
func NewSubscriptionQueryService(subs *repository.SubscriptionRepo) *SubscriptionQueryService {
	return &SubscriptionQueryService{subs: subs}
}

// GetAllSubscriptions returns every active subscription.
func (s *SubscriptionQueryService) GetAllSubscriptions(ctx context.Context) ([]SubscriptionView, error) {
	list, err := s.subs.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SubscriptionView, 0, len(list))
	for _, sub := range list {
		out = append(out, toSubscriptionView(sub))
	}
	return out, nil
}

// GetSubscriptionByID returns an active subscription by id.
func (s *SubscriptionQueryService) GetSubscriptionByID(ctx context.Context, id uint64) (*SubscriptionView, error) {
	sub, err := s.subs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := toSubscriptionView(sub)
	return &v, nil
}

// GetSubscriptionByUserID returns the user's active subscription.
func (s *SubscriptionQueryService) GetSubscriptionByUserID(ctx context.Context, userID uint64) (*SubscriptionView, error) {
	sub, err := s.subs.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	v := toSubscriptionView(sub)
	return &v, nil
}
