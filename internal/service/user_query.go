package service

import (
	"context"
	"time"

	"github.com/agrovia/agrocontrol/internal/model"
	"github.com/agrovia/agrocontrol/internal/repository"
)

// UserView is the response shape for accounts.  Persistence-only fields
// (password hash, soft-delete flag) are stripped.
type UserView struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	DniOrRuc     string    `json:"dni_or_ruc"`
	EmailAddress string    `json:"email_address"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role"`
	CreateDate   time.Time `json:"create_date"`
}

func toUserView(u *model.User) UserView {
	return UserView{
		ID:           u.ID,
		Username:     u.Username,
		DniOrRuc:     u.DniOrRuc,
		EmailAddress: u.EmailAddress,
		Phone:        u.Phone,
		Role:         u.Role,
		CreateDate:   u.CreateDate,
	}
}

// UserQueryService owns the read path for accounts.
type UserQueryService struct {
	users *repository.UserRepo
}

// NewUserQueryService wires the service with its repository.
func NewUserQueryService(users *repository.UserRepo) *UserQueryService {
	return &UserQueryService{users: users}
}

// GetAllUsers returns every active account.  An empty slice is a valid
// result, not an error.
func (s *UserQueryService) GetAllUsers(ctx context.Context) ([]UserView, error) {
	list, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserView, 0, len(list))
	for _, u := range list {
		out = append(out, toUserView(u))
	}
	return out, nil
}

// GetUserByID returns an active account by id.
func (s *UserQueryService) GetUserByID(ctx context.Context, id uint64) (*UserView, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := toUserView(u)
	return &v, nil
}
