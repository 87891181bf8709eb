package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agrovia/agrocontrol/internal/model"
	"github.com/agrovia/agrocontrol/internal/repository"
	"github.com/agrovia/agrocontrol/internal/utils"
)

// Roles accepted at registration.  Role is free text in storage but the
// API only issues these two.
const (
	RoleFarmer = "Farmer"
	RoleAdmin  = "Admin"
)

// UserCommandService owns the write path for accounts and the credential
// issuing step of the auth gate.
type UserCommandService struct {
	users        *repository.UserRepo
	jwtSecret    string
	accessTTLMin int
	bcryptCost   int
}

// NewUserCommandService wires the service with its repository and the
// token/hashing parameters from configuration.
func NewUserCommandService(users *repository.UserRepo, jwtSecret string, accessTTLMin, bcryptCost int) *UserCommandService {
	return &UserCommandService{users: users, jwtSecret: jwtSecret, accessTTLMin: accessTTLMin, bcryptCost: bcryptCost}
}

// RegisterCommand is the signup payload.  ConfirmPassword is checked
// against Password and discarded; only one bcrypt digest is stored.
type RegisterCommand struct {
	Username        string `json:"username"`
	DniOrRuc        string `json:"dni_or_ruc"`
	EmailAddress    string `json:"email_address"`
	Phone           string `json:"phone"`
	Role            string `json:"role"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (c *RegisterCommand) normalize() {
	c.Username = strings.TrimSpace(c.Username)
	c.DniOrRuc = strings.TrimSpace(c.DniOrRuc)
	c.EmailAddress = strings.ToLower(strings.TrimSpace(c.EmailAddress))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Role = strings.TrimSpace(c.Role)
	if c.Role == "" {
		c.Role = RoleFarmer
	}
}

func (c *RegisterCommand) Validate() *ValidationError {
	v := newValidation()
	if !lenBetween(c.Username, 4, 20) {
		v.add("username", "must be between 4 and 20 characters")
	}
	if !digitsBetween(c.DniOrRuc, 8, 11) {
		v.add("dni_or_ruc", "must be 8 to 11 digits")
	}
	if !emailRe.MatchString(c.EmailAddress) {
		v.add("email_address", "must be a valid email address")
	}
	if !digitsBetween(c.Phone, 9, 12) {
		v.add("phone", "must be 9 to 12 digits")
	}
	if c.Role != RoleFarmer && c.Role != RoleAdmin {
		v.add("role", "must be Farmer or Admin")
	}
	if len(c.Password) < 6 {
		v.add("password", "must be at least 6 characters")
	}
	if c.ConfirmPassword != c.Password {
		v.add("confirm_password", "must match password")
	}
	if v.ok() {
		return nil
	}
	return v
}

// Register creates an account.  Username and document number must be
// unique among active users; the unique indexes catch whatever races past
// these pre-checks.
func (s *UserCommandService) Register(ctx context.Context, cmd RegisterCommand) (uint64, error) {
	cmd.normalize()
	if verr := cmd.Validate(); verr != nil {
		return 0, verr
	}
	if _, err := s.users.GetByUsername(ctx, cmd.Username); err == nil {
		return 0, fmt.Errorf("username %q: %w", cmd.Username, repository.ErrDuplicate)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}
	if _, err := s.users.GetByDniOrRuc(ctx, cmd.DniOrRuc); err == nil {
		return 0, fmt.Errorf("dni or ruc %q: %w", cmd.DniOrRuc, repository.ErrDuplicate)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}
	hash, err := utils.HashPassword(cmd.Password, s.bcryptCost)
	if err != nil {
		return 0, err
	}
	u := &model.User{
		Username:       cmd.Username,
		DniOrRuc:       cmd.DniOrRuc,
		EmailAddress:   cmd.EmailAddress,
		Phone:          cmd.Phone,
		Role:           cmd.Role,
		PasswordHashed: hash,
	}
	return s.users.Save(ctx, u)
}

// LoginCommand is the credential payload for token issuance.
type LoginCommand struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies the password against the stored bcrypt digest and issues
// a signed access token.  Unknown usernames and wrong passwords both
// yield ErrInvalidCredentials.
func (s *UserCommandService) Login(ctx context.Context, cmd LoginCommand) (utils.AccessToken, *model.User, error) {
	username := strings.TrimSpace(cmd.Username)
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.AccessToken{}, nil, ErrInvalidCredentials
		}
		return utils.AccessToken{}, nil, err
	}
	if !utils.VerifyPassword(u.PasswordHashed, cmd.Password) {
		return utils.AccessToken{}, nil, ErrInvalidCredentials
	}
	tok, err := utils.NewAccessToken(s.jwtSecret, u.ID, u.Role, s.accessTTLMin)
	if err != nil {
		return utils.AccessToken{}, nil, err
	}
	return tok, u, nil
}

// UpdateUserCommand replaces every mutable account field.  The password is
// re-hashed; callers must echo values they want preserved.
type UpdateUserCommand struct {
	Username     string `json:"username"`
	DniOrRuc     string `json:"dni_or_ruc"`
	EmailAddress string `json:"email_address"`
	Phone        string `json:"phone"`
	Role         string `json:"role"`
	Password     string `json:"password"`
}

func (c *UpdateUserCommand) Validate() *ValidationError {
	v := newValidation()
	if !lenBetween(strings.TrimSpace(c.Username), 4, 20) {
		v.add("username", "must be between 4 and 20 characters")
	}
	if !digitsBetween(strings.TrimSpace(c.DniOrRuc), 8, 11) {
		v.add("dni_or_ruc", "must be 8 to 11 digits")
	}
	if !emailRe.MatchString(strings.ToLower(strings.TrimSpace(c.EmailAddress))) {
		v.add("email_address", "must be a valid email address")
	}
	if !digitsBetween(strings.TrimSpace(c.Phone), 9, 12) {
		v.add("phone", "must be 9 to 12 digits")
	}
	if r := strings.TrimSpace(c.Role); r != RoleFarmer && r != RoleAdmin {
		v.add("role", "must be Farmer or Admin")
	}
	if len(c.Password) < 6 {
		v.add("password", "must be at least 6 characters")
	}
	if v.ok() {
		return nil
	}
	return v
}

// UpdateUser overwrites an active account in place.
func (s *UserCommandService) UpdateUser(ctx context.Context, id uint64, cmd UpdateUserCommand) error {
	if verr := cmd.Validate(); verr != nil {
		return verr
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return err
	}
	hash, err := utils.HashPassword(cmd.Password, s.bcryptCost)
	if err != nil {
		return err
	}
	u := &model.User{
		Base:           model.Base{ID: id},
		Username:       strings.TrimSpace(cmd.Username),
		DniOrRuc:       strings.TrimSpace(cmd.DniOrRuc),
		EmailAddress:   strings.ToLower(strings.TrimSpace(cmd.EmailAddress)),
		Phone:          strings.TrimSpace(cmd.Phone),
		Role:           strings.TrimSpace(cmd.Role),
		PasswordHashed: hash,
	}
	return s.users.Update(ctx, u)
}

// DeleteUser deactivates an account.
func (s *UserCommandService) DeleteUser(ctx context.Context, id uint64) error {
	return s.users.Delete(ctx, id)
}
