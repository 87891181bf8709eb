package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agrovia/agrocontrol/internal/model"
	"github.com/agrovia/agrocontrol/internal/repository"
)

// FieldCommandService owns the write path for fields.  Creation verifies
// the owning user and the name uniqueness invariant before persisting.
type FieldCommandService struct {
	fields *repository.FieldRepo
	users  *repository.UserRepo
}

// NewFieldCommandService wires the service with its own repository and the
// user repository consulted for the parent check.
func NewFieldCommandService(fields *repository.FieldRepo, users *repository.UserRepo) *FieldCommandService {
	return &FieldCommandService{fields: fields, users: users}
}

// CreateFieldCommand is the creation payload.  UserID is stamped from the
// authenticated identity by the handler, never taken from the body.
type CreateFieldCommand struct {
	UserID    uint64  `json:"-"`
	Name      string  `json:"name"`
	Location  string  `json:"location"`
	SoilType  string  `json:"soil_type"`
	Elevation float64 `json:"elevation"`
}

func (c *CreateFieldCommand) Validate() *ValidationError {
	v := newValidation()
	if !lenBetween(strings.TrimSpace(c.Name), 2, 100) {
		v.add("name", "must be between 2 and 100 characters")
	}
	if !lenBetween(strings.TrimSpace(c.Location), 5, 200) {
		v.add("location", "must be between 5 and 200 characters")
	}
	if !lenBetween(strings.TrimSpace(c.SoilType), 3, 50) {
		v.add("soil_type", "must be between 3 and 50 characters")
	}
	if c.Elevation < 1 || c.Elevation > 8848 {
		v.add("elevation", "must be between 1 and 8848 meters")
	}
	if v.ok() {
		return nil
	}
	return v
}

// CreateField persists a new field after confirming the owner exists and
// no active field already claims the name.
func (s *FieldCommandService) CreateField(ctx context.Context, cmd CreateFieldCommand) (uint64, error) {
	if verr := cmd.Validate(); verr != nil {
		return 0, verr
	}
	if _, err := s.users.GetByID(ctx, cmd.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("user %d: %w", cmd.UserID, ErrParentNotFound)
		}
		return 0, err
	}
	name := strings.TrimSpace(cmd.Name)
	if _, err := s.fields.GetByName(ctx, name); err == nil {
		return 0, fmt.Errorf("field name %q: %w", name, repository.ErrDuplicate)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}
	f := &model.Field{
		UserID:    cmd.UserID,
		Name:      name,
		Location:  strings.TrimSpace(cmd.Location),
		SoilType:  strings.TrimSpace(cmd.SoilType),
		Elevation: cmd.Elevation,
	}
	return s.fields.Save(ctx, f)
}

// UpdateFieldCommand replaces every mutable field column.
type UpdateFieldCommand struct {
	Name      string  `json:"name"`
	Location  string  `json:"location"`
	SoilType  string  `json:"soil_type"`
	Elevation float64 `json:"elevation"`
}

func (c *UpdateFieldCommand) Validate() *ValidationError {
	cc := CreateFieldCommand{Name: c.Name, Location: c.Location, SoilType: c.SoilType, Elevation: c.Elevation}
	return cc.Validate()
}

// UpdateField overwrites an active field in place.  Renaming onto another
// active field's name fails with a duplicate error from the unique index.
func (s *FieldCommandService) UpdateField(ctx context.Context, id uint64, cmd UpdateFieldCommand) error {
	if verr := cmd.Validate(); verr != nil {
		return verr
	}
	if _, err := s.fields.GetByID(ctx, id); err != nil {
		return err
	}
	f := &model.Field{
		Base:      model.Base{ID: id},
		Name:      strings.TrimSpace(cmd.Name),
		Location:  strings.TrimSpace(cmd.Location),
		SoilType:  strings.TrimSpace(cmd.SoilType),
		Elevation: cmd.Elevation,
	}
	return s.fields.Update(ctx, f)
}

// DeleteField deactivates a field.  Crops planted on it are deliberately
// left untouched; there is no cascading soft-delete.
func (s *FieldCommandService) DeleteField(ctx context.Context, id uint64) error {
	return s.fields.Delete(ctx, id)
}
