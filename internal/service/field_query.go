package service

import (
	"context"
	"time"

	"github.com/agrovia/agrocontrol/internal/model"
	"github.com/agrovia/agrocontrol/internal/repository"
)

// FieldView is the response shape for fields.
type FieldView struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"user_id"`
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	SoilType   string    `json:"soil_type"`
	Elevation  float64   `json:"elevation"`
	CreateDate time.Time `json:"create_date"`
}

func toFieldView(f *model.Field) FieldView {
	return FieldView{
		ID:         f.ID,
		UserID:     f.UserID,
		Name:       f.Name,
		Location:   f.Location,
		SoilType:   f.SoilType,
		Elevation:  f.Elevation,
		CreateDate: f.CreateDate,
	}
}

func toFieldViews(list []*model.Field) []FieldView {
	out := make([]FieldView, 0, len(list))
	for _, f := range list {
		out = append(out, toFieldView(f))
	}
	return out
}

// FieldQueryService owns the read path for fields.
type FieldQueryService struct {
	fields *repository.FieldRepo
}

// NewFieldQueryService wires the service with its repository.
func NewFieldQueryService(fields *repository.FieldRepo) *FieldQueryService {
	return &FieldQueryService{fields: fields}
}

// GetAllFields returns every active field.
func (s *FieldQueryService) GetAllFields(ctx context.Context) ([]FieldView, error) {
	list, err := s.fields.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return toFieldViews(list), nil
}

// GetFieldByID returns an active field by id.
func (s *FieldQueryService) GetFieldByID(ctx context.Context, id uint64) (*FieldView, error) {
	f, err := s.fields.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := toFieldView(f)
	return &v, nil
}

// GetFieldByName returns an active field by its unique name.
func (s *FieldQueryService) GetFieldByName(ctx context.Context, name string) (*FieldView, error) {
	f, err := s.fields.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	v := toFieldView(f)
	return &v, nil
}

// GetFieldsByUserID returns the active fields owned by a user.
func (s *FieldQueryService) GetFieldsByUserID(ctx context.Context, userID uint64) ([]FieldView, error) {
	list, err := s.fields.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toFieldViews(list), nil
}
