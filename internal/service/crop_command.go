package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agrovia/agrocontrol/internal/model"
	"github.com/agrovia/agrocontrol/internal/repository"
)

// CropCommandService owns the write path for crops and their dependent
// recommendation and history records.
type CropCommandService struct {
	crops     *repository.CropRepo
	fields    *repository.FieldRepo
	recs      *repository.RecommendationRepo
	histories *repository.HistoryRepo
}

// NewCropCommandService wires the service with the crop family
// repositories and the field repository used for parent checks.
func NewCropCommandService(crops *repository.CropRepo, fields *repository.FieldRepo,
	recs *repository.RecommendationRepo, histories *repository.HistoryRepo) *CropCommandService {
	return &CropCommandService{crops: crops, fields: fields, recs: recs, histories: histories}
}

// ---- crops ----

// CreateCropCommand is the crop creation payload.
type CreateCropCommand struct {
	FieldID  uint64 `json:"field_id"`
	CropType string `json:"crop_type"`
	Quantity int    `json:"quantity"`
	Status   string `json:"status"`
}

func (c *CreateCropCommand) Validate() *ValidationError {
	v := newValidation()
	if c.FieldID == 0 {
		v.add("field_id", "is required")
	}
	if !lenBetween(strings.TrimSpace(c.CropType), 3, 50) {
		v.add("crop_type", "must be between 3 and 50 characters")
	}
	if c.Quantity <= 0 {
		v.add("quantity", "must be greater than 0")
	}
	if !lenBetween(strings.TrimSpace(c.Status), 3, 20) {
		v.add("status", "must be between 3 and 20 characters")
	}
	if v.ok() {
		return nil
	}
	return v
}

// CreateCrop persists a new crop after confirming its field exists and is
// active.
func (s *CropCommandService) CreateCrop(ctx context.Context, cmd CreateCropCommand) (uint64, error) {
	if verr := cmd.Validate(); verr != nil {
		return 0, verr
	}
	if _, err := s.fields.GetByID(ctx, cmd.FieldID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("field %d: %w", cmd.FieldID, ErrParentNotFound)
		}
		return 0, err
	}
	c := &model.Crop{
		FieldID:  cmd.FieldID,
		CropType: strings.TrimSpace(cmd.CropType),
		Quantity: cmd.Quantity,
		Status:   strings.TrimSpace(cmd.Status),
	}
	return s.crops.Save(ctx, c)
}

// UpdateCropCommand replaces every mutable crop column.  The field
// reference is fixed at creation.
type UpdateCropCommand struct {
	CropType string `json:"crop_type"`
	Quantity int    `json:"quantity"`
	Status   string `json:"status"`
}

func (c *UpdateCropCommand) Validate() *ValidationError {
	cc := CreateCropCommand{FieldID: 1, CropType: c.CropType, Quantity: c.Quantity, Status: c.Status}
	return cc.Validate()
}

// UpdateCrop overwrites an active crop in place.
func (s *CropCommandService) UpdateCrop(ctx context.Context, id uint64, cmd UpdateCropCommand) error {
	if verr := cmd.Validate(); verr != nil {
		return verr
	}
	if _, err := s.crops.GetByID(ctx, id); err != nil {
		return err
	}
	c := &model.Crop{
		Base:     model.Base{ID: id},
		CropType: strings.TrimSpace(cmd.CropType),
		Quantity: cmd.Quantity,
		Status:   strings.TrimSpace(cmd.Status),
	}
	return s.crops.Update(ctx, c)
}

// DeleteCrop deactivates a crop without cascading to its dependents.
func (s *CropCommandService) DeleteCrop(ctx context.Context, id uint64) error {
	return s.crops.Delete(ctx, id)
}

// ---- recommendations ----

// CreateRecommendationCommand is the recommendation creation payload.
// CropID comes from the URL, not the body.
type CreateRecommendationCommand struct {
	CropID   uint64 `json:"-"`
	Content  string `json:"content"`
	Type     string `json:"type"`
	Priority int    `json:"priority"`
}

func (c *CreateRecommendationCommand) Validate() *ValidationError {
	v := newValidation()
	if strings.TrimSpace(c.Content) == "" {
		v.add("content", "is required")
	}
	if strings.TrimSpace(c.Type) == "" {
		v.add("type", "is required")
	}
	if c.Priority < 1 || c.Priority > 5 {
		v.add("priority", "must be between 1 and 5")
	}
	if v.ok() {
		return nil
	}
	return v
}

// CreateRecommendation persists an advisory note for an active crop.
func (s *CropCommandService) CreateRecommendation(ctx context.Context, cmd CreateRecommendationCommand) (uint64, error) {
	if verr := cmd.Validate(); verr != nil {
		return 0, verr
	}
	if _, err := s.crops.GetByID(ctx, cmd.CropID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("crop %d: %w", cmd.CropID, ErrParentNotFound)
		}
		return 0, err
	}
	rec := &model.Recommendation{
		CropID:   cmd.CropID,
		Content:  strings.TrimSpace(cmd.Content),
		Type:     strings.TrimSpace(cmd.Type),
		Priority: cmd.Priority,
	}
	return s.recs.Save(ctx, rec)
}

// UpdateRecommendationCommand replaces every mutable recommendation column.
type UpdateRecommendationCommand struct {
	Content  string `json:"content"`
	Type     string `json:"type"`
	Priority int    `json:"priority"`
}

func (c *UpdateRecommendationCommand) Validate() *ValidationError {
	cc := CreateRecommendationCommand{CropID: 1, Content: c.Content, Type: c.Type, Priority: c.Priority}
	return cc.Validate()
}

// UpdateRecommendation overwrites an active recommendation in place.
func (s *CropCommandService) UpdateRecommendation(ctx context.Context, id uint64, cmd UpdateRecommendationCommand) error {
	if verr := cmd.Validate(); verr != nil {
		return verr
	}
	if _, err := s.recs.GetByID(ctx, id); err != nil {
		return err
	}
	rec := &model.Recommendation{
		Base:     model.Base{ID: id},
		Content:  strings.TrimSpace(cmd.Content),
		Type:     strings.TrimSpace(cmd.Type),
		Priority: cmd.Priority,
	}
	return s.recs.Update(ctx, rec)
}

// DeleteRecommendation deactivates a recommendation.
func (s *CropCommandService) DeleteRecommendation(ctx context.Context, id uint64) error {
	return s.recs.Delete(ctx, id)
}

// ---- history ----

// CreateHistoryCommand is the savings-history creation payload.  CropID
// comes from the URL, not the body.
type CreateHistoryCommand struct {
	CropID            uint64    `json:"-"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	SavingsType       string    `json:"savings_type"`
	AmountSaved       float64   `json:"amount_saved"`
	UnitOfMeasurement string    `json:"unit_of_measurement"`
	PercentageSaved   float64   `json:"percentage_saved"`
}

func (c *CreateHistoryCommand) Validate() *ValidationError {
	v := newValidation()
	if c.StartDate.IsZero() {
		v.add("start_date", "is required")
	}
	if c.EndDate.IsZero() {
		v.add("end_date", "is required")
	} else if !c.EndDate.After(c.StartDate) {
		v.add("end_date", "must be after start_date")
	}
	if strings.TrimSpace(c.SavingsType) == "" {
		v.add("savings_type", "is required")
	}
	if c.AmountSaved <= 0 {
		v.add("amount_saved", "must be greater than 0")
	}
	if strings.TrimSpace(c.UnitOfMeasurement) == "" {
		v.add("unit_of_measurement", "is required")
	}
	if c.PercentageSaved < 0 || c.PercentageSaved > 100 {
		v.add("percentage_saved", "must be between 0 and 100")
	}
	if v.ok() {
		return nil
	}
	return v
}

// CreateHistory persists a savings record for an active crop.
func (s *CropCommandService) CreateHistory(ctx context.Context, cmd CreateHistoryCommand) (uint64, error) {
	if verr := cmd.Validate(); verr != nil {
		return 0, verr
	}
	if _, err := s.crops.GetByID(ctx, cmd.CropID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("crop %d: %w", cmd.CropID, ErrParentNotFound)
		}
		return 0, err
	}
	h := &model.History{
		CropID:            cmd.CropID,
		StartDate:         cmd.StartDate,
		EndDate:           cmd.EndDate,
		SavingsType:       strings.TrimSpace(cmd.SavingsType),
		AmountSaved:       cmd.AmountSaved,
		UnitOfMeasurement: strings.TrimSpace(cmd.UnitOfMeasurement),
		PercentageSaved:   cmd.PercentageSaved,
	}
	return s.histories.Save(ctx, h)
}

// UpdateHistoryCommand replaces every mutable history column.
type UpdateHistoryCommand struct {
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	SavingsType       string    `json:"savings_type"`
	AmountSaved       float64   `json:"amount_saved"`
	UnitOfMeasurement string    `json:"unit_of_measurement"`
	PercentageSaved   float64   `json:"percentage_saved"`
}

func (c *UpdateHistoryCommand) Validate() *ValidationError {
	cc := CreateHistoryCommand{
		CropID:            1,
		StartDate:         c.StartDate,
		EndDate:           c.EndDate,
		SavingsType:       c.SavingsType,
		AmountSaved:       c.AmountSaved,
		UnitOfMeasurement: c.UnitOfMeasurement,
		PercentageSaved:   c.PercentageSaved,
	}
	return cc.Validate()
}

// UpdateHistory overwrites an active history record in place.
func (s *CropCommandService) UpdateHistory(ctx context.Context, id uint64, cmd UpdateHistoryCommand) error {
	if verr := cmd.Validate(); verr != nil {
		return verr
	}
	if _, err := s.histories.GetByID(ctx, id); err != nil {
		return err
	}
	h := &model.History{
		Base:              model.Base{ID: id},
		StartDate:         cmd.StartDate,
		EndDate:           cmd.EndDate,
		SavingsType:       strings.TrimSpace(cmd.SavingsType),
		AmountSaved:       cmd.AmountSaved,
		UnitOfMeasurement: strings.TrimSpace(cmd.UnitOfMeasurement),
		PercentageSaved:   cmd.PercentageSaved,
	}
	return s.histories.Update(ctx, h)
}

// DeleteHistory deactivates a history record.
func (s *CropCommandService) DeleteHistory(ctx context.Context, id uint64) error {
	return s.histories.Delete(ctx, id)
}
