package service

import (
	"context"
	"time"

	"github.com/agrovia/agrocontrol/internal/model"
	"github.com/agrovia/agrocontrol/internal/repository"
)

// CropView is the response shape for crops.
type CropView struct {
	ID         uint64    `json:"id"`
	FieldID    uint64    `json:"field_id"`
	CropType   string    `json:"crop_type"`
	Quantity   int       `json:"quantity"`
	Status     string    `json:"status"`
	CreateDate time.Time `json:"create_date"`
}

// RecommendationView is the response shape for recommendations.
type RecommendationView struct {
	ID         uint64    `json:"id"`
	CropID     uint64    `json:"crop_id"`
	Content    string    `json:"content"`
	Type       string    `json:"type"`
	Priority   int       `json:"priority"`
	CreateDate time.Time `json:"create_date"`
}

// HistoryView is the response shape for savings history.
type HistoryView struct {
	ID                uint64    `json:"id"`
	CropID            uint64    `json:"crop_id"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	SavingsType       string    `json:"savings_type"`
	AmountSaved       float64   `json:"amount_saved"`
	UnitOfMeasurement string    `json:"unit_of_measurement"`
	PercentageSaved   float64   `json:"percentage_saved"`
	CreateDate        time.Time `json:"create_date"`
}

func toCropView(c *model.Crop) CropView {
	return CropView{ID: c.ID, FieldID: c.FieldID, CropType: c.CropType,
		Quantity: c.Quantity, Status: c.Status, CreateDate: c.CreateDate}
}

func toRecommendationView(r *model.Recommendation) RecommendationView {
	return RecommendationView{ID: r.ID, CropID: r.CropID, Content: r.Content,
		Type: r.Type, Priority: r.Priority, CreateDate: r.CreateDate}
}

func toHistoryView(h *model.History) HistoryView {
	return HistoryView{ID: h.ID, CropID: h.CropID, StartDate: h.StartDate, EndDate: h.EndDate,
		SavingsType: h.SavingsType, AmountSaved: h.AmountSaved,
		UnitOfMeasurement: h.UnitOfMeasurement, PercentageSaved: h.PercentageSaved,
		CreateDate: h.CreateDate}
}

// CropQueryService owns the read path for crops, recommendations and
// history records.
type CropQueryService struct {
	crops     *repository.CropRepo
	recs      *repository.RecommendationRepo
	histories *repository.HistoryRepo
}

// NewCropQueryService wires the service with the crop family repositories.
func NewCropQueryService(crops *repository.CropRepo, recs *repository.RecommendationRepo,
	histories *repository.HistoryRepo) *CropQueryService {
	return &CropQueryService{crops: crops, recs: recs, histories: histories}
}

// GetAllCrops returns every active crop.
func (s *CropQueryService) GetAllCrops(ctx context.Context) ([]CropView, error) {
	list, err := s.crops.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CropView, 0, len(list))
	for _, c := range list {
		out = append(out, toCropView(c))
	}
	return out, nil
}

// GetCropByID returns an active crop by id.
func (s *CropQueryService) GetCropByID(ctx context.Context, id uint64) (*CropView, error) {
	c, err := s.crops.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := toCropView(c)
	return &v, nil
}

// GetCropsByFieldID returns the active crops planted on a field.
func (s *CropQueryService) GetCropsByFieldID(ctx context.Context, fieldID uint64) ([]CropView, error) {
	list, err := s.crops.GetByFieldID(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	out := make([]CropView, 0, len(list))
	for _, c := range list {
		out = append(out, toCropView(c))
	}
	return out, nil
}

// GetRecommendationByID returns an active recommendation by id.
func (s *CropQueryService) GetRecommendationByID(ctx context.Context, id uint64) (*RecommendationView, error) {
	r, err := s.recs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := toRecommendationView(r)
	return &v, nil
}

// GetRecommendationsByCropID returns the active recommendations of a crop.
func (s *CropQueryService) GetRecommendationsByCropID(ctx context.Context, cropID uint64) ([]RecommendationView, error) {
	list, err := s.recs.GetByCropID(ctx, cropID)
	if err != nil {
		return nil, err
	}
	out := make([]RecommendationView, 0, len(list))
	for _, r := range list {
		out = append(out, toRecommendationView(r))
	}
	return out, nil
}

// GetHistoryByCropID returns the active savings records of a crop.
func (s *CropQueryService) GetHistoryByCropID(ctx context.Context, cropID uint64) ([]HistoryView, error) {
	list, err := s.histories.GetByCropID(ctx, cropID)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryView, 0, len(list))
	for _, h := range list {
		out = append(out, toHistoryView(h))
	}
	return out, nil
}
