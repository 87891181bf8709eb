package model

import "time"

// History records a savings period for a crop, e.g. water saved over a
// month of drip irrigation.
type History struct {
	Base
	CropID            uint64    // history.crop_id
	StartDate         time.Time // history.start_date
	EndDate           time.Time // history.end_date, after StartDate
	SavingsType       string    // history.savings_type
	AmountSaved       float64   // history.amount_saved, > 0
	UnitOfMeasurement string    // history.unit_of_measurement
	PercentageSaved   float64   // history.percentage_saved, 0..100
}
