package model

// Crop is a planting on a field.
type Crop struct {
	Base
	FieldID  uint64 // crop.field_id
	CropType string // crop.crop_type
	Quantity int    // crop.quantity, always > 0
	Status   string // crop.status
}
