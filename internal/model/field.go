package model

// Field is a plot of land owned by a user.  Field names are unique within
// the active set; a soft-deleted field frees its name for reuse.
type Field struct {
	Base
	UserID    uint64  // field.user_id
	Name      string  // field.name
	Location  string  // field.location
	SoilType  string  // field.soil_type
	Elevation float64 // field.elevation, meters, 1..8848
}
