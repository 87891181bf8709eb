package model

// Recommendation is an advisory note attached to a crop.  Priority runs
// from 1 (lowest) to 5 (highest).
type Recommendation struct {
	Base
	CropID   uint64 // recommendation.crop_id
	Content  string // recommendation.content
	Type     string // recommendation.type
	Priority int    // recommendation.priority, 1..5
}
