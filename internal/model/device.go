package model

// Device is an IoT gateway installed on a crop.  At most one active device
// may exist per crop; a deactivated device frees the slot.
type Device struct {
	Base
	CropID uint64 // device.crop_id
	Name   string // device.name
}
