package engine

import "errors"

var (
	ErrRecordNotFound        = errors.New("record not found")
	ErrLayerNotFound         = errors.New("layer not found")
	ErrDuplicateRecord       = errors.New("record id already exists")
	ErrDuplicateLayer        = errors.New("layer id already exists")
	ErrUnknownTag            = errors.New("unknown element tag")
	ErrNoMeasurement         = errors.New("no measurement in progress")
	ErrMeasurementIncomplete = errors.New("measurement needs more vertices")
)
