package ecs

import "errors"

var (
	ErrCapacityExceeded   = errors.New("ecs: entity capacity exceeded")
	ErrInvalidEntity      = errors.New("ecs: invalid entity")
	ErrSlotOccupied       = errors.New("ecs: entity slot occupied")
	ErrInvalidResize      = errors.New("ecs: invalid resize")
	ErrDuplicateComponent = errors.New("ecs: duplicate component")
	ErrNilComponent       = errors.New("ecs: component is nil")
)
