package model

import "errors"

// Domain error conditions. Repositories and services wrap these with
// context via fmt.Errorf("...: %w", err) so callers can branch with
// errors.Is at the delivery boundary.
var (
	// ErrValidation marks malformed input: bad time-range text,
	// from-date after due-date, unknown enum values.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing task, slot or schedule entry.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSlot marks a violation of the (user, date, range)
	// uniqueness constraint at the storage boundary.
	ErrDuplicateSlot = errors.New("duplicate slot")

	// ErrSlotOverlap marks a manual insert whose range intersects an
	// already persisted slot for the same task and date.
	ErrSlotOverlap = errors.New("slot overlaps an existing slot")

	// ErrGenerationService marks a failed call to the external
	// text-generation service.
	ErrGenerationService = errors.New("generation service failed")

	// ErrEmptySchedule marks generator output from which the lenient
	// parser recovered zero rows; nothing is persisted in that case.
	ErrEmptySchedule = errors.New("generated schedule is empty")
)
