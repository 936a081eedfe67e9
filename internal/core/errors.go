package core

import (
	"errors"
)

var (
	// ErrEmptyResponse is returned by generation clients when no candidate text came back
	ErrEmptyResponse = errors.New("empty response from generation service")
	// ErrItemRequired is returned when a waste item has neither a name nor an image
	ErrItemRequired = errors.New("waste name or image required")
	// ErrNoClassification is returned when the classification service gave no answer
	ErrNoClassification = errors.New("no response received from classification service")

	// ErrEmptyDataset is returned when a batch has no rows
	ErrEmptyDataset = &StructuralError{Reason: "The CSV file is empty or invalid"}
	// ErrMissingWasteColumn is returned when no column matches a waste-name alias
	ErrMissingWasteColumn = &StructuralError{Reason: `CSV must contain a column for waste name (e.g., "waste_name")`}
)

// Per-row error labels surfaced in InferenceResult.Error
const (
	MsgEmptyWasteName  = "Empty waste name"
	MsgNoResponse      = "No response received from AI service"
	MsgProcessingError = "Processing error"
	EmptyNameLabel     = "(empty)"
)

// StructuralError fails a whole batch before any row is processed
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return e.Reason
}

// IsStructural reports whether err is a wholesale batch input error
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}
