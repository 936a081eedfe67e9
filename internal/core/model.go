package core

import (
	"strings"
	"time"
)

// DateLayout is the ISO-8601 calendar date layout used for every disposal date
const DateLayout = "2006-01-02"

// InlineImage is a binary image sent alongside a prompt
type InlineImage struct {
	Data     []byte
	MIMEType string
}

// WasteItem represents a waste item submitted for date inference or classification
type WasteItem struct {
	Name  string
	Image *InlineImage
}

// HasImage reports whether the item carries image bytes
func (w *WasteItem) HasImage() bool {
	return w.Image != nil && len(w.Image.Data) > 0
}

// Validate checks that the item carries a name or an image
func (w *WasteItem) Validate() error {
	if strings.TrimSpace(w.Name) == "" && !w.HasImage() {
		return ErrItemRequired
	}
	return nil
}

// InferenceResult is the outcome of assigning a disposal date to one waste item
type InferenceResult struct {
	WasteName    string `json:"wasteName"`
	DisposalDate string `json:"disposalDate,omitempty"`
	Error        string `json:"error,omitempty"`
	// Degraded marks a date that was not taken from the generation service
	Degraded bool `json:"degraded,omitempty"`
}

// Failed reports whether the result carries an error
func (r InferenceResult) Failed() bool {
	return r.Error != ""
}

// BatchResult aggregates per-row results in input order
type BatchResult struct {
	Results      []InferenceResult `json:"results"`
	SuccessCount int               `json:"success"`
	ErrorCount   int               `json:"errors"`
}

// Row is one parsed CSV record keyed by column name
type Row map[string]string

// Classification is the structured analysis of a waste item
type Classification struct {
	Result    string    `json:"result"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	ModelUsed string    `json:"-"`
	Retried   bool      `json:"-"`
}

// CalendarEvent is a scheduled disposal owned by the event store
type CalendarEvent struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Date       time.Time `json:"date"`
	OwnerEmail string    `json:"email"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Day returns the event date formatted as YYYY-MM-DD
func (e *CalendarEvent) Day() string {
	return e.Date.Format(DateLayout)
}
