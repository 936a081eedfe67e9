package utils

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxNameLength bounds waste names embedded into prompts
const DefaultMaxNameLength = 200

// TextProcessor provides utilities for cleaning user-supplied waste names
type TextProcessor struct {
	logger        *zap.Logger
	maxNameLength int
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger, maxNameLength int) *TextProcessor {
	if maxNameLength <= 0 {
		maxNameLength = DefaultMaxNameLength
	}
	return &TextProcessor{
		logger:        logger,
		maxNameLength: maxNameLength,
	}
}

// TruncateText safely truncates text to the specified maximum size
// and ensures the result is valid UTF-8
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	tp.logger.Debug("Text truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_size", maxSize))

	return truncated
}

// SanitizeUTF8 drops invalid UTF-8 bytes and control characters
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) && !strings.ContainsFunc(text, isControl) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(text[i:]); size == 1 {
				continue
			}
		}
		if isControl(r) {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", b.Len()))

	return b.String()
}

// NormalizeName sanitizes, NFC-normalizes, collapses whitespace and truncates a waste name
func (tp *TextProcessor) NormalizeName(name string) string {
	cleaned := norm.NFC.String(tp.SanitizeUTF8(name))
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return tp.TruncateText(cleaned, tp.maxNameLength)
}

// Title renders a waste name as a calendar event title.
// A Caser is stateful, so one is built per call.
func (tp *TextProcessor) Title(name string) string {
	return cases.Title(language.English).String(tp.NormalizeName(name))
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}
