package columns

import (
	"slices"
	"strings"

	"go.uber.org/zap"
)

// WasteNameAliases are the accepted headers for the waste-name column
var WasteNameAliases = []string{"waste_name", "wastename", "waste name", "name"}

// Resolver selects a column by case-insensitive match against a set of aliases
type Resolver struct {
	aliases []string
	logger  *zap.Logger
}

// NewResolver creates a new column resolver
func NewResolver(aliases []string, logger *zap.Logger) *Resolver {
	// Normalize aliases (lowercase)
	normalized := make([]string, 0, len(aliases))
	for _, alias := range aliases {
		alias = strings.ToLower(strings.TrimSpace(alias))
		if alias != "" {
			normalized = append(normalized, alias)
		}
	}

	if len(normalized) > 0 && logger != nil {
		logger.Debug("Initialized column resolver", zap.Strings("aliases", normalized))
	}

	return &Resolver{
		aliases: normalized,
		logger:  logger,
	}
}

// NewWasteNameResolver creates a resolver for the waste-name column
func NewWasteNameResolver(logger *zap.Logger) *Resolver {
	return NewResolver(WasteNameAliases, logger)
}

// Aliases returns the normalized aliases
func (r *Resolver) Aliases() []string {
	return append([]string(nil), r.aliases...)
}

// Resolve returns the first header, in the given order, matching any alias.
// Headers are compared after trimming and lowercasing.
func (r *Resolver) Resolve(headers []string) (string, bool) {
	if len(r.aliases) == 0 || len(headers) == 0 {
		return "", false
	}

	for _, header := range headers {
		normalized := strings.ToLower(strings.TrimSpace(header))
		if slices.Contains(r.aliases, normalized) {
			if r.logger != nil {
				r.logger.Debug("Resolved column",
					zap.String("alias", normalized),
					zap.String("header", header))
			}
			return header, true
		}
	}

	return "", false
}
