package ports

import (
	"github.com/mikey/eco-scheduler/internal/core"
)

// LLMClient is a generation client owned by the application and closed on shutdown
type LLMClient interface {
	core.TextGenerationClient

	// Close releases the underlying provider connection
	Close() error
}
