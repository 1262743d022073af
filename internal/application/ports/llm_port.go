package ports

import (
	"context"

	"github.com/xm-shop/crm-api/internal/application/dto"
)

// LLMService is the outbound port for the language-model step of the parts
// search pipeline: it turns raw web search snippets into clean, structured
// store listings. Any adapter (Anthropic, OpenAI, a mock) implements this;
// the application layer only sees the contract.
type LLMService interface {
	// ExtractPartListings reads the search snippets and returns the listings
	// it can ground in them, plus a one-line summary note. The context should
	// carry a timeout; the call goes to an external API.
	ExtractPartListings(ctx context.Context, req dto.PartsSearchRequest, snippets string) (*dto.PartsSearchDTO, error)
}
