package lookup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/xm-shop/crm-api/internal/application/dto"
	"github.com/xm-shop/crm-api/internal/application/ports"
	"github.com/xm-shop/crm-api/internal/domain"
)

// VINDecoder decodes a VIN into vehicle data.
type VINDecoder interface {
	DecodeVIN(ctx context.Context, vin string) (*dto.VINDecodeDTO, error)
}

// TrimLister lists vehicle trims for a make and optional year.
type TrimLister interface {
	GetTrims(ctx context.Context, make string, year int) ([]dto.TrimDTO, error)
}

// partsSites restricts the live search to known parts retailers.
const partsSites = "(site:autozone.com OR site:advanceautoparts.com OR site:oreillyauto.com OR site:napaonline.com OR site:rockauto.com)"

// llmTimeout bounds the search-plus-format pipeline per external call.
const llmTimeout = 30 * time.Second

// UseCase bundles the vehicle and parts lookups behind the API.
type UseCase struct {
	vins   VINDecoder
	trims  TrimLister
	search ports.WebSearchService
	llm    ports.LLMService
	log    zerolog.Logger
}

func NewUseCase(vins VINDecoder, trims TrimLister, search ports.WebSearchService, llm ports.LLMService, log zerolog.Logger) *UseCase {
	return &UseCase{vins: vins, trims: trims, search: search, llm: llm, log: log}
}

// DecodeVIN decodes a VIN via NHTSA VPIC.
func (uc *UseCase) DecodeVIN(ctx context.Context, vin string) (*dto.VINDecodeDTO, error) {
	return uc.vins.DecodeVIN(ctx, vin)
}

// ListTrims lists trims for a year and make.
func (uc *UseCase) ListTrims(ctx context.Context, year int, makeName string) (*dto.TrimListDTO, error) {
	if year <= 0 || strings.TrimSpace(makeName) == "" {
		return nil, fmt.Errorf("%w: provide year and make", domain.ErrInvalidInput)
	}
	trims, err := uc.trims.GetTrims(ctx, makeName, year)
	if err != nil {
		return nil, err
	}
	return &dto.TrimListDTO{Make: makeName, Year: year, Count: len(trims), Trims: trims}, nil
}

// MatchTrims lists a make's trims filtered by model name, case-insensitive
// contains. The editor uses it to suggest parts-compatible trims.
func (uc *UseCase) MatchTrims(ctx context.Context, makeName, model string) (*dto.TrimListDTO, error) {
	makeName, model = strings.TrimSpace(makeName), strings.TrimSpace(model)
	if makeName == "" || model == "" {
		return nil, fmt.Errorf("%w: provide make and model", domain.ErrInvalidInput)
	}
	trims, err := uc.trims.GetTrims(ctx, makeName, 0)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(model)
	matched := make([]dto.TrimDTO, 0, len(trims))
	for _, t := range trims {
		if strings.Contains(strings.ToLower(t.ModelName), needle) {
			matched = append(matched, t)
		}
	}
	return &dto.TrimListDTO{Make: makeName, Count: len(matched), Trims: matched}, nil
}

// SearchParts runs the two-step parts pipeline: a live retailer-scoped web
// search, then the LLM distills the snippets into structured listings.
func (uc *UseCase) SearchParts(ctx context.Context, req dto.PartsSearchRequest) (*dto.PartsSearchDTO, error) {
	vinPart := ""
	if req.VIN != "" {
		vinPart = " VIN:" + req.VIN
	}
	query := fmt.Sprintf("%s %s%s near %s %s", req.Query, req.Vehicle, vinPart, req.ZipCode, partsSites)

	searchCtx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()
	results, err := uc.search.Search(searchCtx, query, 20)
	if err != nil {
		return nil, fmt.Errorf("parts search: %w", err)
	}
	if len(results) == 0 {
		return &dto.PartsSearchDTO{Listings: []dto.PartListingDTO{}, Note: "No parts found for this search."}, nil
	}

	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "STORE: %s\nPART: %s\nPRICE: %s\nURL: %s", r.Title, r.Content, extractPrice(r.Content), r.URL)
	}

	llmCtx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()
	out, err := uc.llm.ExtractPartListings(llmCtx, req, sb.String())
	if err != nil {
		return nil, fmt.Errorf("parts search: %w", err)
	}
	uc.log.Info().Str("query", req.Query).Str("vehicle", req.Vehicle).
		Int("listings", len(out.Listings)).Msg("parts search completed")
	return out, nil
}

// extractPrice pulls the first $xx.xx out of a snippet, "??" when absent.
func extractPrice(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] != '$' {
			continue
		}
		j := i + 1
		for j < len(text) && (text[j] >= '0' && text[j] <= '9' || text[j] == '.') {
			j++
		}
		if j > i+1 {
			return text[i:j]
		}
	}
	return "??"
}
