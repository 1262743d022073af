package lookup

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xm-shop/crm-api/internal/application/dto"
	"github.com/xm-shop/crm-api/internal/application/ports"
	"github.com/xm-shop/crm-api/internal/domain"
)

type fakeTrimLister struct {
	trims []dto.TrimDTO
}

func (f *fakeTrimLister) GetTrims(ctx context.Context, make string, year int) ([]dto.TrimDTO, error) {
	return f.trims, nil
}

type fakeSearch struct {
	results []ports.SearchResult
}

func (f *fakeSearch) Search(ctx context.Context, query string, maxResults int) ([]ports.SearchResult, error) {
	return f.results, nil
}

type fakeLLM struct {
	got string
	out *dto.PartsSearchDTO
}

func (f *fakeLLM) ExtractPartListings(ctx context.Context, req dto.PartsSearchRequest, snippets string) (*dto.PartsSearchDTO, error) {
	f.got = snippets
	return f.out, nil
}

func TestMatchTrimsFiltersByModel(t *testing.T) {
	trims := &fakeTrimLister{trims: []dto.TrimDTO{
		{ModelName: "335i"},
		{ModelName: "328i xDrive"},
		{ModelName: "X5"},
	}}
	uc := NewUseCase(nil, trims, nil, nil, zerolog.Nop())

	out, err := uc.MatchTrims(context.Background(), "BMW", "3")
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)

	_, err = uc.MatchTrims(context.Background(), "BMW", " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListTrimsValidatesInput(t *testing.T) {
	uc := NewUseCase(nil, &fakeTrimLister{}, nil, nil, zerolog.Nop())
	_, err := uc.ListTrims(context.Background(), 0, "BMW")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchPartsBuildsSnippets(t *testing.T) {
	search := &fakeSearch{results: []ports.SearchResult{
		{Title: "AutoZone", URL: "https://autozone.com/p1", Content: "Brake pads $54.99 in stock"},
	}}
	llm := &fakeLLM{out: &dto.PartsSearchDTO{
		Listings: []dto.PartListingDTO{{Title: "Duralast Gold", Store: "AutoZone", Price: "$54.99"}},
		Note:     "1 part found",
	}}
	uc := NewUseCase(nil, nil, search, llm, zerolog.Nop())

	out, err := uc.SearchParts(context.Background(), dto.PartsSearchRequest{
		ZipCode: "90210", Vehicle: "2014 BMW 335i", Query: "brake pads",
	})
	require.NoError(t, err)
	require.Len(t, out.Listings, 1)
	assert.Contains(t, llm.got, "STORE: AutoZone")
	assert.Contains(t, llm.got, "PRICE: $54.99")
	assert.Contains(t, llm.got, "URL: https://autozone.com/p1")
}

func TestSearchPartsEmptyResults(t *testing.T) {
	uc := NewUseCase(nil, nil, &fakeSearch{}, &fakeLLM{}, zerolog.Nop())
	out, err := uc.SearchParts(context.Background(), dto.PartsSearchRequest{
		ZipCode: "90210", Vehicle: "2014 BMW 335i", Query: "brake pads",
	})
	require.NoError(t, err)
	assert.Empty(t, out.Listings)
	assert.NotEmpty(t, out.Note)
}

func TestExtractPrice(t *testing.T) {
	assert.Equal(t, "$54.99", extractPrice("Brake pads $54.99 in stock"))
	assert.Equal(t, "$28", extractPrice("from $28 at RockAuto"))
	assert.Equal(t, "??", extractPrice("no price here"))
	assert.Equal(t, "??", extractPrice("trailing dollar $"))
}
