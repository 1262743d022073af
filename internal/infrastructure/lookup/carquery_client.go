package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xm-shop/crm-api/internal/application/dto"
	"github.com/xm-shop/crm-api/internal/domain"
)

// CarQueryClient calls the public CarQuery getTrims endpoint. CarQuery
// answers in JSONP even without a callback parameter, so responses go
// through parseMaybeJSONP before decoding.
type CarQueryClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCarQueryClient(baseURL string) *CarQueryClient {
	return &CarQueryClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type carQueryTrims struct {
	Trims []dto.TrimDTO `json:"Trims"`
}

// GetTrims lists trims for a make, optionally restricted to a model year
// (year 0 means all years).
func (c *CarQueryClient) GetTrims(ctx context.Context, make string, year int) ([]dto.TrimDTO, error) {
	make = strings.TrimSpace(make)
	if make == "" {
		return nil, fmt.Errorf("%w: make is required", domain.ErrInvalidInput)
	}

	q := url.Values{}
	q.Set("cmd", "getTrims")
	q.Set("make", make)
	if year > 0 {
		q.Set("year", fmt.Sprint(year))
	}
	reqURL := c.baseURL + "/?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("carquery: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: carquery: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: carquery HTTP %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("carquery: read response: %w", err)
	}

	var trims carQueryTrims
	if err := parseMaybeJSONP(raw, &trims); err != nil {
		return nil, fmt.Errorf("carquery: %w", err)
	}
	return trims.Trims, nil
}

// parseMaybeJSONP decodes a body that may arrive as plain JSON or wrapped in
// a JSONP callback. It takes the substring between the first '{' and the
// last '}' (or '[' and ']') when the body does not start with JSON.
func parseMaybeJSONP(raw []byte, v any) error {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return fmt.Errorf("empty response body")
	}
	if text[0] == '{' || text[0] == '[' {
		return json.Unmarshal([]byte(text), v)
	}

	if first, last := strings.Index(text, "{"), strings.LastIndex(text, "}"); first != -1 && last > first {
		return json.Unmarshal([]byte(text[first:last+1]), v)
	}
	if first, last := strings.Index(text, "["), strings.LastIndex(text, "]"); first != -1 && last > first {
		return json.Unmarshal([]byte(text[first:last+1]), v)
	}
	return fmt.Errorf("unable to parse JSON/JSONP response")
}
