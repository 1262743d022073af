// Package lookup holds the HTTP clients for the free vehicle data APIs the
// shop uses: NHTSA VPIC for VIN decoding, CarQuery for trims, Tavily for
// live parts search.
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

// NHTSAClient calls the NHTSA VPIC decodevinvaluesextended endpoint.
type NHTSAClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewNHTSAClient(baseURL string) *NHTSAClient {
	return &NHTSAClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// vpicEnvelope: the "values extended" variant returns one flat record with
// every decoded column as a string field.
type vpicEnvelope struct {
	Results []struct {
		Make                 string `json:"Make"`
		Model                string `json:"Model"`
		ModelYear            string `json:"ModelYear"`
		Trim                 string `json:"Trim"`
		BodyClass            string `json:"BodyClass"`
		EngineModel          string `json:"EngineModel"`
		EngineCylinders      string `json:"EngineCylinders"`
		DisplacementL        string `json:"DisplacementL"`
		FuelTypePrimary      string `json:"FuelTypePrimary"`
		DriveType            string `json:"DriveType"`
		TransmissionStyle    string `json:"TransmissionStyle"`
		PlantCountry         string `json:"PlantCountry"`
		ErrorText            string `json:"ErrorText"`
	} `json:"Results"`
}

// DecodeVIN decodes a VIN. VINs shorter than 11 characters are rejected
// before the network call.
func (c *NHTSAClient) DecodeVIN(ctx context.Context, vin string) (*dto.VINDecodeDTO, error) {
	vin = strings.ToUpper(strings.TrimSpace(vin))
	if len(vin) < 11 {
		return nil, fmt.Errorf("%w: VIN appears too short", domain.ErrInvalidInput)
	}

	reqURL := fmt.Sprintf("%s/vehicles/decodevinvaluesextended/%s?format=json",
		c.baseURL, url.PathEscape(vin))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("nhtsa: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: nhtsa: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: nhtsa HTTP %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("nhtsa: read response: %w", err)
	}

	var envelope vpicEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("nhtsa: decode response: %w", err)
	}
	if len(envelope.Results) == 0 {
		return nil, fmt.Errorf("nhtsa: empty Results for VIN %s", vin)
	}

	r := envelope.Results[0]
	return &dto.VINDecodeDTO{
		VIN:          vin,
		Make:         r.Make,
		Model:        r.Model,
		ModelYear:    r.ModelYear,
		Trim:         r.Trim,
		BodyClass:    r.BodyClass,
		EngineModel:  r.EngineModel,
		EngineCyl:    r.EngineCylinders,
		Displacement: r.DisplacementL,
		FuelType:     r.FuelTypePrimary,
		DriveType:    r.DriveType,
		Transmission: r.TransmissionStyle,
		PlantCountry: r.PlantCountry,
		ErrorText:    r.ErrorText,
	}, nil
}
