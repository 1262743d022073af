package dto

// VINDecodeDTO is the flattened result of an NHTSA VPIC decode. Only the
// fields the shop actually uses; the full VPIC record has 140+ columns.
type VINDecodeDTO struct {
	VIN          string `json:"vin"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	ModelYear    string `json:"model_year"`
	Trim         string `json:"trim,omitempty"`
	BodyClass    string `json:"body_class,omitempty"`
	EngineModel  string `json:"engine_model,omitempty"`
	EngineCyl    string `json:"engine_cylinders,omitempty"`
	Displacement string `json:"displacement_l,omitempty"`
	FuelType     string `json:"fuel_type,omitempty"`
	DriveType    string `json:"drive_type,omitempty"`
	Transmission string `json:"transmission_style,omitempty"`
	PlantCountry string `json:"plant_country,omitempty"`
	ErrorText    string `json:"error_text,omitempty"`
}

// TrimDTO is one CarQuery trim row.
type TrimDTO struct {
	ModelID   string `json:"model_id"`
	MakeID    string `json:"make_id"`
	ModelName string `json:"model_name"`
	TrimName  string `json:"model_trim,omitempty"`
	Year      string `json:"model_year"`
	Body      string `json:"model_body,omitempty"`
	EngineCC  string `json:"model_engine_cc,omitempty"`
	EngineCyl string `json:"model_engine_cyl,omitempty"`
	Fuel      string `json:"model_engine_fuel,omitempty"`
	Drive     string `json:"model_drive,omitempty"`
}

// TrimListDTO is the response for the year/make trims lookup.
type TrimListDTO struct {
	Make  string    `json:"make"`
	Year  int       `json:"year"`
	Count int       `json:"count"`
	Trims []TrimDTO `json:"trims"`
}

// PartsSearchRequest body for POST /api/lookup/parts. Vehicle is free text
// like "2014 BMW 335i"; VIN narrows fitment when present.
type PartsSearchRequest struct {
	ZipCode string `json:"zipcode" validate:"required,min=5,max=10"`
	Vehicle string `json:"vehicle" validate:"required,max=200"`
	Query   string `json:"query" validate:"required,max=200"`
	VIN     string `json:"vin" validate:"omitempty,max=20"`
}

// PartListingDTO is one store listing in a parts search result.
type PartListingDTO struct {
	Title      string  `json:"title"`
	Store      string  `json:"store"`
	Price      string  `json:"price"`
	URL        string  `json:"url"`
	PartNumber string  `json:"part_number,omitempty"`
	Snippet    string  `json:"snippet,omitempty"`
	Confidence float64 `json:"confidence"`
}

// PartsSearchDTO is the response for a parts search.
type PartsSearchDTO struct {
	Listings []PartListingDTO `json:"listings"`
	Note     string           `json:"note,omitempty"`
}
