// Package dto contains Data Transfer Objects for API request and response structures
package dto

// VehicleDTO represents a catalog entry in API responses
type VehicleDTO struct {
	VehicleID      string  `json:"vehicle_id"`
	Brand          string  `json:"brand"`
	Model          string  `json:"model"`
	Year           int     `json:"year"`
	BasePrice      float64 `json:"base_price"`
	AverageMileage int     `json:"average_mileage"`
	Category       string  `json:"category"`
	ImageBase64    *string `json:"image_base64,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// SearchVehiclesRequest carries the catalog search filters. All fields are
// optional; brand and model match case-insensitively as substrings.
type SearchVehiclesRequest struct {
	Brand    *string  `query:"brand" validate:"omitempty,max=100"`
	Model    *string  `query:"model" validate:"omitempty,max=100"`
	YearMin  *int     `query:"year_min" validate:"omitempty,gte=1900,lte=2100"`
	YearMax  *int     `query:"year_max" validate:"omitempty,gte=1900,lte=2100"`
	PriceMin *float64 `query:"price_min" validate:"omitempty,gte=0"`
	PriceMax *float64 `query:"price_max" validate:"omitempty,gte=0"`
	Category *string  `query:"category" validate:"omitempty,oneof=sedan hatchback suv"`
}

// SearchVehiclesResponse wraps the catalog search results
type SearchVehiclesResponse struct {
	Items []VehicleDTO `json:"items"`
}

// ListBrandsResponse wraps the distinct brand list
type ListBrandsResponse struct {
	Brands []string `json:"brands"`
}

// ListModelsResponse wraps the distinct model list for a brand
type ListModelsResponse struct {
	Brand  string   `json:"brand"`
	Models []string `json:"models"`
}

// CalculateValuationRequest asks for a valuation of a user-described vehicle.
// The base price is resolved from the catalog by brand/model/year.
type CalculateValuationRequest struct {
	Brand       string   `json:"brand" validate:"required,max=100"`
	Model       string   `json:"model" validate:"required,max=100"`
	Year        int      `json:"year" validate:"required,gte=1900,lte=2100"`
	Mileage     int      `json:"mileage" validate:"gte=0"`
	Condition   string   `json:"condition" validate:"required,max=30"`
	MarketTrend *float64 `json:"market_trend,omitempty" validate:"omitempty,gt=0"`
}

// ValuationBreakdownDTO records every intermediate quantity of a valuation
type ValuationBreakdownDTO struct {
	BasePrice        float64 `json:"base_price"`
	AgeYears         int     `json:"age_years"`
	ExpectedMileage  int     `json:"expected_mileage"`
	ActualMileage    int     `json:"actual_mileage"`
	ExcessMileage    int     `json:"excess_mileage"`
	DepreciatedValue float64 `json:"depreciated_value"`
	AfterCondition   float64 `json:"after_condition"`
	FinalValue       float64 `json:"final_value"`
}

// ValuationResponse is the outcome of a valuation calculation
type ValuationResponse struct {
	EstimatedValue         float64               `json:"estimated_value"`
	DepreciationPercentage float64               `json:"depreciation_percentage"`
	MileageImpact          float64               `json:"mileage_impact"`
	ConditionFactor        float64               `json:"condition_factor"`
	MarketTrend            float64               `json:"market_trend"`
	Breakdown              ValuationBreakdownDTO `json:"breakdown"`
}

// PricePointDTO is one entry of a price history series
type PricePointDTO struct {
	Date    string  `json:"date"`
	Price   float64 `json:"price"`
	Mileage int     `json:"mileage"`
}

// PriceTrendResponse wraps a vehicle's price history
type PriceTrendResponse struct {
	VehicleID    string          `json:"vehicle_id"`
	Brand        string          `json:"brand"`
	Model        string          `json:"model"`
	Year         int             `json:"year"`
	PriceHistory []PricePointDTO `json:"price_history"`
	UpdatedAt    string          `json:"updated_at"`
}
