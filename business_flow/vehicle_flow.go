// Package businessflow contains the core business logic and use cases for catalog and valuation workflows
package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lilacbtch/carlytics/app/dto"
	"github.com/lilacbtch/carlytics/models"
	"github.com/lilacbtch/carlytics/pricing"
	"github.com/lilacbtch/carlytics/repository"
	"github.com/lilacbtch/carlytics/utils"
	"github.com/redis/go-redis/v9"
)

// VehicleFlow handles catalog browsing, valuation, and price trends
type VehicleFlow interface {
	Search(ctx context.Context, request *dto.SearchVehiclesRequest) (*dto.SearchVehiclesResponse, error)
	Brands(ctx context.Context) (*dto.ListBrandsResponse, error)
	Models(ctx context.Context, brand string) (*dto.ListModelsResponse, error)
	GetVehicle(ctx context.Context, vehicleID string) (*dto.VehicleDTO, error)
	Calculate(ctx context.Context, request *dto.CalculateValuationRequest, userID *uint, metadata *ClientMetadata) (*dto.ValuationResponse, error)
	Trends(ctx context.Context, vehicleID string) (*dto.PriceTrendResponse, error)
}

// VehicleFlowImpl implements the catalog and valuation business flow
type VehicleFlowImpl struct {
	vehicleRepo repository.VehicleRepository
	trendRepo   repository.PriceTrendRepository
	auditRepo   repository.AuditLogRepository
	engine      *pricing.Engine
	rc          *redis.Client
	cacheTTL    time.Duration
}

// NewVehicleFlow creates a new catalog and valuation flow instance
func NewVehicleFlow(
	vehicleRepo repository.VehicleRepository,
	trendRepo repository.PriceTrendRepository,
	auditRepo repository.AuditLogRepository,
	engine *pricing.Engine,
	rc *redis.Client,
	cacheTTL time.Duration,
) VehicleFlow {
	return &VehicleFlowImpl{
		vehicleRepo: vehicleRepo,
		trendRepo:   trendRepo,
		auditRepo:   auditRepo,
		engine:      engine,
		rc:          rc,
		cacheTTL:    cacheTTL,
	}
}

// Search lists catalog entries matching the given filters
func (vf *VehicleFlowImpl) Search(ctx context.Context, request *dto.SearchVehiclesRequest) (*dto.SearchVehiclesResponse, error) {
	filter := models.VehicleFilter{
		Brand:    request.Brand,
		Model:    request.Model,
		YearMin:  request.YearMin,
		YearMax:  request.YearMax,
		PriceMin: request.PriceMin,
		PriceMax: request.PriceMax,
		Category: request.Category,
	}

	vehicles, err := vf.vehicleRepo.ByFilter(ctx, filter, "brand ASC, model ASC, year DESC", utils.CatalogSearchLimit, 0)
	if err != nil {
		return nil, NewBusinessError("VEHICLE_SEARCH_FAILED", "Vehicle search failed", err)
	}

	items := make([]dto.VehicleDTO, 0, len(vehicles))
	for _, v := range vehicles {
		items = append(items, *ToVehicleDTO(v))
	}

	return &dto.SearchVehiclesResponse{Items: items}, nil
}

// Brands lists the distinct brands in the catalog. The list changes only when
// the catalog is reseeded, so it is served from cache when possible.
func (vf *VehicleFlowImpl) Brands(ctx context.Context) (*dto.ListBrandsResponse, error) {
	if vf.rc != nil {
		if bs, err := vf.rc.Get(ctx, utils.BrandsCacheKey).Bytes(); err == nil && len(bs) > 0 {
			var brands []string
			if err := json.Unmarshal(bs, &brands); err == nil {
				return &dto.ListBrandsResponse{Brands: brands}, nil
			}
		}
	}

	brands, err := vf.vehicleRepo.DistinctBrands(ctx)
	if err != nil {
		return nil, NewBusinessError("LIST_BRANDS_FAILED", "Failed to list brands", err)
	}

	if vf.rc != nil {
		if bs, err := json.Marshal(brands); err == nil {
			_ = vf.rc.Set(ctx, utils.BrandsCacheKey, bs, vf.cacheTTL).Err()
		}
	}

	return &dto.ListBrandsResponse{Brands: brands}, nil
}

// Models lists the distinct models of a brand, cached per brand
func (vf *VehicleFlowImpl) Models(ctx context.Context, brand string) (*dto.ListModelsResponse, error) {
	cacheKey := utils.ModelsCacheKeyPrefix + strings.ToLower(brand)

	if vf.rc != nil {
		if bs, err := vf.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var modelNames []string
			if err := json.Unmarshal(bs, &modelNames); err == nil {
				return &dto.ListModelsResponse{Brand: brand, Models: modelNames}, nil
			}
		}
	}

	modelNames, err := vf.vehicleRepo.DistinctModels(ctx, brand)
	if err != nil {
		return nil, NewBusinessError("LIST_MODELS_FAILED", "Failed to list models", err)
	}

	if vf.rc != nil {
		if bs, err := json.Marshal(modelNames); err == nil {
			_ = vf.rc.Set(ctx, cacheKey, bs, vf.cacheTTL).Err()
		}
	}

	return &dto.ListModelsResponse{Brand: brand, Models: modelNames}, nil
}

// GetVehicle returns a single catalog entry by its public id
func (vf *VehicleFlowImpl) GetVehicle(ctx context.Context, vehicleID string) (*dto.VehicleDTO, error) {
	vehicle, err := vf.vehicleRepo.ByVehicleID(ctx, vehicleID)
	if err != nil {
		return nil, NewBusinessError("GET_VEHICLE_FAILED", "Failed to load vehicle", err)
	}
	if vehicle == nil {
		return nil, NewBusinessError("VEHICLE_NOT_FOUND", "Vehicle not found", ErrVehicleNotFound)
	}

	return ToVehicleDTO(vehicle), nil
}

// Calculate estimates the value of a user-described vehicle. The base price
// comes from the catalog: an exact brand/model/year entry wins, otherwise the
// newest brand/model entry is used. An unrecognized vehicle is an error, not
// a guess.
func (vf *VehicleFlowImpl) Calculate(ctx context.Context, request *dto.CalculateValuationRequest, userID *uint, metadata *ClientMetadata) (*dto.ValuationResponse, error) {
	vehicle, err := vf.vehicleRepo.ByBrandModelYear(ctx, request.Brand, request.Model, request.Year)
	if err != nil {
		return nil, NewBusinessError("VALUATION_FAILED", "Valuation failed", err)
	}
	if vehicle == nil {
		vehicle, err = vf.vehicleRepo.ByBrandModel(ctx, request.Brand, request.Model)
		if err != nil {
			return nil, NewBusinessError("VALUATION_FAILED", "Valuation failed", err)
		}
	}
	if vehicle == nil {
		return nil, NewBusinessError("VEHICLE_NOT_FOUND", "Vehicle not found in catalog", ErrVehicleNotFound)
	}

	marketTrend := 1.0
	if request.MarketTrend != nil {
		marketTrend = *request.MarketTrend
	}

	result := vf.engine.Estimate(pricing.Input{
		BasePrice:   vehicle.BasePrice,
		ModelYear:   request.Year,
		Mileage:     request.Mileage,
		Condition:   pricing.ParseCondition(request.Condition),
		MarketTrend: marketTrend,
	})

	desc := fmt.Sprintf("Valuation calculated: %s %s %d -> %.2f", request.Brand, request.Model, request.Year, result.EstimatedValue)
	_ = vf.logCatalogEvent(ctx, userID, models.AuditActionValuationCalculated, desc, metadata)

	return &dto.ValuationResponse{
		EstimatedValue:         result.EstimatedValue,
		DepreciationPercentage: result.DepreciationPercentage,
		MileageImpact:          result.MileageImpact,
		ConditionFactor:        result.ConditionFactor,
		MarketTrend:            result.MarketTrend,
		Breakdown: dto.ValuationBreakdownDTO{
			BasePrice:        result.Breakdown.BasePrice,
			AgeYears:         result.Breakdown.AgeYears,
			ExpectedMileage:  result.Breakdown.ExpectedMileage,
			ActualMileage:    result.Breakdown.ActualMileage,
			ExcessMileage:    result.Breakdown.ExcessMileage,
			DepreciatedValue: result.Breakdown.DepreciatedValue,
			AfterCondition:   result.Breakdown.AfterCondition,
			FinalValue:       result.Breakdown.FinalValue,
		},
	}, nil
}

// Trends returns a vehicle's 12-month price history
func (vf *VehicleFlowImpl) Trends(ctx context.Context, vehicleID string) (*dto.PriceTrendResponse, error) {
	trend, err := vf.trendRepo.ByVehicleID(ctx, vehicleID)
	if err != nil {
		return nil, NewBusinessError("GET_TRENDS_FAILED", "Failed to load price trends", err)
	}
	if trend == nil {
		return nil, NewBusinessError("PRICE_TRENDS_NOT_FOUND", "Price trends not found", ErrPriceTrendsNotFound)
	}

	var points []models.PricePoint
	if len(trend.PriceHistory) > 0 {
		if err := json.Unmarshal(trend.PriceHistory, &points); err != nil {
			return nil, NewBusinessError("GET_TRENDS_FAILED", "Corrupt price history", err)
		}
	}

	history := make([]dto.PricePointDTO, 0, len(points))
	for _, p := range points {
		history = append(history, dto.PricePointDTO{
			Date:    p.Date.UTC().Format("2006-01-02"),
			Price:   p.Price,
			Mileage: p.Mileage,
		})
	}

	return &dto.PriceTrendResponse{
		VehicleID:    trend.VehicleID,
		Brand:        trend.Brand,
		Model:        trend.Model,
		Year:         trend.Year,
		PriceHistory: history,
		UpdatedAt:    trend.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (vf *VehicleFlowImpl) logCatalogEvent(ctx context.Context, userID *uint, action string, description string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		UserID:      userID,
		Action:      action,
		Description: &description,
		Success:     utils.ToPtr(true),
		IPAddress:   &ipAddress,
		UserAgent:   &userAgent,
	}

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		audit.RequestID = &requestID
	}

	return vf.auditRepo.Save(ctx, audit)
}
