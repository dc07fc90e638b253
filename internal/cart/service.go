package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/feastly-app/feastly-backend/internal/catalog"
	"github.com/feastly-app/feastly-backend/internal/coupons"
	"github.com/feastly-app/feastly-backend/internal/pricing"
	"github.com/feastly-app/feastly-backend/internal/settings"
	"github.com/feastly-app/feastly-backend/pkg/config"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/logger"
	"github.com/feastly-app/feastly-backend/pkg/metrics"
	"github.com/feastly-app/feastly-backend/pkg/types"
)

// QuoteLine is one requested line in a quote.
type QuoteLine struct {
	ItemID       uuid.UUID
	VariantID    string
	AddonIDs     []string
	Quantity     int
	Instructions string
}

// QuoteRequest is the resolved input for a cart quote.
type QuoteRequest struct {
	StoreID        uuid.UUID
	UserID         uuid.UUID
	Lines          []QuoteLine
	DeliveryMethod enums.DeliveryMethod
	ZoneID         *uuid.UUID
	CouponCode     *string
	TipCents       int64
}

// Service prices carts and keeps recent summaries addressable by their
// content hash so order placement can freeze exactly what was quoted.
type Service interface {
	Quote(ctx context.Context, req QuoteRequest) (*types.CartSummary, error)
	CachedSummary(ctx context.Context, storeID uuid.UUID, contentHash string) (*types.CartSummary, error)
}

// summaryCache is the slice of the redis client the quote path uses.
type summaryCache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	QuoteCacheKey(storeID, contentHash string) string
}

type service struct {
	engine   *pricing.Engine
	settings settings.Service
	cache    summaryCache
	cfg      config.QuoteConfig
	metrics  *metrics.PricingMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the quote service. Metrics may be nil in tests.
func NewService(
	catalogSvc catalog.Service,
	couponSvc coupons.Service,
	settingsSvc settings.Service,
	cache summaryCache,
	cfg config.QuoteConfig,
	pricingMetrics *metrics.PricingMetrics,
	logg *logger.Logger,
) (Service, error) {
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if couponSvc == nil {
		return nil, fmt.Errorf("coupon service required")
	}
	if settingsSvc == nil {
		return nil, fmt.Errorf("settings service required")
	}
	if cache == nil {
		return nil, fmt.Errorf("summary cache required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	engine, err := pricing.NewEngine(pricing.Deps{
		Items:   catalogSvc,
		Coupons: couponResolver{svc: couponSvc},
	})
	if err != nil {
		return nil, err
	}
	return &service{
		engine:   engine,
		settings: settingsSvc,
		cache:    cache,
		cfg:      cfg,
		metrics:  pricingMetrics,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Quote prices the cart and caches the resulting summary under its content
// hash. Cache writes are best effort; a quote never fails because redis is
// down.
func (s *service) Quote(ctx context.Context, req QuoteRequest) (*types.CartSummary, error) {
	started := s.now()

	input, err := s.buildInput(ctx, req)
	if err != nil {
		s.metrics.IncQuoteFailure(string(pkgerrors.As(err).Code()))
		return nil, err
	}

	summary, err := s.engine.PriceCart(ctx, input)
	if err != nil {
		s.metrics.IncQuoteFailure(string(pkgerrors.As(err).Code()))
		return nil, err
	}

	ctx = s.logg.WithCartHash(ctx, summary.ContentHash)
	s.cacheSummary(ctx, req.StoreID, summary)
	s.metrics.ObserveQuote(summary.DeliveryMethod.String(), s.now().Sub(started))
	s.logg.Info(ctx, "cart quoted")

	return summary, nil
}

// CachedSummary returns a previously quoted summary by content hash.
func (s *service) CachedSummary(ctx context.Context, storeID uuid.UUID, contentHash string) (*types.CartSummary, error) {
	if contentHash == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content hash is required")
	}
	key := s.cache.QuoteCacheKey(storeID.String(), contentHash)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no quote found for this cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read quote cache")
	}
	var summary types.CartSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cached quote")
	}
	s.metrics.IncSummaryCacheRead()
	return &summary, nil
}

func (s *service) buildInput(ctx context.Context, req QuoteRequest) (pricing.CartInput, error) {
	input := pricing.CartInput{
		StoreID:             req.StoreID,
		UserID:              req.UserID,
		DeliveryMethod:      req.DeliveryMethod,
		CouponCode:          req.CouponCode,
		TipCents:            req.TipCents,
		MaxInstructionChars: s.cfg.MaxInstructionChars,
		Now:                 s.now().UTC(),
	}

	if req.StoreID == uuid.Nil {
		return input, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}

	for _, line := range req.Lines {
		input.Lines = append(input.Lines, pricing.LineSelection{
			ItemID:       line.ItemID,
			VariantID:    line.VariantID,
			AddonIDs:     line.AddonIDs,
			Quantity:     line.Quantity,
			Instructions: line.Instructions,
		})
	}

	if req.DeliveryMethod == enums.DeliveryMethodDelivery {
		if req.ZoneID == nil {
			return input, pkgerrors.New(pkgerrors.CodeValidation, "delivery zone id is required for delivery orders")
		}
		zone, err := s.settings.GetZone(ctx, *req.ZoneID, req.StoreID)
		if err != nil {
			return input, err
		}
		input.Zone = &pricing.Zone{
			ID:            zone.ID,
			Name:          zone.Name,
			FeeCents:      zone.FeeCents,
			MinOrderCents: zone.MinOrderCents,
		}
	}

	taxRules, err := s.settings.GetTaxRules(ctx, req.StoreID)
	if err != nil {
		return input, err
	}
	for _, rule := range taxRules {
		input.TaxRules = append(input.TaxRules, pricing.TaxRule{Label: rule.Label, RateBps: rule.RateBps})
	}

	feeRules, err := s.settings.GetFeeRules(ctx, req.StoreID)
	if err != nil {
		return input, err
	}
	for _, rule := range feeRules {
		input.FeeRules = append(input.FeeRules, pricing.FeeRule{
			Label:       rule.Label,
			Type:        rule.Type,
			AmountCents: rule.AmountCents,
			RateBps:     rule.RateBps,
		})
	}

	return input, nil
}

func (s *service) cacheSummary(ctx context.Context, storeID uuid.UUID, summary *types.CartSummary) {
	payload, err := json.Marshal(summary)
	if err != nil {
		s.logg.Error(ctx, "marshal quote for cache", err)
		return
	}
	key := s.cache.QuoteCacheKey(storeID.String(), summary.ContentHash)
	if err := s.cache.Set(ctx, key, payload, s.cfg.CacheTTL); err != nil {
		s.logg.Warn(ctx, "quote cache write failed")
	}
}
