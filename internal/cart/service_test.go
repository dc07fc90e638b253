package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/internal/catalog"
	"github.com/feastly-app/feastly-backend/internal/coupons"
	"github.com/feastly-app/feastly-backend/pkg/config"
	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/logger"
)

type stubCatalog struct {
	items map[uuid.UUID]*catalog.ItemSnapshot
}

func (s *stubCatalog) GetItem(_ context.Context, id uuid.UUID) (*catalog.ItemSnapshot, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item not found")
	}
	return item, nil
}

type stubCouponSvc struct {
	coupon      *models.Coupon
	eligibility coupons.Eligibility
}

func (s *stubCouponSvc) GetCoupon(_ context.Context, _ string) (*models.Coupon, error) {
	if s.coupon == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	return s.coupon, nil
}

func (s *stubCouponSvc) CheckEligibility(_ context.Context, _ *models.Coupon, _, _ uuid.UUID, _ int64, _ time.Time) (coupons.Eligibility, error) {
	return s.eligibility, nil
}

func (s *stubCouponSvc) Redeem(_ context.Context, _ *gorm.DB, _ string, _, _ uuid.UUID) error {
	return nil
}

type stubSettings struct {
	zone     *models.DeliveryZone
	taxRules []models.TaxRule
	feeRules []models.FeeRule
}

func (s *stubSettings) GetZone(_ context.Context, zoneID, _ uuid.UUID) (*models.DeliveryZone, error) {
	if s.zone == nil || s.zone.ID != zoneID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery zone not found")
	}
	return s.zone, nil
}

func (s *stubSettings) GetTaxRules(_ context.Context, _ uuid.UUID) ([]models.TaxRule, error) {
	return s.taxRules, nil
}

func (s *stubSettings) GetFeeRules(_ context.Context, _ uuid.UUID) ([]models.FeeRule, error) {
	return s.feeRules, nil
}

type memoryCache struct {
	entries map[string]string
	setErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]string{}}
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[key] = string(value.([]byte))
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	value, ok := m.entries[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (m *memoryCache) QuoteCacheKey(storeID, contentHash string) string {
	return "feastly:quote:" + storeID + ":" + contentHash
}

func testItem(priceCents int64) *catalog.ItemSnapshot {
	return &catalog.ItemSnapshot{
		ID:             uuid.New(),
		StoreID:        uuid.New(),
		Name:           "Pad Thai",
		BasePriceCents: priceCents,
		Available:      true,
	}
}

func newQuoteService(t *testing.T, cat *stubCatalog, set *stubSettings, cache *memoryCache) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "cart-test", Level: zerolog.ErrorLevel})
	svc, err := NewService(cat, &stubCouponSvc{}, set, cache, config.QuoteConfig{
		CacheTTL:            5 * time.Minute,
		MaxInstructionChars: 280,
	}, nil, logg)
	require.NoError(t, err)
	return svc
}

func TestQuoteCachesSummaryByContentHash(t *testing.T) {
	item := testItem(1500)
	cache := newMemoryCache()
	svc := newQuoteService(t, &stubCatalog{items: map[uuid.UUID]*catalog.ItemSnapshot{item.ID: item}}, &stubSettings{}, cache)

	summary, err := svc.Quote(context.Background(), QuoteRequest{
		StoreID:        item.StoreID,
		UserID:         uuid.New(),
		Lines:          []QuoteLine{{ItemID: item.ID, Quantity: 2}},
		DeliveryMethod: enums.DeliveryMethodPickup,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3000), summary.GrandTotalCents)
	require.NotEmpty(t, summary.ContentHash)

	cached, err := svc.CachedSummary(context.Background(), item.StoreID, summary.ContentHash)
	require.NoError(t, err)
	require.Equal(t, summary.GrandTotalCents, cached.GrandTotalCents)
	require.Equal(t, summary.ContentHash, cached.ContentHash)
}

func TestQuoteSurvivesCacheWriteFailure(t *testing.T) {
	item := testItem(1000)
	cache := newMemoryCache()
	cache.setErr = goredis.ErrClosed
	svc := newQuoteService(t, &stubCatalog{items: map[uuid.UUID]*catalog.ItemSnapshot{item.ID: item}}, &stubSettings{}, cache)

	summary, err := svc.Quote(context.Background(), QuoteRequest{
		StoreID:        item.StoreID,
		UserID:         uuid.New(),
		Lines:          []QuoteLine{{ItemID: item.ID, Quantity: 1}},
		DeliveryMethod: enums.DeliveryMethodPickup,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1000), summary.GrandTotalCents)
}

func TestQuoteDeliveryRequiresZone(t *testing.T) {
	item := testItem(2000)
	svc := newQuoteService(t, &stubCatalog{items: map[uuid.UUID]*catalog.ItemSnapshot{item.ID: item}}, &stubSettings{}, newMemoryCache())

	_, err := svc.Quote(context.Background(), QuoteRequest{
		StoreID:        item.StoreID,
		UserID:         uuid.New(),
		Lines:          []QuoteLine{{ItemID: item.ID, Quantity: 1}},
		DeliveryMethod: enums.DeliveryMethodDelivery,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error without zone, got %v", err)
	}
}

func TestQuoteAppliesZoneTaxesAndFees(t *testing.T) {
	item := testItem(2000)
	zone := &models.DeliveryZone{ID: uuid.New(), StoreID: item.StoreID, Name: "Midtown", FeeCents: 399, MinOrderCents: 1000, Active: true}
	set := &stubSettings{
		zone:     zone,
		taxRules: []models.TaxRule{{Label: "Sales Tax", RateBps: 1000, Active: true}},
		feeRules: []models.FeeRule{{Label: "Bag Fee", Type: enums.FeeTypeFlat, AmountCents: 25, Active: true}},
	}
	svc := newQuoteService(t, &stubCatalog{items: map[uuid.UUID]*catalog.ItemSnapshot{item.ID: item}}, set, newMemoryCache())

	zoneID := zone.ID
	summary, err := svc.Quote(context.Background(), QuoteRequest{
		StoreID:        item.StoreID,
		UserID:         uuid.New(),
		Lines:          []QuoteLine{{ItemID: item.ID, Quantity: 1}},
		DeliveryMethod: enums.DeliveryMethodDelivery,
		ZoneID:         &zoneID,
	})
	require.NoError(t, err)

	require.Equal(t, int64(399), summary.DeliveryFeeCents)
	require.Equal(t, int64(200), summary.Taxes[0].AmountCents)
	require.Equal(t, int64(25), summary.Fees[0].AmountCents)
	require.Equal(t, int64(2000+399+200+25), summary.GrandTotalCents)
}

func TestCachedSummaryMissing(t *testing.T) {
	item := testItem(1000)
	svc := newQuoteService(t, &stubCatalog{items: map[uuid.UUID]*catalog.ItemSnapshot{item.ID: item}}, &stubSettings{}, newMemoryCache())

	_, err := svc.CachedSummary(context.Background(), item.StoreID, "deadbeef")
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
