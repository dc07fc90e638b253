package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/internal/cart"
	"github.com/feastly-app/feastly-backend/internal/coupons"
	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/logger"
	"github.com/feastly-app/feastly-backend/pkg/metrics"
	"github.com/feastly-app/feastly-backend/pkg/types"
)

// PlaceRequest freezes a previously quoted cart into an order. ContentHash
// must reference a summary still present in the quote cache; the stored
// order carries that summary verbatim.
type PlaceRequest struct {
	StoreID         uuid.UUID
	UserID          uuid.UUID
	ContentHash     string
	DeliveryAddress *types.Address
}

// Service freezes quotes into orders and reads them back.
type Service interface {
	Place(ctx context.Context, req PlaceRequest) (*models.Order, error)
	Get(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error)
}

// txRunner is the transactional slice of the db client.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo    OrderRepository
	carts   cart.Service
	coupons coupons.Service
	tx      txRunner
	metrics *metrics.PricingMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService wires the order service. Metrics may be nil in tests.
func NewService(
	repo OrderRepository,
	cartSvc cart.Service,
	couponSvc coupons.Service,
	tx txRunner,
	pricingMetrics *metrics.PricingMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if cartSvc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if couponSvc == nil {
		return nil, fmt.Errorf("coupon service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		carts:   cartSvc,
		coupons: couponSvc,
		tx:      tx,
		metrics: pricingMetrics,
		logg:    logg,
		now:     time.Now,
	}, nil
}

// Place freezes the cached summary for the given content hash into an
// immutable order. Order creation and coupon redemption commit in one
// transaction, so a coupon use is counted exactly when its order exists.
func (s *service) Place(ctx context.Context, req PlaceRequest) (*models.Order, error) {
	if req.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if req.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}

	summary, err := s.carts.CachedSummary(ctx, req.StoreID, req.ContentHash)
	if err != nil {
		return nil, err
	}

	if summary.DeliveryMethod == enums.DeliveryMethodDelivery {
		if req.DeliveryAddress == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required for delivery orders")
		}
		if err := req.DeliveryAddress.Validate(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery address")
		}
	}

	order := &models.Order{
		ID:              uuid.New(),
		OrderNumber:     newOrderNumber(),
		UserID:          req.UserID,
		StoreID:         req.StoreID,
		Status:          enums.OrderStatusPlaced,
		DeliveryMethod:  summary.DeliveryMethod,
		DeliveryAddress: req.DeliveryAddress,
		Summary:         *summary,
		CouponCode:      appliedCouponCode(summary),
		PlacedAt:        s.now().UTC(),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if order.CouponCode != nil {
			if err := s.coupons.Redeem(ctx, tx, *order.CouponCode, order.UserID, order.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncOrderPlaced()
	ctx = s.logg.WithCartHash(ctx, summary.ContentHash)
	s.logg.Info(ctx, "order placed")

	return order, nil
}

// Get loads an order scoped to its owner.
func (s *service) Get(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// UpdateStatus advances the order through its lifecycle. Illegal transitions
// are rejected; the frozen summary is never touched.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	var order models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		found, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if !found.Status.CanTransitionTo(status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "illegal status transition").WithDetails(map[string]any{
				"from": found.Status,
				"to":   status,
			})
		}
		if err := repo.UpdateStatus(ctx, orderID, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		found.Status = status
		order = *found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func appliedCouponCode(summary *types.CartSummary) *string {
	for _, discount := range summary.Discounts {
		if discount.Code != nil {
			code := *discount.Code
			return &code
		}
	}
	return nil
}

// newOrderNumber generates a short human-readable reference. Uniqueness is
// enforced by the order_number index; collisions are practically impossible
// at this length.
func newOrderNumber() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "FE-" + strings.ToUpper(raw[:10])
}
