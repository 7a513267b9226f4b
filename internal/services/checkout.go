package service

import (
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/retail-management-platform/internal/cache"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/errors"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/metrics"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/models"
	repository "github.com/aaravmahajanofficial/retail-management-platform/internal/repositories"
	"github.com/google/uuid"
)

// loyaltyEarnDivisor converts a charged total into earned points: one point
// per full 10 currency units, fractions discarded.
const loyaltyEarnDivisor = 10

// OrderEventPublisher announces committed orders to interested consumers.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
}

// ReceiptNotifier delivers the order receipt to the customer.
type ReceiptNotifier interface {
	SendOrderReceipt(ctx context.Context, customer *models.Customer, order *models.Order) error
}

type CheckoutService interface {
	// Checkout runs the full purchase workflow for a customer's cart. With
	// req.Confirm false it returns a priced preview and commits nothing.
	Checkout(ctx context.Context, customerID uuid.UUID, req *models.CheckoutRequest) (*models.CheckoutResult, error)
}

type checkoutService struct {
	checkoutRepo repository.CheckoutRepository
	customerRepo repository.CustomerRepository
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	productCache cache.Cache
	publisher    OrderEventPublisher
	notifier     ReceiptNotifier
}

func NewCheckoutService(
	checkoutRepo repository.CheckoutRepository,
	customerRepo repository.CustomerRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	productCache cache.Cache,
	publisher OrderEventPublisher,
	notifier ReceiptNotifier,
) CheckoutService {
	return &checkoutService{
		checkoutRepo: checkoutRepo,
		customerRepo: customerRepo,
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		productCache: productCache,
		publisher:    publisher,
		notifier:     notifier,
	}
}

func (s *checkoutService) Checkout(ctx context.Context, customerID uuid.UUID, req *models.CheckoutRequest) (*models.CheckoutResult, error) {

	customer, err := s.customerRepo.GetCustomerByID(ctx, customerID)
	if err != nil {
		return nil, errors.NotFoundError("Customer not found").WithError(err)
	}

	lines, err := s.cartRepo.GetCartLines(ctx, customerID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if len(lines) == 0 {
		return &models.CheckoutResult{
			CheckedOut:    false,
			Message:       "Cart is empty",
			LoyaltyPoints: customer.LoyaltyPoints,
		}, nil
	}

	if err := s.verifyStock(ctx, lines); err != nil {
		return nil, err
	}

	var total float64
	for _, line := range lines {
		total += line.LineTotal()
	}

	if req.RedeemPoints > customer.LoyaltyPoints {
		return nil, errors.ValidationError(
			fmt.Sprintf("Cannot redeem %d points, balance is %d", req.RedeemPoints, customer.LoyaltyPoints))
	}

	chargedTotal := total - float64(req.RedeemPoints)
	if chargedTotal < 0 {
		chargedTotal = 0
	}

	earnedPoints := int(chargedTotal) / loyaltyEarnDivisor

	if !req.Confirm {
		return &models.CheckoutResult{
			CheckedOut:    false,
			Message:       "Checkout not confirmed",
			LoyaltyPoints: customer.LoyaltyPoints,
			ChargedTotal:  chargedTotal,
		}, nil
	}

	order := buildOrder(customerID, lines, chargedTotal, req.RedeemPoints, earnedPoints)
	newPoints := customer.LoyaltyPoints - req.RedeemPoints + earnedPoints

	if err := s.checkoutRepo.CommitCheckout(ctx, order, lines, newPoints); err != nil {
		return nil, stockErrorOrInternal(err)
	}

	customer.LoyaltyPoints = newPoints

	s.invalidateProducts(ctx, lines)

	metrics.RecordOrder(chargedTotal, order.PointsRedeemed, order.PointsEarned)

	slog.InfoContext(ctx, "Checkout committed",
		slog.String("orderId", order.ID.String()),
		slog.String("customerId", customerID.String()),
		slog.Float64("chargedTotal", chargedTotal),
		slog.Int("pointsRedeemed", order.PointsRedeemed),
		slog.Int("pointsEarned", order.PointsEarned))

	s.announceOrder(ctx, customer, order)

	return &models.CheckoutResult{
		CheckedOut:    true,
		Message:       "Order placed",
		Order:         order,
		LoyaltyPoints: customer.LoyaltyPoints,
		ChargedTotal:  chargedTotal,
	}, nil
}

// verifyStock is an advisory pre-check against unlocked rows. The commit
// transaction re-checks under row locks, so a pass here can still lose the
// race; the point is to fail fast before any pricing work.
func (s *checkoutService) verifyStock(ctx context.Context, lines []models.CartLine) error {

	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}

	levels, err := s.productRepo.GetStockLevels(ctx, ids)
	if err != nil {
		return errors.DatabaseError("Failed to check stock").WithError(err)
	}

	available := make(map[uuid.UUID]int, len(levels))
	for _, level := range levels {
		available[level.ProductID] = level.Available
	}

	for _, line := range lines {
		units, exists := available[line.ProductID]
		if !exists {
			return errors.InsufficientStockError(
				fmt.Sprintf("'%s' is no longer available", line.ProductName))
		}

		if line.Quantity > units {
			return errors.InsufficientStockError(
				fmt.Sprintf("Only %d units of '%s' are available, cart has %d", units, line.ProductName, line.Quantity))
		}
	}

	return nil
}

// invalidateProducts drops the cached reads of every purchased product; the
// commit just decremented their stock.
func (s *checkoutService) invalidateProducts(ctx context.Context, lines []models.CartLine) {

	for _, line := range lines {
		if err := s.productCache.Delete(ctx, cache.Key(cache.ProductKeyPrefix, line.ProductID.String())); err != nil {
			slog.WarnContext(ctx, "Product cache invalidation failed",
				slog.String("productId", line.ProductID.String()),
				slog.String("error", err.Error()))
		}
	}
}

func (s *checkoutService) announceOrder(ctx context.Context, customer *models.Customer, order *models.Order) {

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
			slog.WarnContext(ctx, "Order event publish failed",
				slog.String("orderId", order.ID.String()),
				slog.String("error", err.Error()))
		}
	}

	if s.notifier != nil {
		if err := s.notifier.SendOrderReceipt(ctx, customer, order); err != nil {
			slog.WarnContext(ctx, "Receipt delivery failed",
				slog.String("orderId", order.ID.String()),
				slog.String("error", err.Error()))
		}
	}
}

// buildOrder records the charged (post-redemption) total; the redeemed and
// earned point counts preserve how the charge was arrived at.
func buildOrder(customerID uuid.UUID, lines []models.CartLine, chargedTotal float64, redeemed, earned int) *models.Order {

	order := &models.Order{
		ID:             uuid.New(),
		CustomerID:     customerID,
		TotalAmount:    chargedTotal,
		PointsRedeemed: redeemed,
		PointsEarned:   earned,
	}

	for _, line := range lines {
		order.Items = append(order.Items, models.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
	}

	return order
}

func stockErrorOrInternal(err error) error {

	var stockErr *models.InsufficientStockError
	if goerrors.As(err, &stockErr) {
		return errors.InsufficientStockError(
			fmt.Sprintf("Only %d units of '%s' are available, cart has %d",
				stockErr.Available, stockErr.ProductName, stockErr.Requested))
	}

	return errors.DatabaseError("Failed to commit checkout").WithError(err)
}
