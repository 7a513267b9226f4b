package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aaravmahajanofficial/retail-management-platform/internal/cache"
	appErrors "github.com/aaravmahajanofficial/retail-management-platform/internal/errors"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/models"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/retail-management-platform/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkoutMocks struct {
	checkoutRepo *mocks.CheckoutRepository
	customerRepo *mocks.CustomerRepository
	cartRepo     *mocks.CartRepository
	productRepo  *mocks.ProductRepository
	productCache *memoryCache
}

type stubPublisher struct {
	published []*models.Order
	err       error
}

func (p *stubPublisher) PublishOrderCreated(_ context.Context, order *models.Order) error {
	p.published = append(p.published, order)

	return p.err
}

type stubNotifier struct {
	receipts []*models.Order
	err      error
}

func (n *stubNotifier) SendOrderReceipt(_ context.Context, _ *models.Customer, order *models.Order) error {
	n.receipts = append(n.receipts, order)

	return n.err
}

func newCheckoutMocks() *checkoutMocks {
	return &checkoutMocks{
		checkoutRepo: new(mocks.CheckoutRepository),
		customerRepo: new(mocks.CustomerRepository),
		cartRepo:     new(mocks.CartRepository),
		productRepo:  new(mocks.ProductRepository),
		productCache: newMemoryCache(),
	}
}

func (m *checkoutMocks) service(publisher service.OrderEventPublisher, notifier service.ReceiptNotifier) service.CheckoutService {
	return service.NewCheckoutService(m.checkoutRepo, m.customerRepo, m.cartRepo, m.productRepo, m.productCache, publisher, notifier)
}

func (m *checkoutMocks) assertExpectations(t *testing.T) {
	t.Helper()
	m.checkoutRepo.AssertExpectations(t)
	m.customerRepo.AssertExpectations(t)
	m.cartRepo.AssertExpectations(t)
	m.productRepo.AssertExpectations(t)
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	pastaID := uuid.New()
	oilID := uuid.New()

	customer := func(points int) *models.Customer {
		return &models.Customer{
			ID:            customerID,
			FirstName:     "Ravi",
			LastName:      "Kumar",
			Email:         "ravi@example.com",
			LoyaltyPoints: points,
		}
	}

	// 2 x 6.00 + 1 x 10.00 = 22.00
	cartLines := func() []models.CartLine {
		return []models.CartLine{
			{CustomerID: customerID, ProductID: pastaID, Quantity: 2, UnitPrice: 6.00, ProductName: "Pasta"},
			{CustomerID: customerID, ProductID: oilID, Quantity: 1, UnitPrice: 10.00, ProductName: "Olive Oil"},
		}
	}

	stockLevels := func(pasta, oil int) []models.StockLevel {
		return []models.StockLevel{
			{ProductID: pastaID, Available: pasta},
			{ProductID: oilID, Available: oil},
		}
	}

	t.Run("Success - Order Committed", func(t *testing.T) {
		// Arrange
		m := newCheckoutMocks()
		publisher := &stubPublisher{}
		notifier := &stubNotifier{}
		checkoutService := m.service(publisher, notifier)

		m.customerRepo.On("GetCustomerByID", mock.Anything, customerID).Return(customer(50), nil).Once()
		m.cartRepo.On("GetCartLines", mock.Anything, customerID).Return(cartLines(), nil).Once()
		m.productRepo.On("GetStockLevels", mock.Anything, mock.Anything).Return(stockLevels(10, 1), nil).Once()
		m.checkoutRepo.On("CommitCheckout", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
			return o.CustomerID == customerID &&
				o.TotalAmount == 22.00 &&
				o.PointsRedeemed == 0 &&
				o.PointsEarned == 2 &&
				len(o.Items) == 2 &&
				o.Items[0].ProductName == "Pasta" &&
				o.Items[1].UnitPrice == 10.00
		}), mock.Anything, 52).Return(nil).Once()

		// Act
		result, err := checkoutService.Checkout(ctx, customerID, &models.CheckoutRequest{Confirm: true})

		// Assert
		assert.NoError(t, err)
		assert.True(t, result.CheckedOut)
		assert.Equal(t, 22.00, result.ChargedTotal)
		assert.Equal(t, 52, result.LoyaltyPoints)
		assert.NotNil(t, result.Order)
		assert.NotEqual(t, uuid.Nil, result.Order.ID)
		assert.Len(t, publisher.published, 1)
		assert.Len(t, notifier.receipts, 1)
		assert.Contains(t, m.productCache.deletes, cache.Key(cache.ProductKeyPrefix, pastaID.String()))
		assert.Contains(t, m.productCache.deletes, cache.Key(cache.ProductKeyPrefix, oilID.String()))
		m.assertExpectations(t)
	})

	t.Run("Success - Order Records The Charged Total", func(t *testing.T) {
		// Arrange: 3 x 10.00 = 30.00, redeem 25 of a 25 point balance. The
		// order must carry the 5.00 the customer actually paid, with the
		// redemption preserved in its point counts.
		m := newCheckoutMocks()
		checkoutService := m.service(nil, nil)

		riceID := uuid.New()
		riceLines := []models.CartLine{
			{CustomerID: customerID, ProductID: riceID, Quantity: 3, UnitPrice: 10.00, ProductName: "Basmati Rice"},
		}

		m.customerRepo.On("GetCustomerByID", mock.Anything, customerID).Return(customer(25), nil).Once()
		m.cartRepo.On("GetCartLines", mock.Anything, customerID).Return(riceLines, nil).Once()
		m.productRepo.On("GetStockLevels", mock.Anything, mock.Anything).
			Return([]models.StockLevel{{ProductID: riceID, Available: 3}}, nil).Once()

		var committed *models.Order

		m.checkoutRepo.On("CommitCheckout", mock.Anything, mock.AnythingOfType("*models.Order"), mock.Anything, 0).
			Run(func(args mock.Arguments) {
				committed = args.Get(1).(*models.Order)
			}).Return(nil).Once()

		// Act
		result, err := checkoutService.Checkout(ctx, customerID, &models.CheckoutRequest{RedeemPoints: 25, Confirm: true})

		// Assert
		assert.NoError(t, err)
		assert.True(t, result.CheckedOut)
		assert.Equal(t, 5.00, result.ChargedTotal)
		require.NotNil(t, committed)
		assert.Equal(t, 5.00, committed.TotalAmount)
		assert.Equal(t, 25, committed.PointsRedeemed)
		assert.Equal(t, 0, committed.PointsEarned)
		assert.Equal(t, 0, result.LoyaltyPoints)
		m.assertExpectations(t)
	})

	t.Run("Success - Redemption Covers Whole Total", func(t *testing.T) {
		// Arrange: balance 50, total 22, redeem 35. The charge drops to zero so
		// nothing is earned, leaving 50 - 35 = 15 points.
		m := newCheckoutMocks()
		checkoutService := m.service(nil, nil)

		m.customerRepo.On("GetCustomerByID", mock.Anything, customerID).Return(customer(50), nil).Once()
		m.cartRepo.On("GetCartLines", mock.Anything, customerID).Return(cartLines(), nil).Once()
		m.productRepo.On("GetStockLevels", mock.Anything, mock.Anything).Return(stockLevels(10, 1), nil).Once()
		m.checkoutRepo.On("CommitCheckout", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
			return o.TotalAmount == 0 && o.PointsRedeemed == 35 && o.PointsEarned == 0
		}), mock.Anything, 15).Return(nil).Once()

		// Act
		result, err := checkoutService.Checkout(ctx, customerID, &models.CheckoutRequest{RedeemPoints: 35, Confirm: true})

		// Assert
		assert.NoError(t, err)
		assert.True(t, result.CheckedOut)
		assert.Equal(t, 0.00, result.ChargedTotal)
		assert.Equal(t, 15, result.LoyaltyPoints)
		m.assertExpectations(t)
	})

	t.Run("Success - Accrual Truncates Fractions", func(t *testing.T) {
		// Arrange: 154.99 total minus 5 redeemed charges 149.99, which earns
		// 14 points, not 15.
		m := newCheckoutMocks()
		checkoutService := m.service(nil, nil)

		truffleID := uuid.New()
		truffleLines := []models.CartLine{
			{CustomerID: customerID, ProductID: truffleID, Quantity: 1, UnitPrice: 154.99, ProductName: "Truffle Oil"},
		}

		m.customerRepo.On("GetCustomerByID", mock.Anything, customerID).Return(customer(20), nil).Once()
		m.cartRepo.On("GetCartLines", mock.Anything, customerID).Return(truffleLines, nil).Once()
		m.productRepo.On("GetStockLevels", mock.Anything, mock.Anything).
			Return([]models.StockLevel{{ProductID: truffleID, Available: 2}}, nil).Once()
		m.checkoutRepo.On("CommitCheckout", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
			return o.PointsRedeemed == 5 && o.PointsEarned == 14
		}), mock.Anything, 29).Return(nil).Once()

		// Act
		result, err := checkoutService.Checkout(ctx, customerID, &models.CheckoutRequest{RedeemPoints: 5, Confirm: true})

		// Assert
		assert.NoError(t, err)
		assert.True(t, result.CheckedOut)
		assert.InDelta(t, 149.99, result.ChargedTotal, 0.001)
		assert.Equal(t, 29, result.LoyaltyPoints)
		m.assertExpectations(t)
	})

	t.Run("Success - Empty Cart Commits Nothing", func(t *testing.T) {
		// Arrange
		m := newCheckoutMocks()
		checkoutService := m.service(nil, nil)

		m.customerRepo.On("GetCustomerByID", mock.Anything, customerID).Return(customer(50), nil).Once()
		m.cartRepo.On("GetCartLines", mock.Anything, customerID).Return([]models.CartLine{}, nil).Once()

		// Act
		result, err := checkoutService.Checkout(ctx, customerID, &models.CheckoutRequest{Confirm: true})

		// Assert
		assert.NoError(t, err)
		assert.False(t, result.CheckedOut)
		assert.Equal(t, "Cart is empty", result.Message)
		assert.Equal(t, 50, result.LoyaltyPoints)
		m.checkoutRepo.AssertNotCalled(t, "CommitCheckout", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("Success - Unconfirmed Checkout Is A Priced Preview", func(t *testing.T) {
		// Arrange
		m := newCheckoutMocks()
		checkoutService := m.service(nil, nil)

		m.customerRepo.On("GetCustomerByID", mock.Anything, customerID).Return(customer(50), nil).Once()
		m.cartRepo.On("GetCartLines", mock.Anything, customerID).Return(cartLines(), nil).Once()
		m.productRepo.On("GetStockLevels", mock.Anything, mock.Anything).Return(stockLevels(10, 1), nil).Once()

		// Act
		result, err := checkoutService.Checkout(ctx, customerID, &models.CheckoutRequest{RedeemPoints: 10, Confirm: false})

		// Assert
		assert.NoError(t, err)
		assert.False(t, result.CheckedOut)
		assert.Equal(t, "Checkout not confirmed", result.Message)
		assert.Equal(t, 12.00, result.ChargedTotal)
		assert.Equal(t, 50, result.LoyaltyPoints)
		m.checkoutRepo.AssertNotCalled(t, "CommitCheckout", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("Failure - Redeeming More Than Balance", func(t *testing.T) {
		// Arrange
		m := newCheckoutMocks()
		checkoutService := m.service(nil, nil)

		m.customerRepo.On("GetCustomerByID", mock.Anything, customerID).Return(customer(5), nil).Once()
		m.cartRepo.On("GetCartLines", mock.Anything, customerID).Return(cartLines(), nil).Once()
		m.productRepo.On("GetStockLevels", mock.Anything, mock.Anything).Return(stockLevels(10, 1), nil).Once()

		// Act
		result, err := checkoutService.Checkout(ctx, customerID, &models.CheckoutRequest{RedeemPoints: 6, Confirm: true})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, result)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
		m.assertExpectations(t)
	})

	t.Run("Failure - Customer Not Found", func(t *testing.T) {
		// Arrange
		m := newCheckoutMocks()
		checkoutService := m.service(nil, nil)

		m.customerRepo.On("GetCustomerByID", mock.Anything, customerID).Return(nil, errors.New("no rows")).Once()

		// Act
		result, err := checkoutService.Checkout(ctx, customerID, &models.CheckoutRequest{Confirm: true})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, result)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		m.assertExpectations(t)
	})

	t.Run("Failure - Advisory Stock Check Finds Shortage", func(t *testing.T) {
		// Arrange: only 1 unit of pasta left, cart wants 2.
		m := newCheckoutMocks()
		checkoutService := m.service(nil, nil)

		m.customerRepo.On("GetCustomerByID", mock.Anything, customerID).Return(customer(50), nil).Once()
		m.cartRepo.On("GetCartLines", mock.Anything, customerID).Return(cartLines(), nil).Once()
		m.productRepo.On("GetStockLevels", mock.Anything, mock.Anything).Return(stockLevels(1, 1), nil).Once()

		// Act
		result, err := checkoutService.Checkout(ctx, customerID, &models.CheckoutRequest{Confirm: true})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, result)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeInsufficientStock, appErr.Code)
		m.checkoutRepo.AssertNotCalled(t, "CommitCheckout", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("Failure - Product Vanished Before Checkout", func(t *testing.T) {
		// Arrange: the olive oil row is gone entirely.
		m := newCheckoutMocks()
		checkoutService := m.service(nil, nil)

		m.customerRepo.On("GetCustomerByID", mock.Anything, customerID).Return(customer(50), nil).Once()
		m.cartRepo.On("GetCartLines", mock.Anything, customerID).Return(cartLines(), nil).Once()
		m.productRepo.On("GetStockLevels", mock.Anything, mock.Anything).
			Return([]models.StockLevel{{ProductID: pastaID, Available: 10}}, nil).Once()

		// Act
		result, err := checkoutService.Checkout(ctx, customerID, &models.CheckoutRequest{Confirm: true})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, result)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeInsufficientStock, appErr.Code)
		m.assertExpectations(t)
	})

	t.Run("Failure - Commit Loses The Stock Race", func(t *testing.T) {
		// Arrange: the advisory check passes, but the locked re-check inside
		// the transaction sees a concurrent order took the last units.
		m := newCheckoutMocks()
		checkoutService := m.service(nil, nil)

		m.customerRepo.On("GetCustomerByID", mock.Anything, customerID).Return(customer(50), nil).Once()
		m.cartRepo.On("GetCartLines", mock.Anything, customerID).Return(cartLines(), nil).Once()
		m.productRepo.On("GetStockLevels", mock.Anything, mock.Anything).Return(stockLevels(10, 1), nil).Once()
		m.checkoutRepo.On("CommitCheckout", mock.Anything, mock.Anything, mock.Anything, 52).
			Return(&models.InsufficientStockError{
				ProductID:   oilID,
				ProductName: "Olive Oil",
				Requested:   1,
				Available:   0,
			}).Once()

		// Act
		result, err := checkoutService.Checkout(ctx, customerID, &models.CheckoutRequest{Confirm: true})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, result)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeInsufficientStock, appErr.Code)
		assert.Contains(t, appErr.Message, "Olive Oil")
		m.assertExpectations(t)
	})

	t.Run("Failure - Commit Database Error", func(t *testing.T) {
		// Arrange
		m := newCheckoutMocks()
		checkoutService := m.service(nil, nil)

		m.customerRepo.On("GetCustomerByID", mock.Anything, customerID).Return(customer(50), nil).Once()
		m.cartRepo.On("GetCartLines", mock.Anything, customerID).Return(cartLines(), nil).Once()
		m.productRepo.On("GetStockLevels", mock.Anything, mock.Anything).Return(stockLevels(10, 1), nil).Once()
		m.checkoutRepo.On("CommitCheckout", mock.Anything, mock.Anything, mock.Anything, 52).
			Return(errors.New("connection reset")).Once()

		// Act
		result, err := checkoutService.Checkout(ctx, customerID, &models.CheckoutRequest{Confirm: true})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, result)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
		m.assertExpectations(t)
	})

	t.Run("Success - Publish Failure Does Not Fail The Order", func(t *testing.T) {
		// Arrange: the order is already committed, so a broken broker or mail
		// provider only costs the announcement.
		m := newCheckoutMocks()
		publisher := &stubPublisher{err: errors.New("broker down")}
		notifier := &stubNotifier{err: errors.New("smtp down")}
		checkoutService := m.service(publisher, notifier)

		m.customerRepo.On("GetCustomerByID", mock.Anything, customerID).Return(customer(50), nil).Once()
		m.cartRepo.On("GetCartLines", mock.Anything, customerID).Return(cartLines(), nil).Once()
		m.productRepo.On("GetStockLevels", mock.Anything, mock.Anything).Return(stockLevels(10, 1), nil).Once()
		m.checkoutRepo.On("CommitCheckout", mock.Anything, mock.Anything, mock.Anything, 52).Return(nil).Once()

		// Act
		result, err := checkoutService.Checkout(ctx, customerID, &models.CheckoutRequest{Confirm: true})

		// Assert
		assert.NoError(t, err)
		assert.True(t, result.CheckedOut)
		assert.Len(t, publisher.published, 1)
		assert.Len(t, notifier.receipts, 1)
		m.assertExpectations(t)
	})
}
