package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/retail-management-platform/internal/cache"
	appErrors "github.com/aaravmahajanofficial/retail-management-platform/internal/errors"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/models"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/retail-management-platform/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// memoryCache is an in-process stand-in for the redis cache, storing the same
// JSON payloads the real one would.
type memoryCache struct {
	entries map[string][]byte
	deletes []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string, value any) (bool, error) {
	data, ok := c.entries[key]
	if !ok {
		return false, nil
	}

	return true, json.Unmarshal(data, value)
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.entries[key] = data

	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	c.deletes = append(c.deletes, key)

	return nil
}

func (c *memoryCache) Close() error { return nil }

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	req := &models.CreateProductRequest{
		SupplierID:    uuid.New(),
		Name:          "Green Tea",
		Description:   "Loose leaf",
		Price:         7.25,
		StockQuantity: 40,
	}

	t.Run("Success - Create Product", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		productService := service.NewProductService(mockRepo, newMemoryCache())

		mockRepo.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
			return p.Name == req.Name && p.SupplierID == req.SupplierID && p.Status == "active"
		})).Return(nil).Once()

		// Act
		product, err := productService.CreateProduct(ctx, req)

		// Assert
		assert.NoError(t, err)
		assert.NotNil(t, product)
		assert.Equal(t, req.Price, product.Price)
		assert.Equal(t, req.StockQuantity, product.StockQuantity)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success - Description Markup Stripped", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		productService := service.NewProductService(mockRepo, newMemoryCache())

		mockRepo.On("CreateProduct", mock.Anything, mock.AnythingOfType("*models.Product")).Return(nil).Once()

		dirty := *req
		dirty.Description = `<script>alert("x")</script>Loose leaf`

		// Act
		product, err := productService.CreateProduct(ctx, &dirty)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "Loose leaf", product.Description)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		productService := service.NewProductService(mockRepo, newMemoryCache())

		mockRepo.On("CreateProduct", mock.Anything, mock.AnythingOfType("*models.Product")).
			Return(errors.New("connection refused")).Once()

		// Act
		product, err := productService.CreateProduct(ctx, req)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, product)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
		mockRepo.AssertExpectations(t)
	})
}

func TestGetProductByID(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()

	product := &models.Product{
		ID:            productID,
		Name:          "Green Tea",
		Price:         7.25,
		StockQuantity: 40,
		Status:        "active",
	}

	t.Run("Success - Cache Miss Reads Repo And Populates Cache", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		productCache := newMemoryCache()
		productService := service.NewProductService(mockRepo, productCache)

		mockRepo.On("GetProductByID", mock.Anything, productID).Return(product, nil).Once()

		// Act
		got, err := productService.GetProductByID(ctx, productID)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, product.Name, got.Name)
		assert.Contains(t, productCache.entries, cache.Key(cache.ProductKeyPrefix, productID.String()))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success - Cache Hit Skips Repo", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		productCache := newMemoryCache()
		productService := service.NewProductService(mockRepo, productCache)

		err := productCache.Set(ctx, cache.Key(cache.ProductKeyPrefix, productID.String()), product, 0)
		assert.NoError(t, err)

		// Act
		got, err := productService.GetProductByID(ctx, productID)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, product.ID, got.ID)
		assert.Equal(t, product.Price, got.Price)
		mockRepo.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		productService := service.NewProductService(mockRepo, newMemoryCache())

		mockRepo.On("GetProductByID", mock.Anything, productID).Return(nil, errors.New("no rows")).Once()

		// Act
		got, err := productService.GetProductByID(ctx, productID)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, got)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		mockRepo.AssertExpectations(t)
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()

	t.Run("Success - Patch And Invalidate Cache", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		productCache := newMemoryCache()
		productService := service.NewProductService(mockRepo, productCache)

		existing := &models.Product{ID: productID, Name: "Green Tea", Price: 7.25, StockQuantity: 40, Status: "active"}
		newPrice := 6.75

		mockRepo.On("GetProductByID", mock.Anything, productID).Return(existing, nil).Once()
		mockRepo.On("UpdateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
			return p.ID == productID && p.Price == newPrice && p.Name == "Green Tea"
		})).Return(nil).Once()

		// Act
		updated, err := productService.UpdateProduct(ctx, productID, &models.UpdateProductRequest{Price: &newPrice})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, newPrice, updated.Price)
		assert.Contains(t, productCache.deletes, cache.Key(cache.ProductKeyPrefix, productID.String()))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		productService := service.NewProductService(mockRepo, newMemoryCache())

		mockRepo.On("GetProductByID", mock.Anything, productID).Return(nil, errors.New("no rows")).Once()

		newName := "Black Tea"

		// Act
		updated, err := productService.UpdateProduct(ctx, productID, &models.UpdateProductRequest{Name: &newName})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, updated)
		mockRepo.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything)
	})
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()

	t.Run("Success - Delete And Invalidate Cache", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		productCache := newMemoryCache()
		productService := service.NewProductService(mockRepo, productCache)

		mockRepo.On("DeleteProduct", mock.Anything, productID).Return(nil).Once()

		// Act
		err := productService.DeleteProduct(ctx, productID)

		// Assert
		assert.NoError(t, err)
		assert.Contains(t, productCache.deletes, cache.Key(cache.ProductKeyPrefix, productID.String()))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		// Arrange
		mockRepo := new(mocks.ProductRepository)
		productService := service.NewProductService(mockRepo, newMemoryCache())

		mockRepo.On("DeleteProduct", mock.Anything, productID).Return(errors.New("no rows")).Once()

		// Act
		err := productService.DeleteProduct(ctx, productID)

		// Assert
		assert.Error(t, err)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		mockRepo.AssertExpectations(t)
	})
}
