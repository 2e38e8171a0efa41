// internal/service/catalog_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"stampmarket/internal/domain"
	"stampmarket/internal/repository"
	"stampmarket/internal/util"

	"github.com/shopspring/decimal"
)

// ProductInput carries the writable product fields.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	IsActive    bool
	Country     string
	YearIssued  int
	Condition   string
}

// CatalogService defines product and interest business logic. Writes are
// admin-gated; stock is off limits here entirely, the order engine owns it.
type CatalogService interface {
	CreateProduct(ctx context.Context, actor domain.Identity, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, actor domain.Identity, id int64, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actor domain.Identity, id int64) error
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	ListProducts(ctx context.Context, activeOnly bool, limit, offset int) ([]domain.Product, int64, error)

	RegisterInterest(ctx context.Context, userID, productID int64, priority int) (*domain.Interest, error)
	ListInterests(ctx context.Context, userID int64) ([]domain.Interest, error)
	RemoveInterest(ctx context.Context, userID, productID int64) error
}

type catalogService struct {
	dbExecutor   repository.DBExecutor
	productRepo  repository.ProductRepository
	interestRepo repository.InterestRepository
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(
	dbExecutor repository.DBExecutor,
	productRepo repository.ProductRepository,
	interestRepo repository.InterestRepository,
) CatalogService {
	return &catalogService{
		dbExecutor:   dbExecutor,
		productRepo:  productRepo,
		interestRepo: interestRepo,
	}
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("product name is required: %w", util.ErrInvalidInput)
	}
	if input.Price.IsNegative() {
		return fmt.Errorf("product price must not be negative: %w", util.ErrInvalidInput)
	}
	if input.Stock < 0 {
		return fmt.Errorf("product stock must not be negative: %w", util.ErrInvalidInput)
	}
	return nil
}

func (s *catalogService) CreateProduct(ctx context.Context, actor domain.Identity, input ProductInput) (*domain.Product, error) {
	if !actor.Role.IsAdmin() {
		return nil, util.ErrNotAuthorized
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := domain.NewProduct(input.Name, input.Description, input.Price, input.Stock)
	product.IsActive = input.IsActive
	product.Country = input.Country
	product.YearIssued = input.YearIssued
	product.Condition = input.Condition

	if err := s.productRepo.Create(ctx, s.dbExecutor, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, actor domain.Identity, id int64, input ProductInput) (*domain.Product, error) {
	if !actor.Role.IsAdmin() {
		return nil, util.ErrNotAuthorized
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, err
	}

	refreshed := domain.NewProduct(input.Name, input.Description, input.Price, product.Stock)
	product.Name = refreshed.Name
	product.Slug = refreshed.Slug
	product.Description = input.Description
	product.Price = input.Price
	product.IsActive = input.IsActive
	product.Country = input.Country
	product.YearIssued = input.YearIssued
	product.Condition = input.Condition

	if err := s.productRepo.Update(ctx, s.dbExecutor, product); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, actor domain.Identity, id int64) error {
	if !actor.Role.IsAdmin() {
		return util.ErrNotAuthorized
	}
	return s.productRepo.Delete(ctx, s.dbExecutor, id)
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, s.dbExecutor, id)
}

func (s *catalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.productRepo.GetBySlug(ctx, s.dbExecutor, slug)
}

func (s *catalogService) ListProducts(ctx context.Context, activeOnly bool, limit, offset int) ([]domain.Product, int64, error) {
	return s.productRepo.List(ctx, s.dbExecutor, activeOnly, limit, offset)
}

// RegisterInterest records a watch on a product. Re-registering the same
// product updates the priority instead of duplicating the record.
func (s *catalogService) RegisterInterest(ctx context.Context, userID, productID int64, priority int) (*domain.Interest, error) {
	product, err := s.productRepo.GetByID(ctx, s.dbExecutor, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, util.ErrProductNotFound
	}

	interest := &domain.Interest{
		UserID:    userID,
		ProductID: productID,
		Priority:  priority,
	}
	if err := s.interestRepo.Upsert(ctx, s.dbExecutor, interest); err != nil {
		return nil, fmt.Errorf("failed to register interest: %w", err)
	}
	return interest, nil
}

func (s *catalogService) ListInterests(ctx context.Context, userID int64) ([]domain.Interest, error) {
	return s.interestRepo.ListByUserID(ctx, s.dbExecutor, userID)
}

func (s *catalogService) RemoveInterest(ctx context.Context, userID, productID int64) error {
	return s.interestRepo.Delete(ctx, s.dbExecutor, userID, productID)
}
