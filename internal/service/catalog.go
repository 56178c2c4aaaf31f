package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/capstore/online_shop/internal/events"
	"github.com/capstore/online_shop/internal/models"
	"github.com/capstore/online_shop/internal/repo"
	"github.com/capstore/online_shop/pkg/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const featuredLimit = 4

var (
	validCategories = map[string]bool{
		models.CategorySport:   true,
		models.CategoryElegant: true,
		models.CategoryCasual:  true,
		models.CategoryCustom:  true,
	}
	validSizes = map[string]bool{
		models.SizeS:  true,
		models.SizeM:  true,
		models.SizeL:  true,
		models.SizeXL: true,
	}
)

type CatalogService struct {
	Repo   *repo.GormRepo
	Index  ProductIndex
	Events events.Publisher
}

type SearchParams struct {
	Category  string
	Size      string
	Color     string
	PriceMin  *decimal.Decimal
	PriceMax  *decimal.Decimal
	Available *bool
	Query     string
}

// ProductInput carries the fields of a create or partial update. Nil means
// "not supplied".
type ProductInput struct {
	Name        *string
	Category    *string
	Size        *string
	Color       *string
	Price       *decimal.Decimal
	Description *string
	Image       *string
	Available   *bool
	Featured    *bool
	Stock       *int
}

func (s *CatalogService) Search(ctx context.Context, p SearchParams) ([]models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.search")

	f := repo.ProductFilter{
		Category:  p.Category,
		Size:      p.Size,
		Color:     p.Color,
		PriceMin:  p.PriceMin,
		PriceMax:  p.PriceMax,
		Available: p.Available,
	}

	q := strings.TrimSpace(p.Query)
	if q != "" && s.Index != nil {
		ids, err := s.Index.SearchIDs(ctx, q)
		switch {
		case err != nil:
			l.Warn("index_search_failed", "error", err)
			f.Text = q
		case len(ids) == 0:
			return []models.Product{}, nil
		default:
			f.IDs = ids
		}
	} else {
		f.Text = q
	}

	return s.Repo.SearchProducts(ctx, f)
}

func (s *CatalogService) Featured(ctx context.Context) ([]models.Product, error) {
	return s.Repo.FeaturedProducts(ctx, featuredLimit)
}

func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// CheckAvailability reports whether qty units of p may be sold.
func (s *CatalogService) CheckAvailability(p *models.Product, qty int) bool {
	return checkAvailability(p, qty)
}

// checkAvailability is the stock gate shared by the cart and checkout.
func checkAvailability(p *models.Product, qty int) bool {
	return p != nil && p.IsAvailable(qty)
}

// Restock adds qty units to the product's stock with a relative update, so
// concurrent sales are never overwritten.
func (s *CatalogService) Restock(ctx context.Context, id uuid.UUID, qty int) (*models.Product, error) {
	if qty < 1 {
		return nil, fmt.Errorf("cantidad debe ser mayor que cero: %w", ErrValidation)
	}
	err := s.Repo.IncrementStock(ctx, id, qty)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "product_restocked", p)
	return p, nil
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.Name == nil || in.Category == nil || in.Size == nil || in.Color == nil || in.Price == nil || in.Description == nil {
		return nil, fmt.Errorf("nombre, tipo, talla, color, precio y descripcion son obligatorios: %w", ErrValidation)
	}

	p := &models.Product{Available: true}
	apply(p, in)
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "product_created", p)
	return p, nil
}

// Update applies the supplied fields only. Without a new image the previous
// reference is kept.
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, in ProductInput) (*models.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apply(p, in)
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	err = s.Repo.UpdateProductColumns(ctx, p, changedColumns(in)...)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if p, err = s.Get(ctx, id); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "product_updated", p)
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("index_delete_failed", "product_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProducts, id.String(), map[string]any{
		"type":      "product_deleted",
		"productID": id,
		"name":      p.Name,
	})
	return nil
}

// Reindex pushes every product into the text index and returns how many
// were written.
func (s *CatalogService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	products, err := s.Repo.SearchProducts(ctx, repo.ProductFilter{})
	if err != nil {
		return 0, err
	}
	for i := range products {
		if err := s.Index.IndexProduct(ctx, &products[i]); err != nil {
			return i, fmt.Errorf("index %s: %w", products[i].ID, err)
		}
	}
	return len(products), nil
}

func (s *CatalogService) afterWrite(ctx context.Context, typ string, p *models.Product) {
	if s.Index != nil {
		if err := s.Index.IndexProduct(ctx, p); err != nil {
			logging.FromContext(ctx).Warn("index_product_failed", "product_id", p.ID, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProducts, p.ID.String(), map[string]any{
		"type":      typ,
		"productID": p.ID,
		"name":      p.Name,
		"price":     p.Price,
		"stock":     p.Stock,
	})
}

func apply(p *models.Product, in ProductInput) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Size != nil {
		p.Size = strings.ToUpper(strings.TrimSpace(*in.Size))
	}
	if in.Color != nil {
		p.Color = strings.TrimSpace(*in.Color)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Image != nil && *in.Image != "" {
		p.Image = *in.Image
	}
	if in.Available != nil {
		p.Available = *in.Available
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
}

// changedColumns lists the product columns an update input touches.
func changedColumns(in ProductInput) []string {
	var cols []string
	add := func(set bool, col string) {
		if set {
			cols = append(cols, col)
		}
	}
	add(in.Name != nil, "name")
	add(in.Category != nil, "category")
	add(in.Size != nil, "size")
	add(in.Color != nil, "color")
	add(in.Price != nil, "price")
	add(in.Description != nil, "description")
	add(in.Image != nil && *in.Image != "", "image")
	add(in.Available != nil, "available")
	add(in.Featured != nil, "featured")
	add(in.Stock != nil, "stock")
	return cols
}

func validateProduct(p *models.Product) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("nombre es obligatorio: %w", ErrValidation)
	case !validCategories[p.Category]:
		return fmt.Errorf("tipo %q no es válido: %w", p.Category, ErrValidation)
	case !validSizes[p.Size]:
		return fmt.Errorf("talla %q no es válida: %w", p.Size, ErrValidation)
	case p.Color == "":
		return fmt.Errorf("color es obligatorio: %w", ErrValidation)
	case !p.Price.IsPositive():
		return fmt.Errorf("precio debe ser mayor a cero: %w", ErrValidation)
	case p.Description == "":
		return fmt.Errorf("descripcion es obligatoria: %w", ErrValidation)
	case p.Stock < 0:
		return fmt.Errorf("stock no puede ser negativo: %w", ErrValidation)
	}
	return nil
}
