package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/capstore/online_shop/internal/events"
	"github.com/capstore/online_shop/internal/models"
	"github.com/capstore/online_shop/internal/repo"
	"github.com/capstore/online_shop/internal/tracing"
	"github.com/capstore/online_shop/pkg/logging"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Now    func() time.Time
}

// Get returns the user's cart, creating it on first use. A cart left empty
// in the purchased state by a previous checkout is reopened here.
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.Status != models.CartPurchased || len(cart.Items) > 0 {
		return cart, nil
	}

	cart.Reset()
	err = s.Repo.SaveCart(ctx, cart)
	if errors.Is(err, repo.ErrStaleVersion) {
		return s.Repo.FindCartByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, qty int) (*models.Cart, error) {
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return nil, fmt.Errorf("cantidad debe ser mayor a cero: %w", ErrValidation)
	}

	return s.mutate(ctx, userID, "cart_item_added", func(cart *models.Cart) error {
		p, err := s.Repo.GetProduct(ctx, productID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}
		if !checkAvailability(p, qty) {
			return insufficient(p.Name)
		}

		if i := cart.FindProduct(productID); i >= 0 {
			cart.Items[i].Quantity += qty
			return nil
		}
		cart.Items = append(cart.Items, models.CartItem{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: p.ID,
			Product:   p,
			Quantity:  qty,
			UnitPrice: p.Price,
			AddedAt:   nowUTC(s.Now),
		})
		return nil
	})
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, fmt.Errorf("cantidad debe ser mayor a cero: %w", ErrValidation)
	}

	return s.mutate(ctx, userID, "cart_item_updated", func(cart *models.Cart) error {
		i := cart.FindItem(itemID)
		if i < 0 {
			return ErrItemNotFound
		}
		p, err := s.Repo.GetProduct(ctx, cart.Items[i].ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return insufficient(cart.Items[i].ProductID.String())
		}
		if err != nil {
			return err
		}
		if !checkAvailability(p, qty) {
			return insufficient(p.Name)
		}
		cart.Items[i].Quantity = qty
		cart.Items[i].Product = p
		return nil
	})
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Cart, error) {
	return s.mutate(ctx, userID, "cart_item_removed", func(cart *models.Cart) error {
		i := cart.FindItem(itemID)
		if i < 0 {
			return ErrItemNotFound
		}
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		return nil
	})
}

// Empty clears the cart in any state and leaves it active.
func (s *CartService) Empty(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	ctx, span := tracing.Start(ctx, "cart.empty")
	defer span.End()

	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		tracing.Fail(span, err)
		return nil, err
	}
	cart.Reset()
	if err := s.save(ctx, cart); err != nil {
		tracing.Fail(span, err)
		return nil, err
	}

	s.emit(ctx, "cart_emptied", cart)
	return cart, nil
}

func (s *CartService) mutate(ctx context.Context, userID uuid.UUID, op string, fn func(*models.Cart) error) (*models.Cart, error) {
	ctx, span := tracing.Start(ctx, "cart."+op)
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	cart, err := s.Get(ctx, userID)
	if err != nil {
		tracing.Fail(span, err)
		return nil, err
	}
	if cart.Status != models.CartActive {
		tracing.Fail(span, ErrCartAlreadyProcessed)
		return nil, ErrCartAlreadyProcessed
	}

	if err := fn(cart); err != nil {
		tracing.Fail(span, err)
		return nil, err
	}
	cart.Recalculate()
	if err := s.save(ctx, cart); err != nil {
		tracing.Fail(span, err)
		return nil, err
	}

	s.emit(ctx, op, cart)
	return cart, nil
}

func (s *CartService) save(ctx context.Context, cart *models.Cart) error {
	err := s.Repo.SaveCart(ctx, cart)
	if errors.Is(err, repo.ErrStaleVersion) {
		logging.FromContext(ctx).With("svc", "cart.save").Warn("cart_version_conflict", "cart_id", cart.ID)
		return fmt.Errorf("el carrito fue modificado por otra petición: %w", ErrConflict)
	}
	return err
}

func (s *CartService) emit(ctx context.Context, typ string, cart *models.Cart) {
	publish(ctx, s.Events, events.TopicCarts, cart.UserID.String(), map[string]any{
		"type":   typ,
		"userID": cart.UserID,
		"cartID": cart.ID,
		"items":  len(cart.Items),
		"total":  cart.Total,
	})
}
