package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/capstore/online_shop/internal/events"
	"github.com/capstore/online_shop/internal/lock"
	"github.com/capstore/online_shop/internal/metrics"
	"github.com/capstore/online_shop/internal/models"
	"github.com/capstore/online_shop/internal/repo"
	"github.com/capstore/online_shop/internal/tracing"
	"github.com/capstore/online_shop/pkg/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const maxIdempotencyKey = 128

type CheckoutService struct {
	Repo               *repo.GormRepo
	Locker             Locker
	Events             events.Publisher
	DestinationAccount string
	Now                func() time.Time
	Intn               func(int) int
}

type TransferInput struct {
	OriginAccount      string
	DestinationAccount string
	Amount             *decimal.Decimal
	TransferredAt      *time.Time
}

type FinalizeInput struct {
	PaymentMethod  string
	Transfer       *TransferInput
	IdempotencyKey string
}

// Finalize turns the user's active cart into an order. The boolean is false
// when an earlier order with the same idempotency key is returned instead.
func (s *CheckoutService) Finalize(ctx context.Context, userID uuid.UUID, in FinalizeInput) (*models.Order, bool, error) {
	start := time.Now()
	ctx, span := tracing.Start(ctx, "checkout.finalize")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("payment.method", in.PaymentMethod),
	)

	l := logging.FromContext(ctx).With("svc", "checkout.finalize", "user_id", userID)

	order, created, err := s.finalize(ctx, userID, in)
	if err != nil {
		metrics.OrdersFailedTotal.WithLabelValues(failureReason(err)).Inc()
		tracing.Fail(span, err)
		l.Warn("checkout_failed", "reason", failureReason(err), "error", err)
		return nil, false, err
	}
	if !created {
		l.Info("checkout_replayed", "order_id", order.ID)
		return order, false, nil
	}

	metrics.OrdersCreatedTotal.Inc()
	metrics.CheckoutLatency.Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.String("order.id", order.ID.String()))
	l.Info("checkout_completed", "order_id", order.ID, "invoice", order.Invoice.Number, "total", order.Total)

	publish(ctx, s.Events, events.TopicOrders, order.ID.String(), map[string]any{
		"type":          "order_created",
		"orderID":       order.ID,
		"userID":        order.UserID,
		"invoice":       order.Invoice.Number,
		"total":         order.Total,
		"paymentMethod": order.PaymentMethod,
		"items":         len(order.Items),
	})
	return order, true, nil
}

func (s *CheckoutService) finalize(ctx context.Context, userID uuid.UUID, in FinalizeInput) (*models.Order, bool, error) {
	if err := validateFinalize(in); err != nil {
		return nil, false, err
	}
	key := strings.TrimSpace(in.IdempotencyKey)

	if prev, err := s.replay(ctx, userID, key); err != nil || prev != nil {
		return prev, false, err
	}

	if s.Locker != nil {
		release, err := s.Locker.Acquire(ctx, lock.CheckoutKey(userID))
		switch {
		case errors.Is(err, lock.ErrBusy):
			return nil, false, fmt.Errorf("hay otra compra en curso para este usuario: %w", ErrConflict)
		case err != nil:
			// the transaction below is still safe on its own
			logging.FromContext(ctx).Warn("checkout_lock_unavailable", "error", err)
		default:
			defer func() {
				if err := release(context.WithoutCancel(ctx)); err != nil {
					logging.FromContext(ctx).Warn("checkout_lock_release_failed", "error", err)
				}
			}()
			if prev, err := s.replay(ctx, userID, key); err != nil || prev != nil {
				return prev, false, err
			}
		}
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, ErrUserNotFound
	}
	if err != nil {
		return nil, false, err
	}

	cart, err := s.Repo.FindCartByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, ErrEmptyCart
	}
	if err != nil {
		return nil, false, err
	}
	if len(cart.Items) == 0 {
		return nil, false, ErrEmptyCart
	}
	if cart.Status != models.CartActive {
		return nil, false, ErrCartAlreadyProcessed
	}

	for _, it := range cart.Items {
		if it.Product == nil {
			return nil, false, insufficient(it.ProductID.String())
		}
		if !checkAvailability(it.Product, it.Quantity) {
			return nil, false, insufficient(it.Product.Name)
		}
	}

	now := nowUTC(s.Now)
	order := s.buildOrder(user, cart, in, key, now)

	err = s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		number, err := uniqueCode(ctx, func() string { return invoiceNumber(now, s.intn) }, tx.InvoiceNumberExists)
		if err != nil {
			return err
		}
		order.Invoice.Number = number

		if order.Transfer != nil {
			ref, err := uniqueCode(ctx, func() string { return transferReference(s.intn) }, tx.TransferReferenceExists)
			if err != nil {
				return err
			}
			order.Transfer.Reference = ref
		}

		for _, it := range cart.Items {
			ok, err := tx.DecrementStock(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return insufficient(it.Product.Name)
			}
		}

		cart.Reset()
		cart.Status = models.CartPurchased
		if err := tx.SaveCart(ctx, cart); err != nil {
			if errors.Is(err, repo.ErrStaleVersion) {
				return fmt.Errorf("el carrito cambió durante la compra: %w", ErrConflict)
			}
			return err
		}

		if err := tx.CreateOrder(ctx, order); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("compra duplicada: %w", ErrConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return order, true, nil
}

func (s *CheckoutService) replay(ctx context.Context, userID uuid.UUID, key string) (*models.Order, error) {
	if key == "" {
		return nil, nil
	}
	prev, err := s.Repo.FindOrderByIdempotencyKey(ctx, userID, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return prev, err
}

func (s *CheckoutService) buildOrder(user *models.User, cart *models.Cart, in FinalizeInput, key string, now time.Time) *models.Order {
	items := make([]models.OrderItem, 0, len(cart.Items))
	lines := make([]models.Line, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Product.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  models.LineTotal(it.UnitPrice, it.Quantity).Round(2),
		})
		lines = append(lines, models.Line{UnitPrice: it.UnitPrice, Quantity: it.Quantity})
	}
	totals := models.ComputeTotals(lines).Rounded()

	order := &models.Order{
		UserID:        user.ID,
		CartID:        cart.ID,
		Items:         items,
		Total:         totals.Total,
		Status:        models.OrderCompleted,
		PaymentMethod: in.PaymentMethod,
		Invoice: models.Invoice{
			IssuedAt: now,
			Subtotal: totals.Subtotal,
			Tax:      totals.Tax,
			Total:    totals.Total,
		},
		Customer:  user.Snapshot(),
		CreatedAt: now,
	}
	if key != "" {
		order.IdempotencyKey = &key
	}

	if in.PaymentMethod == models.PaymentTransfer {
		t := in.Transfer
		tp := &models.TransferPayment{
			OriginAccount:      strings.TrimSpace(t.OriginAccount),
			DestinationAccount: strings.TrimSpace(t.DestinationAccount),
			Amount:             totals.Total,
			TransferredAt:      now,
		}
		if tp.DestinationAccount == "" {
			tp.DestinationAccount = s.DestinationAccount
		}
		if t.Amount != nil {
			tp.Amount = t.Amount.Round(2)
		}
		if t.TransferredAt != nil {
			tp.TransferredAt = t.TransferredAt.UTC()
		}
		order.Transfer = tp
	}
	return order
}

func (s *CheckoutService) intn(n int) int {
	if s.Intn != nil {
		return s.Intn(n)
	}
	return rand.IntN(n)
}

func validateFinalize(in FinalizeInput) error {
	switch in.PaymentMethod {
	case models.PaymentCash:
	case models.PaymentTransfer:
		if in.Transfer == nil || strings.TrimSpace(in.Transfer.OriginAccount) == "" {
			return fmt.Errorf("cuenta_origen es obligatoria para transferencias: %w", ErrValidation)
		}
		if in.Transfer.Amount != nil && !in.Transfer.Amount.IsPositive() {
			return fmt.Errorf("monto debe ser mayor a cero: %w", ErrValidation)
		}
	default:
		return fmt.Errorf("metodo_pago debe ser efectivo o transferencia: %w", ErrValidation)
	}
	if len(strings.TrimSpace(in.IdempotencyKey)) > maxIdempotencyKey {
		return fmt.Errorf("la clave de idempotencia supera %d caracteres: %w", maxIdempotencyKey, ErrValidation)
	}
	return nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrCartAlreadyProcessed):
		return "cart_processed"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}
