package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/capstore/online_shop/internal/models"
	"github.com/capstore/online_shop/internal/repo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderService struct {
	Repo *repo.GormRepo
}

// OrderQuery narrows order listings. To is exclusive.
type OrderQuery struct {
	From   *time.Time
	To     *time.Time
	Status string
	Method string
	Page   repo.Page
}

func (q OrderQuery) validate() error {
	switch q.Status {
	case "", models.OrderPending, models.OrderCompleted, models.OrderCancelled:
	default:
		return fmt.Errorf("estado %q no es válido: %w", q.Status, ErrValidation)
	}
	switch q.Method {
	case "", models.PaymentCash, models.PaymentTransfer:
	default:
		return fmt.Errorf("metodo_pago %q no es válido: %w", q.Method, ErrValidation)
	}
	if q.From != nil && q.To != nil && !q.From.Before(*q.To) {
		return fmt.Errorf("fecha_inicio debe ser anterior a fecha_fin: %w", ErrValidation)
	}
	return nil
}

func (s *OrderService) History(ctx context.Context, userID uuid.UUID, q OrderQuery) ([]models.Order, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	return s.Repo.ListOrders(ctx, repo.OrderFilter{UserID: &userID, From: q.From, To: q.To, Status: q.Status})
}

func (s *OrderService) Detail(ctx context.Context, orderID uuid.UUID, requester *models.User) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.UserID != requester.ID && requester.Role != models.RoleAdmin {
		return nil, fmt.Errorf("la compra pertenece a otro usuario: %w", ErrForbidden)
	}
	return o, nil
}

func (s *OrderService) AdminList(ctx context.Context, q OrderQuery) ([]models.Order, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	return s.Repo.ListOrders(ctx, repo.OrderFilter{From: q.From, To: q.To, Status: q.Status, Method: q.Method, Page: q.Page})
}
