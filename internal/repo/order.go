package repo

import (
	"context"
	"time"

	"github.com/capstore/online_shop/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderFilter struct {
	UserID *uuid.UUID
	From   *time.Time
	// To is exclusive.
	To     *time.Time
	Status string
	Method string
	Page   Page
}

func (r *GormRepo) withOrderAssociations(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Preload("Items").Preload("Transfer")
}

func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	return r.DB.WithContext(ctx).Create(o).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := r.withOrderAssociations(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) FindOrderByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*models.Order, error) {
	var o models.Order
	err := r.withOrderAssociations(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := r.withOrderAssociations(ctx)
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("created_at < ?", f.To.UTC())
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Method != "" {
		q = q.Where("payment_method = ?", f.Method)
	}

	var orders []models.Order
	if err := f.Page.apply(q.Order("created_at DESC")).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) InvoiceNumberExists(ctx context.Context, number string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("invoice_number = ?", number).Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) TransferReferenceExists(ctx context.Context, ref string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.TransferPayment{}).Where("reference = ?", ref).Count(&n).Error
	return n > 0, err
}
