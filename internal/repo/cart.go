package repo

import (
	"context"
	"errors"
	"time"

	"github.com/capstore/online_shop/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *GormRepo) FindCartByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("added_at ASC") }).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetOrCreateCart returns the user's cart, inserting an empty active one on
// first use. Concurrent first calls converge on the same row.
func (r *GormRepo) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := r.FindCartByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := models.NewCart(userID)
	err = r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Omit("Items").
		Create(fresh).Error
	if err != nil {
		return nil, err
	}
	return r.FindCartByUser(ctx, userID)
}

// SaveCart writes totals, status and lines of cart guarded by its version.
// On success cart.Version is advanced; a concurrent writer yields
// ErrStaleVersion and nothing is written.
func (r *GormRepo) SaveCart(ctx context.Context, cart *models.Cart) error {
	now := time.Now().UTC()
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Cart{}).
			Where("id = ? AND version = ?", cart.ID, cart.Version).
			Updates(map[string]any{
				"subtotal":   cart.Subtotal,
				"tax":        cart.Tax,
				"total":      cart.Total,
				"status":     cart.Status,
				"version":    cart.Version + 1,
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleVersion
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return nil
		}
		for i := range cart.Items {
			cart.Items[i].CartID = cart.ID
		}
		return tx.Omit("Product").Create(&cart.Items).Error
	})
	if err != nil {
		return err
	}
	cart.Version++
	cart.UpdatedAt = now
	return nil
}
