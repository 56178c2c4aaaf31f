package repo

import (
	"context"
	"errors"

	"github.com/capstore/online_shop/internal/models"
	"gorm.io/gorm"
)

// ErrStaleVersion is returned when a cart was changed by someone else
// between load and save.
var ErrStaleVersion = errors.New("stale version")

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

// InTx runs fn against a repo bound to a single transaction. Any error
// returned by fn rolls the whole unit back.
func (r *GormRepo) InTx(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.TransferPayment{},
	)
}
