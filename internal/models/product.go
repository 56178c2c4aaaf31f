package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CategorySport   = "deportiva"
	CategoryElegant = "elegante"
	CategoryCasual  = "casual"
	CategoryCustom  = "personalizada"
)

const (
	SizeS  = "S"
	SizeM  = "M"
	SizeL  = "L"
	SizeXL = "XL"
)

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"                  json:"id"`
	Name        string          `gorm:"size:120;not null;index"               json:"nombre"`
	Category    string          `gorm:"size:20;not null;index"                json:"tipo"`
	Size        string          `gorm:"size:4;not null"                       json:"talla"`
	Color       string          `gorm:"size:40;not null"                      json:"color"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null"           json:"precio"`
	Description string          `gorm:"not null"                              json:"descripcion"`
	Image       string          `gorm:"size:255"                              json:"imagen"`
	Available   bool            `gorm:"not null"                              json:"disponible"`
	Featured    bool            `gorm:"not null"                              json:"destacada"`
	Stock       int             `gorm:"not null;check:chk_products_stock,stock >= 0" json:"stock"`
	CreatedAt   time.Time       `gorm:"index"                                 json:"fecha_creacion"`
	UpdatedAt   time.Time       `json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsAvailable reports whether qty units can be sold right now. The flag and
// the stock count are independent; both must allow the sale.
func (p *Product) IsAvailable(qty int) bool {
	return p.Available && p.Stock >= qty
}
