package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CartActive    = "activo"
	CartPurchased = "comprado"
	CartAbandoned = "abandonado"
)

type Cart struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"           json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"id_usuario"`
	Items     []CartItem      `gorm:"foreignKey:CartID"              json:"items"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(14,4);not null"    json:"subtotal"`
	Tax       decimal.Decimal `gorm:"type:numeric(14,4);not null"    json:"iva"`
	Total     decimal.Decimal `gorm:"type:numeric(14,4);not null"    json:"total"`
	Status    string          `gorm:"size:16;not null"               json:"estado"`
	Version   int             `gorm:"not null"                       json:"version"`
	CreatedAt time.Time       `json:"fecha_creacion"`
	UpdatedAt time.Time       `json:"fecha_actualizacion"`
}

type CartItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"                      json:"id"`
	CartID    uuid.UUID       `gorm:"type:uuid;not null;index"                  json:"-"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"                  json:"id_gorra"`
	Product   *Product        `gorm:"foreignKey:ProductID"                      json:"gorra"`
	Quantity  int             `gorm:"not null;check:chk_cart_items_qty,quantity >= 1" json:"cantidad"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2);not null"               json:"precio_unitario"`
	AddedAt   time.Time       `gorm:"not null"                                  json:"fecha_agregado"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func NewCart(userID uuid.UUID) *Cart {
	return &Cart{
		UserID:   userID,
		Items:    []CartItem{},
		Subtotal: decimal.Zero,
		Tax:      decimal.Zero,
		Total:    decimal.Zero,
		Status:   CartActive,
	}
}

// Recalculate refreshes the derived totals from the current lines.
func (c *Cart) Recalculate() {
	lines := make([]Line, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, Line{UnitPrice: it.UnitPrice, Quantity: it.Quantity})
	}
	t := ComputeTotals(lines)
	c.Subtotal, c.Tax, c.Total = t.Subtotal, t.Tax, t.Total
}

// Reset empties the cart and puts it back into the active state.
func (c *Cart) Reset() {
	c.Items = []CartItem{}
	c.Status = CartActive
	c.Recalculate()
}

func (c *Cart) FindItem(id uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) FindProduct(productID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
