package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderPending   = "pendiente"
	OrderCompleted = "completada"
	OrderCancelled = "cancelada"
)

const (
	PaymentCash     = "efectivo"
	PaymentTransfer = "transferencia"
)

const (
	DefaultCity    = "Guayaquil"
	DefaultCountry = "Ecuador"
)

type Invoice struct {
	Number   string          `gorm:"size:32;not null;uniqueIndex" json:"numero_factura"`
	IssuedAt time.Time       `gorm:"not null"                     json:"fecha_emision"`
	Subtotal decimal.Decimal `gorm:"type:numeric(12,2);not null"  json:"subtotal"`
	Tax      decimal.Decimal `gorm:"type:numeric(12,2);not null"  json:"iva"`
	Total    decimal.Decimal `gorm:"type:numeric(12,2);not null"  json:"total"`
}

// CustomerSnapshot freezes the buyer's contact data at purchase time.
type CustomerSnapshot struct {
	Name       string `gorm:"size:80"  json:"nombre"`
	Surname    string `gorm:"size:80"  json:"apellido"`
	NationalID string `gorm:"size:20"  json:"cedula"`
	Email      string `gorm:"size:120" json:"correo"`
	Phone      string `gorm:"size:30"  json:"telefono"`
	Address    string `gorm:"size:255" json:"direccion"`
	City       string `gorm:"size:80"  json:"ciudad"`
	Country    string `gorm:"size:80"  json:"pais"`
}

type Order struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey"                                          json:"id"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_orders_user_idem,priority:1" json:"id_usuario"`
	CartID         uuid.UUID        `gorm:"type:uuid;not null"                                            json:"id_carrito"`
	Items          []OrderItem      `gorm:"foreignKey:OrderID"                                            json:"items"`
	Total          decimal.Decimal  `gorm:"type:numeric(12,2);not null"                                   json:"total"`
	Status         string           `gorm:"size:16;not null;index"                                        json:"estado"`
	PaymentMethod  string           `gorm:"size:16;not null;index"                                        json:"metodo_pago"`
	Invoice        Invoice          `gorm:"embedded;embeddedPrefix:invoice_"                              json:"factura"`
	Transfer       *TransferPayment `gorm:"foreignKey:OrderID"                                            json:"datos_transferencia,omitempty"`
	Customer       CustomerSnapshot `gorm:"embedded;embeddedPrefix:customer_"                             json:"info_usuario"`
	IdempotencyKey *string          `gorm:"size:128;uniqueIndex:idx_orders_user_idem,priority:2"          json:"-"`
	CreatedAt      time.Time        `gorm:"not null;index"                                                json:"fecha_venta"`
}

type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"-"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"    json:"-"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"    json:"id_gorra"`
	Name      string          `gorm:"size:120;not null"           json:"nombre"`
	Quantity  int             `gorm:"not null"                    json:"cantidad"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"precio_unitario"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
}

type TransferPayment struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"           json:"-"`
	OrderID            uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"-"`
	OriginAccount      string          `gorm:"size:40;not null"               json:"cuenta_origen"`
	DestinationAccount string          `gorm:"size:40;not null"               json:"cuenta_destino"`
	Reference          string          `gorm:"size:16;not null;uniqueIndex"   json:"referencia"`
	Amount             decimal.Decimal `gorm:"type:numeric(12,2);not null"    json:"monto"`
	TransferredAt      time.Time       `gorm:"not null"                       json:"fecha_transferencia"`
}

func (TransferPayment) TableName() string { return "order_transfers" }

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (t *TransferPayment) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
