package transport

import (
	"time"

	"github.com/capstore/online_shop/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Envelope wraps every JSON response body.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

type RegisterRequest struct {
	Email      string `json:"correo"     validate:"required,email"`
	Password   string `json:"contrasena" validate:"required,min=6"`
	Name       string `json:"nombre"     validate:"required"`
	Surname    string `json:"apellido"   validate:"required"`
	NationalID string `json:"cedula"     validate:"required"`
	Phone      string `json:"telefono"   validate:"required"`
	Address    string `json:"direccion"  validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"correo"     validate:"required"`
	Password string `json:"contrasena" validate:"required"`
}

type AuthResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"nombre"`
	Surname   string    `json:"apellido"`
	Email     string    `json:"correo"`
	Role      string    `json:"tipo"`
	Active    bool      `json:"cuenta_activa"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expira"`
}

func NewAuthResponse(u *models.User, token string, exp time.Time) AuthResponse {
	return AuthResponse{
		ID:        u.ID,
		Name:      u.Name,
		Surname:   u.Surname,
		Email:     u.Email,
		Role:      u.Role,
		Active:    u.Active,
		Token:     token,
		ExpiresAt: exp,
	}
}

type ChangePasswordRequest struct {
	Email       string `json:"correo"               validate:"required"`
	NewPassword string `json:"nueva_contrasena"     validate:"required"`
	Confirm     string `json:"confirmar_contrasena" validate:"required"`
}

type ProfileRequest struct {
	Name    *string `json:"nombre"`
	Surname *string `json:"apellido"`
	Phone   *string `json:"telefono"`
	Address *string `json:"direccion"`
}

type AdminUserRequest struct {
	ProfileRequest
	Role   *string `json:"tipo"          validate:"omitempty,oneof=cliente admin bodeguero"`
	Active *bool   `json:"cuenta_activa"`
}

// ProductRequest is the JSON form of a create or partial update.
type ProductRequest struct {
	Name        *string          `json:"nombre"`
	Category    *string          `json:"tipo"      validate:"omitempty,oneof=deportiva elegante casual personalizada"`
	Size        *string          `json:"talla"`
	Color       *string          `json:"color"`
	Price       *decimal.Decimal `json:"precio"`
	Description *string          `json:"descripcion"`
	Image       *string          `json:"imagen"`
	Available   *bool            `json:"disponible"`
	Featured    *bool            `json:"destacada"`
	Stock       *int             `json:"stock"     validate:"omitempty,gte=0"`
}

type AddItemRequest struct {
	ProductID string `json:"id_gorra" validate:"required,uuid"`
	Quantity  int    `json:"cantidad" validate:"gte=0"`
}

type UpdateItemRequest struct {
	Quantity int `json:"cantidad" validate:"required,gte=1"`
}

type RestockRequest struct {
	Quantity int `json:"cantidad" validate:"required,gte=1"`
}

type TransferRequest struct {
	OriginAccount      string           `json:"cuenta_origen"`
	DestinationAccount string           `json:"cuenta_destino"`
	Amount             *decimal.Decimal `json:"monto"`
	TransferredAt      *time.Time       `json:"fecha_transferencia"`
}

type FinalizeRequest struct {
	PaymentMethod string           `json:"metodo_pago"         validate:"required"`
	Transfer      *TransferRequest `json:"datos_transferencia"`
}
