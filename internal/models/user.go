package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleClient    = "cliente"
	RoleAdmin     = "admin"
	RoleWarehouse = "bodeguero"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"          json:"id"`
	Email        string    `gorm:"size:120;not null;uniqueIndex" json:"correo"`
	PasswordHash string    `gorm:"not null"                      json:"-"`
	Name         string    `gorm:"size:80;not null"              json:"nombre"`
	Surname      string    `gorm:"size:80;not null"              json:"apellido"`
	NationalID   string    `gorm:"size:20;not null;uniqueIndex"  json:"cedula"`
	Phone        string    `gorm:"size:30;not null"              json:"telefono"`
	Address      string    `gorm:"size:255;not null"             json:"direccion"`
	Role         string    `gorm:"size:16;not null"              json:"tipo"`
	Active       bool      `gorm:"not null"                      json:"cuenta_activa"`
	CreatedAt    time.Time `json:"fecha_registro"`
	UpdatedAt    time.Time `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// Snapshot copies the contact fields an invoice must keep stable.
func (u *User) Snapshot() CustomerSnapshot {
	return CustomerSnapshot{
		Name:       u.Name,
		Surname:    u.Surname,
		NationalID: u.NationalID,
		Email:      u.Email,
		Phone:      u.Phone,
		Address:    u.Address,
		City:       DefaultCity,
		Country:    DefaultCountry,
	}
}
