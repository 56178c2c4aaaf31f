package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrUserNotFound         = fmt.Errorf("usuario no encontrado: %w", ErrNotFound)
	ErrProductNotFound      = fmt.Errorf("gorra no encontrada: %w", ErrNotFound)
	ErrItemNotFound         = fmt.Errorf("item no encontrado en el carrito: %w", ErrNotFound)
	ErrOrderNotFound        = fmt.Errorf("compra no encontrada: %w", ErrNotFound)
	ErrEmptyCart            = fmt.Errorf("el carrito está vacío: %w", ErrValidation)
	ErrCartAlreadyProcessed = fmt.Errorf("el carrito ya fue procesado: %w", ErrValidation)
	ErrEmailTaken           = fmt.Errorf("el correo ya está registrado: %w", ErrValidation)
	ErrNationalIDTaken      = fmt.Errorf("la cédula ya está registrada: %w", ErrValidation)
	ErrInvalidCredentials   = fmt.Errorf("credenciales inválidas: %w", ErrUnauthorized)
	ErrAccountDisabled      = fmt.Errorf("cuenta desactivada: %w", ErrUnauthorized)
	ErrInsufficientStock    = fmt.Errorf("stock insuficiente: %w", ErrValidation)
)

// InsufficientStockError names the product that could not be supplied.
type InsufficientStockError struct {
	Product string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s", e.Product)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

func insufficient(product string) error {
	return &InsufficientStockError{Product: product}
}
