// Package seed loads the starter catalogue and an optional admin account
// into an empty database.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/capstore/online_shop/internal/models"
	"github.com/capstore/online_shop/internal/repo"
	"github.com/capstore/online_shop/pkg/hash"
	"github.com/capstore/online_shop/pkg/logging"
)

type Admin struct {
	Email    string
	Password string
}

type capSeed struct {
	name        string
	category    string
	size        string
	color       string
	price       string
	description string
	image       string
	featured    bool
	stock       int
}

var caps = []capSeed{
	{"Gorra Nike Sport", models.CategorySport, models.SizeM, "Negro", "25.99", "Gorra deportiva Nike con tecnología Dri-FIT", "/img/nike-sport.jpg", true, 50},
	{"Fedora Clásica", models.CategoryElegant, models.SizeL, "Marrón", "35.50", "Sombrero fedora de fieltro para ocasiones especiales", "/img/fedora.jpg", true, 30},
	{"Gorra Adidas Urban", models.CategoryCasual, models.SizeS, "Azul", "22.75", "Gorra casual Adidas para el día a día", "/img/adidas-urban.jpg", false, 40},
	{"Gorra MLB Personalizada", models.CategoryCustom, models.SizeXL, "Rojo", "29.99", "Gorra MLB con bordado personalizado", "/img/mlb-custom.jpg", true, 25},
	{"Gorra Puma Running", models.CategorySport, models.SizeL, "Blanco", "27.99", "Gorra ligera Puma para correr", "/img/puma-running.jpg", false, 35},
	{"Gorra Vans Classic", models.CategoryCasual, models.SizeM, "Negro", "24.50", "Gorra Vans de estilo clásico", "/img/vans-classic.jpg", false, 45},
}

// Run is idempotent: products are only inserted into an empty catalogue and
// the admin only when its email is free.
func Run(ctx context.Context, r *repo.GormRepo, admin Admin) error {
	l := logging.FromContext(ctx).With("component", "seed")

	n, err := r.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n == 0 {
		err := r.InTx(ctx, func(tx *repo.GormRepo) error {
			for _, c := range caps {
				p := &models.Product{
					Name:        c.name,
					Category:    c.category,
					Size:        c.size,
					Color:       c.color,
					Price:       decimal.RequireFromString(c.price),
					Description: c.description,
					Image:       c.image,
					Available:   true,
					Featured:    c.featured,
					Stock:       c.stock,
				}
				if err := tx.CreateProduct(ctx, p); err != nil {
					return fmt.Errorf("seed %s: %w", c.name, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		l.Info("seed_products_created", "count", len(caps))
	}

	return seedAdmin(ctx, r, admin)
}

func seedAdmin(ctx context.Context, r *repo.GormRepo, admin Admin) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" || admin.Password == "" {
		return nil
	}

	taken, err := r.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("check admin email: %w", err)
	}
	if taken {
		return nil
	}

	pw, err := hash.HashPassword(admin.Password)
	if err != nil {
		return err
	}
	u := &models.User{
		Email:        email,
		PasswordHash: pw,
		Name:         "Administrador",
		Surname:      "Tienda",
		NationalID:   "0000000000",
		Phone:        "0000000000",
		Address:      "Guayaquil",
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := r.CreateUser(ctx, u); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	logging.FromContext(ctx).Info("seed_admin_created", "email", email)
	return nil
}
