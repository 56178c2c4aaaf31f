package service

import (
	"context"
	"testing"
	"time"

	"github.com/capstore/online_shop/internal/events"
	"github.com/capstore/online_shop/internal/models"
	"github.com/capstore/online_shop/internal/repo"
	"github.com/capstore/online_shop/internal/testutil"
	"github.com/capstore/online_shop/pkg/hash"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

type fixture struct {
	Repo     *repo.GormRepo
	Events   *events.Recorder
	Cart     *CartService
	Checkout *CheckoutService
	Catalog  *CatalogService
	Orders   *OrderService
	Users    *UserService
	Auth     *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	r := repo.New(testutil.NewDB(t))
	rec := &events.Recorder{}
	now := func() time.Time { return fixedNow }
	tick := 0
	// distinct add times keep cart lines in a stable order
	cartNow := func() time.Time {
		tick++
		return fixedNow.Add(time.Duration(tick) * time.Second)
	}

	return &fixture{
		Repo:   r,
		Events: rec,
		Cart:   &CartService{Repo: r, Events: rec, Now: cartNow},
		Checkout: &CheckoutService{
			Repo:               r,
			Events:             rec,
			DestinationAccount: "0123456789",
			Now:                now,
		},
		Catalog: &CatalogService{Repo: r, Events: rec},
		Orders:  &OrderService{Repo: r},
		Users:   &UserService{Repo: r, Events: rec},
		Auth:    &AuthService{Repo: r, JWTSecret: []byte("test-jwt-secret"), TokenTTL: time.Hour, Events: rec},
	}
}

func (f *fixture) user(t *testing.T, email, role string) *models.User {
	t.Helper()

	pw, err := hash.HashPasswordCost("secret123", bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		Email:        email,
		PasswordHash: pw,
		Name:         "Ana",
		Surname:      "Vera",
		NationalID:   email,
		Phone:        "0991234567",
		Address:      "Av. 9 de Octubre",
		Role:         role,
		Active:       true,
	}
	require.NoError(t, f.Repo.CreateUser(context.Background(), u))
	return u
}

func (f *fixture) product(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()

	p := &models.Product{
		Name:        name,
		Category:    models.CategorySport,
		Size:        models.SizeM,
		Color:       "Negro",
		Price:       decimal.RequireFromString(price),
		Description: "gorra " + name,
		Available:   true,
		Stock:       stock,
	}
	require.NoError(t, f.Repo.CreateProduct(context.Background(), p))
	return p
}

func (f *fixture) stock(t *testing.T, p *models.Product) int {
	t.Helper()
	got, err := f.Repo.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	return got.Stock
}

func sequence(vals ...int) func(int) int {
	i := 0
	return func(n int) int {
		v := vals[i%len(vals)] % n
		i++
		return v
	}
}
