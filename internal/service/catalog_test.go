package service

import (
	"context"
	"errors"
	"testing"

	"github.com/capstore/online_shop/internal/events"
	"github.com/capstore/online_shop/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeIndex struct {
	ids     []uuid.UUID
	err     error
	indexed []uuid.UUID
	deleted []uuid.UUID
}

func (x *fakeIndex) SearchIDs(context.Context, string) ([]uuid.UUID, error) { return x.ids, x.err }

func (x *fakeIndex) IndexProduct(_ context.Context, p *models.Product) error {
	x.indexed = append(x.indexed, p.ID)
	return nil
}

func (x *fakeIndex) DeleteProduct(_ context.Context, id uuid.UUID) error {
	x.deleted = append(x.deleted, id)
	return nil
}

func strp(s string) *string { return &s }

func validInput() ProductInput {
	price := decimal.RequireFromString("19.90")
	return ProductInput{
		Name:        strp("Nueva"),
		Category:    strp(models.CategoryCasual),
		Size:        strp("m"),
		Color:       strp("Verde"),
		Price:       &price,
		Description: strp("Gorra nueva"),
		Image:       strp("/img/nueva.jpg"),
	}
}

func TestCatalog_CreateDefaultsAndEvents(t *testing.T) {
	f := newFixture(t)
	idx := &fakeIndex{}
	f.Catalog.Index = idx
	ctx := context.Background()

	p, err := f.Catalog.Create(ctx, validInput())
	require.NoError(t, err)
	assert.True(t, p.Available)
	assert.False(t, p.Featured)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, models.SizeM, p.Size)
	assert.Equal(t, []uuid.UUID{p.ID}, idx.indexed)

	evs := f.Events.Events(events.TopicProducts)
	require.Len(t, evs, 1)
	assert.Equal(t, "product_created", evs[0].Event["type"])
}

func TestCatalog_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	neg := -1
	zero := decimal.Zero
	tests := []struct {
		name   string
		mutate func(*ProductInput)
	}{
		{name: "missing name", mutate: func(in *ProductInput) { in.Name = nil }},
		{name: "bad category", mutate: func(in *ProductInput) { in.Category = strp("gorro") }},
		{name: "bad size", mutate: func(in *ProductInput) { in.Size = strp("XXL") }},
		{name: "zero price", mutate: func(in *ProductInput) { in.Price = &zero }},
		{name: "negative stock", mutate: func(in *ProductInput) { in.Stock = &neg }},
	}
	for _, tt := range tests {
		in := validInput()
		tt.mutate(&in)
		_, err := f.Catalog.Create(ctx, in)
		assert.ErrorIs(t, err, ErrValidation, tt.name)
	}
}

func TestCatalog_UpdateIsPartialAndKeepsImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.Catalog.Create(ctx, validInput())
	require.NoError(t, err)

	off := false
	stock := 7
	updated, err := f.Catalog.Update(ctx, p.ID, ProductInput{Available: &off, Stock: &stock, Image: strp("")})
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.Equal(t, 7, updated.Stock)
	assert.Equal(t, "/img/nueva.jpg", updated.Image)
	assert.Equal(t, "Nueva", updated.Name)

	reloaded, err := f.Catalog.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Available)

	_, err = f.Catalog.Update(ctx, uuid.New(), ProductInput{})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalog_UpdateKeepsConcurrentStockChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Nike", "10.00", 10)

	// a sale commits between the read and the write of the update
	sold := false
	err := f.Repo.DB.Callback().Update().Before("gorm:update").Register("test:concurrent_sale", func(tx *gorm.DB) {
		if sold || tx.Statement.Table != "products" {
			return
		}
		sold = true
		tx.Session(&gorm.Session{NewDB: true}).Exec("UPDATE products SET stock = stock - 2 WHERE id = ?", p.ID)
	})
	require.NoError(t, err)

	updated, err := f.Catalog.Update(ctx, p.ID, ProductInput{Name: strp("Nike Pro")})
	require.NoError(t, err)
	assert.True(t, sold)
	assert.Equal(t, "Nike Pro", updated.Name)
	assert.Equal(t, 8, updated.Stock)

	stored, err := f.Repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.Stock)
	assert.Equal(t, "Nike Pro", stored.Name)
}

func TestCatalog_Delete(t *testing.T) {
	f := newFixture(t)
	idx := &fakeIndex{}
	f.Catalog.Index = idx
	ctx := context.Background()

	p, err := f.Catalog.Create(ctx, validInput())
	require.NoError(t, err)
	require.NoError(t, f.Catalog.Delete(ctx, p.ID))
	assert.Equal(t, []uuid.UUID{p.ID}, idx.deleted)

	_, err = f.Catalog.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, f.Catalog.Delete(ctx, p.ID), ErrNotFound)
}

func TestCatalog_SearchUsesIndexThenFallsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	nike := f.product(t, "Nike Sport", "10", 1)
	f.product(t, "Vans Classic", "10", 1)

	idx := &fakeIndex{ids: []uuid.UUID{nike.ID}}
	f.Catalog.Index = idx
	got, err := f.Catalog.Search(ctx, SearchParams{Query: "whatever the index says"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Nike Sport", got[0].Name)

	idx.ids = nil
	got, err = f.Catalog.Search(ctx, SearchParams{Query: "nada"})
	require.NoError(t, err)
	assert.Empty(t, got)

	idx.err = errors.New("cluster down")
	got, err = f.Catalog.Search(ctx, SearchParams{Query: "classic"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Vans Classic", got[0].Name)
}

func TestCatalog_FeaturedAndAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Nike", "10", 3)
	p.Featured = true
	require.NoError(t, f.Repo.SaveProduct(ctx, p))

	featured, err := f.Catalog.Featured(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 1)

	assert.True(t, f.Catalog.CheckAvailability(p, 3))
	assert.False(t, f.Catalog.CheckAvailability(p, 4))
	assert.False(t, f.Catalog.CheckAvailability(nil, 1))
}

func TestCatalog_Restock(t *testing.T) {
	f := newFixture(t)
	idx := &fakeIndex{}
	f.Catalog.Index = idx
	ctx := context.Background()
	p := f.product(t, "Nike", "10.00", 2)

	got, err := f.Catalog.Restock(ctx, p.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)
	assert.Equal(t, []uuid.UUID{p.ID}, idx.indexed)

	evs := f.Events.Events(events.TopicProducts)
	require.NotEmpty(t, evs)
	assert.Equal(t, "product_restocked", evs[len(evs)-1].Event["type"])

	_, err = f.Catalog.Restock(ctx, p.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.Catalog.Restock(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalog_Reindex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "10", 1)
	b := f.product(t, "B", "10", 0)

	n, err := f.Catalog.Reindex(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	idx := &fakeIndex{}
	f.Catalog.Index = idx
	n, err = f.Catalog.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, idx.indexed)
}
