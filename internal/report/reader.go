// Package report computes sales aggregates from a read-only SQL view of
// the orders tables.
package report

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// Range bounds a query by creation time. To is exclusive; nil sides are
// open.
type Range struct {
	From *time.Time
	To   *time.Time
}

type Sale struct {
	Total         decimal.Decimal `db:"total"`
	PaymentMethod string          `db:"payment_method"`
	CreatedAt     time.Time       `db:"created_at"`
}

type TopProduct struct {
	ID       uuid.UUID       `db:"id"               json:"id"`
	Name     string          `db:"nombre"           json:"nombre"`
	Category string          `db:"tipo"             json:"tipo"`
	Quantity int64           `db:"cantidad_vendida" json:"cantidad_vendida"`
	Revenue  decimal.Decimal `db:"total_vendido"    json:"total_vendido"`
}

type Reader struct {
	DB *sqlx.DB
}

func (r Range) where(column string, conds []string, args []any) ([]string, []any) {
	if r.From != nil {
		conds = append(conds, column+" >= ?")
		args = append(args, r.From.UTC())
	}
	if r.To != nil {
		conds = append(conds, column+" < ?")
		args = append(args, r.To.UTC())
	}
	return conds, args
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// Sales lists every order in rng in creation order.
func (rd *Reader) Sales(ctx context.Context, rng Range) ([]Sale, error) {
	conds, args := rng.where("created_at", nil, nil)
	q := rd.DB.Rebind(`SELECT total, payment_method, created_at FROM orders` +
		whereClause(conds) + ` ORDER BY created_at ASC, id ASC`)

	var sales []Sale
	if err := rd.DB.SelectContext(ctx, &sales, q, args...); err != nil {
		return nil, err
	}
	return sales, nil
}

// TopProducts ranks products by units sold in completed orders. The name is
// the one snapshotted on the order lines. Lines whose product no longer
// exists drop out of the join.
func (rd *Reader) TopProducts(ctx context.Context, rng Range, status string, limit int) ([]TopProduct, error) {
	conds, args := rng.where("o.created_at", []string{"o.status = ?"}, []any{status})
	args = append(args, limit)

	q := rd.DB.Rebind(`
		SELECT oi.product_id AS id,
		       MIN(oi.name) AS nombre,
		       p.category AS tipo,
		       SUM(oi.quantity) AS cantidad_vendida,
		       SUM(oi.subtotal) AS total_vendido
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id` +
		whereClause(conds) + `
		GROUP BY oi.product_id, p.category
		ORDER BY cantidad_vendida DESC, nombre ASC
		LIMIT ?`)

	var out []TopProduct
	if err := rd.DB.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}
