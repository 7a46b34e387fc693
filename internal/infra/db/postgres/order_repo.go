package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"freshcart-backend/internal/domain"
	"freshcart-backend/internal/domain/model"
	"freshcart-backend/internal/domain/ports/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

const orderColumns = `id, code, user_id, items, delivery_fee, discount, email, name_on_card, shipping_address, payment_method, payment_status, shipping_status, payment_reference, created_at`

func (r *OrderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return domain.ErrInvalidArgument
	}
	const q = `
INSERT INTO orders (
  id, code, user_id, items, delivery_fee, discount, email, name_on_card,
  shipping_address, payment_method, payment_status, shipping_status,
  payment_reference, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
) ON CONFLICT (id) DO UPDATE SET
  items=$4, delivery_fee=$5, discount=$6, email=$7, name_on_card=$8,
  shipping_address=$9, payment_method=$10, payment_status=$11, shipping_status=$12,
  payment_reference=$13;`

	_, err = execSQL(ctx, r.pool, tx, q, o.ID, o.Code, o.UserID, items, o.DeliveryFee, o.Discount,
		o.Email, o.NameOnCard, o.ShippingAddress, o.PaymentMethod, o.PaymentStatus, o.ShippingStatus, o.PaymentReference, o.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	o := &model.Order{}
	var items []byte
	if err := row.Scan(&o.ID, &o.Code, &o.UserID, &items, &o.DeliveryFee, &o.Discount, &o.Email,
		&o.NameOnCard, &o.ShippingAddress, &o.PaymentMethod, &o.PaymentStatus, &o.ShippingStatus, &o.PaymentReference, &o.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return o, nil
}

func (r *OrderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanOrder(row)
}

func (r *OrderRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC OFFSET $1 LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, offset, limit)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// UpdateShippingStatus writes the new status only when the current one is not
// terminal. Zero rows updated against an existing order means the transition
// was rejected.
func (r *OrderRepo) UpdateShippingStatus(ctx context.Context, tx repository.Tx, id string, status model.ShippingStatus) (bool, error) {
	const q = `
UPDATE orders SET shipping_status=$2
 WHERE id=$1 AND shipping_status NOT IN ('Delivered','Cancelled');`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, status)
	if err != nil {
		return false, domain.ErrOperationFailed
	}
	if cmd.RowsAffected() > 0 {
		return true, nil
	}
	return false, r.checkExists(ctx, tx, id)
}

// CompletePayment is a single conditional update, so two concurrent webhook
// deliveries cannot both observe Pending.
func (r *OrderRepo) CompletePayment(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	const q = `
UPDATE orders SET payment_status='Completed'
 WHERE id=$1 AND payment_status <> 'Completed';`
	cmd, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return false, domain.ErrOperationFailed
	}
	if cmd.RowsAffected() > 0 {
		return true, nil
	}
	return false, r.checkExists(ctx, tx, id)
}

func (r *OrderRepo) checkExists(ctx context.Context, tx repository.Tx, id string) error {
	row, err := pickRow(ctx, r.pool, tx, `SELECT 1 FROM orders WHERE id=$1;`, id)
	if err != nil {
		return err
	}
	var one int
	if err := row.Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return domain.ErrNotFound
		}
		return domain.ErrReadDatabaseRow
	}
	return nil
}

func (r *OrderRepo) ListPendingCardOlderThan(ctx context.Context, tx repository.Tx, cutoff time.Time, limit int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `
SELECT ` + orderColumns + ` FROM orders
 WHERE payment_method='Card' AND payment_status='Pending' AND created_at < $1
 ORDER BY created_at ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, cutoff, limit)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}
