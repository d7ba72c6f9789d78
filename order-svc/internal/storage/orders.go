package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bistro-backend/order-svc/internal/domain"

	"github.com/lib/pq"
)

const orderColumns = "id, user_id, total_amount, address, payment_method, status, created_at, updated_at"

// PlaceFromCart runs the whole read-price-insert-clear sequence in one
// transaction holding the cart row lock. A concurrent placement for the same
// user blocks on the lock and then sees the cleared cart. The builder reads
// menu items on the same transaction, so placement never needs a second
// connection.
func (r *PostgresRepository) PlaceFromCart(ctx context.Context, userID string, build domain.OrderBuilder) (*domain.Order, error) {
	var order *domain.Order
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		lines := []domain.CartLine{}
		switch err := lockCart(ctx, tx, userID); {
		case errors.Is(err, domain.ErrCartNotFound):
		case err != nil:
			return err
		default:
			loaded, err := cartLines(ctx, tx, userID)
			if err != nil {
				return err
			}
			lines = loaded
		}

		built, err := build(lines, func(menuItemID int64) (*domain.MenuItem, error) {
			return shareMenuItem(ctx, tx, menuItemID)
		})
		if err != nil {
			return err
		}

		if err := insertOrder(ctx, tx, built); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "UPDATE carts SET updated_at = NOW() WHERE user_id = $1", userID); err != nil {
			return fmt.Errorf("touch cart: %w", err)
		}

		order = built
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func insertOrder(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, total_amount, address, payment_method, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		order.UserID, order.TotalAmount, order.Address, order.PaymentMethod, order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, line := range order.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_lines (order_id, menu_item_id, name, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)`,
			order.ID, line.MenuItemID, line.Name, line.Quantity, line.UnitPrice); err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	var o domain.Order
	err := r.DB.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", orderID).
		Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Address, &o.PaymentMethod, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	orders := []domain.Order{o}
	if err := r.attachOrderLines(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *PostgresRepository) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.listOrders(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC", userID)
}

func (r *PostgresRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return r.listOrders(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC, id DESC")
}

func (r *PostgresRepository) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Address, &o.PaymentMethod, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachOrderLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresRepository) attachOrderLines(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		orders[i].Items = []domain.OrderLine{}
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT order_id, menu_item_id, name, quantity, unit_price
		FROM order_lines
		WHERE order_id = ANY($1)
		ORDER BY order_id, menu_item_id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID int64
		var line domain.OrderLine
		if err := rows.Scan(&orderID, &line.MenuItemID, &line.Name, &line.Quantity, &line.UnitPrice); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		i := index[orderID]
		orders[i].Items = append(orders[i].Items, line)
	}
	return rows.Err()
}

// TransitionOrderStatus sets the status only if it still equals from.
func (r *PostgresRepository) TransitionOrderStatus(ctx context.Context, orderID int64, from, to domain.OrderStatus) (bool, error) {
	result, err := r.DB.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3", to, orderID, from)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return n == 1, nil
}
