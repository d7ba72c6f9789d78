package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bistro-backend/order-svc/internal/domain"
)

func (r *PostgresRepository) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	return loadCart(ctx, r.DB, userID)
}

// AddItem upserts the cart row and increments the line in one statement, so
// concurrent adds for the same item are summed rather than lost. An add that
// would push the line past domain.MaxLineQuantity changes nothing.
func (r *PostgresRepository) AddItem(ctx context.Context, userID string, menuItemID int64, quantity int) (*domain.Cart, error) {
	if quantity < 1 || quantity > domain.MaxLineQuantity {
		return nil, domain.ErrInvalidQuantity
	}

	var cart *domain.Cart
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO carts (user_id) VALUES ($1)
			ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()`, userID); err != nil {
			return fmt.Errorf("upsert cart: %w", err)
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO cart_items (user_id, menu_item_id, quantity)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, menu_item_id)
			DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
			WHERE cart_items.quantity + EXCLUDED.quantity <= $4`,
			userID, menuItemID, quantity, domain.MaxLineQuantity)
		if err != nil {
			return fmt.Errorf("upsert cart line: %w", err)
		}
		if n, err := result.RowsAffected(); err != nil {
			return fmt.Errorf("upsert cart line: %w", err)
		} else if n == 0 {
			return domain.ErrInvalidQuantity
		}

		loaded, err := loadCart(ctx, tx, userID)
		cart = loaded
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *PostgresRepository) RemoveItem(ctx context.Context, userID string, menuItemID int64) (*domain.Cart, error) {
	var cart *domain.Cart
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockCart(ctx, tx, userID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			"DELETE FROM cart_items WHERE user_id = $1 AND menu_item_id = $2", userID, menuItemID)
		if err != nil {
			return fmt.Errorf("delete cart line: %w", err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			if _, err := tx.ExecContext(ctx, "UPDATE carts SET updated_at = NOW() WHERE user_id = $1", userID); err != nil {
				return fmt.Errorf("touch cart: %w", err)
			}
		}

		loaded, err := loadCart(ctx, tx, userID)
		cart = loaded
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func lockCart(ctx context.Context, tx *sql.Tx, userID string) error {
	var locked string
	err := tx.QueryRowContext(ctx, "SELECT user_id FROM carts WHERE user_id = $1 FOR UPDATE", userID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrCartNotFound
	}
	if err != nil {
		return fmt.Errorf("lock cart: %w", err)
	}
	return nil
}

func loadCart(ctx context.Context, q queryer, userID string) (*domain.Cart, error) {
	cart := domain.Cart{UserID: userID}
	err := q.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM carts WHERE user_id = $1", userID,
	).Scan(&cart.CreatedAt, &cart.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}

	cart.Items, err = cartLines(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func cartLines(ctx context.Context, q queryer, userID string) ([]domain.CartLine, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT menu_item_id, quantity, added_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY added_at, menu_item_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.MenuItemID, &line.Quantity, &line.AddedAt); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
