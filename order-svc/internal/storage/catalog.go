package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bistro-backend/order-svc/internal/domain"
)

const menuItemColumns = `
	m.id, m.name, m.description, m.price, m.category_id, COALESCE(c.name, ''),
	m.image, m.is_available, m.created_at, m.updated_at`

func scanMenuItem(row interface{ Scan(...any) error }, item *domain.MenuItem) error {
	return row.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.CategoryID, &item.CategoryName,
		&item.Image, &item.IsAvailable, &item.CreatedAt, &item.UpdatedAt)
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	err := r.DB.QueryRowContext(ctx,
		"INSERT INTO categories (name, image) VALUES ($1, $2) RETURNING id, created_at, updated_at",
		category.Name, category.Image,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if isUniqueViolation(err, "categories_name_key") {
		return domain.ErrCategoryExists
	}
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, image, created_at, updated_at
		FROM categories
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Image, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresRepository) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, image, created_at, updated_at FROM categories WHERE id = $1", id,
	).Scan(&c.ID, &c.Name, &c.Image, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query category: %w", err)
	}
	return &c, nil
}

func (r *PostgresRepository) UpdateCategory(ctx context.Context, category *domain.Category) error {
	err := r.DB.QueryRowContext(ctx,
		"UPDATE categories SET name = $1, image = $2, updated_at = NOW() WHERE id = $3 RETURNING created_at, updated_at",
		category.Name, category.Image, category.ID,
	).Scan(&category.CreatedAt, &category.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrCategoryNotFound
	}
	if isUniqueViolation(err, "categories_name_key") {
		return domain.ErrCategoryExists
	}
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (name, description, price, category_id, image, is_available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		item.Name, item.Description, item.Price, item.CategoryID, item.Image, item.IsAvailable,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT`+menuItemColumns+`
		FROM menu_items m
		LEFT JOIN categories c ON c.id = m.category_id
		ORDER BY m.created_at DESC, m.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		var item domain.MenuItem
		if err := scanMenuItem(rows, &item); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetMenuItem always reads the row; it is the authoritative price source.
func (r *PostgresRepository) GetMenuItem(ctx context.Context, id int64) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := scanMenuItem(r.DB.QueryRowContext(ctx, `
		SELECT`+menuItemColumns+`
		FROM menu_items m
		LEFT JOIN categories c ON c.id = m.category_id
		WHERE m.id = $1`, id), &item)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMenuItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query menu item: %w", err)
	}
	return &item, nil
}

// shareMenuItem reads a menu item inside tx and holds a share lock on its row
// until the transaction ends, so its price and availability cannot change
// under a placement.
func shareMenuItem(ctx context.Context, tx *sql.Tx, id int64) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := scanMenuItem(tx.QueryRowContext(ctx, `
		SELECT`+menuItemColumns+`
		FROM menu_items m
		LEFT JOIN categories c ON c.id = m.category_id
		WHERE m.id = $1
		FOR SHARE OF m`, id), &item)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMenuItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query menu item: %w", err)
	}
	return &item, nil
}

func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE menu_items
		SET name = $1, description = $2, price = $3, category_id = $4, image = $5, is_available = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`,
		item.Name, item.Description, item.Price, item.CategoryID, item.Image, item.IsAvailable, item.ID,
	).Scan(&item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrMenuItemNotFound
	}
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteMenuItem(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM menu_items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrMenuItemNotFound
	}
	return nil
}
