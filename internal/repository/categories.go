package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/dddddddrrrr/campus-cart/internal/domain"
)

func (r *Repository) CreateCategory(ctx context.Context, category *domain.Category) error {
	query := `INSERT INTO categories (name, icon, created_at, updated_at)
	          VALUES ($1, $2, NOW(), NOW())
	          RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, category.Name, category.Icon).Scan(
		&category.ID,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateCategoryName
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *Repository) GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `SELECT c.id, c.name, c.icon, COUNT(p.id), c.created_at, c.updated_at
	          FROM categories c
	          LEFT JOIN products p ON p.category_id = c.id
	          WHERE c.id = $1
	          GROUP BY c.id`

	var category domain.Category
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Icon,
		&category.ProductCount,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query category by id: %w", err)
	}
	return &category, nil
}

// ListCategories returns all categories alphabetically with product counts,
// matching the storefront listing.
func (r *Repository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	query := `SELECT c.id, c.name, c.icon, COUNT(p.id), c.created_at, c.updated_at
	          FROM categories c
	          LEFT JOIN products p ON p.category_id = c.id
	          GROUP BY c.id
	          ORDER BY c.name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	return scanCategories(rows)
}

func (r *Repository) AdminListCategories(ctx context.Context, name string, page, pageSize int) ([]*domain.Category, int, error) {
	where := ""
	args := []any{}
	if name != "" {
		where = "WHERE c.name ILIKE $1"
		args = append(args, "%"+name+"%")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM categories c %s`, where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	query := fmt.Sprintf(`SELECT c.id, c.name, c.icon, COUNT(p.id), c.created_at, c.updated_at
	          FROM categories c
	          LEFT JOIN products p ON p.category_id = c.id
	          %s
	          GROUP BY c.id
	          ORDER BY c.created_at DESC
	          LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories, err := scanCategories(rows)
	if err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, category *domain.Category) error {
	query := `UPDATE categories SET name = $2, icon = $3, updated_at = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, category.ID, category.Name, category.Icon)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateCategoryName
		}
		return fmt.Errorf("update category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// DeleteCategory refuses to delete a category that still owns products.
func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	var productCount int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE category_id = $1`, id).Scan(&productCount)
	if err != nil {
		return fmt.Errorf("count category products: %w", err)
	}
	if productCount > 0 {
		return ErrCategoryNotEmpty
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func scanCategories(rows *sql.Rows) ([]*domain.Category, error) {
	var categories []*domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Icon,
			&category.ProductCount,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, &category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return categories, nil
}
