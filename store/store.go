package store

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"storefront-backend/model"
)

// PostgresStore implements Store on top of database/sql.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{DB: db}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// --- products ---

func (s *PostgresStore) CreateProduct(ctx context.Context, p model.Product) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO products (id, category_id, name, price, image, description, stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, nullString(p.CategoryID), p.Name, p.Price, p.Image, nullString(p.Description), p.Stock)
	return err
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, p model.Product) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE products SET category_id=$2, name=$3, price=$4, image=$5, description=$6, stock=$7
		WHERE id=$1
	`, p.ID, nullString(p.CategoryID), p.Name, p.Price, p.Image, nullString(p.Description), p.Stock)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PostgresStore) GetProduct(ctx context.Context, id string) (model.Product, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, category_id, name, price, image, description, stock
		FROM products WHERE id=$1
	`, id)
	return scanProduct(row)
}

func (s *PostgresStore) ListProducts(ctx context.Context, categoryID string) ([]model.Product, error) {
	query := `SELECT id, category_id, name, price, image, description, stock FROM products ORDER BY name`
	args := []any{}
	if categoryID != "" {
		query = `SELECT id, category_id, name, price, image, description, stock FROM products WHERE category_id=$1 ORDER BY name`
		args = append(args, categoryID)
	}
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetStock(ctx context.Context, productID string) (int, error) {
	var stock int
	err := s.DB.QueryRowContext(ctx, `SELECT stock FROM products WHERE id=$1`, productID).Scan(&stock)
	return stock, err
}

// UpdateStock sets the absolute stock for a product (admin operation).
func (s *PostgresStore) UpdateStock(ctx context.Context, productID string, newStock int) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE products SET stock=$2 WHERE id=$1`, productID, newStock)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// --- categories ---

func (s *PostgresStore) CreateCategory(ctx context.Context, c model.Category) error {
	_, err := s.DB.ExecContext(ctx, `INSERT INTO categories (id, name) VALUES ($1, $2)`, c.ID, c.Name)
	if isUniqueViolation(err) {
		return model.Validationf("category %q already exists", c.Name)
	}
	return err
}

func (s *PostgresStore) UpdateCategory(ctx context.Context, c model.Category) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE categories SET name=$2 WHERE id=$1`, c.ID, c.Name)
	if isUniqueViolation(err) {
		return model.Validationf("category %q already exists", c.Name)
	}
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PostgresStore) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PostgresStore) GetCategory(ctx context.Context, id string) (model.Category, error) {
	var c model.Category
	err := s.DB.QueryRowContext(ctx, `SELECT id, name FROM categories WHERE id=$1`, id).Scan(&c.ID, &c.Name)
	return c, err
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// --- helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (model.Product, error) {
	var p model.Product
	var categoryID, description sql.NullString
	if err := row.Scan(&p.ID, &categoryID, &p.Name, &p.Price, &p.Image, &description, &p.Stock); err != nil {
		return model.Product{}, err
	}
	p.CategoryID = categoryID.String
	p.Description = description.String
	return p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// requireRow turns a zero-row write into sql.ErrNoRows.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
