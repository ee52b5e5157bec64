package catalog

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const productColumns = `id, name, price, category, description, fabric_type, texture, quality, care,
	image, images, colors, media_ids, created_at, updated_at`

type postgresProducts struct{ db *sql.DB }

func NewPostgresProductRepository(db *sql.DB) ProductRepository { return &postgresProducts{db: db} }

func scanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	var (
		images, mediaIDs pq.StringArray
		colors           []byte
	)
	err := scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Description, &p.FabricType,
		&p.Texture, &p.Quality, &p.Care, &p.Image, &images, &colors, &mediaIDs,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Images = images
	p.MediaIDs = mediaIDs
	if colors != nil {
		if err := json.Unmarshal(colors, &p.Colors); err != nil {
			return nil, fmt.Errorf("decode colors: %w", err)
		}
	}
	p.normalize()
	return p, nil
}

func colorsValue(colors []ColorVariant) (interface{}, error) {
	if len(colors) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(colors)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *postgresProducts) List(ctx context.Context) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, sqlError("failed to query products", err)
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, sqlError("failed to scan product", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlError("row iteration error", err)
	}
	return products, nil
}

func (r *postgresProducts) GetByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, uid)
	p, err := scanProduct(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, sqlError("failed to get product", err)
	}
	return p, nil
}

func (r *postgresProducts) GetByIDs(ctx context.Context, ids []string) ([]*Product, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	products := []*Product{}
	if len(valid) == 0 {
		return products, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1::uuid[])`, pq.Array(valid))
	if err != nil {
		return nil, sqlError("failed to query products", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, sqlError("failed to scan product", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlError("row iteration error", err)
	}
	return products, nil
}

func (r *postgresProducts) Create(ctx context.Context, p *Product) error {
	return r.insert(ctx, r.db, p)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *postgresProducts) insert(ctx context.Context, db execer, p *Product) error {
	colors, err := colorsValue(p.Colors)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		p.ID, p.Name, p.Price, p.Category, p.Description, p.FabricType, p.Texture,
		p.Quality, p.Care, p.Image, pq.Array(p.Images), colors, pq.Array(p.MediaIDs),
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return sqlError("failed to create product", err)
	}
	return nil
}

func (r *postgresProducts) CreateMany(ctx context.Context, ps []*Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return sqlError("failed to begin transaction", err)
	}
	for _, p := range ps {
		if err := r.insert(ctx, tx, p); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return sqlError("failed to commit products", err)
	}
	return nil
}

func (r *postgresProducts) Update(ctx context.Context, p *Product) error {
	uid, err := uuid.Parse(p.ID)
	if err != nil {
		return ErrProductNotFound
	}
	colors, err := colorsValue(p.Colors)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name=$1, price=$2, category=$3, description=$4, fabric_type=$5, texture=$6,
		    quality=$7, care=$8, image=$9, images=$10, colors=$11, media_ids=$12, updated_at=$13
		WHERE id=$14`,
		p.Name, p.Price, p.Category, p.Description, p.FabricType, p.Texture, p.Quality,
		p.Care, p.Image, pq.Array(p.Images), colors, pq.Array(p.MediaIDs), p.UpdatedAt, uid)
	if err != nil {
		return sqlError("failed to update product", err)
	}
	return affectedOrNotFound(result, ErrProductNotFound)
}

func (r *postgresProducts) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrProductNotFound
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, uid)
	if err != nil {
		return sqlError("failed to delete product", err)
	}
	return affectedOrNotFound(result, ErrProductNotFound)
}

func (r *postgresProducts) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return sqlError("failed to clear products", err)
	}
	return nil
}

func (r *postgresProducts) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, sqlError("failed to count products", err)
	}
	return n, nil
}

const comboColumns = `id, name, description, product_ids, original_price, combo_price, savings,
	image, media_id, popular, created_at, updated_at`

type postgresCombos struct{ db *sql.DB }

func NewPostgresComboRepository(db *sql.DB) ComboRepository { return &postgresCombos{db: db} }

func scanCombo(scan func(...interface{}) error) (*Combo, error) {
	c := &Combo{}
	var productIDs pq.StringArray
	err := scan(&c.ID, &c.Name, &c.Description, &productIDs, &c.OriginalPrice, &c.ComboPrice,
		&c.Savings, &c.Image, &c.MediaID, &c.Popular, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.ProductIDs = productIDs
	return c, nil
}

func (r *postgresCombos) List(ctx context.Context) ([]*Combo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+comboColumns+` FROM combos ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, sqlError("failed to query combos", err)
	}
	defer rows.Close()

	combos := []*Combo{}
	for rows.Next() {
		c, err := scanCombo(rows.Scan)
		if err != nil {
			return nil, sqlError("failed to scan combo", err)
		}
		combos = append(combos, c)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlError("row iteration error", err)
	}
	return combos, nil
}

func (r *postgresCombos) GetByID(ctx context.Context, id string) (*Combo, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrComboNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+comboColumns+` FROM combos WHERE id = $1`, uid)
	c, err := scanCombo(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrComboNotFound
		}
		return nil, sqlError("failed to get combo", err)
	}
	return c, nil
}

func (r *postgresCombos) Create(ctx context.Context, c *Combo) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO combos (`+comboColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		c.ID, c.Name, c.Description, pq.Array(c.ProductIDs), c.OriginalPrice, c.ComboPrice,
		c.Savings, c.Image, c.MediaID, c.Popular, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return sqlError("failed to create combo", err)
	}
	return nil
}

func (r *postgresCombos) Update(ctx context.Context, c *Combo) error {
	uid, err := uuid.Parse(c.ID)
	if err != nil {
		return ErrComboNotFound
	}
	result, err := r.db.ExecContext(ctx, `
		UPDATE combos
		SET name=$1, description=$2, product_ids=$3, original_price=$4, combo_price=$5,
		    savings=$6, image=$7, media_id=$8, popular=$9, updated_at=$10
		WHERE id=$11`,
		c.Name, c.Description, pq.Array(c.ProductIDs), c.OriginalPrice, c.ComboPrice,
		c.Savings, c.Image, c.MediaID, c.Popular, c.UpdatedAt, uid)
	if err != nil {
		return sqlError("failed to update combo", err)
	}
	return affectedOrNotFound(result, ErrComboNotFound)
}

func (r *postgresCombos) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrComboNotFound
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM combos WHERE id = $1`, uid)
	if err != nil {
		return sqlError("failed to delete combo", err)
	}
	return affectedOrNotFound(result, ErrComboNotFound)
}

func affectedOrNotFound(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// sqlError wraps err, classifying connectivity failures as unavailable.
func sqlError(msg string, err error) error {
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %v", msg, httpx.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
