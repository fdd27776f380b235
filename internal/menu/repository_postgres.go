package menu

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const menuColumns = `
	id::text,
	menu_date::text,
	category,
	COALESCE(subcategory, ''),
	name,
	description,
	COALESCE(image_url, ''),
	created_at,
	updated_at
`

// invalid_text_representation: the id is not a uuid
func isBadID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

func scanItem(row pgx.Row) (*MenuItem, error) {
	var m MenuItem
	if err := row.Scan(
		&m.ID,
		&m.Date,
		&m.Category,
		&m.Subcategory,
		&m.Name,
		&m.Description,
		&m.ImageURL,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// --------------------------------------------------
// CREATE (BULK, ATOMIC)
// --------------------------------------------------
func (r *PostgresRepository) Create(
	ctx context.Context,
	items []MenuItem,
) ([]MenuItem, error) {

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	out := make([]MenuItem, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}

		created, err := scanItem(tx.QueryRow(ctx, `
			INSERT INTO menu_items (
				id,
				menu_date,
				category,
				subcategory,
				name,
				description,
				image_url
			)
			VALUES ($1, $2::date, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''))
			RETURNING `+menuColumns,
			it.ID, it.Date, it.Category, it.Subcategory, it.Name, it.Description, it.ImageURL,
		))
		if err != nil {
			return nil, err
		}
		out = append(out, *created)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// LIST (OPTIONAL DATE FILTER)
// --------------------------------------------------
func (r *PostgresRepository) List(
	ctx context.Context,
	date string,
) ([]MenuItem, error) {

	query := `SELECT ` + menuColumns + ` FROM menu_items`
	args := []any{}
	if date != "" {
		query += ` WHERE menu_date = $1::date`
		args = append(args, date)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []MenuItem{}
	for rows.Next() {
		m, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}

	return items, rows.Err()
}

// --------------------------------------------------
// UPDATE (FULL REPLACEMENT OF EDITABLE FIELDS)
// --------------------------------------------------
func (r *PostgresRepository) Update(
	ctx context.Context,
	id string,
	item MenuItem,
) (*MenuItem, error) {

	updated, err := scanItem(r.db.QueryRow(ctx, `
		UPDATE menu_items
		SET menu_date = $2::date,
		    category = $3,
		    subcategory = NULLIF($4, ''),
		    name = $5,
		    description = $6,
		    image_url = NULLIF($7, ''),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+menuColumns,
		id, item.Date, item.Category, item.Subcategory, item.Name, item.Description, item.ImageURL,
	))
	if errors.Is(err, pgx.ErrNoRows) || isBadID(err) {
		return nil, ErrNotFound
	}
	return updated, err
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if isBadID(err) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteByDate(ctx context.Context, date string) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE menu_date = $1::date`, date)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
