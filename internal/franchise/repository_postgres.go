package franchise

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

// --------------------------------------------------
// Create a new franchise
// --------------------------------------------------
func (r *PostgresRepository) Create(ctx context.Context, f *Franchise) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO franchises (id, name, location)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, f.ID, f.Name, f.Location).Scan(&f.CreatedAt)
}

// --------------------------------------------------
// List franchises for the inspection form
// --------------------------------------------------
func (r *PostgresRepository) List(ctx context.Context) ([]Franchise, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			id::text,
			name,
			location,
			created_at
		FROM franchises
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	franchises := []Franchise{}
	for rows.Next() {
		var f Franchise
		if err := rows.Scan(&f.ID, &f.Name, &f.Location, &f.CreatedAt); err != nil {
			return nil, err
		}
		franchises = append(franchises, f)
	}

	return franchises, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*Franchise, error) {
	var f Franchise
	err := r.db.QueryRow(ctx, `
		SELECT id::text, name, location, created_at
		FROM franchises
		WHERE id = $1
	`, id).Scan(&f.ID, &f.Name, &f.Location, &f.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.Is(err, pgx.ErrNoRows) || (errors.As(err, &pgErr) && pgErr.Code == "22P02") {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}
