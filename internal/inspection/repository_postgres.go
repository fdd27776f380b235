package inspection

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"franchiseops/internal/checklist"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const inspectionColumns = `
	id::text,
	franchise_id::text,
	COALESCE(inspector_id::text, ''),
	inspection_date::text,
	sector,
	total_points,
	points_achieved,
	percentage,
	rating,
	created_at
`

func scanInspection(row pgx.Row) (*Inspection, error) {
	var (
		in     Inspection
		rating string
	)
	if err := row.Scan(
		&in.ID,
		&in.FranchiseID,
		&in.InspectorID,
		&in.Date,
		&in.Sector,
		&in.TotalPoints,
		&in.PointsAchieved,
		&in.Percentage,
		&rating,
		&in.CreatedAt,
	); err != nil {
		return nil, err
	}
	in.Rating = checklist.Rating(rating)
	return &in, nil
}

// malformed ids can never match a row
func isBadID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

// --------------------------------------------------
// CREATE SECTOR (INSPECTION + ITEMS + PHOTOS, ATOMIC)
// --------------------------------------------------
func (r *PostgresRepository) CreateSector(
	ctx context.Context,
	in NewSector,
) (*Inspection, error) {

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rec := in.Inspection
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	created, err := scanInspection(tx.QueryRow(ctx, `
		INSERT INTO inspections (
			id,
			franchise_id,
			inspector_id,
			inspection_date,
			sector,
			total_points,
			points_achieved,
			percentage,
			rating
		)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4::date, $5, $6, $7, $8, $9)
		RETURNING `+inspectionColumns,
		rec.ID, rec.FranchiseID, rec.InspectorID, rec.Date, rec.Sector,
		rec.TotalPoints, rec.PointsAchieved, rec.Percentage, string(rec.Rating),
	))
	if err != nil {
		return nil, fmt.Errorf("insert inspection: %w", err)
	}

	for pos, it := range in.Items {
		itemID := it.ID
		if itemID == "" {
			itemID = uuid.New().String()
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO checklist_items (
				id,
				inspection_id,
				position,
				category,
				item_name,
				status,
				points,
				observation,
				responsible,
				photo_url
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''))
		`, itemID, created.ID, pos, it.Category, it.ItemName, string(it.Status),
			it.Points, it.Observation, it.Responsible, it.PhotoURL)
		if err != nil {
			return nil, fmt.Errorf("insert item %q: %w", it.ItemName, err)
		}

		for ppos, url := range it.Photos {
			if _, err := tx.Exec(ctx, `
				INSERT INTO checklist_item_photos (id, item_id, position, url)
				VALUES ($1, $2, $3, $4)
			`, uuid.New().String(), itemID, ppos, url); err != nil {
				return nil, fmt.Errorf("insert photo for %q: %w", it.ItemName, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*Inspection, error) {
	in, err := scanInspection(r.db.QueryRow(ctx, `
		SELECT `+inspectionColumns+`
		FROM inspections
		WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) || isBadID(err) {
		return nil, ErrNotFound
	}
	return in, err
}

func (r *PostgresRepository) ListByFranchiseDate(
	ctx context.Context,
	franchiseID string,
	date string,
) ([]Inspection, error) {
	return r.query(ctx, `
		SELECT `+inspectionColumns+`
		FROM inspections
		WHERE franchise_id = $1
		  AND inspection_date = $2::date
		ORDER BY created_at DESC, id DESC
	`, franchiseID, date)
}

func (r *PostgresRepository) List(ctx context.Context, f ListFilter) ([]Inspection, error) {
	query := `SELECT ` + inspectionColumns + ` FROM inspections WHERE 1=1`
	args := []any{}

	if f.FranchiseID != "" {
		args = append(args, f.FranchiseID)
		query += fmt.Sprintf(" AND franchise_id = $%d", len(args))
	}
	if f.From != "" {
		args = append(args, f.From)
		query += fmt.Sprintf(" AND inspection_date >= $%d::date", len(args))
	}
	if f.To != "" {
		args = append(args, f.To)
		query += fmt.Sprintf(" AND inspection_date <= $%d::date", len(args))
	}
	query += " ORDER BY created_at DESC, id DESC"

	return r.query(ctx, query, args...)
}

func (r *PostgresRepository) query(ctx context.Context, sql string, args ...any) ([]Inspection, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		if isBadID(err) {
			return []Inspection{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	out := []Inspection{}
	for rows.Next() {
		in, err := scanInspection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *in)
	}
	return out, rows.Err()
}

// --------------------------------------------------
// ITEMS WITH PHOTOS
// --------------------------------------------------
func (r *PostgresRepository) ListItems(
	ctx context.Context,
	inspectionIDs []string,
) ([]ChecklistItem, error) {

	if len(inspectionIDs) == 0 {
		return []ChecklistItem{}, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT
			ci.id::text,
			ci.inspection_id::text,
			ci.category,
			ci.item_name,
			ci.status,
			ci.points,
			ci.observation,
			ci.responsible,
			COALESCE(ci.photo_url, ''),
			ci.created_at
		FROM checklist_items ci
		WHERE ci.inspection_id = ANY($1::uuid[])
		ORDER BY ci.inspection_id, ci.position
	`, inspectionIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []ChecklistItem{}
	index := map[string]int{}
	for rows.Next() {
		var (
			it     ChecklistItem
			status string
		)
		if err := rows.Scan(
			&it.ID,
			&it.InspectionID,
			&it.Category,
			&it.ItemName,
			&status,
			&it.Points,
			&it.Observation,
			&it.Responsible,
			&it.PhotoURL,
			&it.CreatedAt,
		); err != nil {
			return nil, err
		}
		it.Status = checklist.Status(status)
		it.Photos = []string{}
		index[it.ID] = len(items)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	itemIDs := make([]string, 0, len(items))
	for _, it := range items {
		itemIDs = append(itemIDs, it.ID)
	}

	photoRows, err := r.db.Query(ctx, `
		SELECT item_id::text, url
		FROM checklist_item_photos
		WHERE item_id = ANY($1::uuid[])
		ORDER BY item_id, position
	`, itemIDs)
	if err != nil {
		return nil, err
	}
	defer photoRows.Close()

	for photoRows.Next() {
		var itemID, url string
		if err := photoRows.Scan(&itemID, &url); err != nil {
			return nil, err
		}
		if i, ok := index[itemID]; ok {
			items[i].Photos = append(items[i].Photos, url)
		}
	}

	return items, photoRows.Err()
}

// --------------------------------------------------
// UPDATE (DIRECT FIELD REPLACEMENT)
// --------------------------------------------------
func (r *PostgresRepository) Update(ctx context.Context, in Inspection) (*Inspection, error) {
	updated, err := scanInspection(r.db.QueryRow(ctx, `
		UPDATE inspections
		SET inspection_date = $2::date,
		    sector = $3,
		    inspector_id = NULLIF($4, '')::uuid,
		    total_points = $5,
		    points_achieved = $6,
		    percentage = $7,
		    rating = $8
		WHERE id = $1
		RETURNING `+inspectionColumns,
		in.ID, in.Date, in.Sector, in.InspectorID,
		in.TotalPoints, in.PointsAchieved, in.Percentage, string(in.Rating),
	))
	if errors.Is(err, pgx.ErrNoRows) || isBadID(err) {
		return nil, ErrNotFound
	}
	return updated, err
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM inspections WHERE id = $1`, id)
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

func (r *PostgresRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM inspections WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
