package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/waypost-app/waypost/internal/core/domain"
)

// findInBoundsLimit caps a single bounding-box scan. The box is a coarse
// pre-filter; anything past this limit would swamp the exact distance
// filter anyway.
const findInBoundsLimit = 2000

// CampsiteRepo implements ports.CampsiteRepository with pgx. Coordinates
// are stored as plain indexed lat/lon columns so the bounding-box range
// query stays a simple btree scan.
type CampsiteRepo struct {
	db *DB
}

// NewCampsiteRepo creates a new CampsiteRepo.
func NewCampsiteRepo(db *DB) *CampsiteRepo {
	return &CampsiteRepo{db: db}
}

// Upsert inserts or updates a single campsite. A blank ID lets the database
// assign one; the generated ID is written back.
func (r *CampsiteRepo) Upsert(ctx context.Context, c *domain.Campsite) error {
	if c.ID == "" {
		return r.db.Pool.QueryRow(ctx, `
			INSERT INTO campsites (name, lat, lon, description, features, images)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`, c.Name, c.Location.Lat, c.Location.Lon, c.Description, c.Features, c.Images).
			Scan(&c.ID, &c.CreatedAt)
	}

	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO campsites (id, name, lat, lon, description, features, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, lat = EXCLUDED.lat, lon = EXCLUDED.lon,
		    description = EXCLUDED.description,
		    features = EXCLUDED.features, images = EXCLUDED.images
	`, c.ID, c.Name, c.Location.Lat, c.Location.Lon, c.Description, c.Features, c.Images)
	return err
}

// UpsertBatch inserts many campsites using pgx.Batch.
func (r *CampsiteRepo) UpsertBatch(ctx context.Context, cs []domain.Campsite) error {
	batch := &pgx.Batch{}
	for _, c := range cs {
		batch.Queue(`
			INSERT INTO campsites (id, name, lat, lon, description, features, images)
			VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, lat = EXCLUDED.lat, lon = EXCLUDED.lon
		`, c.ID, c.Name, c.Location.Lat, c.Location.Lon, c.Description, c.Features, c.Images)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range cs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// GetByID returns a campsite by UUID.
func (r *CampsiteRepo) GetByID(ctx context.Context, id string) (*domain.Campsite, error) {
	var c domain.Campsite
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, lat, lon, COALESCE(description, ''), features, images, created_at
		FROM campsites WHERE id = $1
	`, id).Scan(
		&c.ID, &c.Name, &c.Location.Lat, &c.Location.Lon,
		&c.Description, &c.Features, &c.Images, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindInBounds returns campsites whose coordinates fall inside the box.
// This is the store's single geometry-shaped capability; exact route
// proximity is the caller's job.
func (r *CampsiteRepo) FindInBounds(ctx context.Context, b domain.Bounds) ([]domain.Campsite, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, lat, lon, COALESCE(description, ''), features, images, created_at
		FROM campsites
		WHERE lat BETWEEN $1 AND $2
		  AND lon BETWEEN $3 AND $4
		LIMIT $5
	`, b.MinLat, b.MaxLat, b.MinLon, b.MaxLon, findInBoundsLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCampsites(rows)
}

// ListRecent returns a page of campsites, newest first, plus the total count.
func (r *CampsiteRepo) ListRecent(ctx context.Context, limit, offset int) ([]domain.Campsite, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM campsites`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, lat, lon, COALESCE(description, ''), features, images, created_at
		FROM campsites
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	cs, err := scanCampsites(rows)
	if err != nil {
		return nil, 0, err
	}
	return cs, total, nil
}

func scanCampsites(rows pgx.Rows) ([]domain.Campsite, error) {
	var out []domain.Campsite
	for rows.Next() {
		var c domain.Campsite
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Location.Lat, &c.Location.Lon,
			&c.Description, &c.Features, &c.Images, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
