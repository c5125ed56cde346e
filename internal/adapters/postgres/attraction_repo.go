package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/tourguide/internal/core/domain"
)

// AttractionRepo implements ports.AttractionCatalog with pgx.
type AttractionRepo struct {
	db *DB
}

// NewAttractionRepo creates a new AttractionRepo.
func NewAttractionRepo(db *DB) *AttractionRepo {
	return &AttractionRepo{db: db}
}

// ListAttractions returns every attraction ordered by name.
func (r *AttractionRepo) ListAttractions(ctx context.Context) ([]domain.Attraction, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, city, state, latitude, longitude
		FROM attractions
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query attractions: %w", err)
	}
	defer rows.Close()

	var out []domain.Attraction
	for rows.Next() {
		var a domain.Attraction
		if err := rows.Scan(&a.ID, &a.Name, &a.City, &a.State, &a.Location.Lat, &a.Location.Lon); err != nil {
			return nil, fmt.Errorf("scan attraction: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpsertBatch inserts or updates many attractions using pgx.Batch.
func (r *AttractionRepo) UpsertBatch(ctx context.Context, attractions []domain.Attraction) error {
	batch := &pgx.Batch{}
	for _, a := range attractions {
		batch.Queue(`
			INSERT INTO attractions (id, name, city, state, latitude, longitude)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, city = EXCLUDED.city, state = EXCLUDED.state,
			    latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude, updated_at = now()
		`, a.ID, a.Name, a.City, a.State, a.Location.Lat, a.Location.Lon)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range attractions {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}
