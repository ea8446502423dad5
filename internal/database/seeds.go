package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/loan-portfolio-simulator/internal/config"
)

// SeedCatalog upserts the configured product and office catalogs so stored
// runs can be browsed against the lender's reference data. Re-running with
// the same parameters changes nothing.
func SeedCatalog(ctx context.Context, pool *pgxpool.Pool, params config.Parameters) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, p := range params.Products {
		_, err := tx.Exec(ctx,
			`INSERT INTO products (code, name, annual_rate, weight) VALUES ($1, $2, $3, $4)
			ON CONFLICT (code) DO UPDATE
			SET name = EXCLUDED.name, annual_rate = EXCLUDED.annual_rate, weight = EXCLUDED.weight, updated_at = NOW()
			WHERE (products.name, products.annual_rate, products.weight) IS DISTINCT FROM (EXCLUDED.name, EXCLUDED.annual_rate, EXCLUDED.weight)`,
			p.Code, p.Name, p.Rate, p.Weight)
		if err != nil {
			return fmt.Errorf("upsert product %d: %w", p.Code, err)
		}
	}
	log.Info().Int("count", len(params.Products)).Msg("seeded products")

	for _, o := range params.Offices {
		_, err := tx.Exec(ctx,
			`INSERT INTO offices (code, name) VALUES ($1, $2)
			ON CONFLICT (code) DO UPDATE
			SET name = EXCLUDED.name, updated_at = NOW()
			WHERE offices.name IS DISTINCT FROM EXCLUDED.name`,
			o.Code, o.Name)
		if err != nil {
			return fmt.Errorf("upsert office %d: %w", o.Code, err)
		}
	}
	log.Info().Int("count", len(params.Offices)).Msg("seeded offices")

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit catalog: %w", err)
	}
	return nil
}
