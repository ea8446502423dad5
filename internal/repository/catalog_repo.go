package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
)

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT code, name, annual_rate::float8, weight FROM products ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.Code, &p.Name, &p.Rate, &p.Weight); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *CatalogRepository) ListOffices(ctx context.Context) ([]model.Office, error) {
	rows, err := r.pool.Query(ctx, `SELECT code, name FROM offices ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("query offices: %w", err)
	}
	defer rows.Close()

	offices := []model.Office{}
	for rows.Next() {
		var o model.Office
		if err := rows.Scan(&o.Code, &o.Name); err != nil {
			return nil, fmt.Errorf("scan office: %w", err)
		}
		offices = append(offices, o)
	}
	return offices, rows.Err()
}
