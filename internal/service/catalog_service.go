package service

import (
	"context"

	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
)

type CatalogReader interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListOffices(ctx context.Context) ([]model.Office, error)
}

type CatalogService struct {
	repo CatalogReader
}

func NewCatalogService(repo CatalogReader) *CatalogService {
	return &CatalogService{repo: repo}
}

type Catalog struct {
	Products []model.Product `json:"products"`
	Offices  []model.Office  `json:"offices"`
}

func (s *CatalogService) GetCatalog(ctx context.Context) (*Catalog, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	offices, err := s.repo.ListOffices(ctx)
	if err != nil {
		return nil, err
	}
	return &Catalog{Products: products, Offices: offices}, nil
}
