// Package catalog resolves the effective purchase catalog of a supplier:
// the supplier's active product mappings merged with product defaults.
package catalog

import (
	"context"
	"fmt"

	"github.com/m3rciful/ksabot/internal/domain"
)

// FallbackUnitName is used when a unit id cannot be resolved.
const FallbackUnitName = "PCS"

// ResolvedProduct is one purchasable line of a supplier catalog with all
// override rules applied.
type ResolvedProduct struct {
	ProductID   int64
	Name        string
	Description string
	Stock       int64
	// Price is the effective purchase price: supplier override when
	// present and non-zero, otherwise 0.
	Price     float64
	BigUnit   string
	SmallUnit string
	// Factor is how many small units one big unit contains, always >= 1.
	Factor    int
	SellPrice float64
}

// Store provides the rows the resolver works from.
type Store interface {
	CatalogRows(ctx context.Context, supplierID int64) ([]domain.CatalogRow, error)
	UnitName(ctx context.Context, unitID int64) (string, error)
}

// Service loads and resolves supplier catalogs.
type Service struct {
	store Store
}

// NewService returns a Service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Catalog returns the resolved catalog of a supplier, ordered by product
// name. An empty mapping list yields an empty catalog, not an error.
func (s *Service) Catalog(ctx context.Context, supplierID int64) ([]ResolvedProduct, error) {
	rows, err := s.store.CatalogRows(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("load catalog rows: %w", err)
	}

	out := make([]ResolvedProduct, 0, len(rows))
	for _, row := range rows {
		p := ResolveRow(row)
		p.BigUnit = s.unitName(ctx, bigUnitID(row))
		p.SmallUnit = s.unitName(ctx, row.SmallUnitID.Int64)
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) unitName(ctx context.Context, unitID int64) string {
	if unitID == 0 {
		return FallbackUnitName
	}
	name, err := s.store.UnitName(ctx, unitID)
	if err != nil || name == "" {
		return FallbackUnitName
	}
	return name
}

// bigUnitID picks the mapping's unit override when set, else the
// product's big unit.
func bigUnitID(row domain.CatalogRow) int64 {
	if row.OverrideUnit.Valid && row.OverrideUnit.Int64 != 0 {
		return row.OverrideUnit.Int64
	}
	return row.BigUnitID.Int64
}

// ResolveRow applies the price and conversion override rules to a joined
// row. Unit names are left empty; Catalog fills them in.
func ResolveRow(row domain.CatalogRow) ResolvedProduct {
	p := ResolvedProduct{
		ProductID:   row.ProductID,
		Name:        row.ProductName,
		Description: row.Description.String,
		Stock:       row.Stock.Int64,
		SellPrice:   row.SellPrice.Float64,
	}

	if row.OverridePrice.Valid && row.OverridePrice.Float64 != 0 {
		p.Price = row.OverridePrice.Float64
	}

	switch {
	case row.OverrideQty.Valid && row.OverrideQty.Int64 > 0:
		p.Factor = int(row.OverrideQty.Int64)
	case row.DefaultQty.Valid && row.DefaultQty.Int64 > 0:
		p.Factor = int(row.DefaultQty.Int64)
	default:
		p.Factor = 1
	}

	return p
}
