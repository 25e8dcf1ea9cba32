package catalog

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/ksabot/internal/domain"
)

type fakeStore struct {
	rows  []domain.CatalogRow
	units map[int64]string
}

func (f *fakeStore) CatalogRows(_ context.Context, _ int64) ([]domain.CatalogRow, error) {
	return f.rows, nil
}

func (f *fakeStore) UnitName(_ context.Context, id int64) (string, error) {
	if name, ok := f.units[id]; ok {
		return name, nil
	}
	return "", sql.ErrNoRows
}

func nf(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }
func ni(v int64) sql.NullInt64     { return sql.NullInt64{Int64: v, Valid: true} }

func TestResolveRowPriceOverride(t *testing.T) {
	row := domain.CatalogRow{ProductID: 1, ProductName: "Beras", OverridePrice: nf(12500)}
	p := ResolveRow(row)
	assert.Equal(t, 12500.0, p.Price)
}

func TestResolveRowZeroOverrideMeansZero(t *testing.T) {
	row := domain.CatalogRow{ProductID: 1, OverridePrice: nf(0), SellPrice: nf(15000)}
	p := ResolveRow(row)
	assert.Equal(t, 0.0, p.Price)
}

func TestResolveRowMissingOverrideMeansZero(t *testing.T) {
	p := ResolveRow(domain.CatalogRow{ProductID: 1})
	assert.Equal(t, 0.0, p.Price)
}

func TestResolveRowConversionFactor(t *testing.T) {
	// override wins when positive
	p := ResolveRow(domain.CatalogRow{OverrideQty: ni(24), DefaultQty: ni(12)})
	assert.Equal(t, 24, p.Factor)

	// zero override falls back to the product default
	p = ResolveRow(domain.CatalogRow{OverrideQty: ni(0), DefaultQty: ni(12)})
	assert.Equal(t, 12, p.Factor)

	// nothing set: factor is 1
	p = ResolveRow(domain.CatalogRow{})
	assert.Equal(t, 1, p.Factor)
}

func TestCatalogResolvesUnitNames(t *testing.T) {
	store := &fakeStore{
		rows: []domain.CatalogRow{
			{
				ProductID:    7,
				ProductName:  "Gula Pasir",
				OverrideUnit: ni(2),
				BigUnitID:    ni(1),
				SmallUnitID:  ni(3),
				DefaultQty:   ni(10),
			},
		},
		units: map[int64]string{1: "DUS", 2: "KARUNG", 3: "KG"},
	}

	svc := NewService(store)
	got, err := svc.Catalog(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "KARUNG", got[0].BigUnit)
	assert.Equal(t, "KG", got[0].SmallUnit)
	assert.Equal(t, 10, got[0].Factor)
}

func TestCatalogUnitFallback(t *testing.T) {
	store := &fakeStore{
		rows: []domain.CatalogRow{
			{ProductID: 7, ProductName: "Teh", BigUnitID: ni(99), SmallUnitID: sql.NullInt64{}},
		},
		units: map[int64]string{},
	}

	svc := NewService(store)
	got, err := svc.Catalog(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, FallbackUnitName, got[0].BigUnit)
	assert.Equal(t, FallbackUnitName, got[0].SmallUnit)
}

func TestCatalogEmptyMappingList(t *testing.T) {
	svc := NewService(&fakeStore{})
	got, err := svc.Catalog(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}
