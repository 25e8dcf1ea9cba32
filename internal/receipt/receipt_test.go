package receipt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/ksabot/internal/catalog"
	"github.com/m3rciful/ksabot/internal/domain"
	"github.com/m3rciful/ksabot/internal/numbering"
)

func sampleCatalog() []catalog.ResolvedProduct {
	return []catalog.ResolvedProduct{
		{ProductID: 11, Name: "Beras Premium", Price: 12500, BigUnit: "KARUNG", SmallUnit: "KG", Factor: 25},
		{ProductID: 12, Name: "Gula Pasir", Price: 15000, BigUnit: "KARUNG", SmallUnit: "KG", Factor: 50},
		{ProductID: 13, Name: "Teh Celup", Price: 0, BigUnit: "DUS", SmallUnit: "PCS", Factor: 24},
	}
}

func newConv() *Conversation {
	return NewConversation(100, 200, 3, "Wirasa Jaya", "WIR/2025/09/004", sampleCatalog())
}

func TestConversationHappyPath(t *testing.T) {
	c := newConv()
	assert.Equal(t, StepAwaitingInvoice, c.Step)

	c.UseAutoInvoice()
	assert.Equal(t, "WIR/2025/09/004", c.Invoice)
	assert.Equal(t, StepAwaitingNote, c.Step)

	c.SetNote("barang belum dicek")
	assert.Equal(t, StepSelectingProducts, c.Step)

	require.NoError(t, c.SelectProduct(0))
	assert.Equal(t, StepAwaitingQuantity, c.Step)
	require.NoError(t, c.AddQuantity("10"))
	assert.Equal(t, StepSelectingProducts, c.Step)

	require.NoError(t, c.SelectProduct(1))
	require.NoError(t, c.AddQuantity("4"))

	require.Len(t, c.Items, 2)
	assert.Equal(t, 125000.0+60000.0, c.Total())
}

func TestConversationManualInvoice(t *testing.T) {
	c := newConv()

	assert.ErrorIs(t, c.SetInvoice("   "), ErrEmptyInvoice)
	assert.Equal(t, StepAwaitingInvoice, c.Step)

	require.NoError(t, c.SetInvoice(" INV-999 "))
	assert.Equal(t, "INV-999", c.Invoice)
	assert.Equal(t, StepAwaitingNote, c.Step)
}

func TestConversationDashMeansNoNote(t *testing.T) {
	c := newConv()
	c.UseAutoInvoice()
	c.SetNote("-")
	assert.Empty(t, c.Note)
}

func TestConversationQuantityValidation(t *testing.T) {
	c := newConv()
	c.UseAutoInvoice()
	c.SetNote("-")
	require.NoError(t, c.SelectProduct(0))

	assert.ErrorIs(t, c.AddQuantity("abc"), ErrQtyNotNumber)
	assert.ErrorIs(t, c.AddQuantity("0"), ErrQtyNotPositive)
	assert.ErrorIs(t, c.AddQuantity("-3"), ErrQtyNotPositive)
	// still waiting on the same product
	assert.Equal(t, StepAwaitingQuantity, c.Step)

	require.NoError(t, c.AddQuantity("5"))
	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Qty)
}

func TestConversationQuantityWithoutSelection(t *testing.T) {
	c := newConv()
	c.UseAutoInvoice()
	c.SetNote("-")
	assert.ErrorIs(t, c.AddQuantity("5"), ErrNoSelection)
}

func TestConversationMergesRepeatedProduct(t *testing.T) {
	c := newConv()
	c.UseAutoInvoice()
	c.SetNote("-")

	require.NoError(t, c.SelectProduct(0))
	require.NoError(t, c.AddQuantity("3"))
	require.NoError(t, c.SelectProduct(0))
	require.NoError(t, c.AddQuantity("2"))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Qty)
}

func TestConversationProductIndexBounds(t *testing.T) {
	c := newConv()
	assert.ErrorIs(t, c.SelectProduct(-1), ErrProductIndex)
	assert.ErrorIs(t, c.SelectProduct(3), ErrProductIndex)
}

func TestConversationZeroPriceGate(t *testing.T) {
	c := newConv()
	c.UseAutoInvoice()
	c.SetNote("-")

	require.NoError(t, c.SelectProduct(0))
	require.NoError(t, c.AddQuantity("1"))
	assert.False(t, c.NeedsZeroPriceConfirm())

	require.NoError(t, c.SelectProduct(2))
	require.NoError(t, c.AddQuantity("2"))
	assert.Equal(t, 1, c.ZeroPriceCount())
	assert.True(t, c.NeedsZeroPriceConfirm())

	c.ConfirmZeroPrice()
	assert.False(t, c.NeedsZeroPriceConfirm())
}

type fakeStore struct {
	units      map[string]int64
	header     domain.Receipt
	details    []domain.ReceiptDetail
	insertErr  error
	receipts   []domain.Receipt
	maxSeq     int
	pageLimit  int
	pageOffset int
}

func (f *fakeStore) UnitIDByName(_ context.Context, name string) (int64, error) {
	if id, ok := f.units[name]; ok {
		return id, nil
	}
	return 0, errors.New("not found")
}

func (f *fakeStore) InsertReceipt(_ context.Context, header domain.Receipt, details []domain.ReceiptDetail) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.header = header
	f.details = details
	return 555, nil
}

func (f *fakeStore) CountReceipts(_ context.Context, _ int64) (int, error) {
	return len(f.receipts), nil
}

func (f *fakeStore) ReceiptsPage(_ context.Context, _ int64, limit, offset int) ([]domain.Receipt, error) {
	f.pageLimit, f.pageOffset = limit, offset
	end := offset + limit
	if end > len(f.receipts) {
		end = len(f.receipts)
	}
	if offset >= len(f.receipts) {
		return nil, nil
	}
	return f.receipts[offset:end], nil
}

func (f *fakeStore) MaxTrackingSequence(_ context.Context, _ string) (int, error) {
	return f.maxSeq, nil
}

func (f *fakeStore) TrackingNumberExists(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (f *fakeStore) LastInvoiceNumber(_ context.Context, _ int64, _ int, _ time.Month, _ string) (string, error) {
	return "", nil
}

var commitTime = time.Date(2025, time.September, 1, 14, 45, 30, 0, time.UTC)

func newCommitService(store *fakeStore) *Service {
	gen := numbering.NewGenerator(store, store, "TLE")
	return NewService(store, gen, 25, 65535)
}

func TestCommitWritesHeaderAndDetails(t *testing.T) {
	store := &fakeStore{units: map[string]int64{"KARUNG": 4, "KG": 2}, maxSeq: 11}
	svc := newCommitService(store)

	c := newConv()
	c.UseAutoInvoice()
	c.SetNote("barang belum dicek")
	require.NoError(t, c.SelectProduct(0))
	require.NoError(t, c.AddQuantity("10"))
	require.NoError(t, c.SelectProduct(2))
	require.NoError(t, c.AddQuantity("2"))

	res, err := svc.Commit(context.Background(), c, "BUDI", commitTime)
	require.NoError(t, err)

	assert.Equal(t, int64(555), res.ReceiptID)
	assert.Equal(t, "TLE250901012", res.Number)
	assert.Equal(t, "WIR/2025/09/004", res.Invoice)
	assert.Equal(t, "Wirasa Jaya", res.SupplierName)
	assert.Equal(t, 2, res.ItemCount)
	assert.Equal(t, 125000.0, res.Total)
	assert.Equal(t, 1, res.ZeroPriceCount)

	h := store.header
	assert.Equal(t, "TLE250901012", h.Number)
	assert.Equal(t, int64(3), h.SupplierID)
	assert.Equal(t, "14:45:30", h.Time)
	assert.Equal(t, 0.0, h.Discount)
	assert.Equal(t, h.Total, h.FinalTotal)
	assert.Equal(t, "BUDI", h.User)
	assert.Equal(t, "Y", h.Active)

	require.Len(t, store.details, 2)
	d := store.details[0]
	assert.Equal(t, int64(11), d.ProductID)
	assert.Equal(t, int64(4), d.BigUnitID)
	assert.Equal(t, int64(2), d.SmallUnitID)
	assert.Equal(t, 10, d.Qty)
	assert.Equal(t, 250, d.SmallQty)
	assert.Equal(t, 12500.0, d.BuyPrice)
	assert.Equal(t, d.BuyPrice, d.CostPrice)
	assert.Equal(t, "N", d.Posted)

	// unknown unit names fall back to unit id 1
	assert.Equal(t, int64(1), store.details[1].BigUnitID)
}

func TestCommitTruncatesInvoice(t *testing.T) {
	store := &fakeStore{}
	svc := newCommitService(store)

	c := newConv()
	require.NoError(t, c.SetInvoice("INV-0123456789-0123456789-EXTRA"))
	c.SetNote("-")
	require.NoError(t, c.SelectProduct(0))
	require.NoError(t, c.AddQuantity("1"))

	res, err := svc.Commit(context.Background(), c, "BUDI", commitTime)
	require.NoError(t, err)
	assert.Len(t, res.Invoice, 25)
}

func TestCommitRequiresItems(t *testing.T) {
	svc := newCommitService(&fakeStore{})

	c := newConv()
	c.UseAutoInvoice()
	c.SetNote("-")

	_, err := svc.Commit(context.Background(), c, "BUDI", commitTime)
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestCommitFailureKeepsConversation(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("db down")}
	svc := newCommitService(store)

	c := newConv()
	c.UseAutoInvoice()
	c.SetNote("-")
	require.NoError(t, c.SelectProduct(0))
	require.NoError(t, c.AddQuantity("2"))

	_, err := svc.Commit(context.Background(), c, "BUDI", commitTime)
	require.Error(t, err)

	// the flow survives for a retry
	assert.Len(t, c.Items, 1)
	assert.Equal(t, StepSelectingProducts, c.Step)
}

func TestHistoryPaging(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 12; i++ {
		store.receipts = append(store.receipts, domain.Receipt{ID: int64(i + 1)})
	}
	svc := newCommitService(store)

	hp, err := svc.History(context.Background(), 3, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, 12, hp.Total)
	assert.Equal(t, 3, hp.Page.Total)
	assert.Len(t, hp.Rows, 2)
	assert.Equal(t, 10, store.pageOffset)

	// out-of-range page clamps to the last page
	_, err = svc.History(context.Background(), 3, 99, 5)
	require.NoError(t, err)
	assert.Equal(t, 10, store.pageOffset)
}
