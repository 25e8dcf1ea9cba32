package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/ksabot/internal/catalog"
	"github.com/m3rciful/ksabot/internal/domain"
	"github.com/m3rciful/ksabot/internal/receipt"
)

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "Beras Premium", truncateLabel("Beras Premium", 20))
	assert.Equal(t, "Beras Premiu", truncateLabel("Beras Premium", 12))
	assert.Equal(t, "Beras Premium", truncateLabel("Beras Premium", 0))
	// cuts on rune boundaries, not bytes
	assert.Equal(t, "ab", truncateLabel("abc", 2))
	assert.Equal(t, "kopi ☕", truncateLabel("kopi ☕ susu", 6))
}

func TestStockStatus(t *testing.T) {
	assert.Equal(t, "🔴 LOW", stockStatus(5, 10, 100))
	assert.Equal(t, "🔴 LOW", stockStatus(10, 10, 100))
	assert.Equal(t, "🟢 FULL", stockStatus(100, 10, 100))
	assert.Equal(t, "🟢 FULL", stockStatus(150, 10, 100))
	assert.Equal(t, "🟡 NORMAL", stockStatus(50, 10, 100))
}

func TestRenderBalance(t *testing.T) {
	emp := domain.Employee{NIK: "1234567890", Name: "BUDI SANTOSO"}
	now := time.Date(2025, 9, 1, 14, 30, 0, 0, time.UTC)

	out := renderBalance(emp, 1500000, now)
	assert.Contains(t, out, "BUDI SANTOSO")
	assert.Contains(t, out, "`1234567890`")
	assert.Contains(t, out, "Rp 1.500.000")
	assert.Contains(t, out, "01-09-2025 14:30")
}

func TestRenderItemListTotals(t *testing.T) {
	items := []receipt.Line{
		{Product: catalog.ResolvedProduct{Name: "Beras", Price: 12500, BigUnit: "KARUNG", SmallUnit: "KG", Factor: 25}, Qty: 4},
		{Product: catalog.ResolvedProduct{Name: "Teh", Price: 0, BigUnit: "DUS", SmallUnit: "PCS", Factor: 24}, Qty: 2},
	}

	out := renderItemList(items)
	assert.Contains(t, out, "Item: 2 produk")
	assert.Contains(t, out, "Qty: 6")
	assert.Contains(t, out, "Total: Rp 50.000")
	assert.Contains(t, out, "Konversi: 4 KARUNG = 100 KG")
	assert.Contains(t, out, "PERINGATAN: 1 produk dengan harga beli 0")
}

func TestRenderZeroPriceWarningCapsNames(t *testing.T) {
	var items []receipt.Line
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		items = append(items, receipt.Line{
			Product: catalog.ResolvedProduct{Name: name, Price: 0},
			Qty:     1,
		})
	}

	out := renderZeroPriceWarning(items)
	assert.Contains(t, out, "Ada 7 produk")
	assert.Contains(t, out, "• E")
	assert.NotContains(t, out, "• F")
}

func TestRenderCommitSuccess(t *testing.T) {
	res := &receipt.Result{
		Number:       "TLE250901042",
		Invoice:      "WIR/2025/09/003",
		SupplierName: "WIRASA JAYA",
		ItemCount:    3,
		Total:        275000,
		Note:         "penerimaan rutin",
		CommittedAt:  time.Date(2025, 9, 1, 9, 15, 0, 0, time.UTC),
	}

	out := renderCommitSuccess(res)
	assert.Contains(t, out, "`TLE250901042`")
	assert.Contains(t, out, "`WIR/2025/09/003`")
	assert.Contains(t, out, "Total Item: 3 produk")
	assert.Contains(t, out, "Rp 275.000")
	assert.Contains(t, out, "01-09-2025 09:15")
	assert.NotContains(t, out, "harga beli 0")

	res.ZeroPriceCount = 2
	assert.Contains(t, renderCommitSuccess(res), "Catatan: 2 produk dengan harga beli 0")
}

func TestRenderCommitSuccessTruncatesNote(t *testing.T) {
	long := make([]rune, 120)
	for i := range long {
		long[i] = 'x'
	}
	res := &receipt.Result{Note: string(long)}

	out := renderCommitSuccess(res)
	require.Contains(t, out, "...")
	assert.NotContains(t, out, string(long))
}

func TestRenderHistoryNumbersFromOffset(t *testing.T) {
	rows := []domain.Receipt{
		{Number: "TLE250901001", Date: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), Invoice: "F-1", ItemCount: 2, FinalTotal: 10000},
		{Number: "TLE250901002", Date: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), ItemCount: 1, FinalTotal: 5000, Note: "barang titipan gudang belakang untuk stok"},
	}

	out := renderHistory("WIRASA JAYA", 2, 3, 12, 5, rows)
	assert.Contains(t, out, "*Halaman:* 2/3")
	assert.Contains(t, out, "*6. No. RCV:* `TLE250901001`")
	assert.Contains(t, out, "*7. No. RCV:* `TLE250901002`")
	// long notes are cut to 30 runes
	assert.Contains(t, out, "barang titipan gudang belakang...")
}

func TestRenderHistoryEmptyPage(t *testing.T) {
	out := renderHistory("WIRASA JAYA", 1, 1, 0, 0, nil)
	assert.Contains(t, out, "Tidak ada data pada halaman ini")
}

func TestRenderQuantityPromptFlagsZeroPrice(t *testing.T) {
	p := catalog.ResolvedProduct{Name: "Teh", Price: 0, BigUnit: "DUS", SmallUnit: "PCS", Factor: 24}
	out := renderQuantityPrompt(p)
	assert.Contains(t, out, "HARGA BELI 0")
	assert.Contains(t, out, "24 PCS per DUS")

	p.Price = 15000
	assert.NotContains(t, renderQuantityPrompt(p), "HARGA BELI 0")
}

func TestOrDash(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "-", orDash("   "))
	assert.Equal(t, "jl. raya", orDash("jl. raya"))
}
