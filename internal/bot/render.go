package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/m3rciful/ksabot/internal/catalog"
	"github.com/m3rciful/ksabot/internal/domain"
	"github.com/m3rciful/ksabot/internal/money"
	"github.com/m3rciful/ksabot/internal/receipt"
)

const timestampLayout = "02-01-2006 15:04"

// truncateLabel shortens a string for inline button labels.
func truncateLabel(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	return string(runes[:width])
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func renderWelcomeUnregistered() string {
	return "Selamat Datang di Bot KSA\n\n" +
		"Anda belum terdaftar dalam sistem.\n" +
		"Silakan daftar untuk mengakses semua fitur bot.\n\n" +
		"Fitur yang tersedia setelah pendaftaran:\n" +
		"• Cek Saldo Koperasi\n" +
		"• Kelola Supplier\n" +
		"• Penerimaan Barang\n" +
		"• Cek Stok Produk\n" +
		"• Kelola Mapping Produk\n\n" +
		"Klik \"Daftar Sekarang\" untuk memulai pendaftaran."
}

func renderWelcomeRegistered() string {
	return "Selamat Datang di Bot KSA\n\n" +
		"Silakan pilih menu yang tersedia:\n\n" +
		"• Cek Saldo - Cek saldo koperasi otomatis\n" +
		"• Supplier Saya - Lihat daftar supplier\n" +
		"• Penerimaan Barang - Kelola penerimaan barang\n" +
		"• Stok Produk - Lihat stok produk\n" +
		"• Kelola Mapping - Aktif/nonaktif mapping produk per supplier\n" +
		"• Bantuan - Panduan penggunaan\n\n" +
		"Saldo dan data ditampilkan otomatis berdasarkan ID Telegram Anda."
}

func renderHelp(emp *domain.Employee) string {
	var b strings.Builder
	b.WriteString("BOT KSA - PANDUAN PENGGUNAAN\n\n")
	if emp != nil {
		fmt.Fprintf(&b, "Nama: %s\nNIK: `%s`\n\n", emp.Name, emp.NIK)
		b.WriteString("FITUR YANG TERSEDIA:\n\n" +
			"1. Cek Saldo - saldo ditampilkan otomatis berdasarkan NIK Anda\n" +
			"2. Supplier Saya - daftar supplier yang terkait dengan Anda\n" +
			"3. Penerimaan Barang - riwayat dan penerimaan baru\n" +
			"4. Stok Produk - stok produk per supplier\n" +
			"5. Kelola Mapping - aktif/nonaktif mapping produk\n")
	} else {
		b.WriteString("Status: ID Telegram belum terdaftar\n\n" +
			"Klik \"Daftar Sekarang\" untuk mendaftarkan ID Telegram Anda ke sistem.\n" +
			"Setelah pendaftaran, Anda dapat mengakses semua fitur.\n")
	}
	b.WriteString("\nCOMMAND TAMBAHAN:\n/lastupload - Cek saldo terakhir diupload\n/start - Menu utama")
	return b.String()
}

func renderBalance(emp domain.Employee, saldo float64, now time.Time) string {
	return fmt.Sprintf(
		"SALDO KOPERASI SINDHU ARTHA WIGUNA\n\n"+
			"Nama: %s\nNIK: `%s`\nSaldo: *%s*\n\nUpdate: %s",
		emp.Name, emp.NIK, money.FormatRupiah(saldo), now.Format(timestampLayout),
	)
}

func renderLastUpload(emp domain.Employee, entry domain.DepositEntry, now time.Time) string {
	note := entry.Note
	if strings.TrimSpace(note) == "" {
		note = "Tidak ada keterangan"
	}
	return fmt.Sprintf(
		"SALDO TERAKHIR DIUPLOAD\n\n"+
			"Nama: %s\nNIK: `%s`\nKeterangan: %s\nJumlah: *%s*\n\nTanggal Update: %s",
		emp.Name, emp.NIK, note, money.FormatRupiah(entry.Deposit), now.Format(timestampLayout),
	)
}

func renderNoUpload(emp domain.Employee) string {
	return fmt.Sprintf(
		"Tidak Ada Data Upload\n\nNama: %s\nNIK: `%s`\n\nBelum ada data upload untuk NIK Anda.",
		emp.Name, emp.NIK,
	)
}

func renderNotRegistered() string {
	return "Data tidak ditemukan\n\n" +
		"ID Telegram Anda tidak terdaftar dalam sistem.\n" +
		"Silakan daftar terlebih dahulu dengan klik 'Daftar Sekarang'."
}

func renderSupplierList(emp domain.Employee, count int) string {
	return fmt.Sprintf(
		"SUPPLIER SAYA\n\nNama: %s\nNIK: `%s`\n\nTotal %d supplier aktif\nKlik untuk melihat detail:",
		emp.Name, emp.NIK, count,
	)
}

func renderNoSuppliers(emp domain.Employee) string {
	return fmt.Sprintf(
		"TIDAK ADA SUPPLIER\n\nNama: %s\nNIK: `%s`\n\nAnda tidak terdaftar sebagai supplier aktif.",
		emp.Name, emp.NIK,
	)
}

func renderSupplierDetail(s domain.Supplier) string {
	status := "Aktif"
	if s.Active != "Y" {
		status = "Non-aktif"
	}
	return fmt.Sprintf(
		"DETAIL SUPPLIER\n\nNama: %s\nContact Person: %s\nAlamat: %s\nTelepon: %s\nEmail: %s\nStatus: %s",
		orDash(s.Name), orDash(s.Contact), orDash(s.Address), orDash(s.Phone), orDash(s.Email), status,
	)
}

func renderReceiptMenu(emp domain.Employee, supplierCount int) string {
	return fmt.Sprintf(
		"📦 PENERIMAAN BARANG\n\nNama: *%s*\nTotal Supplier: *%d*\n\n"+
			"*Pilih supplier:*\n• 📦 Lihat riwayat penerimaan\n• ➕ Tambah penerimaan baru",
		emp.Name, supplierCount,
	)
}

func renderHistory(supplierName string, page, totalPages, total, offset int, rows []domain.Receipt) string {
	var b strings.Builder
	b.WriteString("📦 RIWAYAT PENERIMAAN BARANG\n\n")
	fmt.Fprintf(&b, "*Supplier:* %s\n*Halaman:* %d/%d\n*Total Data:* %d penerimaan\n\n",
		supplierName, page, totalPages, total)

	if len(rows) == 0 {
		b.WriteString("📭 Tidak ada data pada halaman ini\n")
		return b.String()
	}

	for i, r := range rows {
		fmt.Fprintf(&b, "*%d. No. RCV:* `%s`\n", offset+i+1, orDash(r.Number))
		fmt.Fprintf(&b, "   📅 Tgl: %s\n", r.Date.Format("02-01-2006"))
		fmt.Fprintf(&b, "   📄 Faktur: `%s`\n", orDash(r.Invoice))
		fmt.Fprintf(&b, "   📦 Item: %d produk\n", r.ItemCount)
		fmt.Fprintf(&b, "   💰 Total: %s\n", money.FormatRupiah(r.FinalTotal))
		if note := strings.TrimSpace(r.Note); note != "" {
			short := note
			if len([]rune(short)) > 30 {
				short = string([]rune(short)[:30]) + "..."
			}
			fmt.Fprintf(&b, "   📝 Ket: %s\n", short)
		}
		b.WriteString("   ──────────────\n")
	}
	return b.String()
}

func renderNewReceiptIntro(supplierName string, productCount int) string {
	return fmt.Sprintf(
		"🛒 TAMBAH PENERIMAAN BARU\n\n*Supplier:* %s\n*Total Produk:* %d item\n\n"+
			"Silakan lanjutkan dengan mengisi data berikut:",
		supplierName, productCount,
	)
}

func renderInvoiceSuggestion(invoice string) string {
	return fmt.Sprintf(
		"📄 *NOMOR FAKTUR OTOMATIS*\n\nNomor faktur yang dihasilkan:\n`%s`\n\n"+
			"Klik tombol untuk menggunakan nomor otomatis atau input manual:",
		invoice,
	)
}

func renderInvoicePrompt() string {
	return "📄 *NOMOR FAKTUR*\n\nSilakan ketik nomor faktur:\nContoh: `FAK/2024/001`"
}

func renderNotePrompt(invoice string) string {
	return fmt.Sprintf(
		"✅ *NOMOR FAKTUR DITERIMA*\n\nNomor faktur: `%s`\n\n"+
			"KETERANGAN\n\nSilakan ketik keterangan penerimaan:\nContoh: `Penerimaan barang rutin`\n\n"+
			"Atau klik `-` untuk kosongkan",
		invoice,
	)
}

func renderPicker(supplierName string, page, totalPages, total, shown int) string {
	return fmt.Sprintf(
		"🛒 PILIH PRODUK - %s\n\n*Halaman:* %d/%d\n*Total produk:* %d item\n*Menampilkan:* %d produk\n\n"+
			"Klik produk untuk menambahkan:",
		supplierName, page, totalPages, total, shown,
	)
}

func renderQuantityPrompt(p catalog.ResolvedProduct) string {
	warn := ""
	if p.Price == 0 {
		warn = " ⚠️ (HARGA BELI 0)"
	}
	return fmt.Sprintf(
		"🔢 *QUANTITY*\n\n*Produk:* %s%s\n*Harga Beli:* %s\n*Satuan Besar:* %s\n*Satuan Kecil:* %s\n"+
			"*Isi:* %d %s per %s\n\nSilakan ketik quantity dalam satuan *%s*:",
		p.Name, warn, money.FormatRupiah(p.Price), p.BigUnit, p.SmallUnit,
		p.Factor, p.SmallUnit, p.BigUnit, p.BigUnit,
	)
}

func renderItemAdded(line receipt.Line) string {
	return fmt.Sprintf("%s ditambahkan: %d %s\nHarga: %s",
		line.Product.Name, line.Qty, line.Product.BigUnit, money.FormatRupiah(line.Product.Price))
}

func renderItemList(items []receipt.Line) string {
	var b strings.Builder
	b.WriteString("ITEM YANG DITAMBAHKAN\n\n")

	totalQty := 0
	var total float64
	zeroPrice := 0
	for i, item := range items {
		fmt.Fprintf(&b, "*%d. %s*\n", i+1, item.Product.Name)
		fmt.Fprintf(&b, "   Qty: %d %s\n", item.Qty, item.Product.BigUnit)
		fmt.Fprintf(&b, "   Harga Beli: %s\n", money.FormatRupiah(item.Product.Price))
		fmt.Fprintf(&b, "   Subtotal: %s\n", money.FormatRupiah(item.Subtotal()))
		fmt.Fprintf(&b, "   Konversi: %d %s = %d %s\n",
			item.Qty, item.Product.BigUnit, item.Qty*item.Product.Factor, item.Product.SmallUnit)
		if item.Product.Price == 0 {
			b.WriteString("   *HARGA BELI 0*\n")
			zeroPrice++
		}
		b.WriteString("   --------------\n")
		totalQty += item.Qty
		total += item.Subtotal()
	}

	fmt.Fprintf(&b, "\nTOTAL SEMENTARA:\n• Item: %d produk\n• Qty: %d\n• Total: %s",
		len(items), totalQty, money.FormatRupiah(total))
	if zeroPrice > 0 {
		fmt.Fprintf(&b, "\n\nPERINGATAN: %d produk dengan harga beli 0", zeroPrice)
	}
	return b.String()
}

func renderZeroPriceWarning(items []receipt.Line) string {
	var names []string
	for _, item := range items {
		if item.Product.Price == 0 {
			names = append(names, "• "+item.Product.Name)
		}
	}
	shown := names
	if len(shown) > 5 {
		shown = shown[:5]
	}
	return fmt.Sprintf(
		"PERINGATAN: HARGA BELI 0\n\nAda %d produk dengan harga beli 0:\n%s\n\n"+
			"Apakah ingin melanjutkan penyimpanan?",
		len(names), strings.Join(shown, "\n"),
	)
}

func renderCommitSuccess(res *receipt.Result) string {
	note := res.Note
	if len([]rune(note)) > 100 {
		note = string([]rune(note)[:100]) + "..."
	}
	var b strings.Builder
	b.WriteString("PENERIMAAN BARANG BERHASIL DIBUAT\n\n")
	fmt.Fprintf(&b, "No. RCV: `%s`\n", res.Number)
	fmt.Fprintf(&b, "No. Faktur: `%s`\n", res.Invoice)
	fmt.Fprintf(&b, "Supplier: %s\n", res.SupplierName)
	fmt.Fprintf(&b, "Total Item: %d produk\n", res.ItemCount)
	fmt.Fprintf(&b, "Total Harga: %s\n", money.FormatRupiah(res.Total))
	fmt.Fprintf(&b, "Keterangan: %s\n\n", note)
	fmt.Fprintf(&b, "Dibuat pada: %s", res.CommittedAt.Format(timestampLayout))
	if res.ZeroPriceCount > 0 {
		fmt.Fprintf(&b, "\n\nCatatan: %d produk dengan harga beli 0", res.ZeroPriceCount)
	}
	return b.String()
}

// stockStatus classifies a stock level against its configured bounds.
func stockStatus(stock, minStock, maxStock int) string {
	switch {
	case stock <= minStock:
		return "🔴 LOW"
	case stock >= maxStock:
		return "🟢 FULL"
	default:
		return "🟡 NORMAL"
	}
}

type stockLine struct {
	Row       domain.StockRow
	BigUnit   string
	SmallUnit string
}

func renderStock(supplierName string, page, totalPages, total, offset int, lines []stockLine) string {
	var b strings.Builder
	b.WriteString("📦 DATA STOK PRODUK\n\n")
	fmt.Fprintf(&b, "*Supplier:* %s\n*Halaman:* %d/%d\n*Total Produk:* %d item\n\n",
		supplierName, page, totalPages, total)

	if len(lines) == 0 {
		b.WriteString("📭 Tidak ada data pada halaman ini\n")
		return b.String()
	}

	for i, line := range lines {
		r := line.Row
		factor := int64(1)
		if r.Qty.Valid && r.Qty.Int64 > 0 {
			factor = r.Qty.Int64
		}
		fmt.Fprintf(&b, "*%d. %s*\n", offset+i+1, orDash(r.ProductName))
		fmt.Fprintf(&b, "   📝 %s\n", orDash(r.Description.String))
		fmt.Fprintf(&b, "   📊 Stok: %d %s %s\n", r.Stock, line.SmallUnit, stockStatus(r.Stock, r.MinStock, r.MaxStock))
		fmt.Fprintf(&b, "   💰 Harga Jual: %s\n", money.FormatRupiah(r.SellPrice))
		fmt.Fprintf(&b, "   📦 Satuan: %s (isi: %d %s)\n", line.BigUnit, factor, line.SmallUnit)
		fmt.Fprintf(&b, "   ⚙️ Min/Max: %d/%d\n", r.MinStock, r.MaxStock)
		b.WriteString("   ──────────────\n")
	}
	return b.String()
}

func renderNoStock(supplierName string) string {
	return fmt.Sprintf(
		"📦 TIDAK ADA STOK PRODUK\n\nSupplier *%s* belum memiliki data stok produk.",
		supplierName,
	)
}

func renderMappingList(supplierName string, page, totalPages, total, offset int, rows []domain.MappingRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 MAPPING PRODUK - %s\n\n", supplierName)
	fmt.Fprintf(&b, "*Halaman:* %d/%d\n*Total Mapping:* %d produk\n\n", page, totalPages, total)

	if len(rows) == 0 {
		b.WriteString("📭 Tidak ada data pada halaman ini\n")
		return b.String()
	}

	for i, m := range rows {
		statusIcon, statusText := "❌", "NON-AKTIF"
		if m.Active == "Y" {
			statusIcon, statusText = "✅", "AKTIF"
		}
		unit := catalog.FallbackUnitName
		if m.UnitName.Valid && m.UnitName.String != "" {
			unit = m.UnitName.String
		}
		factor := int64(1)
		if m.Qty.Valid && m.Qty.Int64 > 0 {
			factor = m.Qty.Int64
		}
		desc := orDash(m.Description.String)
		if len([]rune(desc)) > 30 {
			desc = string([]rune(desc)[:30]) + "..."
		}

		fmt.Fprintf(&b, "*%d. %s %s*\n", offset+i+1, orDash(m.ProductName), statusIcon)
		fmt.Fprintf(&b, "   📝 %s\n", desc)
		fmt.Fprintf(&b, "   💰 Beli: %s | Jual: %s\n",
			money.FormatRupiah(m.BuyPrice.Float64), money.FormatRupiah(m.SellPrice))
		fmt.Fprintf(&b, "   📦 Stok: %d | Satuan: %s (isi: %d)\n", m.Stock, unit, factor)
		fmt.Fprintf(&b, "   🔧 Status: %s | ID Mapping: `%d`\n", statusText, m.MappingID)
		b.WriteString("   ──────────────\n")
	}
	return b.String()
}
