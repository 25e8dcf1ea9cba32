package bot

import (
	"context"
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/ksabot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/ksabot/core/telegram/helpers"
	"github.com/m3rciful/ksabot/internal/catalog"
	"github.com/m3rciful/ksabot/internal/paging"
)

func (a *App) handleStockMenu(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	emp, err := a.users.Identify(ctx, c.Sender().ID)
	if err != nil {
		return tghelpers.SendMD(c, renderNotRegistered())
	}

	suppliers, err := a.store.SuppliersByTelegramID(ctx, c.Sender().ID)
	if err != nil {
		return tghelpers.SendText(c, "Gagal mengambil daftar supplier. Silakan coba lagi.")
	}
	if len(suppliers) == 0 {
		return tghelpers.SendMD(c, renderNoSuppliers(emp))
	}

	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(suppliers))
	for _, s := range suppliers {
		label := truncateLabel(s.Name, a.cfg.Bot.ButtonLabelWidth)
		rows = append(rows, markup.Row(
			markup.Data("📦 "+label, cbStockPage, fmt.Sprintf("%d|1", s.ID)),
		))
	}
	markup.Inline(rows...)

	return tghelpers.SendMD(c, "📦 STOK PRODUK\n\nPilih supplier untuk melihat stok:", markup)
}

func (a *App) cbStockPage(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	supplierID, page, err := callbacks.PayloadTwoInt64(c, "|")
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Data tidak valid"})
	}

	supplier, err := a.store.SupplierByID(ctx, supplierID)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Data supplier tidak ditemukan"})
	}

	total, err := a.store.CountStock(ctx, supplierID)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Gagal memuat data stok"})
	}
	if total == 0 {
		markup := &tele.ReplyMarkup{}
		markup.Inline(markup.Row(markup.Data("🔙 Kembali", cbStockBack)))
		return tghelpers.EditOrSendMD(c, renderNoStock(supplier.Name), markup)
	}

	p := paging.Paginate(total, int(page), a.cfg.Bot.ListingPageSize)
	rows, err := a.store.StockPage(ctx, supplierID, p.Limit, p.Offset)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Gagal memuat data stok"})
	}

	lines := make([]stockLine, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, stockLine{
			Row:       r,
			BigUnit:   a.unitNameOrFallback(ctx, r.BigUnitID.Int64),
			SmallUnit: a.unitNameOrFallback(ctx, r.SmallUnitID.Int64),
		})
	}

	markup := &tele.ReplyMarkup{}
	var keyboard []tele.Row
	if p.Total > 1 {
		keyboard = append(keyboard, markup.Row(pageButtons(markup, cbStockPage, func(n int) string {
			return fmt.Sprintf("%d|%d", supplierID, n)
		}, p.Number, p.Total)...))
	}
	keyboard = append(keyboard, markup.Row(
		markup.Data("🔄 Refresh", cbStockPage, fmt.Sprintf("%d|%d", supplierID, p.Number)),
		markup.Data("🔙 Kembali", cbStockBack),
	))
	markup.Inline(keyboard...)

	return tghelpers.EditOrSendMD(c,
		renderStock(supplier.Name, p.Number, p.Total, total, p.Offset, lines), markup)
}

func (a *App) cbStockBack(c tele.Context) error {
	_ = c.Delete()
	return a.handleStockMenu(c)
}

func (a *App) unitNameOrFallback(ctx context.Context, unitID int64) string {
	if unitID == 0 {
		return catalog.FallbackUnitName
	}
	name, err := a.store.UnitName(ctx, unitID)
	if err != nil || name == "" {
		return catalog.FallbackUnitName
	}
	return name
}

// pageButtons builds the prev / numbered / next strip used by paged
// listings. payload maps a page number to the callback payload.
func pageButtons(markup *tele.ReplyMarkup, unique string, payload func(page int) string, page, totalPages int) []tele.Btn {
	var btns []tele.Btn
	if page > 1 {
		btns = append(btns, markup.Data("⬅️", unique, payload(page-1)))
	}
	start, end := page-1, page+1
	if start < 1 {
		start = 1
	}
	if end > totalPages {
		end = totalPages
	}
	for p := start; p <= end; p++ {
		label := strconv.Itoa(p)
		if p == page {
			label = "•" + label + "•"
		}
		btns = append(btns, markup.Data(label, unique, payload(p)))
	}
	if page < totalPages {
		btns = append(btns, markup.Data("➡️", unique, payload(page+1)))
	}
	return btns
}
