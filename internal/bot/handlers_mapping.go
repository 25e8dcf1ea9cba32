package bot

import (
	"fmt"
	"log/slog"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/ksabot/core/logger"
	"github.com/m3rciful/ksabot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/ksabot/core/telegram/helpers"
	"github.com/m3rciful/ksabot/internal/paging"
)

func (a *App) handleMappingMenu(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	emp, err := a.users.Identify(ctx, c.Sender().ID)
	if err != nil {
		return tghelpers.SendMD(c, renderNotRegistered())
	}

	summaries, err := a.store.MappingSummaries(ctx, c.Sender().ID)
	if err != nil {
		return tghelpers.SendText(c, "Gagal mengambil data mapping. Silakan coba lagi.")
	}
	if len(summaries) == 0 {
		return tghelpers.SendMD(c, renderNoSuppliers(emp))
	}

	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(summaries))
	for _, s := range summaries {
		label := fmt.Sprintf("📋 %s (%d/%d)",
			truncateLabel(s.SupplierName, a.cfg.Bot.ButtonLabelWidth), s.Active, s.Total)
		rows = append(rows, markup.Row(
			markup.Data(label, cbMappingSupplier, fmt.Sprintf("%d|1|", s.SupplierID)),
		))
	}
	markup.Inline(rows...)

	text := fmt.Sprintf(
		"📋 KELOLA MAPPING PRODUK\n\nNama: *%s*\n\n"+
			"Pilih supplier untuk mengelola mapping produk.\nAngka menunjukkan mapping aktif/total:",
		emp.Name,
	)
	return tghelpers.SendMD(c, text, markup)
}

func (a *App) cbMappingSupplier(c tele.Context) error {
	parts, err := callbacks.PayloadParts(c, "|")
	if err != nil || len(parts) != 3 {
		return c.Respond(&tele.CallbackResponse{Text: "Data tidak valid"})
	}
	supplierID, err1 := strconv.ParseInt(parts[0], 10, 64)
	page, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Data tidak valid"})
	}
	return a.sendMappingPage(c, supplierID, page, parts[2])
}

func (a *App) cbMappingToggle(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	parts, err := callbacks.PayloadParts(c, "|")
	if err != nil || len(parts) != 4 {
		return c.Respond(&tele.CallbackResponse{Text: "Data tidak valid"})
	}
	mappingID, err1 := strconv.ParseInt(parts[0], 10, 64)
	supplierID, err2 := strconv.ParseInt(parts[1], 10, 64)
	page, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Data tidak valid"})
	}

	status, err := a.store.ToggleMapping(ctx, mappingID)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Gagal mengubah status mapping"})
	}
	logger.Info(ctx, "service.mapping", "mapping.toggled",
		slog.Int64("mapping_id", mappingID),
		slog.Int64("supplier_id", supplierID),
		slog.String("status", status),
	)

	note := "Mapping dinonaktifkan ❌"
	if status == "Y" {
		note = "Mapping diaktifkan ✅"
	}
	_ = c.Respond(&tele.CallbackResponse{Text: note})

	return a.sendMappingPage(c, supplierID, page, parts[3])
}

func (a *App) cbMappingFilter(c tele.Context) error {
	parts, err := callbacks.PayloadParts(c, "|")
	if err != nil || len(parts) != 2 {
		return c.Respond(&tele.CallbackResponse{Text: "Data tidak valid"})
	}
	supplierID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Data tidak valid"})
	}
	return a.sendMappingPage(c, supplierID, 1, parts[1])
}

func (a *App) cbMappingBack(c tele.Context) error {
	_ = c.Delete()
	return a.handleMappingMenu(c)
}

// sendMappingPage redraws one page of a supplier's mapping list. filter
// is "" for all, "Y" for active only, "N" for inactive only.
func (a *App) sendMappingPage(c tele.Context, supplierID int64, page int, filter string) error {
	ctx := tghelpers.BuildContext(c)

	supplier, err := a.store.SupplierByID(ctx, supplierID)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Data supplier tidak ditemukan"})
	}

	total, err := a.store.CountMappings(ctx, supplierID, filter)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Gagal memuat data mapping"})
	}

	markup := &tele.ReplyMarkup{}
	if total == 0 {
		markup.Inline(
			markup.Row(filterButtons(markup, supplierID, filter)...),
			markup.Row(markup.Data("🔙 Kembali", cbMappingBack)),
		)
		return tghelpers.EditOrSendMD(c, fmt.Sprintf(
			"📋 MAPPING PRODUK - %s\n\n📭 Tidak ada mapping untuk filter ini.", supplier.Name), markup)
	}

	p := paging.Paginate(total, page, a.cfg.Bot.ListingPageSize)
	rows, err := a.store.MappingsPage(ctx, supplierID, filter, p.Limit, p.Offset)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Gagal memuat data mapping"})
	}

	kb := make([]tele.Row, 0, len(rows)+4)
	for i, m := range rows {
		icon := "❌"
		if m.Active == "Y" {
			icon = "✅"
		}
		label := fmt.Sprintf("%d. %s %s", p.Offset+i+1, truncateLabel(m.ProductName, 15), icon)
		kb = append(kb, markup.Row(markup.Data(label, cbMappingToggle,
			fmt.Sprintf("%d|%d|%d|%s", m.MappingID, supplierID, p.Number, filter))))
	}

	if p.Total > 1 {
		kb = append(kb, markup.Row(pageButtons(markup, cbMappingSupplier, func(n int) string {
			return fmt.Sprintf("%d|%d|%s", supplierID, n, filter)
		}, p.Number, p.Total)...))
	}
	kb = append(kb,
		markup.Row(filterButtons(markup, supplierID, filter)...),
		markup.Row(
			markup.Data("🔄 Refresh", cbMappingSupplier, fmt.Sprintf("%d|%d|%s", supplierID, p.Number, filter)),
			markup.Data("🔙 Kembali", cbMappingBack),
		),
	)
	markup.Inline(kb...)

	return tghelpers.EditOrSendMD(c,
		renderMappingList(supplier.Name, p.Number, p.Total, total, p.Offset, rows), markup)
}

func filterButtons(markup *tele.ReplyMarkup, supplierID int64, current string) []tele.Btn {
	type option struct {
		label  string
		filter string
	}
	opts := []option{
		{"Semua", ""},
		{"✅ Aktif", "Y"},
		{"❌ Non-aktif", "N"},
	}

	btns := make([]tele.Btn, 0, len(opts))
	for _, o := range opts {
		label := o.label
		if o.filter == current {
			label = "• " + label + " •"
		}
		btns = append(btns, markup.Data(label, cbMappingFilter,
			fmt.Sprintf("%d|%s", supplierID, o.filter)))
	}
	return btns
}
