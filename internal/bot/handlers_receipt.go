package bot

import (
	"fmt"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/ksabot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/ksabot/core/telegram/helpers"
	"github.com/m3rciful/ksabot/core/telegram/keyboard"
	"github.com/m3rciful/ksabot/internal/paging"
	"github.com/m3rciful/ksabot/internal/receipt"
)

func (a *App) handleReceiptMenu(c tele.Context) error {
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
	rows := make([]tele.Row, 0, len(suppliers)+1)
	for _, s := range suppliers {
		label := truncateLabel(s.Name, a.cfg.Bot.ButtonLabelWidth)
		rows = append(rows, markup.Row(
			markup.Data("📦 "+label, cbReceiptHistory, fmt.Sprintf("%d|1", s.ID)),
			markup.Data("➕ "+label, cbReceiptNew, strconv.FormatInt(s.ID, 10)),
		))
	}
	rows = append(rows, markup.Row(markup.Data("🔄 Refresh Data", cbReceiptRefresh)))
	markup.Inline(rows...)

	return tghelpers.SendMD(c, renderReceiptMenu(emp, len(suppliers)), markup)
}

func (a *App) cbReceiptMenuBack(c tele.Context) error {
	_ = c.Delete()
	return a.handleReceiptMenu(c)
}

func (a *App) cbReceiptHistory(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	supplierID, page, err := callbacks.PayloadTwoInt64(c, "|")
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Data tidak valid"})
	}

	supplier, err := a.store.SupplierByID(ctx, supplierID)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Data supplier tidak ditemukan"})
	}

	hp, err := a.receipts.History(ctx, supplierID, int(page), a.cfg.Bot.HistoryPageSize)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Gagal memuat riwayat"})
	}

	markup := &tele.ReplyMarkup{}
	var kb []tele.Row
	if hp.Page.Total > 1 {
		kb = append(kb, markup.Row(pageButtons(markup, cbReceiptHistory, func(n int) string {
			return fmt.Sprintf("%d|%d", supplierID, n)
		}, hp.Page.Number, hp.Page.Total)...))
	}
	kb = append(kb,
		markup.Row(
			markup.Data("🔄 Refresh", cbReceiptHistory, fmt.Sprintf("%d|%d", supplierID, hp.Page.Number)),
			markup.Data("➕ Tambah Baru", cbReceiptNew, strconv.FormatInt(supplierID, 10)),
		),
		markup.Row(markup.Data("🔙 Kembali ke Menu", cbReceiptMenu)),
	)
	markup.Inline(kb...)

	return tghelpers.EditOrSendMD(c,
		renderHistory(supplier.Name, hp.Page.Number, hp.Page.Total, hp.Total, hp.Page.Offset, hp.Rows), markup)
}

func (a *App) cbReceiptNew(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	if _, err := a.users.Identify(ctx, userID); err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "ID Telegram belum terdaftar"})
	}

	supplierID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Data tidak valid"})
	}
	supplier, err := a.store.SupplierByID(ctx, supplierID)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Data supplier tidak ditemukan"})
	}

	products, err := a.catalogs.Catalog(ctx, supplierID)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Gagal memuat produk"})
	}
	if len(products) == 0 {
		return c.Respond(&tele.CallbackResponse{
			Text: fmt.Sprintf("❌ Tidak ada produk untuk %s", supplier.Name),
		})
	}

	autoInvoice, err := a.numbers.SuggestInvoice(ctx, supplierID, supplier.Name, time.Now())
	if err != nil {
		autoInvoice = ""
	}

	conv := receipt.NewConversation(userID, c.Chat().ID, supplierID, supplier.Name, autoInvoice, products)
	a.receiptFlows.Set(userID, conv)

	if err := tghelpers.EditOrSendMD(c, renderNewReceiptIntro(supplier.Name, len(products))); err != nil {
		return err
	}

	if autoInvoice == "" {
		return tghelpers.SendMD(c, renderInvoicePrompt())
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("✅ Gunakan "+autoInvoice, cbInvoiceAuto)),
		markup.Row(markup.Data("✏️ Input Manual", cbInvoiceManual)),
	)
	return tghelpers.SendMD(c, renderInvoiceSuggestion(autoInvoice), markup)
}

func (a *App) cbInvoiceAuto(c tele.Context) error {
	conv, ok := a.receiptFlows.Get(c.Sender().ID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Tidak ada proses penerimaan aktif"})
	}

	conv.UseAutoInvoice()
	a.receiptFlows.Set(conv.UserID, conv)

	_ = c.Delete()
	return a.sendNotePrompt(c, conv)
}

func (a *App) cbInvoiceManual(c tele.Context) error {
	conv, ok := a.receiptFlows.Get(c.Sender().ID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Tidak ada proses penerimaan aktif"})
	}

	conv.Step = receipt.StepAwaitingInvoice
	a.receiptFlows.Set(conv.UserID, conv)

	_ = c.Delete()
	return tghelpers.SendMD(c, renderInvoicePrompt())
}

func (a *App) sendNotePrompt(c tele.Context, conv *receipt.Conversation) error {
	markup := keyboard.ReplyButtons([]string{"-"})
	return tghelpers.SendMD(c, renderNotePrompt(conv.Invoice), markup)
}

// sendPicker renders one page of the product picker. edit redraws the
// current message instead of sending a new one.
func (a *App) sendPicker(c tele.Context, conv *receipt.Conversation, page int, edit bool) error {
	p := paging.Paginate(len(conv.Catalog), page, a.cfg.Bot.PickerPageSize)
	a.pickerPages.Set(c.Chat().ID, paging.Cursor{
		SupplierID: conv.SupplierID,
		Page:       p.Number,
		TotalPages: p.Total,
	})

	end := p.Offset + p.Limit
	if end > len(conv.Catalog) {
		end = len(conv.Catalog)
	}
	pageItems := conv.Catalog[p.Offset:end]

	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(pageItems)+3)
	for i, product := range pageItems {
		globalIndex := p.Offset + i + 1
		label := fmt.Sprintf("%d. %s", globalIndex, truncateLabel(product.Name, a.cfg.Bot.ButtonLabelWidth))
		rows = append(rows, markup.Row(
			markup.Data(label, cbProductPick, strconv.Itoa(globalIndex)),
		))
	}

	if p.Total > 1 {
		var strip []tele.Btn
		if p.Number > 1 {
			strip = append(strip, markup.Data("⬅️ Prev", cbProductPage, strconv.Itoa(p.Number-1)))
		}
		strip = append(strip, markup.Data(fmt.Sprintf("%d/%d", p.Number, p.Total), cbNoop))
		if p.Number < p.Total {
			strip = append(strip, markup.Data("Next ➡️", cbProductPage, strconv.Itoa(p.Number+1)))
		}
		rows = append(rows, markup.Row(strip...))
	}

	rows = append(rows,
		markup.Row(
			markup.Data("📦 Lihat Item", cbItemList),
			markup.Data("💾 Simpan", cbReceiptSave),
		),
		markup.Row(markup.Data("❌ Batal", cbReceiptCancel)),
	)
	markup.Inline(rows...)

	text := renderPicker(conv.SupplierName, p.Number, p.Total, len(conv.Catalog), len(pageItems))
	if edit {
		return tghelpers.EditOrSendMD(c, text, markup)
	}
	return tghelpers.SendMD(c, text, markup)
}

func (a *App) cbProductPick(c tele.Context) error {
	conv, ok := a.receiptFlows.Get(c.Sender().ID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Tidak ada proses penerimaan aktif"})
	}

	index, err := callbacks.PayloadInt(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Produk tidak valid"})
	}
	if err := conv.SelectProduct(index - 1); err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Produk tidak valid"})
	}
	a.receiptFlows.Set(conv.UserID, conv)

	product, _ := conv.SelectedProduct()
	if product.Price == 0 {
		_ = c.Respond(&tele.CallbackResponse{Text: "⚠️ Harga beli 0, pastikan harga sudah diatur"})
	} else {
		_ = c.Respond(&tele.CallbackResponse{Text: "Pilih " + product.Name})
	}
	return tghelpers.SendMD(c, renderQuantityPrompt(product))
}

func (a *App) cbProductPage(c tele.Context) error {
	conv, ok := a.receiptFlows.Get(c.Sender().ID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Tidak ada proses penerimaan aktif"})
	}

	page, err := callbacks.PayloadInt(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Halaman tidak valid"})
	}
	return a.sendPicker(c, conv, page, true)
}

func (a *App) cbItemList(c tele.Context) error {
	conv, ok := a.receiptFlows.Get(c.Sender().ID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Tidak ada proses penerimaan aktif"})
	}
	if len(conv.Items) == 0 {
		return c.Respond(&tele.CallbackResponse{Text: "Belum ada item"})
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("Tambah Lagi", cbItemsBack),
		markup.Data("Simpan", cbReceiptSave),
	))
	return tghelpers.SendMD(c, renderItemList(conv.Items), markup)
}

func (a *App) cbBackToPicker(c tele.Context) error {
	conv, ok := a.receiptFlows.Get(c.Sender().ID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Tidak ada proses penerimaan aktif"})
	}

	conv.CancelQuantity()
	a.receiptFlows.Set(conv.UserID, conv)

	_ = c.Delete()
	return a.sendPicker(c, conv, a.pickerPages.PageOr(c.Chat().ID, 1), false)
}

func (a *App) cbReceiptSave(c tele.Context) error {
	conv, ok := a.receiptFlows.Get(c.Sender().ID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Tidak ada proses penerimaan aktif"})
	}
	if len(conv.Items) == 0 {
		return c.Respond(&tele.CallbackResponse{Text: "Belum ada item yang ditambahkan"})
	}

	if conv.NeedsZeroPriceConfirm() {
		_ = c.Respond(&tele.CallbackResponse{
			Text: fmt.Sprintf("%d produk harga 0", conv.ZeroPriceCount()),
		})
		markup := &tele.ReplyMarkup{}
		markup.Inline(markup.Row(
			markup.Data("Lanjut Simpan", cbZeroPriceOK),
			markup.Data("Edit Item", cbItemsBack),
		))
		return tghelpers.SendMD(c, renderZeroPriceWarning(conv.Items), markup)
	}

	return a.commitConversation(c, conv)
}

func (a *App) cbZeroPriceConfirm(c tele.Context) error {
	conv, ok := a.receiptFlows.Get(c.Sender().ID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Tidak ada proses penerimaan aktif"})
	}

	conv.ConfirmZeroPrice()
	a.receiptFlows.Set(conv.UserID, conv)

	_ = c.Delete()
	return a.commitConversation(c, conv)
}

func (a *App) commitConversation(c tele.Context, conv *receipt.Conversation) error {
	ctx := tghelpers.BuildContext(c)

	userName := fmt.Sprintf("TG_%d", conv.UserID)
	if emp, err := a.users.Identify(ctx, conv.UserID); err == nil {
		userName = emp.Name
	}

	res, err := a.receipts.Commit(ctx, conv, userName, time.Now())
	if err != nil {
		return tghelpers.SendText(c, "Gagal menyimpan penerimaan. Silakan coba lagi.")
	}

	a.receiptFlows.Delete(conv.UserID)
	a.pickerPages.Delete(c.Chat().ID)

	return tghelpers.EditOrSendMD(c, renderCommitSuccess(res))
}

func (a *App) cbReceiptCancel(c tele.Context) error {
	a.receiptFlows.Delete(c.Sender().ID)
	a.pickerPages.Delete(c.Chat().ID)

	if err := tghelpers.EditOrSendMD(c, "Penerimaan dibatalkan"); err != nil {
		return err
	}
	return tghelpers.SendText(c,
		"Penerimaan barang telah dibatalkan. Silakan pilih menu lain.",
		&tele.SendOptions{ReplyMarkup: keyboard.RemoveKeyboard()})
}
