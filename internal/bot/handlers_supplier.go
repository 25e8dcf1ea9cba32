package bot

import (
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/ksabot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/ksabot/core/telegram/helpers"
)

func (a *App) handleSupplierList(c tele.Context) error {
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
		rows = append(rows, markup.Row(
			markup.Data(s.Name, cbSupplierDetail, strconv.FormatInt(s.ID, 10)),
		))
	}
	markup.Inline(rows...)

	return tghelpers.SendMD(c, renderSupplierList(emp, len(suppliers)), markup)
}

func (a *App) cbSupplierDetail(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	supplierID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Data supplier tidak valid"})
	}

	supplier, err := a.store.SupplierByID(ctx, supplierID)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Data supplier tidak ditemukan"})
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("Lihat Stok", cbStockPage, fmt.Sprintf("%d|1", supplierID))),
		markup.Row(markup.Data("Kembali ke List", cbSupplierBack)),
	)
	return tghelpers.EditOrSendMD(c, renderSupplierDetail(supplier), markup)
}

func (a *App) cbSupplierBack(c tele.Context) error {
	_ = c.Delete()
	return a.handleSupplierList(c)
}
