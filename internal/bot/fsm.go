package bot

import (
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/ksabot/core/telegram/helpers"
	"github.com/m3rciful/ksabot/core/telegram/keyboard"
	"github.com/m3rciful/ksabot/internal/receipt"
)

// InProgress reports whether the user has an active conversation that
// should capture plain text messages.
func (a *App) InProgress(userID int64) bool {
	return a.receiptFlows.Has(userID) || a.regFlows.Has(userID)
}

// ManagerHandler dispatches a text message to the conversation the user
// is currently in. Registration wins over receipt flows; a user can only
// be in one because registration is refused for registered users.
func (a *App) ManagerHandler(c tele.Context) error {
	userID := c.Sender().ID

	if state, ok := a.regFlows.Get(userID); ok {
		return a.registrationInput(c, state)
	}
	if conv, ok := a.receiptFlows.Get(userID); ok {
		return a.receiptInput(c, conv)
	}
	return nil
}

func (a *App) receiptInput(c tele.Context, conv *receipt.Conversation) error {
	text := strings.TrimSpace(c.Text())

	switch conv.Step {
	case receipt.StepAwaitingInvoice:
		if err := conv.SetInvoice(text); err != nil {
			return tghelpers.SendMD(c, "Nomor faktur tidak boleh kosong. Silakan ketik nomor faktur:")
		}
		a.receiptFlows.Set(conv.UserID, conv)
		return a.sendNotePrompt(c, conv)

	case receipt.StepAwaitingNote:
		conv.SetNote(text)
		a.receiptFlows.Set(conv.UserID, conv)
		// drop the "-" reply keyboard before switching to inline buttons
		if err := tghelpers.SendText(c, "Membuka menu produk...",
			&tele.SendOptions{ReplyMarkup: keyboard.RemoveKeyboard()}); err != nil {
			return err
		}
		return a.sendPicker(c, conv, 1, false)

	case receipt.StepAwaitingQuantity:
		product, _ := conv.SelectedProduct()
		qty, _ := strconv.Atoi(text)

		err := conv.AddQuantity(text)
		switch err {
		case receipt.ErrQtyNotNumber:
			return tghelpers.SendText(c, "Quantity harus berupa angka")
		case receipt.ErrQtyNotPositive:
			return tghelpers.SendText(c, "Quantity harus lebih dari 0")
		case receipt.ErrNoSelection:
			conv.CancelQuantity()
			a.receiptFlows.Set(conv.UserID, conv)
			return a.sendPicker(c, conv, a.pickerPages.PageOr(c.Chat().ID, 1), false)
		case nil:
		default:
			return err
		}
		a.receiptFlows.Set(conv.UserID, conv)

		if err := tghelpers.SendText(c, renderItemAdded(receipt.Line{Product: product, Qty: qty})); err != nil {
			return err
		}
		return a.sendPicker(c, conv, a.pickerPages.PageOr(c.Chat().ID, 1), false)

	case receipt.StepSelectingProducts:
		return tghelpers.SendText(c, "Gunakan tombol untuk memilih produk, atau klik Batal untuk keluar.")
	}
	return nil
}
