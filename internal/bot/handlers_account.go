package bot

import (
	"errors"
	"time"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/ksabot/core/telegram/helpers"
	"github.com/m3rciful/ksabot/internal/storage"
)

func (a *App) handleBalance(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	emp, err := a.users.Identify(ctx, c.Sender().ID)
	if err != nil {
		return tghelpers.SendMD(c, renderNotRegistered())
	}

	saldo, err := a.users.Balance(ctx, emp.NIK)
	if err != nil {
		return tghelpers.SendText(c, "Gagal mengambil data saldo. Silakan coba lagi.")
	}
	return tghelpers.SendMD(c, renderBalance(emp, saldo, time.Now()))
}

func (a *App) handleLastUpload(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	emp, err := a.users.Identify(ctx, c.Sender().ID)
	if err != nil {
		return tghelpers.SendMD(c, renderNotRegistered())
	}

	entry, err := a.users.LastDeposit(ctx, emp.NIK)
	if errors.Is(err, storage.ErrNotFound) {
		return tghelpers.SendMD(c, renderNoUpload(emp))
	}
	if err != nil {
		return tghelpers.SendText(c, "Gagal mengambil data upload. Silakan coba lagi.")
	}
	return tghelpers.SendMD(c, renderLastUpload(emp, entry, time.Now()))
}
