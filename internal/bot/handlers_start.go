package bot

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/ksabot/core/telegram/helpers"
	"github.com/m3rciful/ksabot/core/telegram/keyboard"
	"github.com/m3rciful/ksabot/internal/users"
)

func (a *App) handleStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if _, err := a.users.Identify(ctx, c.Sender().ID); err != nil {
		return a.sendRegistrationMenu(c)
	}
	return a.sendMainMenu(c)
}

func (a *App) sendRegistrationMenu(c tele.Context) error {
	markup := keyboard.ReplyButtons([]string{labelRegister, labelHelp})
	return tghelpers.SendMD(c, renderWelcomeUnregistered(), markup)
}

func (a *App) sendMainMenu(c tele.Context) error {
	markup := keyboard.ReplyButtons(
		[]string{labelBalance, labelSuppliers},
		[]string{labelReceipts, labelStock},
		[]string{labelMapping, labelHelp},
	)
	return tghelpers.SendMD(c, renderWelcomeRegistered(), markup)
}

func (a *App) handleHelp(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	emp, err := a.users.Identify(ctx, c.Sender().ID)
	if err != nil {
		return tghelpers.SendMD(c, renderHelp(nil))
	}
	return tghelpers.SendMD(c, renderHelp(&emp))
}

// regState tracks a registration conversation.
type regState struct {
	Step regStep
	NIK  string
	Name string
}

type regStep int

const (
	regAwaitingNIK regStep = iota + 1
	regAwaitingConfirm
)

func (a *App) handleStartRegistration(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	if emp, err := a.users.Identify(ctx, userID); err == nil {
		return tghelpers.SendMD(c, fmt.Sprintf(
			"Anda sudah terdaftar!\n\nNama: %s\nNIK: %s\n\nGunakan menu lain untuk mengakses fitur.",
			emp.Name, emp.NIK,
		))
	}

	a.regFlows.Set(userID, regState{Step: regAwaitingNIK})

	return tghelpers.SendMD(c,
		"PENDAFTARAN USER BARU\n\n"+
			"Silakan ikuti langkah-langkah berikut:\n\n"+
			"1. Masukkan NIK Karyawan Anda\n"+
			"2. Konfirmasi data\n"+
			"3. Selesai\n\n"+
			"Langkah 1: Masukkan NIK karyawan Anda (10 digit angka):")
}

func (a *App) registrationInput(c tele.Context, state regState) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	switch state.Step {
	case regAwaitingNIK:
		emp, err := a.users.LookupNIK(ctx, text)
		switch err {
		case users.ErrInvalidNIK:
			return tghelpers.SendText(c, "NIK harus berupa 10 digit angka. Silakan masukkan kembali NIK Anda:")
		case users.ErrNIKNotFound:
			return tghelpers.SendText(c, fmt.Sprintf(
				"NIK %s tidak ditemukan dalam database karyawan aktif.\n\n"+
					"Pastikan:\n"+
					"• NIK yang dimasukkan benar (10 digit)\n"+
					"• Anda adalah karyawan aktif\n"+
					"• Data sudah terdaftar di sistem\n\n"+
					"Silakan masukkan NIK kembali atau hubungi admin untuk bantuan:", text))
		case nil:
		default:
			return err
		}

		a.regFlows.Set(userID, regState{Step: regAwaitingConfirm, NIK: emp.NIK, Name: emp.Name})

		markup := &tele.ReplyMarkup{}
		markup.Inline(markup.Row(
			markup.Data("Ya, Data Benar", cbRegConfirm),
			markup.Data("Tidak, Ubah NIK", cbRegChange),
		))
		return tghelpers.SendMD(c, fmt.Sprintf(
			"DATA DITEMUKAN\n\nSilakan konfirmasi data berikut:\n\nNIK: %s\nNama: %s\n\nApakah data di atas benar?",
			emp.NIK, emp.Name,
		), markup)

	case regAwaitingConfirm:
		switch strings.ToLower(text) {
		case "ya", "yes", "benar", "correct":
			return a.completeRegistration(c, state)
		case "tidak", "no", "salah", "wrong":
			a.regFlows.Set(userID, regState{Step: regAwaitingNIK})
			return tghelpers.SendText(c, "Silakan masukkan NIK yang benar:")
		default:
			return tghelpers.SendText(c, "Silakan pilih 'Ya' atau 'Tidak' untuk konfirmasi data.")
		}
	}
	return nil
}

func (a *App) completeRegistration(c tele.Context, state regState) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	if err := a.users.Register(ctx, state.NIK, userID); err != nil {
		return tghelpers.SendText(c, "Gagal menyimpan data. Silakan hubungi admin.")
	}
	a.regFlows.Delete(userID)

	return tghelpers.SendMD(c, fmt.Sprintf(
		"PENDAFTARAN BERHASIL! ✅\n\nSelamat %s,\nAnda telah terdaftar di Bot KSA.\n\n"+
			"Detail akun:\nNIK: %s\nNama: %s\n\nSekarang Anda dapat mengakses semua fitur bot.",
		state.Name, state.NIK, state.Name,
	))
}

func (a *App) cbRegistrationConfirm(c tele.Context) error {
	state, ok := a.regFlows.Get(c.Sender().ID)
	if !ok || state.Step != regAwaitingConfirm {
		return c.Respond(&tele.CallbackResponse{Text: "Tidak ada proses pendaftaran aktif"})
	}
	return a.completeRegistration(c, state)
}

func (a *App) cbRegistrationChange(c tele.Context) error {
	userID := c.Sender().ID
	if _, ok := a.regFlows.Get(userID); !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Tidak ada proses pendaftaran aktif"})
	}
	a.regFlows.Set(userID, regState{Step: regAwaitingNIK})
	return tghelpers.EditOrSendMD(c, "Silakan masukkan NIK Anda kembali:")
}
