// Package bot wires the back-office Telegram application: commands,
// callbacks, conversation state, and the services behind them.
package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	tele "gopkg.in/telebot.v4"
	"log/slog"

	"github.com/m3rciful/ksabot/core/buildinfo"
	coreconfig "github.com/m3rciful/ksabot/core/config"
	"github.com/m3rciful/ksabot/core/logger"
	coretelegram "github.com/m3rciful/ksabot/core/telegram"
	"github.com/m3rciful/ksabot/core/telegram/commands"
	tghelpers "github.com/m3rciful/ksabot/core/telegram/helpers"
	"github.com/m3rciful/ksabot/core/telegram/router"
	"github.com/m3rciful/ksabot/core/telegram/ui"

	"github.com/m3rciful/ksabot/internal/catalog"
	"github.com/m3rciful/ksabot/internal/numbering"
	"github.com/m3rciful/ksabot/internal/paging"
	"github.com/m3rciful/ksabot/internal/receipt"
	"github.com/m3rciful/ksabot/internal/session"
	"github.com/m3rciful/ksabot/internal/storage"
	"github.com/m3rciful/ksabot/internal/users"
)

// App owns the bot's services and per-user conversation state.
type App struct {
	cfg   *coreconfig.Config
	store *storage.Store

	users    *users.Service
	catalogs *catalog.Service
	receipts *receipt.Service
	numbers  *numbering.Generator

	receiptFlows *session.Store[*receipt.Conversation]
	regFlows     *session.Store[regState]
	pickerPages  *paging.CursorStore

	metricsSrv *http.Server
}

// New builds the application on top of an open database pool.
func New(cfg *coreconfig.Config, db *sqlx.DB) *App {
	store := storage.New(db)
	numbers := numbering.NewGenerator(store, store, cfg.Bot.TrackingPrefix)
	ttl := time.Duration(cfg.Bot.SessionTTLMinutes) * time.Minute

	return &App{
		cfg:          cfg,
		store:        store,
		users:        users.NewService(store),
		catalogs:     catalog.NewService(store),
		receipts:     receipt.NewService(store, numbers, cfg.Bot.InvoiceMaxLen, cfg.Bot.NoteMaxLen),
		numbers:      numbers,
		receiptFlows: session.NewStore[*receipt.Conversation](ttl),
		regFlows:     session.NewStore[regState](ttl),
		pickerPages:  paging.NewCursorStore(),
	}
}

// CoreConfig exposes the embedded core configuration.
func (a *App) CoreConfig() *coreconfig.Config {
	return a.cfg
}

// TelegramRunOptions assembles routes, middlewares, and lifecycle hooks
// for the bot runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.registerCommands(reg)
	a.registerCallbacks(reg)
	reg.SetTextFallback(a.UnknownText())
	reg.SetCallbackNotFound(a.UnknownCallback())

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a, reg, fallbackTextOptions(a))...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{
		NotFound: a.UnknownCallback(),
	}))

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *App) registerCommands(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Menu utama",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.handleHelp,
		Description: "Panduan penggunaan",
	})
	reg.RegisterCommand("/daftar", commands.Command{
		Handler:     a.handleStartRegistration,
		Description: "Daftarkan ID Telegram",
	})
	reg.RegisterCommand("/saldo", commands.Command{
		Handler:     a.handleBalance,
		Description: "Cek saldo koperasi",
	})
	reg.RegisterCommand("/lastupload", commands.Command{
		Handler:     a.handleLastUpload,
		Description: "Cek saldo terakhir diupload",
	})
	reg.RegisterCommand("/mysupplier", commands.Command{
		Handler:     a.handleSupplierList,
		Description: "Daftar supplier saya",
	})
	reg.RegisterCommand("/penerimaan", commands.Command{
		Handler:     a.handleReceiptMenu,
		Description: "Penerimaan barang",
	})
	reg.RegisterCommand("/stok", commands.Command{
		Handler:     a.handleStockMenu,
		Description: "Stok produk per supplier",
	})
	reg.RegisterCommand("/mapping", commands.Command{
		Handler:     a.handleMappingMenu,
		Description: "Kelola mapping produk",
	})
	reg.RegisterCommand("/ping", commands.Command{
		Handler:     a.handlePing,
		Description: "Diagnostik bot",
		AdminOnly:   true,
		Hidden:      true,
	})
}

func (a *App) handlePing(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if err := a.store.Ping(ctx); err != nil {
		return tghelpers.SendText(c, "pong, database DOWN: "+err.Error())
	}
	return tghelpers.SendText(c, fmt.Sprintf("pong, db OK, %s (%s)", buildinfo.Version, buildinfo.Commit))
}

func (a *App) registerCallbacks(reg *coretelegram.Registry) {
	cbs := map[string]tele.HandlerFunc{
		cbRegConfirm: a.cbRegistrationConfirm,
		cbRegChange:  a.cbRegistrationChange,

		cbSupplierDetail: a.cbSupplierDetail,
		cbSupplierBack:   a.cbSupplierBack,

		cbReceiptHistory: a.cbReceiptHistory,
		cbReceiptNew:     a.cbReceiptNew,
		cbReceiptMenu:    a.cbReceiptMenuBack,
		cbReceiptRefresh: a.cbReceiptMenuBack,
		cbInvoiceAuto:    a.cbInvoiceAuto,
		cbInvoiceManual:  a.cbInvoiceManual,
		cbProductPick:    a.cbProductPick,
		cbProductPage:    a.cbProductPage,
		cbItemList:       a.cbItemList,
		cbItemsBack:      a.cbBackToPicker,
		cbReceiptSave:    a.cbReceiptSave,
		cbReceiptCancel:  a.cbReceiptCancel,
		cbZeroPriceOK:    a.cbZeroPriceConfirm,

		cbStockPage: a.cbStockPage,
		cbStockBack: a.cbStockBack,

		cbMappingSupplier: a.cbMappingSupplier,
		cbMappingToggle:   a.cbMappingToggle,
		cbMappingFilter:   a.cbMappingFilter,
		cbMappingBack:     a.cbMappingBack,

		cbNoop: a.cbNoAction,
	}
	for key, h := range cbs {
		if err := reg.RegisterCallback(key, h); err != nil {
			logger.TWire.Warn("callback registration failed", slog.String("key", key))
		}
	}
}

func (a *App) onStart(ctx context.Context, _ coretelegram.Runtime) error {
	listen := a.cfg.Metrics.Listen
	if listen == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	a.metricsSrv = &http.Server{Addr: listen, Handler: mux}

	go func() {
		logger.L.With("component", "metrics").Info("metrics listener started",
			slog.String("event", "metrics.listen"),
			slog.String("addr", listen),
		)
		if err := a.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L.With("component", "metrics").Error("metrics listener failed",
				slog.String("event", "metrics.error"),
				slog.String("err", err.Error()),
			)
		}
	}()
	return nil
}

func (a *App) onStop(ctx context.Context, _ coretelegram.Runtime) error {
	a.receiptFlows.Close()
	a.regFlows.Close()

	if a.metricsSrv == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.metricsSrv.Shutdown(shutdownCtx)
}

var _ ui.FallbackProvider = (*App)(nil)

func fallbackTextOptions(p ui.FallbackProvider) router.TextOptions {
	return router.TextOptions{
		UnknownText:     p.UnknownText(),
		UnknownDocument: p.UnknownDocument(),
	}
}

// UnknownText routes menu button labels and nudges everyone else back to
// the main menu.
func (a *App) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		switch c.Text() {
		case labelRegister:
			return a.handleStartRegistration(c)
		case labelBalance:
			return a.handleBalance(c)
		case labelSuppliers:
			return a.handleSupplierList(c)
		case labelReceipts:
			return a.handleReceiptMenu(c)
		case labelStock:
			return a.handleStockMenu(c)
		case labelMapping:
			return a.handleMappingMenu(c)
		case labelHelp:
			return a.handleHelp(c)
		}

		ctx := tghelpers.BuildContext(c)
		if _, err := a.users.Identify(ctx, c.Sender().ID); err != nil {
			return a.sendRegistrationMenu(c)
		}
		return tghelpers.SendMD(c,
			"Perintah tidak dikenali\n\nGunakan tombol menu atau ketik /start untuk melihat menu utama.")
	}
}

// UnknownDocument rejects stray file uploads.
func (a *App) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, "Dokumen tidak didukung. Gunakan menu bot.")
	}
}

// UnknownCallback answers expired or unrecognized buttons.
func (a *App) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: "Aksi tidak dikenali"})
	}
}

func (a *App) cbNoAction(c tele.Context) error {
	return c.Respond(&tele.CallbackResponse{Text: "Halaman saat ini"})
}
