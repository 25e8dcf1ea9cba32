package receipt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/m3rciful/ksabot/core/logger"
	"github.com/m3rciful/ksabot/internal/domain"
	"github.com/m3rciful/ksabot/internal/numbering"
	"github.com/m3rciful/ksabot/internal/paging"
)

// Store persists committed receipts.
type Store interface {
	// UnitIDByName resolves an active unit name to its id, returning
	// storage.ErrNotFound when the name is unknown.
	UnitIDByName(ctx context.Context, name string) (int64, error)
	// InsertReceipt writes the header and all detail rows in one
	// transaction and returns the new header id.
	InsertReceipt(ctx context.Context, header domain.Receipt, details []domain.ReceiptDetail) (int64, error)
	// CountReceipts returns how many receipts exist for the supplier.
	CountReceipts(ctx context.Context, supplierID int64) (int, error)
	// ReceiptsPage returns one page of receipts for the supplier, newest
	// first.
	ReceiptsPage(ctx context.Context, supplierID int64, limit, offset int) ([]domain.Receipt, error)
}

// fallbackUnitID is used when a unit name has no active tb_satuan row.
const fallbackUnitID = 1

// Result summarizes a committed receipt for the confirmation reply.
type Result struct {
	ReceiptID      int64
	Number         string
	Invoice        string
	SupplierName   string
	ItemCount      int
	Total          float64
	Note           string
	ZeroPriceCount int
	CommittedAt    time.Time
}

// Service commits receipt conversations and serves receipt history.
type Service struct {
	store         Store
	numbers       *numbering.Generator
	invoiceMaxLen int
	noteMaxLen    int
}

// NewService builds a Service. invoiceMaxLen and noteMaxLen bound the
// header columns; values <= 0 disable truncation.
func NewService(store Store, numbers *numbering.Generator, invoiceMaxLen, noteMaxLen int) *Service {
	return &Service{
		store:         store,
		numbers:       numbers,
		invoiceMaxLen: invoiceMaxLen,
		noteMaxLen:    noteMaxLen,
	}
}

// Commit assigns the next tracking number and writes the receipt with
// all its lines in one transaction. The conversation is not modified, so
// a failed commit leaves the flow intact for a retry.
func (s *Service) Commit(ctx context.Context, conv *Conversation, userName string, now time.Time) (*Result, error) {
	if len(conv.Items) == 0 {
		return nil, ErrNoItems
	}

	total := conv.Total()
	header := domain.Receipt{
		Invoice:    truncate(conv.Invoice, s.invoiceMaxLen),
		Note:       truncate(conv.Note, s.noteMaxLen),
		SupplierID: conv.SupplierID,
		Date:       now,
		Time:       now.Format("15:04:05"),
		ItemCount:  len(conv.Items),
		Total:      total,
		Discount:   0,
		FinalTotal: total,
		User:       userName,
		Active:     "Y",
	}

	details := make([]domain.ReceiptDetail, 0, len(conv.Items))
	for _, line := range conv.Items {
		details = append(details, domain.ReceiptDetail{
			ProductID:   line.Product.ProductID,
			BigUnitID:   s.unitID(ctx, line.Product.BigUnit),
			Qty:         line.Qty,
			SmallUnitID: s.unitID(ctx, line.Product.SmallUnit),
			Factor:      line.Product.Factor,
			SmallQty:    line.Qty * line.Product.Factor,
			BuyPrice:    line.Product.Price,
			Subtotal:    line.Subtotal(),
			CostPrice:   line.Product.Price,
			Posted:      "N",
			User:        userName,
			Date:        now,
		})
	}

	var result *Result
	err := s.numbers.WithTracking(ctx, now, func(number string) error {
		header.Number = number
		id, err := s.store.InsertReceipt(ctx, header, details)
		if err != nil {
			return fmt.Errorf("insert receipt %s: %w", number, err)
		}
		result = &Result{
			ReceiptID:      id,
			Number:         number,
			Invoice:        header.Invoice,
			SupplierName:   conv.SupplierName,
			ItemCount:      header.ItemCount,
			Total:          total,
			Note:           header.Note,
			ZeroPriceCount: conv.ZeroPriceCount(),
			CommittedAt:    now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "service.receipts", "receipt.committed",
		slog.String("norcv", result.Number),
		slog.Int64("supplier_id", conv.SupplierID),
		slog.Int("items", result.ItemCount),
		slog.Float64("total", result.Total),
	)
	return result, nil
}

// HistoryPage is one resolved page of past receipts.
type HistoryPage struct {
	Rows  []domain.Receipt
	Total int
	Page  paging.Page
}

// History returns one page of past receipts for the supplier.
func (s *Service) History(ctx context.Context, supplierID int64, page, pageSize int) (*HistoryPage, error) {
	total, err := s.store.CountReceipts(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("count receipts: %w", err)
	}

	p := paging.Paginate(total, page, pageSize)
	rows, err := s.store.ReceiptsPage(ctx, supplierID, p.Limit, p.Offset)
	if err != nil {
		return nil, fmt.Errorf("load receipts page: %w", err)
	}
	return &HistoryPage{Rows: rows, Total: total, Page: p}, nil
}

func (s *Service) unitID(ctx context.Context, name string) int64 {
	id, err := s.store.UnitIDByName(ctx, name)
	if err != nil || id == 0 {
		return fallbackUnitID
	}
	return id
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
