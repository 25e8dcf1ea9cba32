// Package numbering generates the back office document numbers:
// goods-receipt tracking numbers and suggested invoice numbers.
package numbering

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// TrackingStore provides the reads the tracking generator needs.
type TrackingStore interface {
	// MaxTrackingSequence returns the highest numeric suffix among
	// receipt numbers starting with prefix, or 0 when none exist.
	MaxTrackingSequence(ctx context.Context, prefix string) (int, error)
	// TrackingNumberExists reports whether the exact number is taken.
	TrackingNumberExists(ctx context.Context, number string) (bool, error)
}

// InvoiceStore provides the reads the invoice suggester needs.
type InvoiceStore interface {
	// LastInvoiceNumber returns the most recent invoice for the supplier
	// in the given year/month matching the prefix pattern, or "" when
	// none exists.
	LastInvoiceNumber(ctx context.Context, supplierID int64, year int, month time.Month, prefix string) (string, error)
}

// ErrSequenceExhausted is returned when all 999 daily slots are taken.
var ErrSequenceExhausted = errors.New("numbering: daily sequence exhausted")

// Generator produces tracking numbers and invoice suggestions. A keyed
// mutex serializes the read-generate sequence per day prefix (tracking)
// and per supplier+month (invoices), so concurrent in-process commits
// cannot mint the same number.
type Generator struct {
	tracking TrackingStore
	invoices InvoiceStore
	prefix   string
	locks    keyedMutex
}

// NewGenerator builds a Generator with the given tracking prefix
// (e.g. "TLE").
func NewGenerator(tracking TrackingStore, invoices InvoiceStore, prefix string) *Generator {
	return &Generator{tracking: tracking, invoices: invoices, prefix: prefix}
}

// DayPrefix returns the prefix of all tracking numbers minted on the
// given day, e.g. "TLE250901".
func (g *Generator) DayPrefix(now time.Time) string {
	return g.prefix + now.Format("060102")
}

// NextTracking returns the next free tracking number for the day:
// highest existing suffix + 1, or a linear scan over 001..999 for the
// first unused slot when the sequence would run past 999.
// The day lock is held for the duration of the call; use WithTracking
// when the caller needs to persist the number under the same lock.
func (g *Generator) NextTracking(ctx context.Context, now time.Time) (string, error) {
	var number string
	err := g.WithTracking(ctx, now, func(n string) error {
		number = n
		return nil
	})
	return number, err
}

// WithTracking generates the next tracking number and invokes fn with it
// while the day lock is still held. The lock is released when fn
// returns, so a commit running inside fn observes a stable sequence.
func (g *Generator) WithTracking(ctx context.Context, now time.Time, fn func(number string) error) error {
	dayPrefix := g.DayPrefix(now)

	unlock := g.locks.lock(dayPrefix)
	defer unlock()

	last, err := g.tracking.MaxTrackingSequence(ctx, dayPrefix)
	if err != nil {
		return fmt.Errorf("read tracking sequence: %w", err)
	}

	seq := last + 1
	if seq > 999 {
		seq, err = g.firstFreeSlot(ctx, dayPrefix)
		if err != nil {
			return err
		}
	}

	return fn(fmt.Sprintf("%s%03d", dayPrefix, seq))
}

func (g *Generator) firstFreeSlot(ctx context.Context, dayPrefix string) (int, error) {
	for i := 1; i <= 999; i++ {
		candidate := fmt.Sprintf("%s%03d", dayPrefix, i)
		taken, err := g.tracking.TrackingNumberExists(ctx, candidate)
		if err != nil {
			return 0, fmt.Errorf("probe tracking number: %w", err)
		}
		if !taken {
			return i, nil
		}
	}
	return 0, ErrSequenceExhausted
}

// SuggestInvoice builds an invoice number suggestion in the form
// CODE/YYYY/MM/NNN for the supplier. The sequence continues from the
// most recent matching invoice of the current month and resets to 1
// when none exists or its last segment does not parse.
func (g *Generator) SuggestInvoice(ctx context.Context, supplierID int64, supplierName string, now time.Time) (string, error) {
	code := SupplierCode(supplierName)
	year, month := now.Year(), now.Month()
	prefix := fmt.Sprintf("%s/%04d/%02d/", code, year, int(month))

	unlock := g.locks.lock(fmt.Sprintf("inv:%d:%04d-%02d", supplierID, year, int(month)))
	defer unlock()

	last, err := g.invoices.LastInvoiceNumber(ctx, supplierID, year, month, prefix)
	if err != nil {
		return "", fmt.Errorf("read last invoice: %w", err)
	}

	seq := 1
	if last != "" {
		if n, perr := strconv.Atoi(lastSegment(last)); perr == nil {
			seq = n + 1
		}
	}

	return fmt.Sprintf("%s%03d", prefix, seq), nil
}

// SupplierCode derives the 3-letter invoice code from a supplier name:
// spaces stripped, upper-cased, first three runes, right-padded with X.
func SupplierCode(name string) string {
	clean := strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name))
	if clean == "" {
		return "SUP"
	}

	runes := []rune(clean)
	if len(runes) >= 3 {
		return string(runes[:3])
	}
	return string(runes) + strings.Repeat("X", 3-len(runes))
}

func lastSegment(s string) string {
	if idx := strings.LastIndexByte(s, '/'); idx >= 0 {
		return s[idx+1:]
	}
	return s
}
