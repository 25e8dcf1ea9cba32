package numbering

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTracking struct {
	mu    sync.Mutex
	max   int
	taken map[string]bool
}

func (f *fakeTracking) MaxTrackingSequence(_ context.Context, _ string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.max, nil
}

func (f *fakeTracking) TrackingNumberExists(_ context.Context, number string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.taken[number], nil
}

type fakeInvoices struct {
	last string
}

func (f *fakeInvoices) LastInvoiceNumber(_ context.Context, _ int64, _ int, _ time.Month, _ string) (string, error) {
	return f.last, nil
}

var testDay = time.Date(2025, time.September, 1, 10, 30, 0, 0, time.UTC)

func TestNextTrackingFirstOfDay(t *testing.T) {
	g := NewGenerator(&fakeTracking{}, &fakeInvoices{}, "TLE")

	n, err := g.NextTracking(context.Background(), testDay)
	require.NoError(t, err)
	assert.Equal(t, "TLE250901001", n)
}

func TestNextTrackingContinuesSequence(t *testing.T) {
	g := NewGenerator(&fakeTracking{max: 41}, &fakeInvoices{}, "TLE")

	n, err := g.NextTracking(context.Background(), testDay)
	require.NoError(t, err)
	assert.Equal(t, "TLE250901042", n)
}

func TestNextTrackingWrapScansForGap(t *testing.T) {
	taken := map[string]bool{}
	for i := 1; i <= 999; i++ {
		taken[fmtNumber("TLE250901", i)] = true
	}
	delete(taken, "TLE250901037")

	g := NewGenerator(&fakeTracking{max: 999, taken: taken}, &fakeInvoices{}, "TLE")

	n, err := g.NextTracking(context.Background(), testDay)
	require.NoError(t, err)
	assert.Equal(t, "TLE250901037", n)
}

func TestNextTrackingExhausted(t *testing.T) {
	taken := map[string]bool{}
	for i := 1; i <= 999; i++ {
		taken[fmtNumber("TLE250901", i)] = true
	}

	g := NewGenerator(&fakeTracking{max: 999, taken: taken}, &fakeInvoices{}, "TLE")

	_, err := g.NextTracking(context.Background(), testDay)
	assert.ErrorIs(t, err, ErrSequenceExhausted)
}

// rowTracking mirrors the store's SQL: it keeps full receipt numbers
// and derives the max suffix from the 3 digits after the 9-character
// day prefix, exactly like CAST(SUBSTRING(norcv FROM 10) AS INTEGER).
type rowTracking struct {
	numbers []string
}

func (f *rowTracking) MaxTrackingSequence(_ context.Context, prefix string) (int, error) {
	max := 0
	for _, n := range f.numbers {
		if !strings.HasPrefix(n, prefix) {
			continue
		}
		seq, err := strconv.Atoi(n[9:])
		if err != nil {
			return 0, err
		}
		if seq > max {
			max = seq
		}
	}
	return max, nil
}

func (f *rowTracking) TrackingNumberExists(_ context.Context, number string) (bool, error) {
	for _, n := range f.numbers {
		if n == number {
			return true, nil
		}
	}
	return false, nil
}

func TestNextTrackingSparseDayContinuesFromMax(t *testing.T) {
	store := &rowTracking{}
	for _, seq := range []int{10, 23, 45} {
		store.numbers = append(store.numbers, fmtNumber("TLE250901", seq))
	}

	g := NewGenerator(store, &fakeInvoices{}, "TLE")

	n, err := g.NextTracking(context.Background(), testDay)
	require.NoError(t, err)
	assert.Equal(t, "TLE250901046", n)
}

func TestWithTrackingSerializesConcurrentCommits(t *testing.T) {
	store := &fakeTracking{}
	g := NewGenerator(store, &fakeInvoices{}, "TLE")

	var mu sync.Mutex
	seen := map[string]int{}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := g.WithTracking(context.Background(), testDay, func(n string) error {
				mu.Lock()
				seen[n]++
				mu.Unlock()
				// simulate the insert that advances the sequence
				store.mu.Lock()
				store.max++
				store.mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 10)
	for n, count := range seen {
		assert.Equal(t, 1, count, "number %s minted twice", n)
	}
}

func TestSuggestInvoiceFirstOfMonth(t *testing.T) {
	g := NewGenerator(&fakeTracking{}, &fakeInvoices{}, "TLE")

	inv, err := g.SuggestInvoice(context.Background(), 1, "Wirasa Jaya", testDay)
	require.NoError(t, err)
	assert.Equal(t, "WIR/2025/09/001", inv)
}

func TestSuggestInvoiceContinues(t *testing.T) {
	g := NewGenerator(&fakeTracking{}, &fakeInvoices{last: "WIR/2025/09/007"}, "TLE")

	inv, err := g.SuggestInvoice(context.Background(), 1, "Wirasa Jaya", testDay)
	require.NoError(t, err)
	assert.Equal(t, "WIR/2025/09/008", inv)
}

func TestSuggestInvoiceUnparsableResets(t *testing.T) {
	g := NewGenerator(&fakeTracking{}, &fakeInvoices{last: "WIR/2025/09/ABC"}, "TLE")

	inv, err := g.SuggestInvoice(context.Background(), 1, "Wirasa Jaya", testDay)
	require.NoError(t, err)
	assert.Equal(t, "WIR/2025/09/001", inv)
}

func TestSupplierCode(t *testing.T) {
	assert.Equal(t, "WIR", SupplierCode("Wirasa Jaya"))
	assert.Equal(t, "CVS", SupplierCode("cv sumber rejeki"))
	assert.Equal(t, "ABX", SupplierCode("a b"))
	assert.Equal(t, "AXX", SupplierCode("A"))
	assert.Equal(t, "SUP", SupplierCode("   "))
}

func fmtNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s%03d", prefix, seq)
}
