// Package receipt implements the multi-step goods-receipt flow: invoice
// entry, note entry, product selection with quantities, and the final
// commit into the receipt tables.
package receipt

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/m3rciful/ksabot/internal/catalog"
)

// Step identifies where a conversation currently waits for input.
type Step int

const (
	StepAwaitingInvoice Step = iota + 1
	StepAwaitingNote
	StepSelectingProducts
	StepAwaitingQuantity
)

func (s Step) String() string {
	switch s {
	case StepAwaitingInvoice:
		return "awaiting_invoice"
	case StepAwaitingNote:
		return "awaiting_note"
	case StepSelectingProducts:
		return "selecting_products"
	case StepAwaitingQuantity:
		return "awaiting_quantity"
	default:
		return "unknown"
	}
}

var (
	ErrEmptyInvoice   = errors.New("receipt: invoice number is empty")
	ErrQtyNotNumber   = errors.New("receipt: quantity is not a number")
	ErrQtyNotPositive = errors.New("receipt: quantity must be positive")
	ErrNoSelection    = errors.New("receipt: no product selected")
	ErrProductIndex   = errors.New("receipt: product index out of range")
	ErrNoItems        = errors.New("receipt: no items to save")
)

// Line is one product added to the receipt in progress.
type Line struct {
	Product catalog.ResolvedProduct
	Qty     int
}

// Subtotal is qty times the effective purchase price.
func (l Line) Subtotal() float64 {
	return float64(l.Qty) * l.Product.Price
}

// Conversation is the state of one user's receipt flow. The session
// store holds a pointer; handlers mutate it in place and re-Set it to
// refresh the TTL.
type Conversation struct {
	UserID       int64
	ChatID       int64
	SupplierID   int64
	SupplierName string

	Catalog     []catalog.ResolvedProduct
	AutoInvoice string
	Invoice     string
	Note        string
	Items       []Line

	Step     Step
	Selected int
	Page     int

	ZeroPriceConfirmed bool
	StartedAt          time.Time
}

// NewConversation starts a flow for the supplier with its resolved
// catalog and the pre-generated invoice suggestion.
func NewConversation(userID, chatID, supplierID int64, supplierName, autoInvoice string, products []catalog.ResolvedProduct) *Conversation {
	return &Conversation{
		UserID:       userID,
		ChatID:       chatID,
		SupplierID:   supplierID,
		SupplierName: supplierName,
		Catalog:      products,
		AutoInvoice:  autoInvoice,
		Step:         StepAwaitingInvoice,
		Selected:     -1,
		Page:         1,
		StartedAt:    time.Now(),
	}
}

// SetInvoice accepts a manually typed invoice number and advances to the
// note step.
func (c *Conversation) SetInvoice(raw string) error {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ErrEmptyInvoice
	}
	c.Invoice = text
	c.Step = StepAwaitingNote
	return nil
}

// UseAutoInvoice accepts the suggested number and advances to the note
// step.
func (c *Conversation) UseAutoInvoice() {
	c.Invoice = c.AutoInvoice
	c.Step = StepAwaitingNote
}

// SetNote stores the free-text note and advances to product selection.
// A single "-" means no note.
func (c *Conversation) SetNote(raw string) {
	text := strings.TrimSpace(raw)
	if text == "-" {
		text = ""
	}
	c.Note = text
	c.Step = StepSelectingProducts
}

// SelectProduct marks the catalog entry at the given index (0-based over
// the whole catalog, not the page) and waits for a quantity.
func (c *Conversation) SelectProduct(index int) error {
	if index < 0 || index >= len(c.Catalog) {
		return ErrProductIndex
	}
	c.Selected = index
	c.Step = StepAwaitingQuantity
	return nil
}

// SelectedProduct returns the product awaiting a quantity.
func (c *Conversation) SelectedProduct() (catalog.ResolvedProduct, bool) {
	if c.Selected < 0 || c.Selected >= len(c.Catalog) {
		return catalog.ResolvedProduct{}, false
	}
	return c.Catalog[c.Selected], true
}

// AddQuantity parses the typed quantity for the selected product and
// returns to product selection. Quantities merge when the same product
// is picked twice.
func (c *Conversation) AddQuantity(raw string) error {
	if c.Selected < 0 || c.Selected >= len(c.Catalog) {
		return ErrNoSelection
	}

	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return ErrQtyNotNumber
	}
	if qty <= 0 {
		return ErrQtyNotPositive
	}

	product := c.Catalog[c.Selected]
	merged := false
	for i := range c.Items {
		if c.Items[i].Product.ProductID == product.ProductID {
			c.Items[i].Qty += qty
			merged = true
			break
		}
	}
	if !merged {
		c.Items = append(c.Items, Line{Product: product, Qty: qty})
	}

	c.Selected = -1
	c.Step = StepSelectingProducts
	return nil
}

// CancelQuantity abandons the pending product pick and returns to
// selection.
func (c *Conversation) CancelQuantity() {
	c.Selected = -1
	c.Step = StepSelectingProducts
}

// ZeroPriceCount returns how many added lines carry a zero purchase
// price.
func (c *Conversation) ZeroPriceCount() int {
	n := 0
	for _, line := range c.Items {
		if line.Product.Price == 0 {
			n++
		}
	}
	return n
}

// NeedsZeroPriceConfirm reports whether the save must pause for the
// one-time zero-price confirmation.
func (c *Conversation) NeedsZeroPriceConfirm() bool {
	return c.ZeroPriceCount() > 0 && !c.ZeroPriceConfirmed
}

// ConfirmZeroPrice records that the user accepted saving zero-price
// lines.
func (c *Conversation) ConfirmZeroPrice() {
	c.ZeroPriceConfirmed = true
}

// Total sums the line subtotals.
func (c *Conversation) Total() float64 {
	var total float64
	for _, line := range c.Items {
		total += line.Subtotal()
	}
	return total
}
