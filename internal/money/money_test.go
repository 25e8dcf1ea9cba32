package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 0,00", FormatRupiah(0))
	assert.Equal(t, "Rp 500,00", FormatRupiah(500))
	assert.Equal(t, "Rp 1.234,56", FormatRupiah(1234.56))
	assert.Equal(t, "Rp 1.234.567,89", FormatRupiah(1234567.89))
	assert.Equal(t, "Rp 12.000,00", FormatRupiah(12000))
	assert.Equal(t, "Rp -2.500,00", FormatRupiah(-2500))
}
