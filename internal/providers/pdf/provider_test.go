package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoneyFormatting(t *testing.T) {
	assert.Equal(t, "0.00", money(0))
	assert.Equal(t, "80.00", money(80))
	assert.Equal(t, "1,234.56", money(1234.56))
	assert.Equal(t, "12,345.60", money(12345.6))
	assert.Equal(t, "1,000,000.00", money(1000000))
	assert.Equal(t, "-1,234.50", money(-1234.5))
}

func TestPercentFormatting(t *testing.T) {
	assert.Equal(t, "25%", percent(25))
	assert.Equal(t, "0%", percent(0))
}
