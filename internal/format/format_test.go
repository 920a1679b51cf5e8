package format

import (
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilValuesReturnSentinel(t *testing.T) {
	formatters := map[string]func(*float64) string{
		"Number":   Number,
		"Percent":  Percent,
		"Currency": Currency,
	}

	for name, fn := range formatters {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, NotAvailable, fn(nil))
			})
			assert.Equal(t, NotAvailable, fn(Float(math.NaN())))
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{90.5, "90.5%"},
		{80.2, "80.2%"},
		{0, "0.0%"},
		{100, "100.0%"},
		{33.333, "33.3%"},
		{-2.25, "-2.2%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(Float(tt.in)))
	}
}

func TestPercentPattern(t *testing.T) {
	pattern := regexp.MustCompile(`^-?\d+\.\d%$`)
	for _, v := range []float64{0.04, 1, 12.345, 99.99, 1234.5, -7.77} {
		assert.Regexp(t, pattern, Percent(Float(v)))
	}
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "1.234", Number(Float(1234)))
	assert.Equal(t, "1.234.567", Number(Float(1234567)))
	assert.Equal(t, "12,5", Number(Float(12.5)))
	assert.Equal(t, "0", Number(Float(0)))
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "R$\u00a01.234,50", Currency(Float(1234.5)))
	assert.Equal(t, "-R$\u00a01.234,50", Currency(Float(-1234.5)))
	assert.Equal(t, "R$\u00a00,00", Currency(Float(0)))
	assert.Equal(t, "R$\u00a00,00", Currency(Float(-0.001)))
}
