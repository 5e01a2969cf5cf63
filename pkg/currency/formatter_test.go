package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		amount float64
		code   string
		want   string
	}{
		{107.9, "USD", "$108"},
		{1234, "usd", "$1,234"},
		{1500000, "IDR", "IDR 1,500,000"},
		{999.4, "", "999"},
		{-2500, "EUR", "-€2,500"},
		{0, "GBP", "£0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.amount, tt.code))
	}
}
