package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want Money
	}{
		{"0", 0},
		{"1", 100},
		{"25.5", 2550},
		{"25.50", 2550},
		{"10.00", 1000},
		{"0.99", 99},
		{"  3.25 ", 325},
		{"2.005", 201},  // third digit rounds half up
		{"2.004", 200},
		{"1234567.89", 123456789},
		{"5.", 500},
		{".5", 50},
	}
	for _, tt := range tests {
		got, err := ParseMoney(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParseMoneyRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "-1", "+2", "abc", "1.2.3", "1,50", "12a", "."} {
		_, err := ParseMoney(in)
		assert.ErrorIs(t, err, ErrBadAmount, "input %q", in)
	}
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "25.50", Money(2550).String())
	assert.Equal(t, "0.05", Money(5).String())
	assert.Equal(t, "0.00", Money(0).String())
	assert.Equal(t, "1000.00", Money(100000).String())
}

func TestMoneyMul(t *testing.T) {
	assert.Equal(t, Money(5100), Money(2550).Mul(2))
	assert.Equal(t, Money(0), Money(2550).Mul(0))
}

func TestOrderDraftTotal(t *testing.T) {
	draft := &OrderDraft{
		CustomerID: 7,
		Items: []OrderItemDraft{
			{ProductID: 3, Name: "espresso", Quantity: 2, UnitPrice: Money(2550)},
			{ProductID: 9, Name: "cake", Quantity: 1, UnitPrice: Money(1000)},
		},
	}
	assert.Equal(t, Money(6100), draft.Total())
	assert.Equal(t, "61.00", draft.Total().String())
}
