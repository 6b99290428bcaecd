package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPressAll(t *testing.T) {
	tests := []struct {
		name string
		keys string
		want string
	}{
		{"initial", "", "0"},
		{"addition", "12+7=", "19"},
		{"subtraction below zero", "5-8=", "-3"},
		{"float addition", "0.1+0.2=", "0.30000000000000004"},
		{"repeating division", "1/3=", "0.3333333333333333"},
		{"chained operators evaluate left to right", "2+3*4=", "20"},
		{"operator shows first operand", "3+", "3"},
		{"equals without operator", "7=", "7"},
		{"equals reuses display as operand", "2+=", "4"},
		{"divide by zero", "1/0=", "Infinity"},
		{"zero by zero", "0/0=", "NaN"},
		{"leading zeros dropped", "007", "7"},
		{"leading decimal", ".5", "0.5"},
		{"single decimal point", "1..2", "1.2"},
		{"decimal after operator", "4+.5=", "4.5"},
		{"digit after result starts new value", "1+2=5", "5"},
		{"backspace", "123←", "12"},
		{"backspace to zero", "5←", "0"},
		{"backspace ignored while waiting", "5+←", "5"},
		{"clear", "9+4C", "0"},
		{"small result uses exponent", "0.0000001*1=", "1e-7"},
		{"large result uses exponent", "1000000000000*1000000000=", "1e+21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			require.NoError(t, c.PressAll(tt.keys))
			assert.Equal(t, tt.want, c.Display())
		})
	}
}

func TestClearDropsPendingOperator(t *testing.T) {
	c := New()
	require.NoError(t, c.PressAll("9+"))
	op, ok := c.Pending()
	assert.True(t, ok)
	assert.Equal(t, '+', op)

	require.NoError(t, c.Press(KeyClear))
	_, ok = c.Pending()
	assert.False(t, ok)

	require.NoError(t, c.PressAll("3="))
	assert.Equal(t, "3", c.Display())
}

func TestUnknownKey(t *testing.T) {
	c := New()
	err := c.PressAll("12x3")
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.Equal(t, "12", c.Display())
}
