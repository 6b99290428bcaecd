// Package calculator is the desktop calculator: a four-function keypad
// state machine and the window collaborator holding one per window.
package calculator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Keys understood by Press besides the digits
const (
	KeyDecimal   = '.'
	KeyEquals    = '='
	KeyClear     = 'C'
	KeyBackspace = '←'
)

// ErrUnknownKey is returned for keys the keypad does not have
var ErrUnknownKey = errors.New("unknown key")

// Calculator is a four-function pocket calculator. Operators chain left
// to right: pressing an operator while one is pending evaluates it first.
type Calculator struct {
	current  string
	previous string
	op       rune
	waiting  bool // next digit starts a new value
}

// New returns a cleared calculator
func New() *Calculator {
	return &Calculator{current: "0"}
}

// Display returns what the display shows
func (c *Calculator) Display() string {
	return c.current
}

// Pending returns the operator waiting for its second operand, if any
func (c *Calculator) Pending() (rune, bool) {
	return c.op, c.op != 0
}

// Press applies one key
func (c *Calculator) Press(key rune) error {
	switch {
	case key >= '0' && key <= '9':
		c.digit(key)
	case key == KeyDecimal:
		c.decimal()
	case key == '+' || key == '-' || key == '*' || key == '/':
		c.operator(key)
	case key == KeyEquals:
		c.calculate()
	case key == KeyClear:
		c.Clear()
	case key == KeyBackspace:
		c.backspace()
	default:
		return fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	return nil
}

// PressAll applies keys in order and stops at the first unknown key
func (c *Calculator) PressAll(keys string) error {
	for _, k := range keys {
		if err := c.Press(k); err != nil {
			return err
		}
	}
	return nil
}

// Clear resets the calculator
func (c *Calculator) Clear() {
	*c = Calculator{current: "0"}
}

func (c *Calculator) digit(d rune) {
	switch {
	case c.waiting:
		c.current = string(d)
		c.waiting = false
	case c.current == "0":
		c.current = string(d)
	default:
		c.current += string(d)
	}
}

func (c *Calculator) decimal() {
	switch {
	case c.waiting:
		c.current = "0."
		c.waiting = false
	case !strings.Contains(c.current, "."):
		c.current += "."
	}
}

func (c *Calculator) operator(op rune) {
	if c.op != 0 && !c.waiting {
		c.calculate()
	}
	c.previous = c.current
	c.op = op
	c.waiting = true
}

func (c *Calculator) calculate() {
	prev, cur := parse(c.previous), parse(c.current)

	var result float64
	switch c.op {
	case '+':
		result = prev + cur
	case '-':
		result = prev - cur
	case '*':
		result = prev * cur
	case '/':
		result = prev / cur
	default:
		return
	}

	c.current = format(result)
	c.op = 0
	c.waiting = true
}

func (c *Calculator) backspace() {
	if c.waiting {
		return
	}
	_, size := utf8.DecodeLastRuneInString(c.current)
	c.current = c.current[:len(c.current)-size]
	if c.current == "" {
		c.current = "0"
	}
}

// parse reads a display value; anything unreadable is NaN
func parse(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}

// format renders a result the way the display shows numbers: shortest
// round-trip digits, exponent form outside [1e-6, 1e21).
func format(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		// 1e-07 → 1e-7
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
