package evaluator

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Value system
type Value interface{ repr() string }

type (
	Int  struct{ V int64 }
	Str  struct{ V string }
	Bool struct{ V bool }
	Null struct{}
)

func (v Int) repr() string { return strconv.FormatInt(v.V, 10) }
func (v Str) repr() string { return v.V }
func (v Bool) repr() string {
	if v.V {
		return "true"
	}
	return "false"
}
func (v Null) repr() string { return "null" }

// Format produces the printed representation used by spit.
func Format(v Value) string {
	if v == nil {
		return Null{}.repr()
	}
	return v.repr()
}

func typeName(v Value) string {
	switch v.(type) {
	case Int:
		return "Number"
	case Str:
		return "String"
	case Bool:
		return "Boolean"
	case Null:
		return "Null"
	default:
		return "Unknown"
	}
}

func isTruthy(v Value) bool {
	switch x := v.(type) {
	case Int:
		return x.V != 0
	case Str:
		return x.V != ""
	case Bool:
		return x.V
	default:
		return false
	}
}

func boolInt(b bool) Int {
	if b {
		return Int{V: 1}
	}
	return Int{V: 0}
}

// apply evaluates a binary operator on already evaluated operands.
// Comparisons yield Int 1 or 0, never Bool.
func apply(op string, a, b Value) (Value, error) {
	switch op {
	case "+":
		return add(a, b)
	case "-", "*", "/", "^":
		return arith(op, a, b)
	case "==":
		return boolInt(looseEqual(a, b)), nil
	case "!=":
		return boolInt(!looseEqual(a, b)), nil
	case ">", "<", ">=", "<=":
		return boolInt(looseOrder(op, a, b)), nil
	default:
		return nil, runtimeError(ErrUnsupportedOperator, "%s", op)
	}
}

// add sums two numbers; a string on either side turns it into concatenation.
func add(a, b Value) (Value, error) {
	x, xok := a.(Int)
	y, yok := b.(Int)
	if xok && yok {
		return Int{V: x.V + y.V}, nil
	}
	_, as := a.(Str)
	_, bs := b.(Str)
	if as || bs {
		return Str{V: Format(a) + Format(b)}, nil
	}
	return nil, runtimeError(ErrUnsupportedOperand, "%s + %s", typeName(a), typeName(b))
}

func arith(op string, a, b Value) (Value, error) {
	x, xok := a.(Int)
	y, yok := b.(Int)
	if !xok || !yok {
		return nil, runtimeError(ErrUnsupportedOperand, "%s %s %s", typeName(a), op, typeName(b))
	}
	switch op {
	case "-":
		return Int{V: x.V - y.V}, nil
	case "*":
		return Int{V: x.V * y.V}, nil
	case "/":
		if y.V == 0 {
			return nil, runtimeError(ErrDivisionByZero, "%d / 0", x.V)
		}
		// truncates toward zero
		return Int{V: x.V / y.V}, nil
	default:
		return Int{V: x.V ^ y.V}, nil
	}
}

// looseEqual: null only equals null, same-typed strings and booleans compare
// directly, everything else is compared numerically.
func looseEqual(a, b Value) bool {
	_, an := a.(Null)
	_, bn := b.(Null)
	if an || bn {
		return an && bn
	}
	switch x := a.(type) {
	case Str:
		if y, ok := b.(Str); ok {
			return x.V == y.V
		}
	case Bool:
		if y, ok := b.(Bool); ok {
			return x.V == y.V
		}
	case Int:
		if y, ok := b.(Int); ok {
			return x.V == y.V
		}
	}
	return toNumber(a) == toNumber(b)
}

// looseOrder compares two strings lexically and anything else numerically.
// A NaN operand (non-numeric string) makes every ordering false.
func looseOrder(op string, a, b Value) bool {
	if x, ok := a.(Str); ok {
		if y, ok := b.(Str); ok {
			return ordered(op, strings.Compare(x.V, y.V))
		}
	}
	if x, ok := a.(Int); ok {
		if y, ok := b.(Int); ok {
			switch {
			case x.V < y.V:
				return ordered(op, -1)
			case x.V > y.V:
				return ordered(op, 1)
			}
			return ordered(op, 0)
		}
	}
	l, r := toNumber(a), toNumber(b)
	switch op {
	case ">":
		return l > r
	case "<":
		return l < r
	case ">=":
		return l >= r
	default:
		return l <= r
	}
}

func ordered(op string, c int) bool {
	switch op {
	case ">":
		return c > 0
	case "<":
		return c < 0
	case ">=":
		return c >= 0
	default:
		return c <= 0
	}
}

// toNumber coerces a value for loose comparison: booleans are 0/1, null is 0,
// strings parse as numbers after trimming (empty is 0, garbage is NaN).
func toNumber(v Value) float64 {
	switch x := v.(type) {
	case Int:
		return float64(x.V)
	case Bool:
		if x.V {
			return 1
		}
		return 0
	case Str:
		return parseNumber(x.V)
	default:
		return 0
	}
}

// parseNumber reads a numeric string the way script hosts do: unsigned
// 0x/0o/0b integers, decimals with an optional exponent, and the exact words
// Infinity, +Infinity and -Infinity. Out-of-range decimals become ±Inf.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			if c := s[2]; c == '+' || c == '-' {
				return math.NaN()
			}
			n, ok := new(big.Int).SetString(s[2:], base)
			if !ok {
				return math.NaN()
			}
			f, _ := new(big.Float).SetInt(n).Float64()
			return f
		}
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9', c == '.', c == 'e', c == 'E', c == '+', c == '-':
		default:
			return math.NaN()
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}
