// Package object implements Clot's value model: a tagged union over
// integer, float, string, bool, list, and object, with the coercion,
// equality, and canonical-string rules the interpreter relies on.
package object

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant of Value a given value holds.
type Kind string

const (
	IntKind    Kind = "int"
	FloatKind  Kind = "float"
	StringKind Kind = "string"
	BoolKind   Kind = "bool"
	ListKind   Kind = "list"
	ObjectKind Kind = "object"
)

// Value is the single tagged-variant type every Clot runtime value
// implements.
type Value interface {
	Kind() Kind
	// ToString is the canonical, observable string form used by print
	// statements and by string coercion in binary operators.
	ToString() string
	// Clone returns a value with copy (not reference) semantics: for
	// scalars this is the receiver itself, for List/Object a deep copy.
	Clone() Value
}

// ---- scalars ----

type Int int64

func (Int) Kind() Kind          { return IntKind }
func (v Int) ToString() string  { return strconv.FormatInt(int64(v), 10) }
func (v Int) Clone() Value      { return v }

type Float float64

func (Float) Kind() Kind         { return FloatKind }
func (v Float) ToString() string { return formatFloat(float64(v)) }
func (v Float) Clone() Value     { return v }

type Str string

func (Str) Kind() Kind          { return StringKind }
func (v Str) ToString() string  { return string(v) }
func (v Str) Clone() Value      { return v }

type Bool bool

func (Bool) Kind() Kind          { return BoolKind }
func (v Bool) ToString() string  { return strconv.FormatBool(bool(v)) }
func (v Bool) Clone() Value      { return v }

// formatFloat renders a float with up to 15 significant digits, stripping
// trailing zeros and a trailing decimal point.
func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	if math.IsNaN(f) {
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', 15, 64)
	if strings.ContainsAny(s, "eE") {
		// Exponent form for magnitudes outside plain notation's reach; the
		// mantissa is still trimmed the same way.
		parts := strings.SplitN(s, "e", 2)
		if len(parts) == 1 {
			parts = strings.SplitN(s, "E", 2)
		}
		mantissa := trimTrailingZeros(parts[0])
		return mantissa + "e" + parts[1]
	}
	return trimTrailingZeros(s)
}

func trimTrailingZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}

// ---- aggregates ----

// List is an ordered, mutable sequence of values.
type List struct {
	Elements []Value
}

func NewList(elements []Value) *List { return &List{Elements: elements} }

func (*List) Kind() Kind { return ListKind }

func (l *List) ToString() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = display(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l *List) Clone() Value {
	elems := make([]Value, len(l.Elements))
	for i, e := range l.Elements {
		elems[i] = e.Clone()
	}
	return &List{Elements: elems}
}

// Object is an ordered, mutable sequence of key/value pairs; insertion
// order is observable and preserved across Set on existing keys.
type Object struct {
	keys   []string
	values map[string]Value
}

func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *Object) Set(key string, val Value) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = val
}

func (o *Object) Keys() []string { return o.keys }

func (*Object) Kind() Kind { return ObjectKind }

func (o *Object) ToString() string {
	parts := make([]string, len(o.keys))
	for i, k := range o.keys {
		parts[i] = fmt.Sprintf("%s: %s", k, display(o.values[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (o *Object) Clone() Value {
	clone := NewObject()
	for _, k := range o.keys {
		clone.Set(k, o.values[k].Clone())
	}
	return clone
}

// display renders a value the way it appears nested inside a list or
// object: strings are quoted, aggregates render recursively the same way.
func display(v Value) string {
	if s, ok := v.(Str); ok {
		return strconv.Quote(string(s))
	}
	return v.ToString()
}

// ---- truthiness, coercion, equality ----

// Truthy implements the spec's truthiness rules.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case Bool:
		return bool(t)
	case Int:
		return t != 0
	case Float:
		return t != 0
	case Str:
		return len(t) > 0
	case *List:
		return len(t.Elements) > 0
	case *Object:
		return len(t.keys) > 0
	default:
		return false
	}
}

// AsNumber coerces v to a float64, following the spec's AsNumber rules.
func AsNumber(v Value) (float64, bool) {
	switch t := v.(type) {
	case Int:
		return float64(t), true
	case Float:
		return float64(t), true
	case Bool:
		if t {
			return 1, true
		}
		return 0, true
	case Str:
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsInteger coerces v to an exact int64, following the spec's AsInteger
// rules: strings must parse fully as an integer, floats must be finite and
// integral and in int64 range, booleans are 0/1.
func AsInteger(v Value) (int64, bool) {
	switch t := v.(type) {
	case Int:
		return int64(t), true
	case Float:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		if f != math.Trunc(f) {
			return 0, false
		}
		if f < math.MinInt64 || f > math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	case Bool:
		if t {
			return 1, true
		}
		return 0, true
	case Str:
		n, err := strconv.ParseInt(string(t), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// isExactInt reports whether v reads as an integer with no loss: Int
// values always qualify; Float values qualify only when integral.
func isExactInt(v Value) (int64, bool) {
	switch t := v.(type) {
	case Int:
		return int64(t), true
	case Float:
		f := float64(t)
		if f == math.Trunc(f) && !math.IsInf(f, 0) && f >= math.MinInt64 && f <= math.MaxInt64 {
			return int64(f), true
		}
	}
	return 0, false
}

// Equal implements the spec's equality rules for "==" and "!=".
func Equal(a, b Value) bool {
	_, aAgg := a.(*List)
	_, bAgg := b.(*Object)
	if !aAgg {
		_, aAgg = a.(*Object)
	}
	_, bAgg2 := b.(*List)
	if aAgg || bAgg || bAgg2 {
		return a.ToString() == b.ToString()
	}
	if _, ok := a.(Str); ok {
		return a.ToString() == b.ToString()
	}
	if _, ok := b.(Str); ok {
		return a.ToString() == b.ToString()
	}
	if _, ok := a.(Bool); ok {
		return Truthy(a) == Truthy(b)
	}
	if _, ok := b.(Bool); ok {
		return Truthy(a) == Truthy(b)
	}
	ai, aok := isExactInt(a)
	bi, bok := isExactInt(b)
	if aok && bok {
		return ai == bi
	}
	af, _ := AsNumber(a)
	bf, _ := AsNumber(b)
	return af == bf
}
