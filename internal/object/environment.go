package object

import (
	"math"

	"github.com/jclot/clot/internal/diagnostic"
)

// DeclKind is the per-slot declaration policy.
type DeclKind int

const (
	Dynamic DeclKind = iota
	LongKind
	ByteKind
)

// VariableSlot is one environment entry: a value consistent with its
// declaration kind.
type VariableSlot struct {
	Value Value
	Kind  DeclKind
}

// Environment maps identifiers to slots for exactly one active call frame.
// Clot has no closures and no nested lexical scoping: a function body sees
// only its own parameters, never the caller's variables, so Environment is
// intentionally flat (no parent/outer link).
type Environment struct {
	slots map[string]*VariableSlot
}

// NewEnvironment creates an empty environment.
func NewEnvironment() *Environment {
	return &Environment{slots: make(map[string]*VariableSlot)}
}

// Get returns the current value of name and whether it is bound.
func (e *Environment) Get(name string) (Value, bool) {
	slot, ok := e.slots[name]
	if !ok {
		return nil, false
	}
	return slot.Value, true
}

// GetSlot returns the slot itself (used by callers that need the
// declaration kind, e.g. by-reference write-back).
func (e *Environment) GetSlot(name string) (*VariableSlot, bool) {
	slot, ok := e.slots[name]
	return slot, ok
}

// Has reports whether name is bound in this environment.
func (e *Environment) Has(name string) bool {
	_, ok := e.slots[name]
	return ok
}

// Define creates or overwrites name with val, applying kind's coercion. If
// name already exists with a different declaration kind, kind upgrades the
// slot (per the spec: "existing kind, upgraded if the statement says long
// or byte").
func (e *Environment) Define(name string, val Value, kind DeclKind, line, column int) *diagnostic.Diagnostic {
	slot, exists := e.slots[name]
	effectiveKind := kind
	if exists && kind == Dynamic {
		effectiveKind = slot.Kind
	}
	coerced, diag := coerce(val, effectiveKind, line, column)
	if diag != nil {
		return diag
	}
	e.slots[name] = &VariableSlot{Value: coerced, Kind: effectiveKind}
	return nil
}

// SetSlot installs slot verbatim under name (used for by-reference
// parameter binding, where the caller slot's kind must be preserved
// exactly rather than re-derived, and for a catch block's error binding).
func (e *Environment) SetSlot(name string, slot *VariableSlot) {
	e.slots[name] = slot
}

// DeleteSlot removes name entirely (used to restore a catch block's error
// binding to "unbound" when no prior binding existed).
func (e *Environment) DeleteSlot(name string) {
	delete(e.slots, name)
}

// CompoundAssign implements "+=" / "-=" on a plain identifier: the existing
// slot must exist, and the result is coerced to the slot's current kind.
func (e *Environment) CompoundAssign(name, op string, rhs Value, line, column int) *diagnostic.Diagnostic {
	slot, ok := e.slots[name]
	if !ok {
		return diagnostic.New(diagnostic.NameError, line, column, "undefined variable %q", name)
	}
	var binOp string
	switch op {
	case "+=":
		binOp = "+"
	case "-=":
		binOp = "-"
	default:
		return diagnostic.New(diagnostic.InternalError, line, column, "unsupported compound operator %q", op)
	}
	result, diag := BinaryOp(binOp, slot.Value, rhs, line, column)
	if diag != nil {
		return diag
	}
	coerced, diag := coerce(result, slot.Kind, line, column)
	if diag != nil {
		return diag
	}
	slot.Value = coerced
	return nil
}

// coerce validates/converts val against a declaration kind, per the spec:
// long coerces to a 64-bit signed integer, byte coerces to 0..=255,
// dynamic accepts anything unchanged. A value that isn't numeric at all is
// a TypeError; a numeric value that doesn't fit the slot's representable
// domain (non-integral, or out of range) is a RangeError.
func coerce(val Value, kind DeclKind, line, column int) (Value, *diagnostic.Diagnostic) {
	switch kind {
	case Dynamic:
		return val, nil
	case LongKind:
		return coerceLong(val, line, column)
	case ByteKind:
		return coerceByte(val, line, column)
	}
	return val, nil
}

func coerceLong(val Value, line, column int) (Value, *diagnostic.Diagnostic) {
	if i, ok := val.(Int); ok {
		return i, nil
	}
	f, ok := AsNumber(val)
	if !ok {
		return nil, diagnostic.New(diagnostic.TypeError, line, column, "cannot assign %s to a long slot", val.Kind())
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < math.MinInt64 || f > math.MaxInt64 {
		return nil, diagnostic.New(diagnostic.RangeError, line, column, "value %v out of range for a long slot", f)
	}
	return Int(int64(f)), nil
}

func coerceByte(val Value, line, column int) (Value, *diagnostic.Diagnostic) {
	f, ok := AsNumber(val)
	if !ok {
		return nil, diagnostic.New(diagnostic.TypeError, line, column, "cannot assign %s to a byte slot", val.Kind())
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 0 || f > 255 {
		return nil, diagnostic.New(diagnostic.RangeError, line, column, "byte value %v out of range 0..255", f)
	}
	return Int(int64(f)), nil
}
