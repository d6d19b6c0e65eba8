package object

import (
	"math"

	"github.com/jclot/clot/internal/diagnostic"
)

// BinaryOp evaluates a binary operator over two already-evaluated operands,
// following the numeric promotion, string concatenation, and equality
// rules in the spec's value model.
func BinaryOp(op string, left, right Value, line, column int) (Value, *diagnostic.Diagnostic) {
	switch op {
	case "&&":
		return Bool(Truthy(left) && Truthy(right)), nil
	case "||":
		return Bool(Truthy(left) || Truthy(right)), nil
	case "==":
		return Bool(Equal(left, right)), nil
	case "!=":
		return Bool(!Equal(left, right)), nil
	case "+":
		return add(left, right, line, column)
	case "-":
		return sub(left, right, line, column)
	case "*", "/", "%", "^":
		return floatOp(op, left, right, line, column)
	case "<", "<=", ">", ">=":
		return compare(op, left, right, line, column)
	}
	return nil, diagnostic.New(diagnostic.InternalError, line, column, "unknown binary operator %q", op)
}

// UnaryOp evaluates a unary prefix operator.
func UnaryOp(op string, right Value, line, column int) (Value, *diagnostic.Diagnostic) {
	switch op {
	case "!":
		return Bool(!Truthy(right)), nil
	case "-":
		if i, ok := isExactInt(right); ok {
			return Int(-i), nil
		}
		f, ok := AsNumber(right)
		if !ok {
			return nil, diagnostic.New(diagnostic.TypeError, line, column, "cannot negate %s", right.Kind())
		}
		return Float(-f), nil
	case "+":
		if i, ok := isExactInt(right); ok {
			return Int(i), nil
		}
		f, ok := AsNumber(right)
		if !ok {
			return nil, diagnostic.New(diagnostic.TypeError, line, column, "cannot apply unary + to %s", right.Kind())
		}
		return Float(f), nil
	}
	return nil, diagnostic.New(diagnostic.InternalError, line, column, "unknown unary operator %q", op)
}

func isString(v Value) bool {
	_, ok := v.(Str)
	return ok
}

func add(left, right Value, line, column int) (Value, *diagnostic.Diagnostic) {
	if isString(left) || isString(right) {
		return Str(left.ToString() + right.ToString()), nil
	}
	if li, lok := isExactInt(left); lok {
		if ri, rok := isExactInt(right); rok {
			sum := li + ri
			overflow := (ri > 0 && sum < li) || (ri < 0 && sum > li)
			if !overflow {
				return Int(sum), nil
			}
			lf, _ := AsNumber(left)
			rf, _ := AsNumber(right)
			return Float(lf + rf), nil
		}
	}
	lf, lok := AsNumber(left)
	rf, rok := AsNumber(right)
	if !lok || !rok {
		return nil, diagnostic.New(diagnostic.TypeError, line, column, "cannot add %s and %s", left.Kind(), right.Kind())
	}
	return Float(lf + rf), nil
}

func sub(left, right Value, line, column int) (Value, *diagnostic.Diagnostic) {
	if li, lok := isExactInt(left); lok {
		if ri, rok := isExactInt(right); rok {
			diff := li - ri
			overflow := (ri < 0 && diff < li) || (ri > 0 && diff > li)
			if !overflow {
				return Int(diff), nil
			}
			lf, _ := AsNumber(left)
			rf, _ := AsNumber(right)
			return Float(lf - rf), nil
		}
	}
	lf, lok := AsNumber(left)
	rf, rok := AsNumber(right)
	if !lok || !rok {
		return nil, diagnostic.New(diagnostic.TypeError, line, column, "cannot subtract %s and %s", right.Kind(), left.Kind())
	}
	return Float(lf - rf), nil
}

func floatOp(op string, left, right Value, line, column int) (Value, *diagnostic.Diagnostic) {
	lf, lok := AsNumber(left)
	rf, rok := AsNumber(right)
	if !lok || !rok {
		return nil, diagnostic.New(diagnostic.TypeError, line, column, "operator %q requires numeric operands, got %s and %s", op, left.Kind(), right.Kind())
	}
	switch op {
	case "*":
		return Float(lf * rf), nil
	case "/":
		// Zero divisor is not guarded: IEEE-754 division by zero produces
		// +Inf/-Inf/NaN, which formatFloat renders as "inf"/"-inf"/"nan".
		return Float(lf / rf), nil
	case "%":
		return Float(math.Mod(lf, rf)), nil
	case "^":
		return Float(math.Pow(lf, rf)), nil
	}
	return nil, diagnostic.New(diagnostic.InternalError, line, column, "unknown operator %q", op)
}

func compare(op string, left, right Value, line, column int) (Value, *diagnostic.Diagnostic) {
	lf, lok := AsNumber(left)
	rf, rok := AsNumber(right)
	if !lok || !rok {
		return nil, diagnostic.New(diagnostic.TypeError, line, column, "operator %q requires numeric operands, got %s and %s", op, left.Kind(), right.Kind())
	}
	switch op {
	case "<":
		return Bool(lf < rf), nil
	case "<=":
		return Bool(lf <= rf), nil
	case ">":
		return Bool(lf > rf), nil
	case ">=":
		return Bool(lf >= rf), nil
	}
	return nil, diagnostic.New(diagnostic.InternalError, line, column, "unknown comparison %q", op)
}
