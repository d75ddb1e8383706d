package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind is the dynamic type of a constant Value.
type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueInt
	ValueFloat
	ValueBool
	ValueVec2
	ValueVec3
	ValueVec4
)

// Value is the result of constant folding. The zero Value means "not a
// compile-time constant".
type Value struct {
	Kind  ValueKind
	Int   int32
	Float float64
	Bool  bool
	Vec   [4]float64
}

// IntValue, FloatValue, BoolValue and VecValue build constants.
func IntValue(v int32) Value     { return Value{Kind: ValueInt, Int: v} }
func FloatValue(v float64) Value { return Value{Kind: ValueFloat, Float: v} }
func BoolValue(v bool) Value     { return Value{Kind: ValueBool, Bool: v} }

func VecValue(components ...float64) Value {
	v := Value{}
	switch len(components) {
	case 2:
		v.Kind = ValueVec2
	case 3:
		v.Kind = ValueVec3
	case 4:
		v.Kind = ValueVec4
	default:
		return Value{}
	}
	copy(v.Vec[:], components)
	return v
}

// IsValid reports whether the value holds a constant.
func (v Value) IsValid() bool { return v.Kind != ValueNone }

// dim returns the component count of a vector value.
func (v Value) dim() int {
	switch v.Kind {
	case ValueVec2:
		return 2
	case ValueVec3:
		return 3
	case ValueVec4:
		return 4
	}
	return 0
}

// Components returns the vector components.
func (v Value) Components() []float64 { return v.Vec[:v.dim()] }

// AsFloat converts an int or float constant to float64.
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case ValueFloat:
		return v.Float, true
	case ValueInt:
		return float64(v.Int), true
	}
	return 0, false
}

// String renders the constant for diagnostics and parameter listings.
func (v Value) String() string {
	switch v.Kind {
	case ValueInt:
		return strconv.FormatInt(int64(v.Int), 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueVec2, ValueVec3, ValueVec4:
		parts := make([]string, v.dim())
		for i, c := range v.Components() {
			parts[i] = strconv.FormatFloat(c, 'g', -1, 64)
		}
		return fmt.Sprintf("Vec%d(%s)", v.dim(), strings.Join(parts, ", "))
	}
	return "<none>"
}

// Interface returns the value as a plain Go value, for serialization.
func (v Value) Interface() any {
	switch v.Kind {
	case ValueInt:
		return v.Int
	case ValueFloat:
		return v.Float
	case ValueBool:
		return v.Bool
	case ValueVec2, ValueVec3, ValueVec4:
		return append([]float64(nil), v.Components()...)
	}
	return nil
}

// ParseHexLiteral parses the text of a hex literal such as 0xFFu.
func ParseHexLiteral(text string) (int32, bool) {
	digits := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X"), "u")
	n, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, false
	}
	return int32(uint32(n)), true
}

func foldBinary(op BinOpKind, lhs, rhs Value) Value {
	if !lhs.IsValid() || !rhs.IsValid() || lhs.Kind != rhs.Kind {
		return Value{}
	}

	switch lhs.Kind {
	case ValueInt:
		a, b := lhs.Int, rhs.Int
		switch op {
		case BinAdd:
			return IntValue(a + b)
		case BinSubtract:
			return IntValue(a - b)
		case BinMultiply:
			return IntValue(a * b)
		case BinDivide:
			if b == 0 {
				return Value{}
			}
			return IntValue(a / b)
		case BinLessThan:
			return BoolValue(a < b)
		case BinLessThanOrEqual:
			return BoolValue(a <= b)
		case BinGreaterThan:
			return BoolValue(a > b)
		case BinGreaterThanOrEqual:
			return BoolValue(a >= b)
		case BinBitwiseXor:
			return IntValue(a ^ b)
		case BinBitwiseAnd:
			return IntValue(a & b)
		case BinBitwiseOr:
			return IntValue(a | b)
		case BinEqual:
			return BoolValue(a == b)
		case BinNotEqual:
			return BoolValue(a != b)
		case BinRightShift:
			if b < 0 {
				return Value{}
			}
			return IntValue(a >> uint(b))
		case BinLeftShift:
			if b < 0 {
				return Value{}
			}
			return IntValue(a << uint(b))
		}

	case ValueFloat:
		a, b := lhs.Float, rhs.Float
		switch op {
		case BinAdd:
			return FloatValue(a + b)
		case BinSubtract:
			return FloatValue(a - b)
		case BinMultiply:
			return FloatValue(a * b)
		case BinDivide:
			return FloatValue(a / b)
		case BinLessThan:
			return BoolValue(a < b)
		case BinLessThanOrEqual:
			return BoolValue(a <= b)
		case BinGreaterThan:
			return BoolValue(a > b)
		case BinGreaterThanOrEqual:
			return BoolValue(a >= b)
		case BinEqual:
			return BoolValue(a == b)
		case BinNotEqual:
			return BoolValue(a != b)
		}

	case ValueBool:
		a, b := lhs.Bool, rhs.Bool
		switch op {
		case BinLogicalAnd:
			return BoolValue(a && b)
		case BinLogicalOr:
			return BoolValue(a || b)
		case BinEqual:
			return BoolValue(a == b)
		case BinNotEqual:
			return BoolValue(a != b)
		}

	case ValueVec2, ValueVec3, ValueVec4:
		switch op {
		case BinEqual:
			return BoolValue(lhs.Vec == rhs.Vec)
		case BinNotEqual:
			return BoolValue(lhs.Vec != rhs.Vec)
		}
		out := lhs
		for i := range lhs.dim() {
			a, b := lhs.Vec[i], rhs.Vec[i]
			switch op {
			case BinAdd:
				out.Vec[i] = a + b
			case BinSubtract:
				out.Vec[i] = a - b
			case BinMultiply:
				out.Vec[i] = a * b
			case BinDivide:
				out.Vec[i] = a / b
			default:
				return Value{}
			}
		}
		return out
	}

	return Value{}
}

func foldUnary(op UnaryOpKind, v Value) Value {
	switch {
	case v.Kind == ValueInt && op == UnaryNegate:
		return IntValue(-v.Int)
	case v.Kind == ValueFloat && op == UnaryNegate:
		return FloatValue(-v.Float)
	case v.Kind == ValueBool && op == UnaryLogicalNot:
		return BoolValue(!v.Bool)
	}
	return Value{}
}
