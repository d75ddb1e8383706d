package ir

// BinOpKind enumerates binary operators.
type BinOpKind uint8

const (
	BinAdd BinOpKind = iota
	BinSubtract
	BinMultiply
	BinDivide
	BinLogicalAnd
	BinLogicalOr
	BinLessThan
	BinLessThanOrEqual
	BinGreaterThan
	BinGreaterThanOrEqual
	BinMemberAccess
	BinBitwiseXor
	BinBitwiseAnd
	BinEqual
	BinNotEqual
	BinRightShift
	BinBitwiseOr
	BinLeftShift
)

var binOpStrings = [...]string{
	BinAdd:                "+",
	BinSubtract:           "-",
	BinMultiply:           "*",
	BinDivide:             "/",
	BinLogicalAnd:         "&&",
	BinLogicalOr:          "||",
	BinLessThan:           "<",
	BinLessThanOrEqual:    "<=",
	BinGreaterThan:        ">",
	BinGreaterThanOrEqual: ">=",
	BinMemberAccess:       ".",
	BinBitwiseXor:         "^",
	BinBitwiseAnd:         "&",
	BinEqual:              "==",
	BinNotEqual:           "!=",
	BinRightShift:         ">>",
	BinBitwiseOr:          "|",
	BinLeftShift:          "<<",
}

// String returns the operator as written in source.
func (k BinOpKind) String() string {
	if int(k) < len(binOpStrings) {
		return binOpStrings[k]
	}
	return "<op>"
}

// UnaryOpKind enumerates prefix operators.
type UnaryOpKind uint8

const (
	UnaryNegate UnaryOpKind = iota
	UnaryLogicalNot
)

// String returns the operator as written in source.
func (k UnaryOpKind) String() string {
	if k == UnaryLogicalNot {
		return "!"
	}
	return "-"
}

// CompoundKind enumerates compound assignment operators.
type CompoundKind uint8

const (
	CompoundAdd CompoundKind = iota
	CompoundSubtract
	CompoundMultiply
	CompoundDivide
)

// String returns the operator as written in source.
func (k CompoundKind) String() string {
	switch k {
	case CompoundSubtract:
		return "-="
	case CompoundMultiply:
		return "*="
	case CompoundDivide:
		return "/="
	}
	return "+="
}

// BinOp returns the plain binary operator the compound form applies.
func (k CompoundKind) BinOp() BinOpKind {
	switch k {
	case CompoundSubtract:
		return BinSubtract
	case CompoundMultiply:
		return BinMultiply
	case CompoundDivide:
		return BinDivide
	}
	return BinAdd
}

type binOpKey struct {
	op       BinOpKind
	lhs, rhs Primitive
}

// BinOpTable maps (operator, lhs, rhs) to the result type.
type BinOpTable struct {
	entries map[binOpKey]Primitive
}

// NewBinOpTable builds the fixed operator table.
func NewBinOpTable() *BinOpTable {
	t := &BinOpTable{entries: make(map[binOpKey]Primitive, 64)}

	for _, op := range []BinOpKind{BinAdd, BinSubtract, BinMultiply, BinDivide, BinBitwiseAnd, BinBitwiseOr, BinBitwiseXor, BinLeftShift, BinRightShift} {
		t.add(op, Int, Int, Int)
	}
	for _, op := range []BinOpKind{BinAdd, BinSubtract, BinMultiply, BinDivide} {
		t.add(op, Float, Float, Float)
		t.add(op, Float, Int, Float)
		t.add(op, Int, Float, Float)
	}
	for _, op := range []BinOpKind{BinLessThan, BinLessThanOrEqual, BinGreaterThan, BinGreaterThanOrEqual, BinEqual, BinNotEqual} {
		t.add(op, Int, Int, Bool)
		t.add(op, Float, Float, Bool)
	}
	for _, v := range []Primitive{Vec2, Vec3, Vec4} {
		t.add(BinAdd, v, v, v)
		t.add(BinSubtract, v, v, v)
		t.add(BinMultiply, v, v, v)
		t.add(BinMultiply, v, Float, v)
		t.add(BinMultiply, Float, v, v)
		t.add(BinDivide, v, v, v)
		t.add(BinDivide, v, Float, v)
	}
	t.add(BinMultiply, Matrix, Matrix, Matrix)
	t.add(BinMultiply, Matrix, Vec2, Vec2)
	t.add(BinMultiply, Vec2, Matrix, Vec2)
	t.add(BinMultiply, Matrix, Vec4, Vec4)
	t.add(BinMultiply, Vec4, Matrix, Vec4)
	t.add(BinLogicalAnd, Bool, Bool, Bool)
	t.add(BinLogicalOr, Bool, Bool, Bool)
	t.add(BinEqual, Bool, Bool, Bool)
	t.add(BinNotEqual, Bool, Bool, Bool)

	return t
}

func (t *BinOpTable) add(op BinOpKind, lhs, rhs, result Primitive) {
	t.entries[binOpKey{op: op, lhs: lhs, rhs: rhs}] = result
}

// ResultType returns the type of lhs op rhs, or false when the operator
// is not defined for the operand types.
func (t *BinOpTable) ResultType(op BinOpKind, lhs, rhs Type) (Type, bool) {
	l, ok1 := lhs.(Primitive)
	r, ok2 := rhs.(Primitive)
	if !ok1 || !ok2 {
		return nil, false
	}
	res, ok := t.entries[binOpKey{op: op, lhs: l, rhs: r}]
	if !ok {
		return nil, false
	}
	return res, true
}

// Len returns the number of entries.
func (t *BinOpTable) Len() int { return len(t.entries) }
