package autograd

import (
	"fmt"
	"sync/atomic"
)

// Op identifies the operator that produced a Value.
// The set is closed: Backward switches over every member.
type Op uint8

const (
	OpNone Op = iota // leaf or constant
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpReLU
)

// String returns the operator symbol, or "" for leaves.
func (op Op) String() string {
	switch op {
	case OpNone:
		return ""
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpReLU:
		return "relu"
	default:
		return fmt.Sprintf("Op(%d)", uint8(op))
	}
}

var nextID atomic.Uint64

// Value represents a scalar node in the computation graph.
// It records the operator and operands that produced it so gradients can be
// computed lazily by Backward.
type Value struct {
	data     float64  // forward result, or the constant for leaves
	grad     float64  // ∂root/∂self after a backward pass
	op       Op       // operator that produced this node
	children []*Value // operands, in operator order
	id       uint64   // unique per instance, never derived from data
}

// NewValue creates a leaf Value node with the given data.
func NewValue(data float64) *Value {
	return &Value{
		data: data,
		id:   nextID.Add(1),
	}
}

// Scalar is an alias for NewValue, typically used for constants.
func Scalar(data float64) *Value {
	return NewValue(data)
}

func newNode(data float64, op Op, children ...*Value) *Value {
	return &Value{
		data:     data,
		op:       op,
		children: children,
		id:       nextID.Add(1),
	}
}

// Data returns the scalar value.
func (v *Value) Data() float64 { return v.data }

// SetData overwrites the scalar value. Optimizers use it to update parameters.
func (v *Value) SetData(d float64) { v.data = d }

// Grad returns the accumulated gradient.
func (v *Value) Grad() float64 { return v.grad }

// SetGrad overwrites the gradient.
func (v *Value) SetGrad(g float64) { v.grad = g }

// AccumulateGrad adds delta into the gradient.
func (v *Value) AccumulateGrad(delta float64) { v.grad += delta }

// Op returns the operator that produced v.
func (v *Value) Op() Op { return v.op }

// ID returns the node's identity token.
func (v *Value) ID() uint64 { return v.id }

// IsLeaf reports whether v has no operands.
func (v *Value) IsLeaf() bool { return len(v.children) == 0 }

// Children returns a copy of the operand list.
func (v *Value) Children() []*Value {
	if len(v.children) == 0 {
		return nil
	}
	out := make([]*Value, len(v.children))
	copy(out, v.children)
	return out
}

// ZeroGrad resets the gradient of this Value to 0 and keeps its provenance.
func (v *Value) ZeroGrad() {
	v.grad = 0
}

// ClearGrad resets the gradient to 0 and detaches v from its operands, turning
// it into a leaf. Later passes through v stop here.
func (v *Value) ClearGrad() {
	v.grad = 0
	v.children = nil
	v.op = OpNone
}

// String implements the Stringer interface for pretty printing.
func (v *Value) String() string {
	return fmt.Sprintf("Value(data=%g, grad=%g, op=%q, id=%d)", v.data, v.grad, v.op, v.id)
}
