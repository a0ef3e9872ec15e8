package autograd

// Operators only compute the forward value and record provenance.
// Derivatives are applied later by Backward.

// Add returns a new Value representing self + other.
func (v *Value) Add(other *Value) *Value {
	return newNode(v.data+other.data, OpAdd, v, other)
}

// Sub returns a new Value representing self - other.
func (v *Value) Sub(other *Value) *Value {
	return newNode(v.data-other.data, OpSub, v, other)
}

// Mul returns a new Value representing self * other.
func (v *Value) Mul(other *Value) *Value {
	return newNode(v.data*other.data, OpMul, v, other)
}

// Div returns a new Value representing self / other.
// Division by zero is not guarded and yields ±Inf or NaN.
func (v *Value) Div(other *Value) *Value {
	return newNode(v.data/other.data, OpDiv, v, other)
}

// ReLU returns a new Value representing max(0, self). NaN passes through.
func (v *Value) ReLU() *Value {
	data := v.data
	if data < 0 {
		data = 0
	}
	return newNode(data, OpReLU, v)
}

// Add returns l + r.
func Add(l, r *Value) *Value { return l.Add(r) }

// Sub returns l - r.
func Sub(l, r *Value) *Value { return l.Sub(r) }

// Mul returns l * r.
func Mul(l, r *Value) *Value { return l.Mul(r) }

// Div returns l / r.
func Div(l, r *Value) *Value { return l.Div(r) }

// Sum folds values left to right with Add. An empty input yields a zero leaf.
func Sum(vs []*Value) *Value {
	if len(vs) == 0 {
		return NewValue(0)
	}
	acc := vs[0]
	for _, v := range vs[1:] {
		acc = acc.Add(v)
	}
	return acc
}
