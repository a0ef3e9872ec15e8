package autograd

import "fmt"

// TopologicalOrder returns every node reachable from root exactly once, with
// each node placed after all of its operands.
//
// The order is the depth-first post-order obtained by visiting operands in
// operator order. An explicit stack is used so deep chains do not exhaust the
// goroutine stack.
func TopologicalOrder(root *Value) []*Value {
	if root == nil {
		return nil
	}

	type frame struct {
		node *Value
		next int // index of the next operand to visit
	}

	topo := make([]*Value, 0, 64)
	visited := make(map[uint64]struct{}, 64)

	visited[root.id] = struct{}{}
	stack := []frame{{node: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if top.next < len(top.node.children) {
			child := top.node.children[top.next]
			top.next++
			if _, ok := visited[child.id]; ok {
				continue
			}
			visited[child.id] = struct{}{}
			stack = append(stack, frame{node: child})
			continue
		}

		// All operands emitted
		topo = append(topo, top.node)
		stack = stack[:len(stack)-1]
	}

	return topo
}

// Backward performs backpropagation starting from this Value.
// The gradient of v is set to 1, then every reachable node, in reverse
// topological order, distributes its fully accumulated gradient to its
// operands using the local rule for its operator.
//
// Gradients are added to whatever the nodes already hold; call ZeroGrad on
// parameters between independent passes. Non-finite values propagate.
func (v *Value) Backward() {
	v.SetGrad(1)

	topo := TopologicalOrder(v)
	for i := len(topo) - 1; i >= 0; i-- {
		propagate(topo[i])
	}
}

// propagate applies the local derivative of node's operator.
func propagate(node *Value) {
	g := node.grad

	switch node.op {
	case OpNone:
		// leaf
	case OpAdd:
		l, r := node.children[0], node.children[1]
		l.AccumulateGrad(g)
		r.AccumulateGrad(g)
	case OpSub:
		l, r := node.children[0], node.children[1]
		l.AccumulateGrad(g)
		r.AccumulateGrad(-g)
	case OpMul:
		l, r := node.children[0], node.children[1]
		// Read both values before writing; l and r may be the same node.
		lv, rv := l.data, r.data
		l.AccumulateGrad(rv * g)
		r.AccumulateGrad(lv * g)
	case OpDiv:
		l, r := node.children[0], node.children[1]
		lv, rv := l.data, r.data
		l.AccumulateGrad((1 / rv) * g)
		r.AccumulateGrad(-(lv / (rv * rv)) * g)
	case OpReLU:
		x := node.children[0]
		if x.data > 0 {
			x.AccumulateGrad(g)
		}
	default:
		panic(fmt.Sprintf("autograd: no backward rule for %v", node.op))
	}
}
