package model

import (
	"github.com/pkg/errors"

	"github.com/joelsearcy/backprop-go/pkg/autograd"
)

// Neuron holds one weight per input and a bias.
type Neuron struct {
	w        []*autograd.Value
	b        *autograd.Value
	activate bool // apply ReLU to the output
}

// NewNeuron creates a Neuron with nin inputs.
func NewNeuron(nin int, init Initializer, activate bool) *Neuron {
	w := make([]*autograd.Value, nin)
	for i := range w {
		w[i] = autograd.NewValue(init.Weight())
	}
	return &Neuron{
		w:        w,
		b:        autograd.NewValue(init.Bias()),
		activate: activate,
	}
}

// Forward computes relu(Σ wᵢxᵢ + b), or the plain affine sum when activation
// is off. The length check runs before any node is built.
func (n *Neuron) Forward(x []*autograd.Value) (*autograd.Value, error) {
	if len(x) != len(n.w) {
		return nil, &DimensionError{Want: len(n.w), Got: len(x)}
	}

	var sum *autograd.Value
	for i, wi := range n.w {
		p := wi.Mul(x[i])
		if sum == nil {
			sum = p
			continue
		}
		sum = sum.Add(p)
	}
	if sum == nil {
		sum = n.b
	} else {
		sum = sum.Add(n.b)
	}

	if n.activate {
		return sum.ReLU(), nil
	}
	return sum, nil
}

// Weights returns the weight nodes.
func (n *Neuron) Weights() []*autograd.Value { return n.w }

// Bias returns the bias node.
func (n *Neuron) Bias() *autograd.Value { return n.b }

// Parameters returns the weights followed by the bias.
func (n *Neuron) Parameters() []*autograd.Value {
	params := make([]*autograd.Value, len(n.w)+1)
	copy(params, n.w)
	params[len(n.w)] = n.b
	return params
}

// Layer is a set of neurons reading the same input.
type Layer struct {
	neurons []*Neuron
}

// NewLayer creates a Layer with nin inputs and nout outputs.
func NewLayer(nin, nout int, init Initializer, activate bool) *Layer {
	neurons := make([]*Neuron, nout)
	for i := range neurons {
		neurons[i] = NewNeuron(nin, init, activate)
	}
	return &Layer{neurons: neurons}
}

// Forward evaluates every neuron on x.
func (l *Layer) Forward(x []*autograd.Value) ([]*autograd.Value, error) {
	if len(l.neurons) > 0 && len(x) != len(l.neurons[0].w) {
		return nil, &DimensionError{Want: len(l.neurons[0].w), Got: len(x)}
	}

	outs := make([]*autograd.Value, len(l.neurons))
	for i, n := range l.neurons {
		out, err := n.Forward(x)
		if err != nil {
			return nil, errors.Wrapf(err, "neuron %d", i)
		}
		outs[i] = out
	}
	return outs, nil
}

// Neurons returns the layer's neurons.
func (l *Layer) Neurons() []*Neuron { return l.neurons }

// Parameters returns the parameters of all neurons in the layer.
func (l *Layer) Parameters() []*autograd.Value {
	var params []*autograd.Value
	for _, n := range l.neurons {
		params = append(params, n.Parameters()...)
	}
	return params
}
