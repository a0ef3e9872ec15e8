package model

import (
	"github.com/pkg/errors"

	"github.com/joelsearcy/backprop-go/pkg/autograd"
)

// LayerSpec is the input and output width of one layer.
type LayerSpec struct {
	In  int
	Out int
}

// Network is an ordered stack of layers evaluated left to right.
type Network struct {
	layers []*Layer
	specs  []LayerSpec
}

type networkOptions struct {
	linearOutput bool
}

// Option configures NewNetwork.
type Option func(*networkOptions)

// WithLinearOutput leaves the final layer without activation.
func WithLinearOutput() Option {
	return func(o *networkOptions) { o.linearOutput = true }
}

// NewNetwork creates a Network from layer widths. Consecutive layers must
// chain: specs[i].Out == specs[i+1].In.
func NewNetwork(specs []LayerSpec, init Initializer, opts ...Option) (*Network, error) {
	if len(specs) == 0 {
		return nil, shapef("no layers")
	}
	var o networkOptions
	for _, opt := range opts {
		opt(&o)
	}

	for i, s := range specs {
		if s.In <= 0 || s.Out <= 0 {
			return nil, shapef("layer %d: widths must be positive, got %d->%d", i, s.In, s.Out)
		}
		if i > 0 && specs[i-1].Out != s.In {
			return nil, shapef("layer %d: input width %d does not match previous output %d", i, s.In, specs[i-1].Out)
		}
	}

	layers := make([]*Layer, len(specs))
	for i, s := range specs {
		activate := !(o.linearOutput && i == len(specs)-1)
		layers[i] = NewLayer(s.In, s.Out, init, activate)
	}
	return &Network{
		layers: layers,
		specs:  append([]LayerSpec(nil), specs...),
	}, nil
}

// NewMLP creates a Network with nin inputs and the given layer widths.
func NewMLP(nin int, nouts []int, init Initializer, opts ...Option) (*Network, error) {
	specs := make([]LayerSpec, len(nouts))
	in := nin
	for i, out := range nouts {
		specs[i] = LayerSpec{In: in, Out: out}
		in = out
	}
	return NewNetwork(specs, init, opts...)
}

// Forward feeds x to the first layer and each layer's output to the next.
func (m *Network) Forward(x []*autograd.Value) ([]*autograd.Value, error) {
	for i, l := range m.layers {
		out, err := l.Forward(x)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
		x = out
	}
	return x, nil
}

// ForwardValues wraps xs as leaves and runs Forward.
func (m *Network) ForwardValues(xs []float64) ([]*autograd.Value, error) {
	return m.Forward(Values(xs))
}

// Layers returns the network's layers.
func (m *Network) Layers() []*Layer { return m.layers }

// Shape returns a copy of the layer widths.
func (m *Network) Shape() []LayerSpec {
	return append([]LayerSpec(nil), m.specs...)
}

// Parameters returns the parameters of all layers in the network.
func (m *Network) Parameters() []*autograd.Value {
	var params []*autograd.Value
	for _, l := range m.layers {
		params = append(params, l.Parameters()...)
	}
	return params
}

// ZeroGrad resets gradients of all parameters in the network.
func (m *Network) ZeroGrad() {
	zeroGrads(m.Parameters())
}
