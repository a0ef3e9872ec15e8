package model

import (
	"math/rand/v2"

	"github.com/joelsearcy/backprop-go/pkg/autograd"
)

// Initializer supplies starting values for weights and biases.
type Initializer interface {
	Weight() float64
	Bias() float64
}

const (
	weightRange = 1.0
	biasRange   = 0.01
)

// UniformInit samples weights uniformly in [-1, 1] and biases in [-0.01, 0.01].
type UniformInit struct {
	rng *rand.Rand
}

// NewUniformInit creates a UniformInit drawing from rng.
func NewUniformInit(rng *rand.Rand) *UniformInit {
	return &UniformInit{rng: rng}
}

// Weight returns a sample in [-1, 1].
func (u *UniformInit) Weight() float64 {
	return (u.rng.Float64()*2 - 1) * weightRange
}

// Bias returns a sample in [-0.01, 0.01].
func (u *UniformInit) Bias() float64 {
	return (u.rng.Float64()*2 - 1) * biasRange
}

// ConstInit returns fixed values, useful for reproducible graphs.
type ConstInit struct {
	W, B float64
}

func (c ConstInit) Weight() float64 { return c.W }
func (c ConstInit) Bias() float64   { return c.B }

// Values wraps raw numbers as leaf nodes.
func Values(xs []float64) []*autograd.Value {
	out := make([]*autograd.Value, len(xs))
	for i, x := range xs {
		out[i] = autograd.NewValue(x)
	}
	return out
}

// Data extracts the scalar of each node.
func Data(vs []*autograd.Value) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v.Data()
	}
	return out
}

// zeroGrads resets all parameter gradients to 0
func zeroGrads(params []*autograd.Value) {
	for _, p := range params {
		p.ZeroGrad()
	}
}
