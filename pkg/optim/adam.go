package optim

import (
	"math"

	"github.com/joelsearcy/backprop-go/pkg/autograd"
)

// Optimizer updates parameters from their accumulated gradients.
type Optimizer interface {
	// Step applies one update and zeroes each parameter's gradient.
	Step(params []*autograd.Value, lrDecay float64)
}

// SGD is plain gradient descent.
type SGD struct {
	LR float64
}

// NewSGD creates a gradient descent optimizer.
func NewSGD(lr float64) *SGD {
	return &SGD{LR: lr}
}

// Step performs p -= lr * lrDecay * grad for every parameter.
func (opt *SGD) Step(params []*autograd.Value, lrDecay float64) {
	for _, p := range params {
		p.SetData(p.Data() - opt.LR*lrDecay*p.Grad())
		p.ZeroGrad()
	}
}

// AdamOptimizer implements the Adam optimization algorithm
type AdamOptimizer struct {
	LR      float64 // base learning rate
	Beta1   float64 // exponential decay rate for first moment
	Beta2   float64 // exponential decay rate for second moment
	Epsilon float64 // small constant for numerical stability

	m []float64 // first moment estimates
	v []float64 // second moment estimates
	t int       // timestep counter
}

// NewAdam creates a new Adam optimizer for numParams parameters.
func NewAdam(numParams int, lr, beta1, beta2, eps float64) *AdamOptimizer {
	return &AdamOptimizer{
		LR:      lr,
		Beta1:   beta1,
		Beta2:   beta2,
		Epsilon: eps,
		m:       make([]float64, numParams),
		v:       make([]float64, numParams),
	}
}

// Step performs one optimization step.
// lrDecay is multiplied with base LR (for learning rate scheduling).
// params must be passed in the same order on every call.
func (opt *AdamOptimizer) Step(params []*autograd.Value, lrDecay float64) {
	if len(params) > len(opt.m) {
		opt.m = append(opt.m, make([]float64, len(params)-len(opt.m))...)
		opt.v = append(opt.v, make([]float64, len(params)-len(opt.v))...)
	}

	opt.t++

	bc1 := 1 - math.Pow(opt.Beta1, float64(opt.t))
	bc2 := 1 - math.Pow(opt.Beta2, float64(opt.t))

	for i, p := range params {
		g := p.Grad()

		opt.m[i] = opt.Beta1*opt.m[i] + (1-opt.Beta1)*g
		opt.v[i] = opt.Beta2*opt.v[i] + (1-opt.Beta2)*g*g

		mHat := opt.m[i] / bc1
		vHat := opt.v[i] / bc2

		p.SetData(p.Data() - opt.LR*lrDecay*mHat/(math.Sqrt(vHat)+opt.Epsilon))
		p.ZeroGrad()
	}
}
