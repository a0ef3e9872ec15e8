// Package gradcheck compares gradients produced by the autograd engine with
// finite-difference estimates.
package gradcheck

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/joelsearcy/backprop-go/pkg/autograd"
)

// ErrMismatch is returned when analytic and numeric gradients disagree.
var ErrMismatch = errors.New("gradient mismatch")

// DefaultStep is the central-difference step.
const DefaultStep = 1e-6

// Result holds both gradient estimates.
type Result struct {
	Analytic   []float64
	Numeric    []float64
	MaxAbsDiff float64
}

// Func builds a scalar expression from leaf inputs.
type Func func(xs []*autograd.Value) *autograd.Value

// Check evaluates f at x, runs Backward, and compares each input's gradient
// with a central-difference estimate. tol is applied as both an absolute and
// a relative tolerance.
func Check(f Func, x []float64, tol float64) (*Result, error) {
	leaves := make([]*autograd.Value, len(x))
	for i, xi := range x {
		leaves[i] = autograd.NewValue(xi)
	}
	f(leaves).Backward()

	analytic := make([]float64, len(x))
	for i, l := range leaves {
		analytic[i] = l.Grad()
	}

	eval := func(p []float64) float64 {
		vs := make([]*autograd.Value, len(p))
		for i, pi := range p {
			vs[i] = autograd.NewValue(pi)
		}
		return f(vs).Data()
	}
	numeric := fd.Gradient(nil, eval, x, &fd.Settings{
		Formula: fd.Central,
		Step:    DefaultStep,
	})

	return compare(analytic, numeric, tol)
}

// CheckParams compares the gradients of params under loss. loss must rebuild
// the graph from the current parameter data on every call. Parameter data is
// restored before returning.
func CheckParams(params []*autograd.Value, loss func() *autograd.Value, tol float64) (*Result, error) {
	for _, p := range params {
		p.ZeroGrad()
	}
	loss().Backward()

	analytic := make([]float64, len(params))
	x := make([]float64, len(params))
	for i, p := range params {
		analytic[i] = p.Grad()
		x[i] = p.Data()
	}

	eval := func(v []float64) float64 {
		for i, p := range params {
			p.SetData(v[i])
		}
		return loss().Data()
	}
	numeric := fd.Gradient(nil, eval, x, &fd.Settings{
		Formula: fd.Central,
		Step:    DefaultStep,
	})

	for i, p := range params {
		p.SetData(x[i])
	}

	return compare(analytic, numeric, tol)
}

func compare(analytic, numeric []float64, tol float64) (*Result, error) {
	res := &Result{Analytic: analytic, Numeric: numeric}
	if len(analytic) > 0 {
		diff := make([]float64, len(analytic))
		floats.SubTo(diff, analytic, numeric)
		res.MaxAbsDiff = math.Max(math.Abs(floats.Max(diff)), math.Abs(floats.Min(diff)))
	}

	for i := range analytic {
		if !scalar.EqualWithinAbsOrRel(analytic[i], numeric[i], tol, tol) {
			return res, errors.Wrapf(ErrMismatch, "input %d: analytic=%g numeric=%g", i, analytic[i], numeric[i])
		}
	}
	return res, nil
}
