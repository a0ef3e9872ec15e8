package model

import (
	"github.com/joelsearcy/backprop-go/pkg/autograd"
)

// MSE returns Σ (pred - target)², built from graph operators so it can be
// differentiated.
func MSE(preds, targets []*autograd.Value) (*autograd.Value, error) {
	if len(preds) != len(targets) {
		return nil, &DimensionError{Want: len(targets), Got: len(preds)}
	}

	terms := make([]*autograd.Value, len(preds))
	for i, p := range preds {
		diff := p.Sub(targets[i])
		terms[i] = diff.Mul(diff)
	}
	return autograd.Sum(terms), nil
}
