package model

import (
	"math/rand/v2"
	"testing"

	"github.com/joelsearcy/backprop-go/pkg/autograd"
)

func benchNetwork(b *testing.B) (*Network, []float64) {
	rng := rand.New(rand.NewPCG(42, 42))
	net, err := NewNetwork([]LayerSpec{{3, 16}, {16, 16}, {16, 1}}, NewUniformInit(rng), WithLinearOutput())
	if err != nil {
		b.Fatal(err)
	}
	return net, []float64{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
}

// BenchmarkNeuronForward benchmarks a single 16-input neuron
func BenchmarkNeuronForward(b *testing.B) {
	rng := rand.New(rand.NewPCG(42, 42))
	n := NewNeuron(16, NewUniformInit(rng), true)

	x := make([]*autograd.Value, 16)
	for i := range x {
		x[i] = autograd.NewValue(rng.NormFloat64())
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = n.Forward(x)
	}
}

// BenchmarkNetworkForward benchmarks the full forward pass
func BenchmarkNetworkForward(b *testing.B) {
	net, x := benchNetwork(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = net.ForwardValues(x)
	}
}

// BenchmarkBackward benchmarks the backward pass on a squared error loss
func BenchmarkBackward(b *testing.B) {
	net, x := benchNetwork(b)
	target := []*autograd.Value{autograd.NewValue(1)}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		out, err := net.ForwardValues(x)
		if err != nil {
			b.Fatal(err)
		}
		loss, err := MSE(out, target)
		if err != nil {
			b.Fatal(err)
		}
		net.ZeroGrad()
		b.StartTimer()

		loss.Backward()
	}
}
