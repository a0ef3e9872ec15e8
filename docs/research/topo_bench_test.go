package research

import (
	"math/rand/v2"
	"testing"

	"github.com/joelsearcy/backprop-go/pkg/autograd"
)

// ============================================================================
// Graph shapes
// ============================================================================

// chain builds x + 1 + 1 + ... n times.
func chain(n int) *autograd.Value {
	acc := autograd.NewValue(0)
	one := autograd.Scalar(1)
	for i := 0; i < n; i++ {
		acc = acc.Add(one)
	}
	return acc
}

// lattice builds n layers of width w where every node reads two nodes of the
// previous layer, so most nodes are shared by several consumers.
func lattice(n, w int, rng *rand.Rand) *autograd.Value {
	prev := make([]*autograd.Value, w)
	for i := range prev {
		prev[i] = autograd.NewValue(rng.NormFloat64())
	}
	for l := 0; l < n; l++ {
		next := make([]*autograd.Value, w)
		for i := range next {
			next[i] = prev[i].Mul(prev[(i+1)%w])
		}
		prev = next
	}
	return autograd.Sum(prev)
}

// ============================================================================
// Traversal strategies
// ============================================================================

// recursiveByPointer is the textbook closure-based DFS keyed on pointers.
func recursiveByPointer(root *autograd.Value) []*autograd.Value {
	var topo []*autograd.Value
	visited := make(map[*autograd.Value]bool)

	var build func(*autograd.Value)
	build = func(n *autograd.Value) {
		if visited[n] {
			return
		}
		visited[n] = true
		for _, c := range n.Children() {
			build(c)
		}
		topo = append(topo, n)
	}
	build(root)
	return topo
}

// recursiveByID is the same traversal keyed on node identity.
func recursiveByID(root *autograd.Value) []*autograd.Value {
	var topo []*autograd.Value
	visited := make(map[uint64]struct{})

	var build func(*autograd.Value)
	build = func(n *autograd.Value) {
		if _, ok := visited[n.ID()]; ok {
			return
		}
		visited[n.ID()] = struct{}{}
		for _, c := range n.Children() {
			build(c)
		}
		topo = append(topo, n)
	}
	build(root)
	return topo
}

// ============================================================================
// Benchmarks
// ============================================================================

func BenchmarkTopo_Chain_Recursive(b *testing.B) {
	root := chain(10000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = recursiveByPointer(root)
	}
}

func BenchmarkTopo_Chain_Stack(b *testing.B) {
	root := chain(10000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = autograd.TopologicalOrder(root)
	}
}

func BenchmarkTopo_Lattice_RecursivePointer(b *testing.B) {
	root := lattice(50, 32, rand.New(rand.NewPCG(42, 42)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = recursiveByPointer(root)
	}
}

func BenchmarkTopo_Lattice_RecursiveID(b *testing.B) {
	root := lattice(50, 32, rand.New(rand.NewPCG(42, 42)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = recursiveByID(root)
	}
}

func BenchmarkTopo_Lattice_Stack(b *testing.B) {
	root := lattice(50, 32, rand.New(rand.NewPCG(42, 42)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = autograd.TopologicalOrder(root)
	}
}

func BenchmarkBackward_Lattice(b *testing.B) {
	root := lattice(50, 32, rand.New(rand.NewPCG(42, 42)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		root.Backward()
	}
}

// TestStrategiesAgree guards the comparison: all traversals must produce the
// same order.
func TestStrategiesAgree(t *testing.T) {
	root := lattice(8, 5, rand.New(rand.NewPCG(1, 1)))

	want := autograd.TopologicalOrder(root)
	for name, got := range map[string][]*autograd.Value{
		"pointer": recursiveByPointer(root),
		"id":      recursiveByID(root),
	} {
		if len(got) != len(want) {
			t.Fatalf("%s: expected %d nodes, got %d", name, len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s: position %d differs", name, i)
				break
			}
		}
	}
}
