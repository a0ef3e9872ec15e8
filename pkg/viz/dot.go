// Package viz renders computation graphs as GraphViz DOT.
package viz

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/joelsearcy/backprop-go/pkg/autograd"
)

// DOT returns the graph rooted at root in DOT format. Nodes are numbered by
// their position in the topological order and edges point from operand to
// result.
func DOT(root *autograd.Value) string {
	topo := autograd.TopologicalOrder(root)

	index := make(map[uint64]int, len(topo))
	for i, n := range topo {
		index[n.ID()] = i
	}

	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	sb.WriteString("  rankdir=\"LR\";\n")

	for i, n := range topo {
		fmt.Fprintf(&sb, "  N%d [shape=record, label=\"data=%g | grad=%.4f | operation=%s | id=%d\"];\n",
			i, n.Data(), n.Grad(), n.Op(), n.ID())
		for _, c := range n.Children() {
			fmt.Fprintf(&sb, "  N%d -> N%d;\n", index[c.ID()], i)
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// WriteDOT writes DOT(root) to w.
func WriteDOT(w io.Writer, root *autograd.Value) error {
	_, err := io.WriteString(w, DOT(root))
	return errors.Wrap(err, "writing dot")
}

// WriteDOTFile writes DOT(root) to path.
func WriteDOTFile(path string, root *autograd.Value) error {
	if err := os.WriteFile(path, []byte(DOT(root)), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
