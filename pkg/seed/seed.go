// Package seed flattens heterogeneous node hierarchies into a flat tree.
//
// Any node kind that wants to be laid out implements [Seed]. Germination
// emits the node itself as one [Wood] (its display token and its branching
// factor), then germinates each child in declaration order. The stream of
// Wood values is therefore a preorder encoding that [tree.FlowUp] and the
// layout passes can consume without knowing the node kinds.
//
// The one bug class this protocol must guard against is a node whose
// declared branching factor differs from the number of children it actually
// germinates. [Sprout] checks that at every node and [Grow] checks it again
// for the whole stream.
package seed

import (
	"github.com/matzehuels/orca/pkg/errors"
	"github.com/matzehuels/orca/pkg/tree"
)

// Wood is what one node emits when germinated.
type Wood interface {
	// String returns the node's own display token, independent of children.
	String() string
	// BranchingFactor returns the number of direct children that follow.
	BranchingFactor() int
}

// Shoot receives every emitted node, in preorder.
type Shoot func(Wood)

// Seed is anything that can germinate a tree.
type Seed interface {
	Germinate(shoot Shoot)
}

// Bark is the plain Wood value used by node kinds that need nothing more
// than a token and a count.
type Bark struct {
	Token string
	N     int
}

func (b Bark) String() string       { return b.Token }
func (b Bark) BranchingFactor() int { return b.N }

// Sprout emits wood and then germinates children in order.
// It panics with a structural error when the declared branching factor
// does not match len(children).
func Sprout(shoot Shoot, wood Wood, children ...Seed) {
	if n := wood.BranchingFactor(); n != len(children) {
		panic(errors.Structural("%q declares %d children but germinates %d", wood.String(), n, len(children)))
	}
	shoot(wood)
	for _, c := range children {
		c.Germinate(shoot)
	}
}

// Grow germinates s and returns the flat tree and its index-aligned tokens.
//
// Grow panics with a structural error if s emits nothing, or if the emitted
// branch counts do not describe exactly one tree.
func Grow(s Seed) (*tree.Tree, []string) {
	var (
		branches []tree.Branch
		tokens   []string
	)
	s.Germinate(func(w Wood) {
		branches = append(branches, tree.Branch(w.BranchingFactor()))
		tokens = append(tokens, w.String())
	})

	t, err := tree.New(branches)
	if err != nil {
		panic(errors.Structural("germination produced no tree: %v", err))
	}
	// Consuming the whole stream once proves every declared count was honored.
	tree.FlowUp(t, func(int, []struct{}) struct{} { return struct{}{} })
	return t, tokens
}
