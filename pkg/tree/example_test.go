package tree_test

import (
	"fmt"

	"github.com/matzehuels/orca/pkg/tree"
)

func ExampleFlowUp() {
	// print(4 + 2)
	t, err := tree.New([]tree.Branch{1, 2, 0, 0})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	tokens := []string{"print", "+", "4", "2"}
	sexpr := tree.FlowUp(t, func(ix int, kids []string) string {
		if len(kids) == 0 {
			return tokens[ix]
		}
		s := "(" + tokens[ix]
		for _, k := range kids {
			s += " " + k
		}
		return s + ")"
	})

	fmt.Println(sexpr)
	fmt.Println("nodes:", t.Len(), "depth:", t.Depth())
	// Output:
	// (print (+ 4 2))
	// nodes: 4 depth: 3
}
