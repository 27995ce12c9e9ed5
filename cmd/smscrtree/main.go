// Command smscrtree parses a Smart Script document and writes the source
// reconstructed from its tree to stdout. Useful for checking that a script
// is well-formed without serving it.
package main

import (
	"fmt"
	"os"

	"github.com/smscr/smscrd/script/lexer"
	"github.com/smscr/smscrd/script/parser"
	"github.com/smscr/smscrd/script/tree"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s FILE\n", os.Args[0])
		os.Exit(2)
	}

	src, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	doc, err := parser.Parse(lexer.New(string(src)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fmt.Print(tree.Render(doc))
}
