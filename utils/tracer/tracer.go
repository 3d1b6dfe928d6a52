// Package tracer provides a function to dump a box tree,
// which may be used in debug mode or by the command line tool.
package tracer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/benoitkugler/boxtree/html/boxes"
)

type Tracer struct {
	out io.Writer
}

// New returns a tracer writing to `out`.
func New(out io.Writer) Tracer { return Tracer{out: out} }

// NewTracer panics if an error occurs.
func NewTracer(outFile string) Tracer {
	f, err := os.Create(outFile)
	if err != nil {
		panic(err)
	}

	return Tracer{out: f}
}

func (t Tracer) Dump(line string) {
	fmt.Fprintln(t.out, line)
}

// formatFlags lists the properties of the box worth showing besides its type.
func formatFlags(box *boxes.Box) string {
	var flags []string
	if box.IsAnonymous() {
		flags = append(flags, "anonymous")
	}
	if box.SplitBefore {
		flags = append(flags, "split-before")
	}
	if box.SplitAfter {
		flags = append(flags, "split-after")
	}
	if len(flags) == 0 {
		return ""
	}
	return " (" + strings.Join(flags, ", ") + ")"
}

// DumpTree writes one line per box, children being indented
// below their parent. `context` is written first, if not empty.
func (t Tracer) DumpTree(tree *boxes.Tree, root boxes.BoxID, context string) {
	if context != "" {
		fmt.Fprintln(t.out, context)
	}

	var printer func(id boxes.BoxID, indent int)
	printer = func(id boxes.BoxID, indent int) {
		box := tree.Box(id)
		fmt.Fprint(t.out, strings.Repeat("  ", indent))
		fmt.Fprintf(t.out, "%s <%s>%s", box.Type, box.ElementTag(), formatFlags(box))
		switch {
		case box.Type == boxes.TextT:
			fmt.Fprintf(t.out, " %q", box.Text)
		case box.Replacement != nil:
			fmt.Fprintf(t.out, " %s", box.Replacement.URL)
		}
		fmt.Fprintln(t.out)

		for _, child := range tree.Children(id) {
			printer(child, indent+1)
		}
	}

	printer(root, 0)
}
