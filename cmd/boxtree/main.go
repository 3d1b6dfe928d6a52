// Command boxtree prints the CSS box tree of an HTML document.
//
// Usage:
//
//	boxtree [flags] <file.html | ->
package main

import "os"

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
