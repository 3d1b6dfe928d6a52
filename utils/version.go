package utils

const (
	Version = "0.3"
)

// VersionString is reported by the command line tool.
var VersionString = "boxtree " + Version

// box construction follows WeasyPrint's boxes.py (build, inline_in_block, block_in_inline)
