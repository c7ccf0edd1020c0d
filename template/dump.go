package template

import "github.com/alecthomas/repr"

// Dump pretty-prints a compiled node list for debugging and tests, the
// way sqltest's querydump.go uses alecthomas/repr to
// render rows instead of a bare %+v.
func Dump(nodes []Node) string {
	return repr.String(nodes)
}
