package engine

import (
	"strings"

	"conshell/internal/cmdtree"
)

// Suggest returns up to max child names of dir matching the partial
// token, in tree order, followed by matching global command names. An
// empty partial returns all children (capped at max, excess is
// silently dropped, not an error). A max <= 0 is the disabled
// subsystem and always yields nil, so callers invoke this
// unconditionally.
func Suggest(dir *cmdtree.Directory, globals []string, partial string, max int) []string {
	if max <= 0 || dir == nil {
		return nil
	}
	var out []string
	for _, child := range dir.Children {
		name := child.NodeName()
		if strings.HasPrefix(name, partial) {
			out = append(out, name)
			if len(out) == max {
				return out
			}
		}
	}
	// Globals only make sense once something was typed; a bare Tab
	// lists the directory, like ls.
	if partial != "" {
		for _, g := range globals {
			if strings.HasPrefix(g, partial) {
				out = append(out, g)
				if len(out) == max {
					return out
				}
			}
		}
	}
	return out
}
