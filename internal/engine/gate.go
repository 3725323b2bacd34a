package engine

import "conshell/internal/cmdtree"

// CheckAccess enforces the granted level against every node along the
// resolved path, root included. Checking only the leaf would let a
// session walk through a higher-privileged directory to reach a
// lower-privileged command beneath it, so the first segment whose
// requirement exceeds the granted level denies the whole path.
//
// Equal level is sufficient: a node requiring exactly the granted
// level passes.
func CheckAccess(root *cmdtree.Directory, path PathStack, granted cmdtree.Level) error {
	var node cmdtree.Node = root
	if node.NodeLevel() > granted {
		return ErrAccessDenied
	}
	for i := 0; i < path.depth; i++ {
		dir, ok := node.(*cmdtree.Directory)
		if !ok {
			return ErrInvalidPath
		}
		ci := path.idx[i]
		if ci < 0 || ci >= len(dir.Children) {
			return ErrInvalidPath
		}
		node = dir.Children[ci]
		if node.NodeLevel() > granted {
			return ErrAccessDenied
		}
	}
	return nil
}
