package engine

import (
	"strings"

	"conshell/internal/cmdtree"
)

// MaxDepth bounds how far the current directory can be from the root.
const MaxDepth = 8

// PathStack represents the current position in the tree as a route of
// child indices from the root. Nodes cannot hold parent pointers (the
// tree is constant data), so position is a value that is re-resolved
// against the root on every use. The zero value is the root.
//
// Every mutating operation is all-or-nothing: on any error the stack is
// exactly what it was before the call.
type PathStack struct {
	idx   [MaxDepth]int
	depth int
}

// Depth returns the number of segments below the root.
func (p *PathStack) Depth() int { return p.depth }

// Resolve walks the stack from root and returns the node it lands on.
// Fails ErrInvalidPath if an index is out of range or a non-terminal
// segment is a command.
func (p *PathStack) Resolve(root *cmdtree.Directory) (cmdtree.Node, error) {
	var node cmdtree.Node = root
	for i := 0; i < p.depth; i++ {
		dir, ok := node.(*cmdtree.Directory)
		if !ok {
			return nil, ErrInvalidPath
		}
		ci := p.idx[i]
		if ci < 0 || ci >= len(dir.Children) {
			return nil, ErrInvalidPath
		}
		node = dir.Children[ci]
	}
	return node, nil
}

// Dir resolves the stack and requires the result to be a directory.
func (p *PathStack) Dir(root *cmdtree.Directory) (*cmdtree.Directory, error) {
	node, err := p.Resolve(root)
	if err != nil {
		return nil, err
	}
	dir, ok := node.(*cmdtree.Directory)
	if !ok {
		return nil, ErrNotADirectory
	}
	return dir, nil
}

// Enter pushes the child with the given name (exact, case-sensitive).
// Fails ErrNotADirectory when the current node is a command, ErrNotFound
// when no child matches, ErrBufferFull at MaxDepth.
func (p *PathStack) Enter(root *cmdtree.Directory, name string) error {
	node, err := p.Resolve(root)
	if err != nil {
		return err
	}
	dir, ok := node.(*cmdtree.Directory)
	if !ok {
		return ErrNotADirectory
	}
	_, ci, ok := dir.Child(name)
	if !ok {
		return ErrNotFound
	}
	if p.depth == MaxDepth {
		return ErrBufferFull
	}
	p.idx[p.depth] = ci
	p.depth++
	return nil
}

// Leave pops one segment. Popping at the root is a no-op, not an error.
func (p *PathStack) Leave() {
	if p.depth > 0 {
		p.depth--
	}
}

// Locate resolves a slash-separated path expression against this stack
// without mutating it, and returns the stack positioned at the target
// together with the target node. A leading separator restarts from the
// root; "." is a no-op segment and ".." pops one level. Any segment
// failure aborts the whole resolution.
func (p *PathStack) Locate(root *cmdtree.Directory, text string) (PathStack, cmdtree.Node, error) {
	tmp := *p
	if strings.HasPrefix(text, "/") {
		tmp = PathStack{}
	}
	for _, seg := range strings.Split(text, "/") {
		switch seg {
		case "", ".":
		case "..":
			tmp.Leave()
		default:
			if err := tmp.Enter(root, seg); err != nil {
				return PathStack{}, nil, err
			}
		}
	}
	node, err := tmp.Resolve(root)
	if err != nil {
		return PathStack{}, nil, err
	}
	return tmp, node, nil
}

// Walk is Locate plus commit: the target must be a directory, and on
// success the stack is replaced. On error the stack is untouched.
func (p *PathStack) Walk(root *cmdtree.Directory, text string) error {
	tmp, node, err := p.Locate(root, text)
	if err != nil {
		return err
	}
	if _, ok := node.(*cmdtree.Directory); !ok {
		return ErrNotADirectory
	}
	*p = tmp
	return nil
}

// String renders the stack as an absolute path like "/system/net".
// An unresolvable stack renders as "/" rather than failing; display
// code should not have error paths.
func (p *PathStack) String(root *cmdtree.Directory) string {
	if p.depth == 0 {
		return "/"
	}
	var sb strings.Builder
	var node cmdtree.Node = root
	for i := 0; i < p.depth; i++ {
		dir, ok := node.(*cmdtree.Directory)
		if !ok {
			return "/"
		}
		ci := p.idx[i]
		if ci < 0 || ci >= len(dir.Children) {
			return "/"
		}
		node = dir.Children[ci]
		sb.WriteByte('/')
		sb.WriteString(node.NodeName())
	}
	return sb.String()
}
