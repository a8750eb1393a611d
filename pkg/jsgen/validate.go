package jsgen

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// SyntaxError locates the first problem tree-sitter found in generated code.
type SyntaxError struct {
	Line   int
	Column int
	Kind   string
}

func (e *SyntaxError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("jsgen: javascript syntax error: missing %s at %d:%d", e.Kind, e.Line, e.Column)
	}
	return fmt.Sprintf("jsgen: javascript syntax error at %d:%d", e.Line, e.Column)
}

// Validate parses js with the tree-sitter JavaScript grammar.
func Validate(js string) error {
	p := sitter.NewParser()
	defer p.Close()
	if err := p.SetLanguage(sitter.NewLanguage(tree_sitter_javascript.Language())); err != nil {
		return fmt.Errorf("jsgen: %w", err)
	}

	tree := p.Parse([]byte(js), nil)
	if tree == nil {
		return fmt.Errorf("jsgen: parser returned no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return fmt.Errorf("jsgen: unexpected root node")
	}
	if !root.HasError() {
		return nil
	}
	node := firstBrokenNode(root)
	if node == nil {
		node = root
	}
	start := node.StartPosition()
	syntaxErr := &SyntaxError{Line: int(start.Row) + 1, Column: int(start.Column) + 1}
	if node.IsMissing() {
		syntaxErr.Kind = node.Kind()
	}
	return syntaxErr
}

// firstBrokenNode returns the earliest ERROR or MISSING node under root.
func firstBrokenNode(root *sitter.Node) *sitter.Node {
	var best *sitter.Node
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		if node.IsError() || node.IsMissing() {
			if best == nil || node.StartByte() < best.StartByte() {
				best = node
			}
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i))
		}
	}
	walk(root)
	return best
}
