package code

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// funcRange is one named function/method declaration's source line span,
// used to resolve which symbol a given call site lives inside.
type funcRange struct {
	name       string
	startLine  int
	endLine    int
}

var functionNodeTypesByLang = map[string][]string{
	"javascript": {"function_declaration", "method_definition", "function"},
	"typescript": {"function_declaration", "method_definition", "function"},
	"python":     {"function_definition"},
	"go":         {"function_declaration", "method_declaration"},
	"java":       {"method_declaration", "constructor_declaration"},
}

// SymbolIndex resolves source lines to the enclosing named function,
// falling back to "module" when no enclosing function is found (e.g. a
// call at module scope).
type SymbolIndex struct {
	ranges []funcRange
}

// BuildSymbolIndex re-parses content to collect every named function's
// line span. Kept separate from Parse's call-site walk since most callers
// only need one or the other.
func BuildSymbolIndex(ext string, content []byte) SymbolIndex {
	spec, ok := languagesByExt[strings.ToLower(ext)]
	if !ok {
		return SymbolIndex{}
	}
	nodeTypes := functionNodeTypesByLang[spec.name]
	if len(nodeTypes) == 0 {
		return SymbolIndex{}
	}

	parser := sitter.NewParser()
	parser.SetLanguage(spec.language)
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil || tree == nil {
		return SymbolIndex{}
	}

	var ranges []funcRange
	walk(tree.RootNode(), func(n *sitter.Node) {
		t := n.Type()
		for _, ft := range nodeTypes {
			if t != ft {
				continue
			}
			name := functionName(n, content)
			ranges = append(ranges, funcRange{
				name:      name,
				startLine: int(n.StartPoint().Row) + 1,
				endLine:   int(n.EndPoint().Row) + 1,
			})
			return
		}
	})
	return SymbolIndex{ranges: ranges}
}

func functionName(n *sitter.Node, content []byte) string {
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child.Type() == "identifier" || child.Type() == "property_identifier" || child.Type() == "field_identifier" {
			return child.Content(content)
		}
	}
	return "anonymous"
}

// SymbolAt returns the name of the innermost function range containing
// line, or "module" if none contains it.
func (s SymbolIndex) SymbolAt(line int) string {
	best := ""
	bestSpan := -1
	for _, r := range s.ranges {
		if line < r.startLine || line > r.endLine {
			continue
		}
		span := r.endLine - r.startLine
		if bestSpan == -1 || span < bestSpan {
			best = r.name
			bestSpan = span
		}
	}
	if best == "" {
		return "module"
	}
	return best
}
