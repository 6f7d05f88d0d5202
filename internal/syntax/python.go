package syntax

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// pythonParser parses Python source with tree-sitter.
type pythonParser struct {
	language *sitter.Language
}

// NewPythonParser creates a new Python parser. It is safe for concurrent use;
// each Parse call owns its own tree-sitter parser.
func NewPythonParser() Parser {
	return &pythonParser{
		language: sitter.NewLanguage(python.Language()),
	}
}

// Parse parses Python source. Trees containing ERROR or MISSING nodes are
// rejected with ErrParse rather than partially documented.
func (p *pythonParser) Parse(ctx context.Context, source []byte) (Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: parser returned no tree", ErrParse)
	}

	root := tree.RootNode()
	if root.HasError() {
		detail := "invalid syntax"
		if bad := firstErrorNode(root); bad != nil {
			pos := bad.StartPosition()
			detail = fmt.Sprintf("invalid syntax at line %d, column %d", pos.Row+1, pos.Column+1)
		}
		tree.Close()
		return nil, fmt.Errorf("%w: %s", ErrParse, detail)
	}

	return &pythonTree{tree: tree, root: root, source: source}, nil
}

// pythonTree implements Tree over a tree-sitter module node.
type pythonTree struct {
	tree   *sitter.Tree
	root   *sitter.Node
	source []byte
}

func (t *pythonTree) Docstring() (string, bool) {
	return blockDocstring(t.root, t.source)
}

func (t *pythonTree) Declarations() []Declaration {
	return declarationsOf(t.root, t.source)
}

func (t *pythonTree) Close() {
	t.tree.Close()
}

// declarationsOf classifies the direct statements of a module or block.
func declarationsOf(block *sitter.Node, source []byte) []Declaration {
	var decls []Declaration
	for _, stmt := range namedChildren(block) {
		decls = append(decls, newPythonDecl(stmt, source))
	}
	return decls
}

// pythonDecl implements Declaration for a single statement node.
type pythonDecl struct {
	kind       Kind
	node       *sitter.Node // the definition or statement itself
	decorators []*sitter.Node
	assignment *sitter.Node // for KindAttribute
	source     []byte
}

func newPythonDecl(stmt *sitter.Node, source []byte) *pythonDecl {
	d := &pythonDecl{node: stmt, source: source}

	node := stmt
	if node.Kind() == "decorated_definition" {
		d.decorators = findChildrenByType(node, "decorator")
		if def := node.ChildByFieldName("definition"); def != nil {
			node = def
			d.node = def
		}
	}

	switch node.Kind() {
	case "function_definition":
		d.kind = KindFunction
	case "class_definition":
		d.kind = KindClass
	case "import_statement":
		d.kind = KindImport
	case "import_from_statement", "future_import_statement":
		d.kind = KindFromImport
	case "expression_statement":
		if assign := findChildByType(node, "assignment"); assign != nil && assign.ChildByFieldName("type") != nil {
			d.kind = KindAttribute
			d.assignment = assign
		}
	}

	return d
}

func (d *pythonDecl) Kind() Kind { return d.kind }

func (d *pythonDecl) Name() string {
	switch d.kind {
	case KindFunction, KindClass:
		return extractNodeText(d.node.ChildByFieldName("name"), d.source)
	case KindAttribute:
		return extractNodeText(d.assignment.ChildByFieldName("left"), d.source)
	}
	return ""
}

func (d *pythonDecl) Line() int {
	return nodeLine(d.node)
}

func (d *pythonDecl) Docstring() (string, bool) {
	if d.kind != KindFunction && d.kind != KindClass {
		return "", false
	}
	return blockDocstring(d.node.ChildByFieldName("body"), d.source)
}

func (d *pythonDecl) Decorators() []string {
	decorators := make([]string, 0, len(d.decorators))
	for _, dec := range d.decorators {
		expr := namedChildren(dec)
		if len(expr) == 0 {
			continue
		}
		decorators = append(decorators, extractNodeText(expr[0], d.source))
	}
	return decorators
}

// Parameters returns positional parameter names. Collection stops at the
// first *args or bare "*" since everything after it is keyword-only.
func (d *pythonDecl) Parameters() []string {
	params := []string{}
	if d.kind != KindFunction {
		return params
	}

	for _, param := range namedChildren(d.node.ChildByFieldName("parameters")) {
		switch param.Kind() {
		case "identifier":
			params = append(params, extractNodeText(param, d.source))
		case "default_parameter", "typed_default_parameter":
			params = append(params, extractNodeText(param.ChildByFieldName("name"), d.source))
		case "typed_parameter":
			inner := namedChildren(param)
			if len(inner) == 0 || inner[0].Kind() != "identifier" {
				// *args: T or **kwargs: T
				return params
			}
			params = append(params, extractNodeText(inner[0], d.source))
		case "list_splat_pattern", "dictionary_splat_pattern", "keyword_separator":
			return params
		case "positional_separator":
			continue
		}
	}
	return params
}

func (d *pythonDecl) ReturnAnnotation() (string, bool) {
	if d.kind != KindFunction {
		return "", false
	}
	ret := d.node.ChildByFieldName("return_type")
	if ret == nil {
		return "", false
	}
	return extractNodeText(ret, d.source), true
}

func (d *pythonDecl) IsAsync() bool {
	return d.kind == KindFunction && findChildByType(d.node, "async") != nil
}

// Bases returns superclass expressions as written, excluding keyword
// arguments such as metaclass=.
func (d *pythonDecl) Bases() []string {
	bases := []string{}
	if d.kind != KindClass {
		return bases
	}
	for _, arg := range namedChildren(d.node.ChildByFieldName("superclasses")) {
		if arg.Kind() == "keyword_argument" || arg.Kind() == "dictionary_splat" {
			continue
		}
		bases = append(bases, extractNodeText(arg, d.source))
	}
	return bases
}

func (d *pythonDecl) Members() []Declaration {
	if d.kind != KindClass {
		return nil
	}
	return declarationsOf(d.node.ChildByFieldName("body"), d.source)
}

func (d *pythonDecl) Imports() []ImportName {
	var names []ImportName
	if d.kind != KindImport && d.kind != KindFromImport {
		return names
	}

	if d.kind == KindFromImport && findChildByType(d.node, "wildcard_import") != nil {
		return []ImportName{{Name: "*"}}
	}

	for _, target := range childrenByField(d.node, "name") {
		switch target.Kind() {
		case "aliased_import":
			names = append(names, ImportName{
				Name:     extractNodeText(target.ChildByFieldName("name"), d.source),
				Alias:    extractNodeText(target.ChildByFieldName("alias"), d.source),
				HasAlias: true,
			})
		default:
			names = append(names, ImportName{Name: extractNodeText(target, d.source)})
		}
	}
	return names
}

// Module returns the module of a from-import with leading dots split off
// into level. "from . import x" yields ("", 1).
func (d *pythonDecl) Module() (string, int) {
	if d.kind != KindFromImport {
		return "", 0
	}
	if d.node.Kind() == "future_import_statement" {
		return "__future__", 0
	}

	mod := d.node.ChildByFieldName("module_name")
	if mod == nil {
		return "", 0
	}
	if mod.Kind() != "relative_import" {
		return extractNodeText(mod, d.source), 0
	}

	level := len(extractNodeText(findChildByType(mod, "import_prefix"), d.source))
	name := extractNodeText(findChildByType(mod, "dotted_name"), d.source)
	return name, level
}

func (d *pythonDecl) Annotation() (string, bool) {
	if d.kind != KindAttribute {
		return "", false
	}
	typ := d.assignment.ChildByFieldName("type")
	if typ == nil {
		return "", false
	}
	return extractNodeText(typ, d.source), true
}

func (d *pythonDecl) HasCallValue() bool {
	if d.kind != KindAttribute {
		return false
	}
	right := d.assignment.ChildByFieldName("right")
	return right != nil && right.Kind() == "call"
}

// findChildrenByType finds all child nodes with the given type.
func findChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == nodeType {
			results = append(results, child)
		}
	}
	return results
}

// blockDocstring returns the docstring of a module or block: its first
// statement when that statement is a lone plain string literal.
func blockDocstring(block *sitter.Node, source []byte) (string, bool) {
	stmts := namedChildren(block)
	if len(stmts) == 0 || stmts[0].Kind() != "expression_statement" {
		return "", false
	}

	exprs := namedChildren(stmts[0])
	if len(exprs) != 1 {
		return "", false
	}
	return docstringLiteral(exprs[0], source)
}

// docstringLiteral returns the value of a string expression. Adjacent
// literals ("a" "b") are joined; parentheses are looked through.
func docstringLiteral(node *sitter.Node, source []byte) (string, bool) {
	switch node.Kind() {
	case "string":
		return stripStringLiteral(extractNodeText(node, source))

	case "concatenated_string":
		var b strings.Builder
		for _, part := range namedChildren(node) {
			if part.Kind() != "string" {
				return "", false
			}
			text, ok := stripStringLiteral(extractNodeText(part, source))
			if !ok {
				return "", false
			}
			b.WriteString(text)
		}
		return b.String(), true

	case "parenthesized_expression":
		inner := namedChildren(node)
		if len(inner) != 1 {
			return "", false
		}
		return docstringLiteral(inner[0], source)
	}
	return "", false
}

// stripStringLiteral removes the prefix and quotes from a Python string
// literal and decodes its escapes unless it is raw. Byte strings and
// f-strings are not docstrings.
func stripStringLiteral(literal string) (string, bool) {
	i := 0
	for i < len(literal) && strings.ContainsRune("rRuUbBfF", rune(literal[i])) {
		i++
	}
	prefix := strings.ToLower(literal[:i])
	if strings.ContainsAny(prefix, "bf") {
		return "", false
	}

	body := literal[i:]
	for _, quote := range []string{`"""`, `'''`, `"`, `'`} {
		if len(body) >= 2*len(quote) && strings.HasPrefix(body, quote) && strings.HasSuffix(body, quote) {
			text := body[len(quote) : len(body)-len(quote)]
			if strings.Contains(prefix, "r") {
				return text, true
			}
			return decodeEscapes(text), true
		}
	}
	return "", false
}

var simpleEscapes = map[byte]byte{
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
}

// hexEscapeWidth is the digit count after \x, \u and \U.
var hexEscapeWidth = map[byte]int{'x': 2, 'u': 4, 'U': 8}

// decodeEscapes interprets the backslash escapes of a non-raw string body.
// Unknown or malformed escapes, and \N{...}, are kept as written.
func decodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}

		next := s[i+1]
		if c, ok := simpleEscapes[next]; ok {
			b.WriteByte(c)
			i++
			continue
		}

		switch {
		case next == '\n':
			// line continuation
			i++
		case next == '\r':
			i++
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case isOctalDigit(next):
			j := i + 1
			for j < len(s) && j < i+4 && isOctalDigit(s[j]) {
				j++
			}
			v, _ := strconv.ParseUint(s[i+1:j], 8, 32)
			b.WriteRune(rune(v))
			i = j - 1
		case hexEscapeWidth[next] > 0:
			end := i + 2 + hexEscapeWidth[next]
			if end <= len(s) {
				if v, err := strconv.ParseUint(s[i+2:end], 16, 32); err == nil && utf8.ValidRune(rune(v)) {
					b.WriteRune(rune(v))
					i = end - 1
					continue
				}
			}
			b.WriteByte(s[i])
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isOctalDigit(c byte) bool {
	return c >= '0' && c <= '7'
}
