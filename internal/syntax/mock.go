package syntax

import "context"

// MockParser is a Parser returning a fixed tree or error. Useful for testing
// extraction logic without a real grammar.
type MockParser struct {
	Tree Tree
	Err  error

	// ParseFunc, when set, takes precedence over Tree and Err.
	ParseFunc func(ctx context.Context, source []byte) (Tree, error)
}

func (m *MockParser) Parse(ctx context.Context, source []byte) (Tree, error) {
	if m.ParseFunc != nil {
		return m.ParseFunc(ctx, source)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Tree, nil
}

// MockTree is a synthetic Tree.
type MockTree struct {
	Doc    *string
	Decls  []Declaration
	Closed bool
}

func (m *MockTree) Docstring() (string, bool) {
	if m.Doc == nil {
		return "", false
	}
	return *m.Doc, true
}

func (m *MockTree) Declarations() []Declaration { return m.Decls }

func (m *MockTree) Close() { m.Closed = true }

// MockDeclaration is a synthetic Declaration with every accessor backed by a field.
type MockDeclaration struct {
	DeclKind    Kind
	DeclName    string
	DeclLine    int
	Doc         *string
	DecoratorsV []string

	Params  []string
	Returns *string
	Async   bool

	BaseList   []string
	MemberList []Declaration

	ImportList  []ImportName
	ModuleName  string
	ModuleLevel int

	Annot     *string
	CallValue bool
}

func (m *MockDeclaration) Kind() Kind   { return m.DeclKind }
func (m *MockDeclaration) Name() string { return m.DeclName }
func (m *MockDeclaration) Line() int    { return m.DeclLine }

func (m *MockDeclaration) Docstring() (string, bool) {
	if m.Doc == nil {
		return "", false
	}
	return *m.Doc, true
}

func (m *MockDeclaration) Decorators() []string { return m.DecoratorsV }
func (m *MockDeclaration) Parameters() []string { return m.Params }

func (m *MockDeclaration) ReturnAnnotation() (string, bool) {
	if m.Returns == nil {
		return "", false
	}
	return *m.Returns, true
}

func (m *MockDeclaration) IsAsync() bool          { return m.Async }
func (m *MockDeclaration) Bases() []string        { return m.BaseList }
func (m *MockDeclaration) Members() []Declaration { return m.MemberList }
func (m *MockDeclaration) Imports() []ImportName  { return m.ImportList }
func (m *MockDeclaration) Module() (string, int)  { return m.ModuleName, m.ModuleLevel }
func (m *MockDeclaration) HasCallValue() bool     { return m.CallValue }

func (m *MockDeclaration) Annotation() (string, bool) {
	if m.Annot == nil {
		return "", false
	}
	return *m.Annot, true
}
