package syntax

import (
	"context"
	"errors"
)

// ErrParse indicates the source could not be turned into a well-formed syntax tree.
var ErrParse = errors.New("parse error")

// Kind classifies a declaration. The set is closed: anything the
// extractor does not document is KindOther.
type Kind int

const (
	KindOther Kind = iota
	KindImport
	KindFromImport
	KindFunction
	KindClass
	KindAttribute // annotated assignment
)

func (k Kind) String() string {
	switch k {
	case KindImport:
		return "import"
	case KindFromImport:
		return "from-import"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindAttribute:
		return "attribute"
	default:
		return "other"
	}
}

// Parser turns source text into a syntax tree.
type Parser interface {
	// Parse parses source. Malformed source yields an error wrapping ErrParse.
	Parse(ctx context.Context, source []byte) (Tree, error)
}

// Tree is a parsed source file. Declarations are only valid until Close.
type Tree interface {
	// Docstring returns the module docstring literal with quotes removed.
	Docstring() (string, bool)

	// Declarations returns the top-level declarations in source order.
	Declarations() []Declaration

	// Close releases the underlying parser resources.
	Close()
}

// Declaration exposes the accessors the extractor needs. Accessors that do
// not apply to a declaration's Kind return zero values.
type Declaration interface {
	Kind() Kind
	Name() string
	Line() int // 1-based

	// Docstring returns the leading string literal of a function or class body.
	Docstring() (string, bool)
	Decorators() []string

	// Function accessors
	Parameters() []string
	ReturnAnnotation() (string, bool)
	IsAsync() bool

	// Class accessors
	Bases() []string
	Members() []Declaration

	// Import accessors
	Imports() []ImportName
	Module() (name string, level int)

	// Attribute accessors
	Annotation() (string, bool)
	HasCallValue() bool
}

// ImportName is one target of an import statement.
type ImportName struct {
	Name     string
	Alias    string
	HasAlias bool
}
