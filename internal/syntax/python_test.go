package syntax

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Python syntax adapter:
// - Module docstring is detected and stripped of quotes
// - Top-level declarations are classified in source order
// - Decorated definitions expose decorators and the def line
// - Positional parameters stop at *args / bare *
// - Return annotations and async flag are exposed
// - Class bases exclude keyword arguments
// - Class members classify methods and annotated attributes
// - Plain, aliased, relative, wildcard and __future__ imports
// - Malformed source is rejected with ErrParse
// - stripStringLiteral handles prefixes and quote styles
// - Escapes are decoded in plain docstrings and kept in raw ones
// - Adjacent string literals form one docstring

const adapterFixture = `"""Module docs."""
import os, sys as system
from typing import List, Optional as Opt
from . import sibling
from ..pkg.sub import thing
from x import *
from __future__ import annotations

VERSION = "1"

@register
@app.route("/")
async def handler(a, b: int, c=1, d: str = "x", /, e=2, *args, f, **kwargs) -> Opt[int]:
    """Handle things."""
    return a

class Dog(Animal, mixins.Loud, metaclass=Meta):
    """A dog."""
    name: str
    legs: int = 4
    tags: list = field(default_factory=list)
    plain = 1

    @property
    def bark(self) -> str:
        return "woof"

    class Inner:
        pass
`

func parseFixture(t *testing.T, src string) Tree {
	t.Helper()
	tree, err := NewPythonParser().Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree
}

func TestPythonParser_ModuleDocstring(t *testing.T) {
	t.Parallel()

	tree := parseFixture(t, adapterFixture)

	doc, ok := tree.Docstring()
	require.True(t, ok)
	assert.Equal(t, "Module docs.", doc)
}

func TestPythonParser_NoModuleDocstring(t *testing.T) {
	t.Parallel()

	tree := parseFixture(t, "# comment\nx = 1\n\"\"\"not a docstring\"\"\"\n")

	_, ok := tree.Docstring()
	assert.False(t, ok)
}

func TestPythonParser_Classification(t *testing.T) {
	t.Parallel()

	tree := parseFixture(t, adapterFixture)
	decls := tree.Declarations()

	var kinds []Kind
	for _, d := range decls {
		kinds = append(kinds, d.Kind())
	}

	assert.Equal(t, []Kind{
		KindOther, // module docstring
		KindImport,
		KindFromImport,
		KindFromImport,
		KindFromImport,
		KindFromImport,
		KindFromImport,
		KindOther, // VERSION assignment
		KindFunction,
		KindClass,
	}, kinds)
}

func TestPythonParser_Function(t *testing.T) {
	t.Parallel()

	tree := parseFixture(t, adapterFixture)
	fn := tree.Declarations()[8]

	assert.Equal(t, "handler", fn.Name())
	assert.Equal(t, 13, fn.Line())
	assert.True(t, fn.IsAsync())
	assert.Equal(t, []string{"register", `app.route("/")`}, fn.Decorators())
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, fn.Parameters())

	ret, ok := fn.ReturnAnnotation()
	require.True(t, ok)
	assert.Equal(t, "Opt[int]", ret)

	doc, ok := fn.Docstring()
	require.True(t, ok)
	assert.Equal(t, "Handle things.", doc)
}

func TestPythonParser_Class(t *testing.T) {
	t.Parallel()

	tree := parseFixture(t, adapterFixture)
	cls := tree.Declarations()[9]

	assert.Equal(t, KindClass, cls.Kind())
	assert.Equal(t, "Dog", cls.Name())
	assert.Equal(t, 17, cls.Line())
	assert.Equal(t, []string{"Animal", "mixins.Loud"}, cls.Bases())
	assert.Empty(t, cls.Decorators())

	doc, ok := cls.Docstring()
	require.True(t, ok)
	assert.Equal(t, "A dog.", doc)

	members := cls.Members()
	require.Len(t, members, 7)

	assert.Equal(t, KindOther, members[0].Kind()) // docstring

	assert.Equal(t, KindAttribute, members[1].Kind())
	assert.Equal(t, "name", members[1].Name())
	ann, ok := members[1].Annotation()
	require.True(t, ok)
	assert.Equal(t, "str", ann)
	assert.False(t, members[1].HasCallValue())

	assert.Equal(t, KindAttribute, members[2].Kind())
	assert.False(t, members[2].HasCallValue())

	assert.Equal(t, KindAttribute, members[3].Kind())
	assert.True(t, members[3].HasCallValue())

	assert.Equal(t, KindOther, members[4].Kind()) // plain = 1

	assert.Equal(t, KindFunction, members[5].Kind())
	assert.Equal(t, "bark", members[5].Name())
	assert.Equal(t, []string{"property"}, members[5].Decorators())
	assert.Equal(t, []string{"self"}, members[5].Parameters())

	assert.Equal(t, KindClass, members[6].Kind())
	assert.Equal(t, "Inner", members[6].Name())
}

func TestPythonParser_Imports(t *testing.T) {
	t.Parallel()

	tree := parseFixture(t, adapterFixture)
	decls := tree.Declarations()

	assert.Equal(t, []ImportName{
		{Name: "os"},
		{Name: "sys", Alias: "system", HasAlias: true},
	}, decls[1].Imports())

	mod, level := decls[2].Module()
	assert.Equal(t, "typing", mod)
	assert.Equal(t, 0, level)
	assert.Equal(t, []ImportName{
		{Name: "List"},
		{Name: "Optional", Alias: "Opt", HasAlias: true},
	}, decls[2].Imports())

	mod, level = decls[3].Module()
	assert.Equal(t, "", mod)
	assert.Equal(t, 1, level)
	assert.Equal(t, []ImportName{{Name: "sibling"}}, decls[3].Imports())

	mod, level = decls[4].Module()
	assert.Equal(t, "pkg.sub", mod)
	assert.Equal(t, 2, level)

	assert.Equal(t, []ImportName{{Name: "*"}}, decls[5].Imports())

	mod, _ = decls[6].Module()
	assert.Equal(t, "__future__", mod)
	assert.Equal(t, []ImportName{{Name: "annotations"}}, decls[6].Imports())
}

func TestPythonParser_MalformedSource(t *testing.T) {
	t.Parallel()

	tree, err := NewPythonParser().Parse(context.Background(), []byte("def broken(:\n    pass\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.Nil(t, tree)
	assert.Contains(t, err.Error(), "line 1")
}

func TestPythonParser_EmptySource(t *testing.T) {
	t.Parallel()

	tree := parseFixture(t, "")
	assert.Empty(t, tree.Declarations())
}

func TestPythonParser_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPythonParser().Parse(ctx, []byte("x = 1\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func functionDecls(tree Tree) []Declaration {
	var fns []Declaration
	for _, d := range tree.Declarations() {
		if d.Kind() == KindFunction {
			fns = append(fns, d)
		}
	}
	return fns
}

func TestPythonParser_DocstringEscapes(t *testing.T) {
	t.Parallel()

	tree := parseFixture(t, `"""Don\'t \"panic\"."""

def f():
    r"""Keep \n as written."""

def g():
    "Line one.\nLine two."
`)

	doc, ok := tree.Docstring()
	require.True(t, ok)
	assert.Equal(t, `Don't "panic".`, doc)

	decls := functionDecls(tree)
	require.Len(t, decls, 2)

	raw, ok := decls[0].Docstring()
	require.True(t, ok)
	assert.Equal(t, `Keep \n as written.`, raw)

	plain, ok := decls[1].Docstring()
	require.True(t, ok)
	assert.Equal(t, "Line one.\nLine two.", plain)
}

func TestPythonParser_ConcatenatedDocstring(t *testing.T) {
	t.Parallel()

	tree := parseFixture(t, `"Module " 'docs.'

def f():
    ("First half, "
     "second half.")

def g():
    "text" f"{x}"
`)

	doc, ok := tree.Docstring()
	require.True(t, ok)
	assert.Equal(t, "Module docs.", doc)

	decls := functionDecls(tree)
	require.Len(t, decls, 2)

	joined, ok := decls[0].Docstring()
	require.True(t, ok)
	assert.Equal(t, "First half, second half.", joined)

	_, ok = decls[1].Docstring()
	assert.False(t, ok, "an f-string part makes the expression a non-docstring")
}

func TestStripStringLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		literal string
		want    string
		ok      bool
	}{
		{`"""triple"""`, "triple", true},
		{`'''single triple'''`, "single triple", true},
		{`"plain"`, "plain", true},
		{`'plain'`, "plain", true},
		{`r"""raw\n"""`, `raw\n`, true},
		{`R'raw \'q\''`, `raw \'q\'`, true},
		{`"""Don\'t \"panic\"."""`, `Don't "panic".`, true},
		{`"line\nbreak\ttab"`, "line\nbreak\ttab", true},
		{`"back\\slash"`, `back\slash`, true},
		{`"\x41\101\u00e9\U0001F600"`, "AA\u00e9\U0001F600", true},
		{"\"joined \\\nline\"", "joined line", true},
		{`"\d \N{BULLET} \xZZ"`, `\d \N{BULLET} \xZZ`, true},
		{`u"unicode"`, "unicode", true},
		{`""""""`, "", true},
		{`f"formatted"`, "", false},
		{`b"bytes"`, "", false},
	}

	for _, tt := range tests {
		got, ok := stripStringLiteral(tt.literal)
		assert.Equal(t, tt.ok, ok, tt.literal)
		assert.Equal(t, tt.want, got, tt.literal)
	}
}
