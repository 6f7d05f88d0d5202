package render

import (
	"testing"

	"github.com/mvp-joe/codedoc/internal/metadata"
	"github.com/stretchr/testify/assert"
)

func TestAnchor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "utils-helpers-py", Anchor("utils/helpers.py"))
	assert.Equal(t, "main-py", Anchor("main.py"))
	assert.Equal(t, "a-b-c-d", Anchor("a.b/c.d"))
	assert.Equal(t, "pkg-__init__-py", Anchor("pkg/__init__.py"))
}

func TestPathText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "utils/helpers.py", PathText("utils/helpers.py"))
	assert.Equal(t, `pkg/\_\_init\_\_.py`, PathText("pkg/__init__.py"))
	assert.Equal(t, `a\*b\[1\]\\c.py`, PathText(`a*b[1]\c.py`))
	assert.Equal(t, "x\\`y.py", PathText("x`y.py"))
}

func TestFormatSignature(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   metadata.FunctionInfo
		want string
	}{
		{"no params", metadata.FunctionInfo{Name: "run"}, "run()"},
		{"params", metadata.FunctionInfo{Name: "greet_owner", Parameters: []string{"name"}}, "greet_owner(name)"},
		{
			"return annotation",
			metadata.FunctionInfo{Name: "bark", Parameters: []string{"self"}, ReturnAnnotation: metadata.String("str")},
			"bark(self) -> str",
		},
		{
			"async",
			metadata.FunctionInfo{Name: "load", Parameters: []string{"a", "b"}, IsAsync: true},
			"async load(a, b)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSignature(tt.fn))
		})
	}
}

func TestFormatImport(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "import os", FormatImport(metadata.ImportRef{ImportedName: "os"}))
	assert.Equal(t, "import numpy as np",
		FormatImport(metadata.ImportRef{ImportedName: "numpy", Alias: metadata.String("np")}))
	assert.Equal(t, "from typing import List",
		FormatImport(metadata.ImportRef{SourceModule: metadata.String("typing"), ImportedName: "List"}))
	assert.Equal(t, "from . import sibling",
		FormatImport(metadata.ImportRef{SourceModule: metadata.String(""), ImportedName: "sibling", Level: 1}))
	assert.Equal(t, "from ..pkg import x as y",
		FormatImport(metadata.ImportRef{SourceModule: metadata.String("pkg"), ImportedName: "x", Alias: metadata.String("y"), Level: 2}))
}

func TestFormatClassAndDecorator(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "class Dog", FormatClass(metadata.ClassInfo{Name: "Dog"}))
	assert.Equal(t, "class Dog(Animal, abc.ABC)", FormatClass(metadata.ClassInfo{Name: "Dog", BaseNames: []string{"Animal", "abc.ABC"}}))
	assert.Equal(t, "@property", FormatDecorator("property"))
	assert.Equal(t, "@property", FormatDecorator("@property"))
}

func TestCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "`x`", code("x"))
	assert.Equal(t, "`` a`b ``", code("a`b"))
}
