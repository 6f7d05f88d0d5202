package render

import (
	"strings"

	"github.com/mvp-joe/codedoc/internal/metadata"
)

var (
	anchorReplacer = strings.NewReplacer("/", "-", ".", "-")
	pathReplacer   = strings.NewReplacer(
		`\`, `\\`,
		"_", `\_`,
		"*", `\*`,
		"`", "\\`",
		"[", `\[`,
		"]", `\]`,
	)
)

// Anchor derives the markdown anchor for a relative file path by replacing
// every "/" and "." with "-".
func Anchor(relPath string) string {
	return anchorReplacer.Replace(relPath)
}

// PathText escapes a relative file path for display in markdown text, so
// "pkg/__init__.py" is not read as emphasis.
func PathText(relPath string) string {
	return pathReplacer.Replace(relPath)
}

// FormatParameters joins parameter names with ", ".
func FormatParameters(params []string) string {
	return strings.Join(params, ", ")
}

// FormatSignature renders "name(a, b) -> ret", prefixed with "async " for
// coroutines.
func FormatSignature(fn metadata.FunctionInfo) string {
	var b strings.Builder
	if fn.IsAsync {
		b.WriteString("async ")
	}
	b.WriteString(fn.Name)
	b.WriteString("(")
	b.WriteString(FormatParameters(fn.Parameters))
	b.WriteString(")")
	if ret, ok := metadata.Deref(fn.ReturnAnnotation); ok {
		b.WriteString(" -> ")
		b.WriteString(ret)
	}
	return b.String()
}

// FormatDecorator renders a decorator expression with its "@".
func FormatDecorator(decorator string) string {
	return "@" + strings.TrimPrefix(decorator, "@")
}

// FormatBases renders "(A, B)", or "" when there are no bases.
func FormatBases(bases []string) string {
	if len(bases) == 0 {
		return ""
	}
	return "(" + strings.Join(bases, ", ") + ")"
}

// FormatClass renders "class Name(A, B)".
func FormatClass(cls metadata.ClassInfo) string {
	return "class " + cls.Name + FormatBases(cls.BaseNames)
}

// FormatImport renders an import as Python source:
// "from <module> import <name>" or "import <name>", with " as <alias>".
func FormatImport(ref metadata.ImportRef) string {
	var b strings.Builder
	if ref.IsFromImport() {
		module, _ := metadata.Deref(ref.SourceModule)
		b.WriteString("from ")
		b.WriteString(strings.Repeat(".", ref.Level))
		b.WriteString(module)
		b.WriteString(" import ")
	} else {
		b.WriteString("import ")
	}
	b.WriteString(ref.ImportedName)
	if alias, ok := metadata.Deref(ref.Alias); ok {
		b.WriteString(" as ")
		b.WriteString(alias)
	}
	return b.String()
}

// code wraps s in an inline code span, widening the fence when s itself
// contains backticks.
func code(s string) string {
	if !strings.Contains(s, "`") {
		return "`" + s + "`"
	}
	return "`` " + s + " ``"
}

// indent prefixes every non-empty line after the first with prefix.
func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
