package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mvp-joe/codedoc/internal/metadata"
)

// Style controls how much detail is rendered.
type Style int

const (
	// Detailed includes module docstrings, imports, decorators, attributes and docstrings.
	Detailed Style = iota
	// Brief includes only signatures and nesting structure.
	Brief
)

func (s Style) String() string {
	switch s {
	case Detailed:
		return "detailed"
	case Brief:
		return "brief"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// ParseStyle parses "detailed" or "brief", case-insensitively.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "detailed":
		return Detailed, nil
	case "brief":
		return Brief, nil
	}
	return Detailed, fmt.Errorf("unknown style %q (valid: detailed, brief)", s)
}

// Placeholders emitted in Detailed style when an expected field is absent.
// Snapshot tests depend on this text.
const (
	NoDocstring  = "_No docstring provided._"
	NoAnnotation = "_No annotation provided._"
	NoFiles      = "_No source files documented._"
)

// DefaultTitle is the document title used when none is configured.
const DefaultTitle = "Code Documentation"

// Options configures a Renderer.
type Options struct {
	Style Style
	Title string
}

// Renderer turns FileMetadata into markdown. It holds no state between calls.
type Renderer struct {
	style Style
	title string
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	return &Renderer{style: opts.Style, title: title}
}

// Render renders files with the given style and the default title.
func Render(files []*metadata.FileMetadata, style Style) string {
	return New(Options{Style: style}).Render(files)
}

// Write renders files to w.
func (r *Renderer) Write(w io.Writer, files []*metadata.FileMetadata) error {
	_, err := io.WriteString(w, r.Render(files))
	return err
}

// Render renders a document: title, table of contents, then one section per
// file in input order.
func (r *Renderer) Render(files []*metadata.FileMetadata) string {
	doc := &document{}

	doc.block("# " + r.title)
	doc.block("## Table of Contents")

	if len(files) == 0 {
		doc.block(NoFiles)
	} else {
		toc := make([]string, 0, len(files))
		for _, f := range files {
			toc = append(toc, fmt.Sprintf("- [%s](#%s)", PathText(f.RelativePath), Anchor(f.RelativePath)))
		}
		doc.lines(toc...)
	}

	for _, f := range files {
		r.renderFile(doc, f)
	}

	return doc.String()
}

func (r *Renderer) detailed() bool {
	return r.style == Detailed
}

func (r *Renderer) renderFile(doc *document, f *metadata.FileMetadata) {
	doc.lines(fmt.Sprintf(`<a id="%s"></a>`, Anchor(f.RelativePath)), "## "+PathText(f.RelativePath))

	if r.detailed() {
		if moduleDoc, ok := metadata.Deref(f.ModuleDoc); ok && strings.TrimSpace(moduleDoc) != "" {
			doc.block(moduleDoc)
		}

		if len(f.Imports) > 0 {
			doc.block("### Imports")
			imports := make([]string, 0, len(f.Imports))
			for _, ref := range f.Imports {
				imports = append(imports, "- "+code(FormatImport(ref)))
			}
			doc.lines(imports...)
		}
	}

	if len(f.Classes) > 0 {
		doc.block("### Classes")
		for _, cls := range f.Classes {
			r.renderClass(doc, cls)
		}
	}

	if len(f.Functions) > 0 {
		doc.block("### Functions")
		for _, fn := range f.Functions {
			r.renderFunction(doc, fn)
		}
	}
}

func (r *Renderer) renderClass(doc *document, cls metadata.ClassInfo) {
	doc.block("#### " + code(FormatClass(cls)))

	if r.detailed() {
		if len(cls.Decorators) > 0 {
			doc.lines(decoratorLines(cls.Decorators, "")...)
		}

		doc.block(docstringText(cls.Docstring))

		if len(cls.Attributes) > 0 {
			doc.block("**Attributes**")
			attrs := make([]string, 0, len(cls.Attributes))
			for _, attr := range cls.Attributes {
				attrs = append(attrs, "- "+formatAttribute(attr))
			}
			doc.lines(attrs...)
		}
	}

	if len(cls.Methods) > 0 {
		doc.block("**Methods**")
		var methods []string
		for _, method := range cls.Methods {
			methods = append(methods, r.methodLines(method)...)
		}
		doc.lines(methods...)
	}
}

// renderFunction renders a top-level function as a heading followed by its
// details.
func (r *Renderer) renderFunction(doc *document, fn metadata.FunctionInfo) {
	doc.block("#### " + code(FormatSignature(fn)))

	if !r.detailed() {
		return
	}
	if len(fn.Decorators) > 0 {
		doc.lines(decoratorLines(fn.Decorators, "")...)
	}
	doc.block(docstringText(fn.Docstring))
}

// methodLines renders a method as a bullet with nested detail bullets.
func (r *Renderer) methodLines(fn metadata.FunctionInfo) []string {
	lines := []string{"- Method: " + code(FormatSignature(fn))}
	if !r.detailed() {
		return lines
	}

	lines = append(lines, decoratorLines(fn.Decorators, "  ")...)
	lines = append(lines, "  - "+indent(docstringText(fn.Docstring), "    "))
	return lines
}

func decoratorLines(decorators []string, prefix string) []string {
	lines := make([]string, 0, len(decorators))
	for _, d := range decorators {
		lines = append(lines, prefix+"- Decorator: "+code(FormatDecorator(d)))
	}
	return lines
}

func formatAttribute(attr metadata.AttributeInfo) string {
	if ann, ok := metadata.Deref(attr.TypeAnnotation); ok && strings.TrimSpace(ann) != "" {
		return code(attr.Name) + ": " + code(ann)
	}
	return code(attr.Name) + ": " + NoAnnotation
}

// docstringText returns the docstring or the placeholder when it is absent
// or blank.
func docstringText(doc *string) string {
	if text, ok := metadata.Deref(doc); ok && strings.TrimSpace(text) != "" {
		return text
	}
	return NoDocstring
}

// document accumulates markdown blocks separated by blank lines.
type document struct {
	blocks []string
}

func (d *document) block(text string) {
	d.blocks = append(d.blocks, text)
}

// lines adds consecutive lines as a single block.
func (d *document) lines(lines ...string) {
	d.blocks = append(d.blocks, strings.Join(lines, "\n"))
}

func (d *document) String() string {
	return strings.Join(d.blocks, "\n\n") + "\n"
}
