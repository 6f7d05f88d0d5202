package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mvp-joe/codedoc/internal/metadata"
	"github.com/mvp-joe/codedoc/internal/syntax"
)

// Extractor turns a parsed source file into FileMetadata.
//
// Only top-level declarations and the immediate members of top-level
// classes are visited. Nested functions and nested classes are not
// documented.
type Extractor struct {
	parser syntax.Parser
}

// New creates an Extractor backed by the given syntax tree adapter.
func New(parser syntax.Parser) *Extractor {
	return &Extractor{parser: parser}
}

// Extract parses source and returns its metadata. Adapter failures are
// returned as *ExtractionError; context cancellation is returned as is.
func (e *Extractor) Extract(ctx context.Context, relPath string, source []byte) (fm *metadata.FileMetadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			fm = nil
			err = &ExtractionError{Path: relPath, Detail: fmt.Sprintf("extraction panic: %v", r)}
		}
	}()

	tree, err := e.parser.Parse(ctx, source)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &ExtractionError{Path: relPath, Detail: parseDetail(err), Err: err}
	}
	if tree == nil {
		return nil, &ExtractionError{Path: relPath, Detail: "adapter returned no tree"}
	}
	defer tree.Close()

	fm = &metadata.FileMetadata{
		RelativePath: relPath,
		Imports:      []metadata.ImportRef{},
		Functions:    []metadata.FunctionInfo{},
		Classes:      []metadata.ClassInfo{},
	}

	if doc, ok := tree.Docstring(); ok {
		fm.ModuleDoc = metadata.String(cleanDocstring(doc))
	}

	for _, decl := range tree.Declarations() {
		switch decl.Kind() {
		case syntax.KindImport:
			fm.Imports = append(fm.Imports, plainImports(decl)...)
		case syntax.KindFromImport:
			fm.Imports = append(fm.Imports, fromImports(decl)...)
		case syntax.KindFunction:
			if fn, ok := extractFunction(decl); ok {
				fm.Functions = append(fm.Functions, fn)
			}
		case syntax.KindClass:
			if cls, ok := extractClass(decl); ok {
				fm.Classes = append(fm.Classes, cls)
			}
		}
	}

	return fm, nil
}

// parseDetail strips the adapter's sentinel prefix from its error message.
func parseDetail(err error) string {
	msg := err.Error()
	if errors.Is(err, syntax.ErrParse) {
		msg = strings.TrimPrefix(msg, syntax.ErrParse.Error()+": ")
	}
	return msg
}

// extractFunction builds FunctionInfo for a function or method declaration.
func extractFunction(decl syntax.Declaration) (metadata.FunctionInfo, bool) {
	name := strings.TrimSpace(decl.Name())
	if name == "" {
		return metadata.FunctionInfo{}, false
	}

	fn := metadata.FunctionInfo{
		Name:       name,
		Parameters: copyNonEmpty(decl.Parameters()),
		Decorators: copyNonEmpty(decl.Decorators()),
		IsAsync:    decl.IsAsync(),
		SourceLine: clampLine(decl.Line()),
	}

	if ret, ok := decl.ReturnAnnotation(); ok {
		fn.ReturnAnnotation = metadata.String(ret)
	}
	if doc, ok := decl.Docstring(); ok {
		fn.Docstring = metadata.String(cleanDocstring(doc))
	}

	return fn, true
}

// extractClass builds ClassInfo, classifying each immediate member as a
// method or a typed attribute. Other members are skipped.
func extractClass(decl syntax.Declaration) (metadata.ClassInfo, bool) {
	name := strings.TrimSpace(decl.Name())
	if name == "" {
		return metadata.ClassInfo{}, false
	}

	cls := metadata.ClassInfo{
		Name:       name,
		BaseNames:  copyNonEmpty(decl.Bases()),
		Methods:    []metadata.FunctionInfo{},
		Attributes: []metadata.AttributeInfo{},
		Decorators: copyNonEmpty(decl.Decorators()),
		SourceLine: clampLine(decl.Line()),
	}

	if doc, ok := decl.Docstring(); ok {
		cls.Docstring = metadata.String(cleanDocstring(doc))
	}

	for _, member := range decl.Members() {
		switch member.Kind() {
		case syntax.KindFunction:
			if method, ok := extractFunction(member); ok {
				cls.Methods = append(cls.Methods, method)
			}
		case syntax.KindAttribute:
			if attr, ok := extractAttribute(member); ok {
				cls.Attributes = append(cls.Attributes, attr)
			}
		}
	}

	return cls, true
}

// extractAttribute accepts annotated assignments whose value is not a call.
func extractAttribute(decl syntax.Declaration) (metadata.AttributeInfo, bool) {
	name := strings.TrimSpace(decl.Name())
	if name == "" || decl.HasCallValue() {
		return metadata.AttributeInfo{}, false
	}

	attr := metadata.AttributeInfo{Name: name}
	if ann, ok := decl.Annotation(); ok {
		attr.TypeAnnotation = metadata.String(ann)
	}
	return attr, true
}

func plainImports(decl syntax.Declaration) []metadata.ImportRef {
	var refs []metadata.ImportRef
	for _, target := range decl.Imports() {
		if target.Name == "" {
			continue
		}
		refs = append(refs, newImportRef(nil, 0, target))
	}
	return refs
}

// fromImports always sets SourceModule, even when it is empty, so that
// "from . import x" keeps an empty-but-present module.
func fromImports(decl syntax.Declaration) []metadata.ImportRef {
	module, level := decl.Module()

	var refs []metadata.ImportRef
	for _, target := range decl.Imports() {
		if target.Name == "" {
			continue
		}
		refs = append(refs, newImportRef(metadata.String(module), level, target))
	}
	return refs
}

func newImportRef(module *string, level int, target syntax.ImportName) metadata.ImportRef {
	ref := metadata.ImportRef{
		SourceModule: module,
		ImportedName: target.Name,
		Level:        level,
	}
	if target.HasAlias {
		ref.Alias = metadata.String(target.Alias)
	}
	return ref
}

// copyNonEmpty copies values, dropping empty entries. The result is never nil.
func copyNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func clampLine(line int) int {
	if line < 1 {
		return 1
	}
	return line
}
