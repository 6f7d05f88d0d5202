package metadata

// FileMetadata represents the structural metadata extracted from one source file.
// Optional strings are pointers so that an absent value and an empty value stay distinct.
type FileMetadata struct {
	RelativePath string         `yaml:"path" json:"path"`
	ModuleDoc    *string        `yaml:"module_doc,omitempty" json:"module_doc,omitempty"`
	Imports      []ImportRef    `yaml:"imports" json:"imports"`
	Functions    []FunctionInfo `yaml:"functions" json:"functions"`
	Classes      []ClassInfo    `yaml:"classes" json:"classes"`
}

// ImportRef represents a single imported name.
type ImportRef struct {
	SourceModule *string `yaml:"from,omitempty" json:"from,omitempty"` // nil for plain "import x"
	ImportedName string  `yaml:"name" json:"name"`
	Alias        *string `yaml:"alias,omitempty" json:"alias,omitempty"`
	Level        int     `yaml:"level,omitempty" json:"level,omitempty"` // leading dots of a relative import
}

// IsFromImport reports whether the import came from a "from ... import" statement.
func (r ImportRef) IsFromImport() bool {
	return r.SourceModule != nil
}

// FunctionInfo represents a function or method declaration.
type FunctionInfo struct {
	Name             string   `yaml:"name" json:"name"`
	Parameters       []string `yaml:"parameters" json:"parameters"`
	ReturnAnnotation *string  `yaml:"returns,omitempty" json:"returns,omitempty"`
	Docstring        *string  `yaml:"docstring,omitempty" json:"docstring,omitempty"`
	Decorators       []string `yaml:"decorators" json:"decorators"`
	IsAsync          bool     `yaml:"async,omitempty" json:"async,omitempty"`
	SourceLine       int      `yaml:"line" json:"line"`
}

// ClassInfo represents a class declaration and its immediate members.
type ClassInfo struct {
	Name       string          `yaml:"name" json:"name"`
	BaseNames  []string        `yaml:"bases" json:"bases"`
	Docstring  *string         `yaml:"docstring,omitempty" json:"docstring,omitempty"`
	Methods    []FunctionInfo  `yaml:"methods" json:"methods"`
	Attributes []AttributeInfo `yaml:"attributes" json:"attributes"`
	Decorators []string        `yaml:"decorators" json:"decorators"`
	SourceLine int             `yaml:"line" json:"line"`
}

// AttributeInfo represents a typed class attribute.
type AttributeInfo struct {
	Name           string  `yaml:"name" json:"name"`
	TypeAnnotation *string `yaml:"type,omitempty" json:"type,omitempty"`
}

// String returns a pointer to s. Used to fill optional fields.
func String(s string) *string {
	return &s
}

// Deref returns the value of an optional string and whether it was present.
func Deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}
