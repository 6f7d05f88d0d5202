package walker

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// fileDiscovery finds source files by suffix, honoring ignore patterns.
type fileDiscovery struct {
	rootDir        string
	suffix         string
	ignorePatterns []compiledPattern
	reporter       ErrorReporter
}

// candidate is a discovered source file.
type candidate struct {
	path    string // absolute or root-joined path used for reading
	relPath string // forward-slash path relative to the root
}

// compilePatterns compiles glob patterns using '/' as the separator.
func compilePatterns(patterns []string) ([]compiledPattern, error) {
	var compiled []compiledPattern
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledPattern{pattern: pattern, glob: g})
	}
	return compiled, nil
}

// discover walks the tree and returns candidates sorted by relative path.
// Unreadable subdirectories are reported and skipped.
func (fd *fileDiscovery) discover() ([]candidate, error) {
	var files []candidate

	err := filepath.WalkDir(fd.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == fd.rootDir {
				return err
			}
			fd.reporter.Report(fd.relPath(path), readFailure(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path == fd.rootDir {
			return nil
		}

		relPath := fd.relPath(path)

		if d.IsDir() {
			if fd.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), fd.suffix) {
			return nil
		}

		if fd.shouldIgnore(relPath) {
			return nil
		}

		files = append(files, candidate{path: path, relPath: relPath})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].relPath < files[j].relPath
	})
	return files, nil
}

// relPath returns path relative to the root with forward slashes.
func (fd *fileDiscovery) relPath(path string) string {
	rel, err := filepath.Rel(fd.rootDir, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

// shouldIgnore checks if a path matches any ignore pattern.
func (fd *fileDiscovery) shouldIgnore(relPath string) bool {
	if fd.matchesAnyPattern(relPath) {
		return true
	}

	// Also check if this is a directory that would match with /** suffix
	// For example, "node_modules" should match pattern "node_modules/**"
	return fd.matchesAnyPattern(relPath + "/**")
}

// matchesAnyPattern checks if a path matches any ignore pattern.
func (fd *fileDiscovery) matchesAnyPattern(path string) bool {
	for _, cp := range fd.ignorePatterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// A root-level path (no slash) should also match "**/x" patterns.
	if !strings.Contains(path, "/") {
		for _, cp := range fd.ignorePatterns {
			if !strings.HasPrefix(cp.pattern, "**/") {
				continue
			}
			simplified := strings.TrimPrefix(cp.pattern, "**/")
			if g, err := glob.Compile(simplified, '/'); err == nil && g.Match(path) {
				return true
			}
		}
	}

	return false
}
