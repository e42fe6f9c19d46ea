// Package descriptors provides the class descriptor extraction interface and
// selects an implementation for a given input.
package descriptors

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/don7panic/classgen/analyzer"
	"github.com/don7panic/classgen/models"
)

// Source produces class descriptors from some input.
type Source interface {
	Load(ctx context.Context) ([]models.ClassDescriptor, error)
}

// FileExtensions are the descriptor file extensions handled by FileSource.
var FileExtensions = []string{".yaml", ".yml", ".json"}

// IsDescriptorFile reports whether input names a descriptor file rather than
// Go packages.
func IsDescriptorFile(input string) bool {
	ext := strings.ToLower(filepath.Ext(input))
	for _, e := range FileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ForInput returns a FileSource for descriptor files and a Go analyzer for
// anything else, which is treated as a package pattern or directory.
func ForInput(input string, includeUnexported bool) Source {
	if IsDescriptorFile(input) {
		return NewFileSource(input)
	}
	return analyzer.NewGoAnalyzer(input, includeUnexported)
}
