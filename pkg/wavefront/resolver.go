package wavefront

import (
	"io"
	"os"
	"path/filepath"
)

// MaterialResolver loads material libraries referenced by mtllib
// directives. Resolve parses the library identified by matID into
// table and reports whether the library could be read at all; parse
// diagnostics are returned either way. A failed resolve is non-fatal
// to the geometry parser.
type MaterialResolver interface {
	Resolve(matID string, table *MaterialTable) (bool, Diagnostics)
}

// FileResolver opens material libraries as files, relative to BaseDir
// when it is set.
type FileResolver struct {
	BaseDir string
}

// Resolve implements MaterialResolver.
func (r FileResolver) Resolve(matID string, table *MaterialTable) (bool, Diagnostics) {
	path := matID
	if r.BaseDir != "" {
		path = filepath.Join(r.BaseDir, matID)
	}

	f, err := os.Open(path)
	if err != nil {
		var diags Diagnostics
		diags.warnf(0, "material file %q not found", path)
		return false, diags
	}
	defer f.Close()

	diags, err := parseMTL(f, table)
	if err != nil {
		diags.warnf(0, "material file %q: %v", path, err)
	}
	return true, diags
}

// StreamResolver serves every request from one already-open stream,
// ignoring the requested library name. Useful when the caller has the
// material data in memory or bundled with the geometry.
type StreamResolver struct {
	R io.Reader
}

// Resolve implements MaterialResolver.
func (r StreamResolver) Resolve(matID string, table *MaterialTable) (bool, Diagnostics) {
	if r.R == nil {
		var diags Diagnostics
		diags.warnf(0, "material stream not available")
		return false, diags
	}

	diags, err := parseMTL(r.R, table)
	if err != nil {
		diags.warnf(0, "material stream: %v", err)
	}
	return true, diags
}
