// Package wavefront parses Wavefront OBJ geometry files and their MTL
// material libraries into structured mesh and material data.
//
// The parsers are deliberately permissive: real-world files contain
// stray whitespace, short lines and unknown directives, so malformed
// fields degrade to defaults and structural problems are reported as
// diagnostics instead of aborting the parse. Only a stream that cannot
// be opened or read at all is a hard failure.
package wavefront

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Attrib holds the global vertex pools of a parsed OBJ stream. The
// pools are flat: positions and normals have stride 3, texture
// coordinates stride 2. Face indices address elements, not floats.
type Attrib struct {
	Vertices  []float32
	Normals   []float32
	Texcoords []float32
}

// Index addresses one corner of a polygon. Each component is a
// zero-based offset into the corresponding Attrib pool, or -1 when the
// face did not specify it.
type Index struct {
	Vertex   int
	Normal   int
	Texcoord int
}

// Tag is a free-form named record of extension data attached to a mesh.
type Tag struct {
	Name    string
	Ints    []int
	Floats  []float32
	Strings []string
}

// Mesh is the triangulated (or polygonal) face data of one shape.
// Indices is flat; NumFaceVertices records the arity of each output
// polygon and MaterialIDs its material table position (-1 for none).
type Mesh struct {
	Indices         []Index
	NumFaceVertices []uint8
	MaterialIDs     []int
	Tags            []Tag
}

// Shape is one named mesh segment bounded by g/o directives.
type Shape struct {
	Name string
	Mesh Mesh
}

// Result is the outcome of a geometry parse.
type Result struct {
	Attrib      Attrib
	Shapes      []Shape
	Materials   MaterialTable
	Diagnostics Diagnostics
}

// ParseFile parses an OBJ file from disk. Material libraries referenced
// by mtllib directives are resolved relative to the file's directory.
func ParseFile(path string, triangulate bool) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ file %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f, FileResolver{BaseDir: filepath.Dir(path)}, triangulate)
}

// Parse parses an OBJ geometry stream. resolver handles mtllib
// directives and may be nil, in which case they are ignored. With
// triangulate set, polygons are fan-triangulated during shape export.
func Parse(r io.Reader, resolver MaterialResolver, triangulate bool) (*Result, error) {
	p := &objParser{
		res:         &Result{},
		resolver:    resolver,
		triangulate: triangulate,
		material:    -1,
	}
	if err := p.run(r); err != nil {
		return nil, err
	}
	return p.res, nil
}

// objParser accumulates the single-pass parse state: the global pools,
// the shape under construction and the face group pending since the
// last boundary directive.
type objParser struct {
	res         *Result
	resolver    MaterialResolver
	triangulate bool

	shape     Shape
	faceGroup [][]Index
	tags      []Tag
	name      string
	material  int
}

func (p *objParser) run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := skipLeft(sc.Bytes())
		if len(line) == 0 || line[0] == '#' || line[0] == '\r' {
			continue
		}
		p.parseLine(line, lineNum)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading OBJ stream: %w", err)
	}

	// Flush whatever is still pending. A trailing shape with no
	// pending faces is kept only when earlier material switches
	// already flushed indices into it.
	exported := p.exportGroup()
	if exported || len(p.shape.Mesh.Indices) > 0 {
		p.res.Shapes = append(p.res.Shapes, p.shape)
	}

	return nil
}

func (p *objParser) parseLine(line []byte, lineNum int) {
	attrib := &p.res.Attrib

	switch {
	case keyword(line, "v"):
		s := after(line, "v")
		x, y, z := s.real3(0, 0, 0)
		attrib.Vertices = append(attrib.Vertices, x, y, z)

	case keyword(line, "vn"):
		s := after(line, "vn")
		x, y, z := s.real3(0, 0, 0)
		attrib.Normals = append(attrib.Normals, x, y, z)

	case keyword(line, "vt"):
		s := after(line, "vt")
		x, y := s.real2(0, 0)
		attrib.Texcoords = append(attrib.Texcoords, x, y)

	case keyword(line, "f"):
		s := after(line, "f")
		s.skipSpace()
		face := make([]Index, 0, 3)
		for !s.eol() {
			idx := s.indexTriple(len(attrib.Vertices)/3, len(attrib.Normals)/3, len(attrib.Texcoords)/2)
			face = append(face, idx)
			s.skipSpace()
		}
		if len(face) < 3 {
			p.res.Diagnostics.warnf(lineNum, "face with fewer than 3 vertices; ignored")
			return
		}
		p.faceGroup = append(p.faceGroup, face)

	case keyword(line, "usemtl"):
		s := after(line, "usemtl")
		name := s.rest()
		newID := -1
		if id, ok := p.res.Materials.Index[name]; ok {
			newID = id
		}
		if newID != p.material {
			// Flush pending faces under the old material; the
			// shape itself continues.
			p.exportGroup()
			p.material = newID
		}

	case keyword(line, "mtllib"):
		if p.resolver == nil {
			return
		}
		s := after(line, "mtllib")
		names := strings.Fields(s.rest())
		if len(names) == 0 {
			p.res.Diagnostics.warnf(lineNum, "empty filename for mtllib; using default material")
			return
		}
		found := false
		for _, name := range names {
			ok, diags := p.resolver.Resolve(name, &p.res.Materials)
			p.res.Diagnostics = append(p.res.Diagnostics, diags...)
			if ok {
				found = true
				break
			}
		}
		if !found {
			p.res.Diagnostics.warnf(lineNum, "failed to load material file(s); using default material")
		}

	case keyword(line, "g"):
		p.finishShape()
		// The group name is the second token; the first is the
		// directive itself. Extra names are ignored.
		s := after(line, "g")
		p.name = s.word()

	case keyword(line, "o"):
		p.finishShape()
		s := after(line, "o")
		p.name = s.rest()

	case keyword(line, "t"):
		s := after(line, "t")
		tag := Tag{Name: s.word()}
		s.skipSpace()
		ts := s.tagTriple()
		if ts.numInts > 0 {
			tag.Ints = make([]int, ts.numInts)
			for i := range tag.Ints {
				s.skipSpace()
				tag.Ints[i] = s.atoiAt()
				s.skipSlashField()
				if s.pos < len(s.buf) {
					s.pos++
				}
			}
		}
		if ts.numFloats > 0 {
			tag.Floats = make([]float32, ts.numFloats)
			for i := range tag.Floats {
				tag.Floats[i] = s.real(0)
				s.skipSlashField()
				if s.pos < len(s.buf) {
					s.pos++
				}
			}
		}
		if ts.numStrings > 0 {
			tag.Strings = make([]string, ts.numStrings)
			for i := range tag.Strings {
				tag.Strings[i] = s.word()
			}
		}
		p.tags = append(p.tags, tag)
	}
}

// finishShape exports the pending face group and pushes the current
// shape when it holds any mesh data, then resets for the next g/o block.
func (p *objParser) finishShape() {
	exported := p.exportGroup()
	if exported || len(p.shape.Mesh.Indices) > 0 {
		p.res.Shapes = append(p.res.Shapes, p.shape)
	}
	p.shape = Shape{}
}

// exportGroup finalizes the pending faces into the current shape under
// the active material id, fan-triangulating when requested. Buffered
// tags are attached to the mesh and cleared. Reports whether any face
// was exported.
func (p *objParser) exportGroup() bool {
	if len(p.faceGroup) == 0 {
		return false
	}

	mesh := &p.shape.Mesh
	for _, face := range p.faceGroup {
		if p.triangulate {
			// Fan from the first corner: (v0, v[k-1], v[k]).
			for k := 2; k < len(face); k++ {
				mesh.Indices = append(mesh.Indices, face[0], face[k-1], face[k])
				mesh.NumFaceVertices = append(mesh.NumFaceVertices, 3)
				mesh.MaterialIDs = append(mesh.MaterialIDs, p.material)
			}
		} else {
			mesh.Indices = append(mesh.Indices, face...)
			mesh.NumFaceVertices = append(mesh.NumFaceVertices, uint8(len(face)))
			mesh.MaterialIDs = append(mesh.MaterialIDs, p.material)
		}
	}

	p.shape.Name = p.name
	mesh.Tags = append(mesh.Tags, p.tags...)
	p.tags = nil
	p.faceGroup = p.faceGroup[:0]
	return true
}
