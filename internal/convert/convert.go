// Package convert assembles glTF documents from parsed Wavefront geometry.
package convert

import (
	"errors"
	"fmt"

	"github.com/fogleman/simplify"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/wavefront/internal/logger"
	"github.com/Faultbox/wavefront/pkg/wavefront"
)

// ErrNotTriangulated is returned when a shape still contains polygon
// faces; glTF primitives carry triangles only.
var ErrNotTriangulated = errors.New("mesh is not triangulated")

// Options controls glTF assembly.
type Options struct {
	SimplifyRatio float64 // Target triangle ratio in (0, 1); 0 or 1 keeps the mesh as is
}

// Document builds a glTF document with one mesh per shape. Every face
// must already be a triangle; run the parser with triangulation enabled.
func Document(res *wavefront.Result, opts Options) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "objtool"

	writeMaterials(doc, &res.Materials)

	for _, shape := range res.Shapes {
		mesh, err := writeShape(doc, &res.Attrib, shape, opts)
		if err != nil {
			return nil, err
		}

		doc.Meshes = append(doc.Meshes, mesh)
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: shape.Name,
			Mesh: gltf.Index(len(doc.Meshes) - 1),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}

	return doc, nil
}

// writeMaterials mirrors the material table into doc.Materials, so a
// parser material ID doubles as a glTF material index.
func writeMaterials(doc *gltf.Document, table *wavefront.MaterialTable) {
	for _, m := range table.Materials {
		gm := &gltf.Material{
			Name: m.Name,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{
					float64(m.Diffuse[0]),
					float64(m.Diffuse[1]),
					float64(m.Diffuse[2]),
					float64(m.Dissolve),
				},
				MetallicFactor:  gltf.Float(float64(m.Metallic)),
				RoughnessFactor: gltf.Float(float64(m.Roughness)),
			},
			EmissiveFactor: [3]float64{
				float64(m.Emission[0]),
				float64(m.Emission[1]),
				float64(m.Emission[2]),
			},
		}
		if m.Dissolve < 1 {
			gm.AlphaMode = gltf.AlphaBlend
		}
		doc.Materials = append(doc.Materials, gm)
	}
}

// faceGroup is a contiguous run of triangles sharing one material ID.
type faceGroup struct {
	material int
	indices  []wavefront.Index
}

func writeShape(doc *gltf.Document, attrib *wavefront.Attrib, shape wavefront.Shape, opts Options) (*gltf.Mesh, error) {
	groups, err := groupByMaterial(shape)
	if err != nil {
		return nil, err
	}

	mesh := &gltf.Mesh{Name: shape.Name}
	for _, g := range groups {
		var prim *gltf.Primitive
		if opts.SimplifyRatio > 0 && opts.SimplifyRatio < 1 {
			prim, err = decimatedPrimitive(doc, attrib, g, opts.SimplifyRatio)
		} else {
			prim, err = exactPrimitive(doc, attrib, g)
		}
		if err != nil {
			return nil, fmt.Errorf("shape %q: %w", shape.Name, err)
		}
		if g.material >= 0 {
			prim.Material = gltf.Index(g.material)
		}
		mesh.Primitives = append(mesh.Primitives, prim)
	}

	return mesh, nil
}

func groupByMaterial(shape wavefront.Shape) ([]faceGroup, error) {
	var groups []faceGroup
	offset := 0
	for fi, fv := range shape.Mesh.NumFaceVertices {
		if fv != 3 {
			return nil, fmt.Errorf("shape %q has a %d-gon: %w", shape.Name, fv, ErrNotTriangulated)
		}
		mat := shape.Mesh.MaterialIDs[fi]
		if len(groups) == 0 || groups[len(groups)-1].material != mat {
			groups = append(groups, faceGroup{material: mat})
		}
		g := &groups[len(groups)-1]
		g.indices = append(g.indices, shape.Mesh.Indices[offset:offset+3]...)
		offset += 3
	}
	return groups, nil
}

// exactPrimitive emits the triangles unchanged, deduplicating corners
// that share the same vertex, normal and texcoord references.
func exactPrimitive(doc *gltf.Document, attrib *wavefront.Attrib, g faceGroup) (*gltf.Primitive, error) {
	hasNormals := true
	hasTexcoords := true
	for _, idx := range g.indices {
		if idx.Normal < 0 {
			hasNormals = false
		}
		if idx.Texcoord < 0 {
			hasTexcoords = false
		}
	}

	var (
		positions [][3]float32
		normals   [][3]float32
		texcoords [][2]float32
		indices   []uint32
		seen      = make(map[wavefront.Index]uint32)
	)

	for _, idx := range g.indices {
		if id, ok := seen[idx]; ok {
			indices = append(indices, id)
			continue
		}
		if idx.Vertex < 0 || idx.Vertex*3+2 >= len(attrib.Vertices) {
			return nil, fmt.Errorf("vertex reference %d out of range", idx.Vertex)
		}
		positions = append(positions, [3]float32{
			attrib.Vertices[idx.Vertex*3],
			attrib.Vertices[idx.Vertex*3+1],
			attrib.Vertices[idx.Vertex*3+2],
		})
		if hasNormals {
			if idx.Normal < 0 || idx.Normal*3+2 >= len(attrib.Normals) {
				return nil, fmt.Errorf("normal reference %d out of range", idx.Normal)
			}
			normals = append(normals, [3]float32{
				attrib.Normals[idx.Normal*3],
				attrib.Normals[idx.Normal*3+1],
				attrib.Normals[idx.Normal*3+2],
			})
		}
		if hasTexcoords {
			if idx.Texcoord < 0 || idx.Texcoord*2+1 >= len(attrib.Texcoords) {
				return nil, fmt.Errorf("texcoord reference %d out of range", idx.Texcoord)
			}
			texcoords = append(texcoords, [2]float32{
				attrib.Texcoords[idx.Texcoord*2],
				attrib.Texcoords[idx.Texcoord*2+1],
			})
		}
		id := uint32(len(positions) - 1)
		seen[idx] = id
		indices = append(indices, id)
	}

	prim := &gltf.Primitive{
		Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
		Attributes: map[string]int{
			gltf.POSITION: modeler.WritePosition(doc, positions),
		},
	}
	if hasNormals {
		prim.Attributes[gltf.NORMAL] = modeler.WriteNormal(doc, normals)
	}
	if hasTexcoords {
		prim.Attributes[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, texcoords)
	}
	return prim, nil
}

// decimatedPrimitive runs quadric edge-collapse decimation on the group.
// Normals and texcoords do not survive collapsed topology and are dropped.
func decimatedPrimitive(doc *gltf.Document, attrib *wavefront.Attrib, g faceGroup, ratio float64) (*gltf.Primitive, error) {
	triangles := make([]*simplify.Triangle, 0, len(g.indices)/3)
	for i := 0; i+2 < len(g.indices); i += 3 {
		corners := [3]simplify.Vector{}
		for c := 0; c < 3; c++ {
			v := g.indices[i+c].Vertex
			if v < 0 || v*3+2 >= len(attrib.Vertices) {
				return nil, fmt.Errorf("vertex reference %d out of range", v)
			}
			corners[c] = simplify.Vector{
				X: float64(attrib.Vertices[v*3]),
				Y: float64(attrib.Vertices[v*3+1]),
				Z: float64(attrib.Vertices[v*3+2]),
			}
		}
		triangles = append(triangles, simplify.NewTriangle(corners[0], corners[1], corners[2]))
	}

	decimated := simplify.NewMesh(triangles).Simplify(ratio)
	if len(decimated.Triangles) == 0 {
		// Collapsing everything produces an unusable mesh; keep the input.
		decimated = simplify.NewMesh(triangles)
	}
	logger.Info("decimated mesh",
		zap.Int("triangles_in", len(triangles)),
		zap.Int("triangles_out", len(decimated.Triangles)),
		zap.Float64("ratio", ratio))

	var (
		positions [][3]float32
		indices   []uint32
		seen      = make(map[simplify.Vector]uint32)
	)
	corner := func(v simplify.Vector) {
		if id, ok := seen[v]; ok {
			indices = append(indices, id)
			return
		}
		positions = append(positions, [3]float32{float32(v.X), float32(v.Y), float32(v.Z)})
		id := uint32(len(positions) - 1)
		seen[v] = id
		indices = append(indices, id)
	}
	for _, t := range decimated.Triangles {
		corner(t.V1)
		corner(t.V2)
		corner(t.V3)
	}

	return &gltf.Primitive{
		Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
		Attributes: map[string]int{
			gltf.POSITION: modeler.WritePosition(doc, positions),
		},
	}, nil
}
