// Package gltfexport converts compiled OBJ groups into glTF 2.0
// documents, one glTF mesh per (group, material) pair.
package gltfexport

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/ansipixels/objmesh/obj"
)

// Build converts groups into a glTF document. Meshes with no geometry
// at all (the empty default pair of a bare document) are skipped, since
// glTF forbids meshes without primitives. Group and material names are
// visited in sorted order so output is deterministic.
func Build(groups obj.Groups) *gltf.Document {
	doc := gltf.NewDocument()
	materialIndex := make(map[string]int)

	for _, group := range slices.Sorted(maps.Keys(groups)) {
		mats := groups[group]
		for _, material := range slices.Sorted(maps.Keys(mats)) {
			mesh := mats[material]
			prims := primitives(doc, mesh, materialFor(doc, materialIndex, material))
			if len(prims) == 0 {
				continue
			}
			name := group + "/" + material
			doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: prims})
			doc.Nodes = append(doc.Nodes, &gltf.Node{
				Name: name,
				Mesh: gltf.Index(len(doc.Meshes) - 1),
			})
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
		}
	}
	return doc
}

// Save builds a document and writes it to path, binary when the
// extension is .glb.
func Save(groups obj.Groups, path string) error {
	doc := Build(groups)
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		return gltf.SaveBinary(doc, path)
	}
	return gltf.Save(doc, path)
}

// materialFor returns the document material index for an OBJ material
// name, creating it on first use.
func materialFor(doc *gltf.Document, index map[string]int, name string) int {
	if i, ok := index[name]; ok {
		return i
	}
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:                 name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{},
	})
	i := len(doc.Materials) - 1
	index[name] = i
	return i
}

// primitives emits one triangle primitive for the mesh's indexed
// vertices plus one line-strip primitive per polyline.
func primitives(doc *gltf.Document, mesh *obj.Mesh, material int) []*gltf.Primitive {
	var prims []*gltf.Primitive

	if len(mesh.Vertices) > 0 && len(mesh.Triangles) > 0 {
		positions := make([][3]float32, len(mesh.Vertices))
		normals := make([][3]float32, len(mesh.Vertices))
		for i, v := range mesh.Vertices {
			positions[i] = [3]float32{float32(v.Position.X()), float32(v.Position.Y()), float32(v.Position.Z())}
			normals[i] = [3]float32{float32(v.Normal.X()), float32(v.Normal.Y()), float32(v.Normal.Z())}
		}
		attrs := map[string]int{
			gltf.POSITION: modeler.WritePosition(doc, positions),
			gltf.NORMAL:   modeler.WriteNormal(doc, normals),
		}

		if mesh.Kind == obj.KindTextured || mesh.Kind == obj.KindTangent {
			uvs := make([][2]float32, len(mesh.Vertices))
			for i, v := range mesh.Vertices {
				uvs[i] = [2]float32{float32(v.UV.X()), float32(v.UV.Y())}
			}
			attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, uvs)
		}
		if mesh.Kind == obj.KindTangent {
			tangents := make([][4]float32, len(mesh.Vertices))
			for i, v := range mesh.Vertices {
				tangents[i] = [4]float32{
					float32(v.Tangent.X()), float32(v.Tangent.Y()),
					float32(v.Tangent.Z()), float32(v.Tangent.W()),
				}
			}
			attrs[gltf.TANGENT] = modeler.WriteTangent(doc, tangents)
		}

		// Compiled triangles are wound clockwise; glTF front faces are
		// counter-clockwise, so flip each triple back.
		indices := make([]uint32, 0, len(mesh.Triangles)*3)
		for _, tri := range mesh.Triangles {
			indices = append(indices, uint32(tri[2]), uint32(tri[1]), uint32(tri[0]))
		}

		prims = append(prims, &gltf.Primitive{
			Attributes: attrs,
			Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
			Material:   gltf.Index(material),
		})
	}

	for _, line := range mesh.Lines {
		pts := make([][3]float32, 0, 2+len(line.Rest))
		pts = append(pts,
			[3]float32{float32(line.Start.X()), float32(line.Start.Y()), float32(line.Start.Z())},
			[3]float32{float32(line.End.X()), float32(line.End.Y()), float32(line.End.Z())},
		)
		for _, p := range line.Rest {
			pts = append(pts, [3]float32{float32(p.X()), float32(p.Y()), float32(p.Z())})
		}
		prims = append(prims, &gltf.Primitive{
			Mode: gltf.PrimitiveLineStrip,
			Attributes: map[string]int{
				gltf.POSITION: modeler.WritePosition(doc, pts),
			},
			Material: gltf.Index(material),
		})
	}

	return prims
}
