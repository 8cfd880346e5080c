package gltfexport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/ansipixels/objmesh/obj"
)

func compileGroups(t *testing.T, cfg obj.Config, src string) obj.Groups {
	t.Helper()
	directives, err := obj.ParseDocument(src)
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	groups, err := obj.Compile(cfg, directives)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return groups
}

const quadSrc = `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl checker
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestBuildEmptyGroups(t *testing.T) {
	doc := Build(compileGroups(t, obj.Config{}, ""))
	if len(doc.Meshes) != 0 {
		t.Errorf("Meshes = %d, want 0", len(doc.Meshes))
	}
	if len(doc.Nodes) != 0 {
		t.Errorf("Nodes = %d, want 0", len(doc.Nodes))
	}
}

func TestBuildTexturedQuad(t *testing.T) {
	doc := Build(compileGroups(t, obj.Config{}, quadSrc))
	if len(doc.Meshes) != 1 {
		t.Fatalf("Meshes = %d, want 1", len(doc.Meshes))
	}
	mesh := doc.Meshes[0]
	if mesh.Name != obj.DefaultName+"/checker" {
		t.Errorf("mesh name = %q", mesh.Name)
	}
	if len(mesh.Primitives) != 1 {
		t.Fatalf("Primitives = %d, want 1", len(mesh.Primitives))
	}
	prim := mesh.Primitives[0]
	for _, attr := range []string{gltf.POSITION, gltf.NORMAL, gltf.TEXCOORD_0} {
		if _, ok := prim.Attributes[attr]; !ok {
			t.Errorf("missing %s attribute", attr)
		}
	}
	if _, ok := prim.Attributes[gltf.TANGENT]; ok {
		t.Error("unexpected TANGENT attribute on textured mesh")
	}
	if prim.Indices == nil {
		t.Fatal("primitive has no indices")
	}
	acc := doc.Accessors[*prim.Indices]
	if int(acc.Count) != 6 {
		t.Errorf("index count = %d, want 6", acc.Count)
	}
	if len(doc.Materials) != 1 || doc.Materials[0].Name != "checker" {
		t.Errorf("materials = %+v, want one named checker", doc.Materials)
	}
	if len(doc.Nodes) != 1 || len(doc.Scenes[0].Nodes) != 1 {
		t.Errorf("Nodes = %d, scene nodes = %d, want 1 and 1", len(doc.Nodes), len(doc.Scenes[0].Nodes))
	}
}

func TestBuildFlipsWinding(t *testing.T) {
	doc := Build(compileGroups(t, obj.Config{}, quadSrc))
	prim := doc.Meshes[0].Primitives[0]
	acc := doc.Accessors[*prim.Indices]
	bv := doc.BufferViews[*acc.BufferView]
	data := doc.Buffers[0].Data[int(bv.ByteOffset)+int(acc.ByteOffset):]
	got := make([]uint32, 6)
	for i := range got {
		got[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	want := []uint32{0, 1, 2, 3, 0, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("indices = %v, want %v", got, want)
		}
	}
}

func TestBuildTangentMesh(t *testing.T) {
	doc := Build(compileGroups(t, obj.Config{WithTangents: true}, quadSrc))
	prim := doc.Meshes[0].Primitives[0]
	if _, ok := prim.Attributes[gltf.TANGENT]; !ok {
		t.Error("missing TANGENT attribute on tangent mesh")
	}
}

func TestBuildPolylines(t *testing.T) {
	doc := Build(compileGroups(t, obj.Config{}, "v 0 0 0\nv 1 0 0\nv 1 1 0\nl 1 2 3\n"))
	if len(doc.Meshes) != 1 {
		t.Fatalf("Meshes = %d, want 1", len(doc.Meshes))
	}
	prims := doc.Meshes[0].Primitives
	if len(prims) != 1 {
		t.Fatalf("Primitives = %d, want 1", len(prims))
	}
	if prims[0].Mode != gltf.PrimitiveLineStrip {
		t.Errorf("Mode = %v, want %v", prims[0].Mode, gltf.PrimitiveLineStrip)
	}
	acc := doc.Accessors[prims[0].Attributes[gltf.POSITION]]
	if int(acc.Count) != 3 {
		t.Errorf("position count = %d, want 3", acc.Count)
	}
}

func TestBuildSharedMaterial(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
g a
usemtl steel
f 1//1 2//1 3//1
g b
usemtl steel
f 1//1 2//1 3//1
`
	doc := Build(compileGroups(t, obj.Config{}, src))
	if len(doc.Meshes) != 2 {
		t.Fatalf("Meshes = %d, want 2", len(doc.Meshes))
	}
	if len(doc.Materials) != 1 {
		t.Errorf("Materials = %d, want 1 shared", len(doc.Materials))
	}
	// Sorted traversal keeps output deterministic.
	if doc.Meshes[0].Name != "a/steel" || doc.Meshes[1].Name != "b/steel" {
		t.Errorf("mesh names = %q, %q", doc.Meshes[0].Name, doc.Meshes[1].Name)
	}
}

func TestSave(t *testing.T) {
	groups := compileGroups(t, obj.Config{}, quadSrc)
	dir := t.TempDir()
	for _, name := range []string{"out.gltf", "out.glb"} {
		path := filepath.Join(dir, name)
		if err := Save(groups, path); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat(%s) error = %v", name, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}
