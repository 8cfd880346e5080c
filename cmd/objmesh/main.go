// objmesh - Wavefront OBJ mesh compiler
//
// Parses OBJ documents, assembles indexed triangle meshes grouped by
// (group, material), and converts them to glTF.
package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ansipixels/objmesh/gltfexport"
	"github.com/ansipixels/objmesh/internal/config"
	"github.com/ansipixels/objmesh/internal/logger"
	"github.com/ansipixels/objmesh/obj"
)

var (
	configPath string
	tangents   bool
	stepLines  int
	logLevel   string
	logFile    string
)

func main() {
	root := &cobra.Command{
		Use:   "objmesh",
		Short: "Wavefront OBJ mesh compiler",
		Long: `objmesh - Wavefront OBJ mesh compiler

Parses OBJ documents and assembles one indexed triangle mesh per
(group, material) pair, with deduplicated vertices, optional tangent
space, and polyline support. Meshes can be inspected or converted to
glTF (.gltf or .glb).`,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	root.PersistentFlags().BoolVar(&tangents, "tangents", false, "Generate a tangent basis for textured faces")
	root.PersistentFlags().IntVar(&stepLines, "step", 0, "Compile incrementally, this many directives per step (0 = one shot)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "Also log to this file, with rotation")

	root.AddCommand(&cobra.Command{
		Use:   "info <model.obj>",
		Short: "Display mesh information",
		Long:  "Compile an OBJ file and display each mesh's attribute variant, vertex and triangle counts, polylines, and bounding box.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "check <model.obj>",
		Short: "Validate an OBJ file",
		Long:  "Parse and compile an OBJ file, reporting the first syntax or referential error without producing output.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0])
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "convert <model.obj> <out.gltf|out.glb>",
		Short: "Convert an OBJ file to glTF",
		Long:  "Compile an OBJ file and write the assembled meshes as a glTF document, binary when the output extension is .glb.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args[0], args[1])
		},
	})

	if err := fang.Execute(context.Background(), root); err != nil {
		os.Exit(1)
	}
}

// setup resolves the effective configuration (defaults, then file,
// then flags) and builds the logger from it.
func setup() (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if tangents {
		cfg.Compile.Tangents = true
	}
	if stepLines > 0 {
		cfg.Compile.StepLines = stepLines
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFile != "" {
		cfg.Logging.LogFile = logFile
	}

	opts := logger.Options{Level: cfg.Logging.Level, Console: true}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	return cfg, logger.New(opts), nil
}

// compile runs a one-shot or incremental compile of path per cfg.
func compile(path string, cfg *config.Config, log *zap.SugaredLogger) (obj.Groups, error) {
	objCfg := obj.Config{WithTangents: cfg.Compile.Tangents}

	if cfg.Compile.StepLines <= 0 {
		return obj.LoadFile(path, objCfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open obj file: %w", err)
	}
	d := obj.Start(string(data), objCfg)
	steps := 0
	for !d.Step(cfg.Compile.StepLines) {
		steps++
		log.Debugf("step %d: %d lines remaining", steps, d.Remaining())
	}
	return d.Result()
}

func runInfo(path string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	groups, err := compile(path, cfg, log)
	if err != nil {
		return renderError(path, err)
	}

	fmt.Printf("File:       %s\n", filepath.Base(path))
	fmt.Printf("Size:       %.2f KB\n", float64(st.Size())/1024)
	fmt.Printf("Tangents:   %v\n", cfg.Compile.Tangents)

	for _, group := range slices.Sorted(maps.Keys(groups)) {
		mats := groups[group]
		for _, material := range slices.Sorted(maps.Keys(mats)) {
			mesh := mats[material]
			fmt.Println()
			fmt.Printf("Mesh:       %s / %s\n", group, material)
			fmt.Printf("Variant:    %s\n", mesh.Kind)
			fmt.Printf("Vertices:   %d\n", mesh.VertexCount())
			fmt.Printf("Triangles:  %d\n", mesh.TriangleCount())
			if len(mesh.Lines) > 0 {
				fmt.Printf("Polylines:  %d\n", len(mesh.Lines))
			}
			if mesh.VertexCount() > 0 {
				bmin, bmax := mesh.Bounds()
				fmt.Printf("Bounds Min: (%.3f, %.3f, %.3f)\n", bmin.X(), bmin.Y(), bmin.Z())
				fmt.Printf("Bounds Max: (%.3f, %.3f, %.3f)\n", bmax.X(), bmax.Y(), bmax.Z())
			}
		}
	}
	return nil
}

func runCheck(path string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if _, err := compile(path, cfg, log); err != nil {
		return renderError(path, err)
	}
	fmt.Printf("%s: OK\n", filepath.Base(path))
	return nil
}

func runConvert(path, out string) error {
	ext := strings.ToLower(filepath.Ext(out))
	if ext != ".gltf" && ext != ".glb" {
		return fmt.Errorf("unsupported output format: %s (use .gltf or .glb)", ext)
	}

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	groups, err := compile(path, cfg, log)
	if err != nil {
		return renderError(path, err)
	}
	meshes := 0
	for _, mats := range groups {
		meshes += len(mats)
	}
	log.Infof("compiled %d mesh(es) from %s", meshes, filepath.Base(path))

	if err := gltfexport.Save(groups, out); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	log.Infof("wrote %s", out)
	return nil
}

// renderError prefixes compile errors with the file name so shell
// output reads like a compiler diagnostic.
func renderError(path string, err error) error {
	return fmt.Errorf("%s: %w", filepath.Base(path), err)
}
