// objtool is a CLI utility for inspecting and converting Wavefront OBJ assets.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/wavefront/internal/config"
	"github.com/Faultbox/wavefront/internal/convert"
	"github.com/Faultbox/wavefront/internal/logger"
	"github.com/Faultbox/wavefront/pkg/wavefront"
	"github.com/qmuntal/gltf"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load(os.Getenv("OBJTOOL_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(cfg, args)
	case "materials", "mtl":
		cmdMaterials(cfg, args)
	case "convert":
		cmdConvert(cfg, args)
	case "config":
		cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`objtool - Wavefront OBJ inspection and conversion utility

Usage:
  objtool <command> [options]

Commands:
  info <file.obj>                  Show model statistics and bounds
  materials <file.obj|file.mtl>    List materials and their texture maps
  convert <file.obj> [output]      Convert to glTF (.gltf or .glb by extension)
  config [init]                    Show effective config, or write defaults

Examples:
  objtool info bunny.obj
  objtool materials scene.mtl
  objtool convert bunny.obj bunny.glb
  objtool convert -simplify 0.3 bunny.obj

Config is read from ./objtool.yaml, the user config directory, or the
path in $OBJTOOL_CONFIG.`)
}

// searchResolver tries the model's own directory first, then every
// configured material directory.
type searchResolver struct {
	dirs []string
}

func (r searchResolver) Resolve(matID string, table *wavefront.MaterialTable) (bool, wavefront.Diagnostics) {
	var all wavefront.Diagnostics
	for _, dir := range r.dirs {
		ok, diags := wavefront.FileResolver{BaseDir: dir}.Resolve(matID, table)
		all = append(all, diags...)
		if ok {
			return true, all
		}
	}
	return false, all
}

func parseModel(cfg *config.Config, path string, triangulate bool) (*wavefront.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	resolver := searchResolver{dirs: append([]string{filepath.Dir(path)}, cfg.Parse.MaterialDirs...)}
	res, err := wavefront.Parse(f, resolver, triangulate)
	if err != nil {
		return nil, err
	}

	for _, d := range res.Diagnostics {
		logger.Sugar.Warnf("%s: %s", path, d)
	}
	return res, nil
}

func cmdInfo(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	triangulate := fs.Bool("triangulate", cfg.Parse.Triangulate, "Triangulate polygon faces")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool info <file.obj>")
		os.Exit(1)
	}

	res, err := parseModel(cfg, fs.Arg(0), *triangulate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	faces := 0
	for _, s := range res.Shapes {
		faces += len(s.Mesh.NumFaceVertices)
	}

	fmt.Printf("Model:     %s\n", fs.Arg(0))
	fmt.Printf("Vertices:  %d\n", len(res.Attrib.Vertices)/3)
	fmt.Printf("Normals:   %d\n", len(res.Attrib.Normals)/3)
	fmt.Printf("Texcoords: %d\n", len(res.Attrib.Texcoords)/2)
	fmt.Printf("Shapes:    %d\n", len(res.Shapes))
	fmt.Printf("Faces:     %d\n", faces)
	fmt.Printf("Materials: %d\n", len(res.Materials.Materials))
	if b, ok := convert.ComputeBounds(res.Attrib.Vertices); ok {
		fmt.Printf("Bounds:    min (%g, %g, %g)  max (%g, %g, %g)\n",
			b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
		size := b.Size()
		fmt.Printf("Size:      %g x %g x %g\n", size[0], size[1], size[2])
	}
	if len(res.Diagnostics) > 0 {
		fmt.Printf("Warnings:  %d (rerun with logging.level=debug for details)\n", len(res.Diagnostics))
	}

	if len(res.Shapes) > 0 {
		fmt.Println()
		fmt.Println("Shapes:")
		for _, s := range res.Shapes {
			name := s.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("  %-24s %d faces\n", name, len(s.Mesh.NumFaceVertices))
		}
	}
}

func cmdMaterials(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("materials", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool materials <file.obj|file.mtl>")
		os.Exit(1)
	}

	path := fs.Arg(0)
	var table wavefront.MaterialTable

	if strings.EqualFold(filepath.Ext(path), ".mtl") {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		mtl, err := wavefront.ParseMTL(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, d := range mtl.Diagnostics {
			logger.Sugar.Warnf("%s: %s", path, d)
		}
		table = mtl.Table
	} else {
		res, err := parseModel(cfg, path, cfg.Parse.Triangulate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		table = res.Materials
	}

	if len(table.Materials) == 0 {
		fmt.Fprintln(os.Stderr, "No materials found")
		return
	}

	for _, m := range table.Materials {
		fmt.Printf("%s\n", m.Name)
		fmt.Printf("  diffuse  (%g, %g, %g)\n", m.Diffuse[0], m.Diffuse[1], m.Diffuse[2])
		fmt.Printf("  specular (%g, %g, %g)  shininess %g\n", m.Specular[0], m.Specular[1], m.Specular[2], m.Shininess)
		if m.Dissolve < 1 {
			fmt.Printf("  dissolve %g\n", m.Dissolve)
		}
		printMap := func(label string, tm wavefront.TextureMap) {
			if tm.Name != "" {
				fmt.Printf("  %-8s %s\n", label, tm.Name)
			}
		}
		printMap("map_Kd", m.DiffuseMap)
		printMap("map_Ka", m.AmbientMap)
		printMap("map_Ks", m.SpecularMap)
		printMap("bump", m.BumpMap)
		printMap("disp", m.DisplacementMap)
		printMap("map_d", m.AlphaMap)
		printMap("norm", m.NormalMap)
	}
}

func cmdConvert(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	simplifyRatio := fs.Float64("simplify", cfg.Convert.SimplifyRatio, "Decimate to this triangle ratio (0 disables)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool convert <file.obj> [output.gltf|output.glb]")
		os.Exit(1)
	}

	inPath := fs.Arg(0)
	outPath := strings.TrimSuffix(inPath, filepath.Ext(inPath)) + ".glb"
	if fs.NArg() > 1 {
		outPath = fs.Arg(1)
	}

	// glTF primitives are triangles, so conversion always triangulates.
	res, err := parseModel(cfg, inPath, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	doc, err := convert.Document(res, convert.Options{SimplifyRatio: *simplifyRatio})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if strings.EqualFold(filepath.Ext(outPath), ".glb") {
		err = gltf.SaveBinary(doc, outPath)
	} else {
		err = gltf.Save(doc, outPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Converted: %s (%d shapes, %d materials)\n", outPath, len(res.Shapes), len(res.Materials.Materials))
}

func cmdConfig(cfg *config.Config, args []string) {
	if len(args) > 0 && args[0] == "init" {
		if err := config.Default().Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default config to %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
		return
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Config dir: %s\n\n%s", config.ConfigDir(), data)
}
