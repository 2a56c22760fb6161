// meshbake bakes per-vertex colors of a UV-mapped mesh into a texture and
// exports an OBJ/MTL/image triad.
package main

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/meshbake/internal/config"
	"github.com/Faultbox/meshbake/internal/logger"
	"github.com/Faultbox/meshbake/internal/pipeline"
	"github.com/Faultbox/meshbake/pkg/formats"
	"github.com/Faultbox/meshbake/pkg/math"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "bake":
		cmdBake(args)
	case "info":
		cmdInfo(args)
	case "init-config":
		cmdInitConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshbake - vertex color texture baker

Usage:
  meshbake [flags] <command> [args]

Commands:
  bake <input.obj>      Bake vertex colors and export OBJ/MTL/texture
  info <file.obj>       Show mesh information
  init-config [path]    Write the effective config as YAML

Flags:
  -config <path>   Config file (default ./config.yaml or user config dir)
  -out <dir>       Output directory
  -name <name>     Export base name
  -res <n>         Texture resolution
  -workers <n>     Parallel workers (0 = one per CPU)
  -format <fmt>    Texture format: png, bmp, tiff, tga
  -glb             Also export a binary glTF
  -verify          Read the texture back after export and compare
  -debug           Enable debug logging

Examples:
  meshbake bake chair.obj
  meshbake -res 512 -name chair -glb bake chair.obj
  meshbake init-config ./config.yaml`)
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func cmdBake(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshbake bake <input.obj>")
		os.Exit(1)
	}

	cfg := loadConfig()
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	p, err := pipeline.New(cfg, logger.Named("pipeline"))
	if err != nil {
		logger.Error("failed to create pipeline", zap.Error(err))
		os.Exit(1)
	}

	res, err := p.RunFile(args[0])
	if err != nil {
		logger.Error("bake failed", zap.String("input", args[0]), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	fmt.Println(res.OBJPath)
	if res.GLBPath != "" {
		fmt.Println(res.GLBPath)
	}
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshbake info <file.obj>")
		os.Exit(1)
	}

	obj, err := formats.ParseOBJFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File:       %s\n", args[0])
	fmt.Printf("Vertices:   %d\n", len(obj.Vertices))
	fmt.Printf("TexCoords:  %d\n", len(obj.TexCoords))
	fmt.Printf("Triangles:  %d\n", len(obj.Faces))
	fmt.Printf("Colors:     %t\n", obj.Colors != nil)
	fmt.Printf("UV layout:  %t\n", obj.HasTexCoords())
	lo, hi := math.Bounds(obj.Vertices)
	fmt.Printf("Bounds:     (%.4f, %.4f, %.4f) - (%.4f, %.4f, %.4f)\n", lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
	if len(obj.MaterialLibs) > 0 {
		fmt.Printf("Libraries:  %s\n", strings.Join(obj.MaterialLibs, ", "))
	}
	if len(obj.Materials) > 0 {
		fmt.Printf("Materials:  %s\n", strings.Join(obj.Materials, ", "))
	}

	if err := obj.Mesh().Validate(); err != nil {
		fmt.Printf("\nProblems:\n")
		for _, e := range multierr.Errors(err) {
			fmt.Printf("  %v\n", e)
		}
	}
}

func cmdInitConfig(args []string) {
	cfg := loadConfig()

	if len(args) > 0 {
		if err := cfg.SaveTo(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(args[0])
		return
	}

	path, err := cfg.Save()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(path)
}
