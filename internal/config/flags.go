package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagOut     = flag.String("out", "", "Output directory")
	flagName    = flag.String("name", "", "Export base name")
	flagRes     = flag.Int("res", 0, "Texture resolution")
	flagWorkers = flag.Int("workers", -1, "Parallel workers (0 = one per CPU)")
	flagFormat  = flag.String("format", "", "Texture format: png, bmp, tiff, tga")
	flagGLB     = flag.Bool("glb", false, "Also export a binary glTF")
	flagVerify  = flag.Bool("verify", false, "Read the texture back after export and compare")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagOut != "" {
		cfg.Export.OutDir = *flagOut
	}
	if *flagName != "" {
		cfg.Export.Name = *flagName
	}
	if *flagRes > 0 {
		cfg.Bake.Resolution = *flagRes
	}
	if *flagWorkers >= 0 {
		cfg.Bake.Workers = *flagWorkers
	}
	if *flagFormat != "" {
		cfg.Export.ImageFormat = *flagFormat
	}
	if *flagGLB {
		cfg.Export.GLB = true
	}
	if *flagVerify {
		cfg.Export.Verify = true
	}
}
