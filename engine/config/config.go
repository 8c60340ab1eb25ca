package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvRendererOverride takes precedence over the [renderer] backend key
// in the config file. Values are the same backend names.
const EnvRendererOverride = "PRISMA_RENDERER"

type WindowConfig struct {
	Title  string `toml:"title"`
	PosX   int32  `toml:"pos_x"`
	PosY   int32  `toml:"pos_y"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
}

type RendererConfig struct {
	// Backend forces a single backend ("dx12", "vulkan", "software").
	// Empty means automatic selection with fallback.
	Backend string `toml:"backend"`
	Vsync   bool   `toml:"vsync"`
	// DepthRangeCheck additionally rejects triangles whose projected
	// depth falls outside the normalized [-1, 1] range.
	DepthRangeCheck bool `toml:"depth_range_check"`
}

type CameraConfig struct {
	Distance    float32 `toml:"distance"`
	MinDistance float32 `toml:"min_distance"`
	MaxDistance float32 `toml:"max_distance"`
	FovDegrees  float32 `toml:"fov_degrees"`
}

type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Camera   CameraConfig   `toml:"camera"`

	AssetsDir string `toml:"assets_dir"`
	LogLevel  string `toml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Prisma Viewer",
			PosX:   100,
			PosY:   100,
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			Vsync: true,
		},
		Camera: CameraConfig{
			Distance:    4.0,
			MinDistance: 1.5,
			MaxDistance: 12.0,
			FovDegrees:  60.0,
		},
		AssetsDir: "assets",
		LogLevel:  "info",
	}
}

// Load reads the TOML file at path on top of the defaults. A missing
// file is not an error; a malformed one is. The PRISMA_RENDERER
// environment variable, when set, wins over the file's backend key.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if env := os.Getenv(EnvRendererOverride); env != "" {
		cfg.Renderer.Backend = env
	}
	cfg.Renderer.Backend = strings.TrimSpace(cfg.Renderer.Backend)

	return cfg, nil
}
