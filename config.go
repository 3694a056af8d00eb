package greetcard

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultMusicURL   = "https://raw.githubusercontent.com/HeavenZia/Christmas-Tree/refs/heads/main/Taylor%20Swift%20-%20Lover.mp3"
	DefaultTrackTitle = "Taylor Swift - Lover"
)

type Config struct {
	Window   WindowConfig   `toml:"window"`
	Scene    SceneConfig    `toml:"scene"`
	Rotation RotationConfig `toml:"rotation"`
	Audio    AudioConfig    `toml:"audio"`
	Log      LogConfig      `toml:"log"`
}

type WindowConfig struct {
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	Title    string `toml:"title"`
	Headless bool   `toml:"headless"`
	// Frames stops the app after that many frames; 0 runs until closed.
	Frames int `toml:"frames"`
}

type SceneConfig struct {
	TreeParticles   int `toml:"tree_particles"`
	GroundParticles int `toml:"ground_particles"`
	RingParticles   int `toml:"ring_particles"`
	SnowParticles   int `toml:"snow_particles"`
	Stars           int `toml:"stars"`
	// Seed makes the generated clouds reproducible; 0 picks a random seed.
	Seed uint64 `toml:"seed"`
}

type RotationConfig struct {
	Speed float32 `toml:"speed"`
}

type AudioConfig struct {
	URL   string `toml:"url"`
	Title string `toml:"title"`
	Muted bool   `toml:"muted"`
}

type LogConfig struct {
	Prefix string `toml:"prefix"`
	Debug  bool   `toml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Merry Christmas",
		},
		Scene: SceneConfig{
			TreeParticles:   DefaultTreeParticles,
			GroundParticles: DefaultGroundParticles,
			RingParticles:   DefaultRingParticles,
			SnowParticles:   DefaultSnowParticles,
			Stars:           DefaultStarCount,
		},
		Rotation: RotationConfig{Speed: DefaultRotationSpeed},
		Audio: AudioConfig{
			URL:   DefaultMusicURL,
			Title: DefaultTrackTitle,
		},
		Log: LogConfig{Prefix: "greetcard"},
	}
}

// ParseConfig overlays TOML data on the defaults. Unknown keys are errors so
// typos do not silently fall back to defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// LoadConfig reads path, or returns the defaults when path is empty.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Normalize clamps values into their valid ranges.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Window.Width <= 0 {
		c.Window.Width = def.Window.Width
	}
	if c.Window.Height <= 0 {
		c.Window.Height = def.Window.Height
	}
	c.Window.Frames = max(0, c.Window.Frames)

	c.Scene.TreeParticles = max(0, c.Scene.TreeParticles)
	c.Scene.GroundParticles = max(0, c.Scene.GroundParticles)
	c.Scene.RingParticles = max(0, c.Scene.RingParticles)
	c.Scene.SnowParticles = max(0, c.Scene.SnowParticles)
	c.Scene.Stars = max(0, c.Scene.Stars)

	c.Rotation.Speed = ClampRotationSpeed(c.Rotation.Speed)
}

func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
