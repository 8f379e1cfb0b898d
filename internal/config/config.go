// Package config handles tool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Bake     BakeConfig     `yaml:"bake"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds viewer window settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// BakeConfig holds tilemap extraction settings.
type BakeConfig struct {
	// FrameIndex is the source frame tilemaps are extracted from.
	FrameIndex int `yaml:"frame_index"`

	// OnlyVisibleLayers skips cels whose layer is hidden in the source.
	OnlyVisibleLayers bool `yaml:"only_visible_layers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Bake: BakeConfig{
			FrameIndex:        0,
			OnlyVisibleLayers: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
