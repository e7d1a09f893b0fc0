package gconf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chessgui/src/base"

	"gopkg.in/yaml.v3"
)

const DefaultFile = "chessgui.json"

const (
	OpponentNone   = "none"
	OpponentRandom = "random"
	OpponentUCI    = "uci"
)

type Config struct {
	CellSize     int    `json:"cell_size" yaml:"cell_size"`         // square edge in pixels
	AssetsDir    string `json:"assets_dir" yaml:"assets_dir"`       // sprite directory
	SpriteExt    string `json:"sprite_ext" yaml:"sprite_ext"`       // png/jpg/bmp/webp/svg
	FontPath     string `json:"font_path" yaml:"font_path"`         // empty: Go Regular
	FontSize     int    `json:"font_size" yaml:"font_size"`         //
	Title        string `json:"title" yaml:"title"`                 // window title
	Icon         string `json:"icon" yaml:"icon"`                   // optional window icon
	Theme        string `json:"theme" yaml:"theme"`                 // classic/wood
	BannerRadius int    `json:"banner_radius" yaml:"banner_radius"` // 0: square banner
	StartingSide string `json:"starting_side" yaml:"starting_side"` // white/black
	PlayerSide   string `json:"player_side" yaml:"player_side"`     // white/black
	FEN          string `json:"fen" yaml:"fen"`                     // overrides starting side
	Opponent     string `json:"opponent" yaml:"opponent"`           // none/random/uci
	UCIPath      string `json:"uci_path" yaml:"uci_path"`           // path to external engine
	UCIMoveTime  int    `json:"uci_movetime_ms" yaml:"uci_movetime_ms"`
	ResetKey     string `json:"reset_key" yaml:"reset_key"`
	CopyKey      string `json:"copy_key" yaml:"copy_key"`
	Debug        bool   `json:"debug" yaml:"debug"` // true/false
}

func Default() Config {
	return Config{
		CellSize:     67,
		AssetsDir:    "chess_png",
		SpriteExt:    "png",
		FontSize:     30,
		Title:        "Schack",
		Theme:        "classic",
		StartingSide: "white",
		PlayerSide:   "white",
		Opponent:     OpponentNone,
		UCIMoveTime:  500,
		ResetKey:     "R",
		CopyKey:      "C",
	}
}

// Load reads path as JSON, or YAML for .yaml/.yml. A missing file yields
// the defaults. An empty path means DefaultFile.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		def := Default()
		return &def, nil
	} else if err != nil {
		return nil, err
	}

	c := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	default:
		err = json.Unmarshal(data, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("error decode config %s: %w", path, err)
	}
	correctableConfig(&c)

	return &c, nil
}

// LoadOrCreate is Load that also writes the defaults to path when the
// file does not exist yet.
func LoadOrCreate(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		def := Default()
		if err := def.Save(path); err != nil {
			return nil, fmt.Errorf("error write default config %s: %w", path, err)
		}
		return &def, nil
	} else if err != nil {
		return nil, err
	}
	return Load(path)
}

// Save writes c to path in the format its extension selects.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultFile
	}
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "    ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Normalize re-applies the corrections after flag overrides.
func (c *Config) Normalize() {
	correctableConfig(c)
}

func (c *Config) MoveTime() time.Duration {
	return time.Duration(c.UCIMoveTime) * time.Millisecond
}

func (c *Config) Starting() base.Side {
	s, _ := base.ParseSide(c.StartingSide)
	return s
}

func (c *Config) Player() base.Side {
	s, _ := base.ParseSide(c.PlayerSide)
	return s
}

func correctableConfig(c *Config) {
	def := Default()
	if c.CellSize < 16 || c.CellSize > 256 {
		c.CellSize = def.CellSize
	}
	if c.AssetsDir == "" {
		c.AssetsDir = def.AssetsDir
	}
	c.SpriteExt = strings.TrimPrefix(strings.ToLower(c.SpriteExt), ".")
	switch c.SpriteExt {
	case "png", "jpg", "jpeg", "bmp", "webp", "svg":
	default:
		c.SpriteExt = def.SpriteExt
	}
	if c.FontSize <= 0 {
		c.FontSize = def.FontSize
	}
	if c.Title == "" {
		c.Title = def.Title
	}
	if c.Theme != "classic" && c.Theme != "wood" {
		c.Theme = def.Theme
	}
	if c.BannerRadius < 0 {
		c.BannerRadius = 0
	}
	if _, err := base.ParseSide(c.StartingSide); err != nil {
		c.StartingSide = def.StartingSide
	}
	if _, err := base.ParseSide(c.PlayerSide); err != nil {
		c.PlayerSide = def.PlayerSide
	}
	switch c.Opponent {
	case OpponentNone, OpponentRandom:
	case OpponentUCI:
		if c.UCIPath == "" {
			c.Opponent = def.Opponent
		}
	default:
		c.Opponent = def.Opponent
	}
	if c.UCIMoveTime <= 0 {
		c.UCIMoveTime = def.UCIMoveTime
	}
	if c.ResetKey == "" {
		c.ResetKey = def.ResetKey
	}
	if c.CopyKey == "" {
		c.CopyKey = def.CopyKey
	}
}
