// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Player    PlayerConfig    `yaml:"player"`
	Weapon    WeaponConfig    `yaml:"weapon"`
	Bubbles   BubblesConfig   `yaml:"bubbles"`
	Split     SplitConfig     `yaml:"split"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Bonus     BonusConfig     `yaml:"bonus"`
	Levels    LevelsConfig    `yaml:"levels"`
	Progress  ProgressConfig  `yaml:"progress"`
	Rewards   RewardsConfig   `yaml:"rewards"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds the playing field size in pixels.
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PhysicsConfig holds simulation clock parameters.
type PhysicsConfig struct {
	TicksPerSecond int `yaml:"ticks_per_second"` // ticks that make up one countdown second
}

// PlayerConfig holds player body and lives parameters.
type PlayerConfig struct {
	Count         int     `yaml:"count"`
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	Speed         float64 `yaml:"speed"` // pixels per tick
	StartingLives int     `yaml:"starting_lives"`
}

// WeaponConfig holds the chain shot parameters.
type WeaponConfig struct {
	Width float64 `yaml:"width"`
	Speed float64 `yaml:"speed"` // tip rise in pixels per tick
}

// TierConfig holds the parameters of one bubble size.
type TierConfig struct {
	Radius  float64 `yaml:"radius"`
	MaxFall float64 `yaml:"max_fall"` // cap on downward speed, 0 = uncapped
	Bounce  float64 `yaml:"bounce"`   // upward speed after a floor hit, 0 = mirror the impact speed
}

// BubbleKindConfig holds the parameter table of one bubble kind.
// Tiers[0] is size 1 (the smallest).
type BubbleKindConfig struct {
	Gravity float64      `yaml:"gravity"`
	Tiers   []TierConfig `yaml:"tiers"`
}

// BubblesConfig holds the per-kind tables.
type BubblesConfig struct {
	Ball    BubbleKindConfig `yaml:"ball"`
	Hexagon BubbleKindConfig `yaml:"hexagon"`
}

// SplitConfig holds how popped bubbles spawn their children.
type SplitConfig struct {
	ChildSpeedX float64 `yaml:"child_speed_x"`
	KickY       float64 `yaml:"kick_y"` // upward speed given to both children
	Lift        float64 `yaml:"lift"`   // ball children spawn this far above the parent
}

// ScoringConfig holds score awards.
type ScoringConfig struct {
	Pop             int `yaml:"pop"`
	TimeBonusFactor int `yaml:"time_bonus_factor"` // points per second left when a level is cleared
}

// BonusConfig holds bonus drop parameters.
type BonusConfig struct {
	DropChance float64 `yaml:"drop_chance"`
	FallSpeed  float64 `yaml:"fall_speed"`
	Size       float64 `yaml:"size"`
	ExtraTime  int     `yaml:"extra_time"` // seconds added by a time bonus
}

// LevelsConfig holds level set selection.
type LevelsConfig struct {
	Path       string `yaml:"path"`      // empty = embedded level set
	MaxLevel   int    `yaml:"max_level"` // 0 = highest contiguous level of the set
	StartLevel int    `yaml:"start_level"`
}

// ProgressConfig holds where the unlocked level marker lives.
type ProgressConfig struct {
	Path string `yaml:"path"` // empty = in-memory only
}

// RewardsConfig holds the per-step reward table used by controllers.
type RewardsConfig struct {
	Moving float64 `yaml:"moving"`
	Fire   float64 `yaml:"fire"`
	Score  float64 `yaml:"score"`
	Death  float64 `yaml:"death"`
	Win    float64 `yaml:"win"`
	Step   float64 `yaml:"step"`
}

// TelemetryConfig holds output settings.
type TelemetryConfig struct {
	OutputDir string `yaml:"output_dir"`
	Replay    bool   `yaml:"replay"`
	LogLevels bool   `yaml:"log_levels"`
}

// DerivedConfig holds values computed from the loaded configuration.
type DerivedConfig struct {
	FieldW32       float32
	FieldH32       float32
	MaxBallTier    int
	MaxHexTier     int
	SecondsPerTick float64
}

// Global config instance
var global *Config

// Init loads configuration from the given path, falling back to embedded defaults.
// If path is empty, only embedded defaults are used.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config.Init() must be called before config.Cfg()")
	}
	return global
}

// MustInit loads configuration and panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
}

// Load reads configuration from a YAML file, using embedded defaults as base.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Default returns the embedded defaults. It panics if they do not parse.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen: size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height))
	}
	if c.Physics.TicksPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("physics.ticks_per_second must be positive, got %d", c.Physics.TicksPerSecond))
	}
	if c.Player.Count <= 0 {
		errs = append(errs, fmt.Errorf("player.count must be positive, got %d", c.Player.Count))
	}
	if c.Player.Width <= 0 || c.Player.Height <= 0 {
		errs = append(errs, errors.New("player: width and height must be positive"))
	}
	if c.Player.StartingLives <= 0 {
		errs = append(errs, fmt.Errorf("player.starting_lives must be positive, got %d", c.Player.StartingLives))
	}
	if c.Weapon.Speed <= 0 {
		errs = append(errs, fmt.Errorf("weapon.speed must be positive, got %v", c.Weapon.Speed))
	}
	if len(c.Bubbles.Ball.Tiers) == 0 || len(c.Bubbles.Hexagon.Tiers) == 0 {
		errs = append(errs, errors.New("bubbles: every kind needs at least one tier"))
	}
	for _, kind := range []struct {
		name string
		cfg  BubbleKindConfig
	}{{"ball", c.Bubbles.Ball}, {"hexagon", c.Bubbles.Hexagon}} {
		for i, tier := range kind.cfg.Tiers {
			if tier.Radius <= 0 {
				errs = append(errs, fmt.Errorf("bubbles.%s.tiers[%d]: radius must be positive", kind.name, i))
			}
		}
	}
	if c.Bonus.DropChance < 0 || c.Bonus.DropChance > 1 {
		errs = append(errs, fmt.Errorf("bonus.drop_chance must be in [0,1], got %v", c.Bonus.DropChance))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.FieldW32 = float32(c.Screen.Width)
	c.Derived.FieldH32 = float32(c.Screen.Height)
	c.Derived.MaxBallTier = len(c.Bubbles.Ball.Tiers)
	c.Derived.MaxHexTier = len(c.Bubbles.Hexagon.Tiers)
	c.Derived.SecondsPerTick = 1.0 / float64(c.Physics.TicksPerSecond)
}

// Clone returns a deep copy with derived values recomputed.
func (c *Config) Clone() *Config {
	out := *c
	out.Bubbles.Ball.Tiers = append([]TierConfig(nil), c.Bubbles.Ball.Tiers...)
	out.Bubbles.Hexagon.Tiers = append([]TierConfig(nil), c.Bubbles.Hexagon.Tiers...)
	out.computeDerived()
	return &out
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
