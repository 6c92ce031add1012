// Package level loads the level definitions a session plays through.
package level

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed levels.yaml
var defaultLevelsYAML []byte

// Speed is an initial velocity. In a definition file it is either a
// [vx, vy] pair or a single number for a purely horizontal start.
type Speed struct {
	X, Y float32
}

// UnmarshalYAML accepts a scalar or a two element sequence.
func (s *Speed) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var vx float32
		if err := node.Decode(&vx); err != nil {
			return err
		}
		*s = Speed{X: vx}
		return nil
	case yaml.SequenceNode:
		var pair []float32
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: speed needs 2 components, got %d", node.Line, len(pair))
		}
		*s = Speed{X: pair[0], Y: pair[1]}
		return nil
	default:
		return fmt.Errorf("line %d: speed must be a number or [vx, vy]", node.Line)
	}
}

// MarshalYAML writes the speed as a [vx, vy] pair.
func (s Speed) MarshalYAML() (interface{}, error) {
	return []float32{s.X, s.Y}, nil
}

// Spawn places one bubble when a level loads.
type Spawn struct {
	X     float32 `yaml:"x"`
	Y     float32 `yaml:"y"`
	Size  int     `yaml:"size"`
	Speed Speed   `yaml:"speed"`
}

// Definition describes one level.
type Definition struct {
	Number   int     `yaml:"-"`
	Time     int     `yaml:"time"` // countdown budget in seconds
	Balls    []Spawn `yaml:"balls"`
	Hexagons []Spawn `yaml:"hexagons"`
}

// Set is an immutable collection of level definitions keyed by number.
type Set struct {
	defs map[int]*Definition
	max  int
}

// Parse decodes a level set. Both the YAML layout and the JSON layout
// keyed by quoted level numbers are accepted.
func Parse(data []byte) (*Set, error) {
	raw := map[string]*Definition{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedLevelError{Reason: "decoding level set", Err: err}
	}

	set := &Set{defs: make(map[int]*Definition, len(raw))}
	for key, def := range raw {
		n, err := strconv.Atoi(key)
		if err != nil || n < 1 {
			return nil, &MalformedLevelError{Reason: fmt.Sprintf("level key %q is not a positive number", key), Err: err}
		}
		if def == nil {
			return nil, &MalformedLevelError{Level: n, Reason: "empty definition"}
		}
		def.Number = n
		if err := def.validate(); err != nil {
			return nil, err
		}
		set.defs[n] = def
	}

	for set.defs[set.max+1] != nil {
		set.max++
	}
	return set, nil
}

// Load reads and parses a level set file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading levels file: %w", err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Default returns the embedded level set. It panics if it does not parse.
func Default() *Set {
	set, err := Parse(defaultLevelsYAML)
	if err != nil {
		panic(err)
	}
	return set
}

// NewSet builds a set from definitions, validating each one.
func NewSet(defs ...Definition) (*Set, error) {
	set := &Set{defs: make(map[int]*Definition, len(defs))}
	for i := range defs {
		def := defs[i]
		if def.Number < 1 {
			return nil, &MalformedLevelError{Level: def.Number, Reason: "level number must be positive"}
		}
		if err := def.validate(); err != nil {
			return nil, err
		}
		set.defs[def.Number] = &def
	}
	for set.defs[set.max+1] != nil {
		set.max++
	}
	return set, nil
}

// Get returns the definition of level n.
func (s *Set) Get(n int) (*Definition, error) {
	def, ok := s.defs[n]
	if !ok {
		return nil, &MissingLevelError{Level: n}
	}
	return def, nil
}

// MaxLevel returns the highest level reachable from level 1 without gaps.
func (s *Set) MaxLevel() int {
	return s.max
}

// Numbers returns every defined level number in ascending order.
func (s *Set) Numbers() []int {
	nums := make([]int, 0, len(s.defs))
	for n := range s.defs {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// Entities returns the number of bubbles the level starts with.
func (d *Definition) Entities() int {
	return len(d.Balls) + len(d.Hexagons)
}

func (d *Definition) validate() error {
	if d.Time <= 0 {
		return &MalformedLevelError{Level: d.Number, Reason: fmt.Sprintf("time must be positive, got %d", d.Time)}
	}
	for i, b := range d.Balls {
		if b.Size < 1 {
			return &MalformedLevelError{Level: d.Number, Reason: fmt.Sprintf("balls[%d]: size must be at least 1, got %d", i, b.Size)}
		}
	}
	for i, h := range d.Hexagons {
		if h.Size < 1 {
			return &MalformedLevelError{Level: d.Number, Reason: fmt.Sprintf("hexagons[%d]: size must be at least 1, got %d", i, h.Size)}
		}
	}
	return nil
}

// CheckTiers reports a MalformedLevelError when a spawn uses a size
// beyond the configured tier tables.
func (d *Definition) CheckTiers(maxBall, maxHex int) error {
	for i, b := range d.Balls {
		if b.Size > maxBall {
			return &MalformedLevelError{Level: d.Number, Reason: fmt.Sprintf("balls[%d]: size %d exceeds largest tier %d", i, b.Size, maxBall)}
		}
	}
	for i, h := range d.Hexagons {
		if h.Size > maxHex {
			return &MalformedLevelError{Level: d.Number, Reason: fmt.Sprintf("hexagons[%d]: size %d exceeds largest tier %d", i, h.Size, maxHex)}
		}
	}
	return nil
}
