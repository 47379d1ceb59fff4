package sequence

import (
	"fmt"
	"math"
	"os"

	"github.com/Carmen-Shannon/oxy-flipbook/engine/flipbook"
	"gopkg.in/yaml.v3"
)

// Config is the construction-time description of a sequence.
// Material and SpritePrefab are resource names resolved through a Library.
type Config struct {
	// Name labels the sequence's anchor object and its meshes.
	Name string `yaml:"name"`

	// UseBatching selects one merged mesh (true) or one object per sprite (false).
	UseBatching bool `yaml:"useBatching"`

	// AnimSpeed scales elapsed time before it reaches the tick accumulator. Must be > 0.
	AnimSpeed float32 `yaml:"animSpeed"`

	// Material names the atlas material in the Library. Empty means no material.
	Material string `yaml:"material"`

	// Amount is the number of sprites.
	Amount int `yaml:"amount"`

	// IndividualScale is the width and height of one sprite quad.
	IndividualScale flipbook.Scale `yaml:"individualScale"`

	// Grid is the atlas subdivision.
	Grid flipbook.Grid `yaml:"grid"`

	// PositionRange bounds the random placement volume.
	PositionRange flipbook.Range `yaml:"positionRange"`

	// SpritePrefab names the 4-vertex prefab mesh cloned per sprite in unbatched mode.
	SpritePrefab string `yaml:"spritePrefab"`

	// Seed seeds placement and initial phases.
	Seed int64 `yaml:"seed"`
}

// DefaultConfig returns the settings of a freshly placed sequence:
// batching on, speed 1, 100 sprites of 2x2 on a 4x2 atlas scattered over 30x30x30.
func DefaultConfig() Config {
	return Config{
		Name:            "sequence",
		UseBatching:     true,
		AnimSpeed:       1,
		Amount:          100,
		IndividualScale: flipbook.Scale{Width: 2, Height: 2},
		Grid:            flipbook.Grid{Columns: 4, Rows: 2},
		PositionRange:   flipbook.Range{X: 30, Y: 30, Z: 30},
	}
}

// LoadConfig reads a YAML sequence config. Keys missing from the file keep their DefaultConfig values.
//
// Parameters:
//   - path: the YAML file path
//
// Returns:
//   - Config: the loaded config
//   - error: a read, parse or validation error
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read sequence config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML bytes over DefaultConfig and validates the result.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the decoded config
//   - error: a parse or validation error
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse sequence config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid sequence config: %w", err)
	}
	return cfg, nil
}

// Validate checks the numeric settings. Resource names are checked when they are resolved.
//
// Returns:
//   - error: a *flipbook.ConfigurationError describing the first invalid field
func (c Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if c.Amount < 0 {
		return &flipbook.ConfigurationError{Field: "amount", Reason: fmt.Sprintf("must be >= 0, got %d", c.Amount)}
	}
	if math.IsNaN(float64(c.AnimSpeed)) || c.AnimSpeed <= 0 {
		return &flipbook.ConfigurationError{Field: "animSpeed", Reason: fmt.Sprintf("must be > 0, got %v", c.AnimSpeed)}
	}
	return nil
}
