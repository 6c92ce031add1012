package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/bubbletrouble/config"
	"github.com/pthm-cable/bubbletrouble/game"
)

// PerfRecord is the timing of one tick phase over an episode.
type PerfRecord struct {
	Episode   string  `csv:"episode"`
	Phase     string  `csv:"phase"`
	Samples   int     `csv:"samples"`
	AvgMicros float64 `csv:"avg_us"`
	MaxMicros float64 `csv:"max_us"`
}

// csvFile appends records to a CSV file, writing the header once.
type csvFile struct {
	f             *os.File
	headerWritten bool
}

func openCSV(dir, name string) (*csvFile, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvFile{f: f}, nil
}

func (c *csvFile) write(records any) error {
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.f); err != nil {
			return err
		}
		c.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, c.f)
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir      string
	levels   *csvFile
	episodes *csvFile
	perf     *csvFile
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled). Every method is a no-op
// on a nil manager.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.levels, err = openCSV(dir, "levels.csv"); err != nil {
		return nil, err
	}
	if om.episodes, err = openCSV(dir, "episodes.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.perf, err = openCSV(dir, "perf.csv"); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteLevels appends level attempt records to levels.csv.
func (om *OutputManager) WriteLevels(levels []LevelStats) error {
	if om == nil || len(levels) == 0 {
		return nil
	}
	if err := om.levels.write(levels); err != nil {
		return fmt.Errorf("writing levels: %w", err)
	}
	return nil
}

// WriteEpisode appends an episode record to episodes.csv.
func (om *OutputManager) WriteEpisode(r EpisodeResult) error {
	if om == nil {
		return nil
	}
	if err := om.episodes.write([]EpisodeResult{r}); err != nil {
		return fmt.Errorf("writing episode: %w", err)
	}
	return nil
}

// WritePerf appends the phase averages of p to perf.csv.
func (om *OutputManager) WritePerf(episode string, p *game.PerfStats) error {
	if om == nil || p == nil {
		return nil
	}
	phases := p.Slowest()
	if len(phases) == 0 {
		return nil
	}
	records := make([]PerfRecord, len(phases))
	for i, ph := range phases {
		records[i] = PerfRecord{
			Episode:   episode,
			Phase:     ph.String(),
			Samples:   p.Samples(ph),
			AvgMicros: micros(p.Avg(ph)),
			MaxMicros: micros(p.Max(ph)),
		}
	}
	if err := om.perf.write(records); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

func micros(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e3
}

// WriteSummary saves batch statistics as summary.yaml.
func (om *OutputManager) WriteSummary(s Summary) error {
	if om == nil {
		return nil
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(om.dir, "summary.yaml"), data, 0644); err != nil {
		return fmt.Errorf("writing summary.yaml: %w", err)
	}
	return nil
}

// Path returns the location of name inside the output directory.
func (om *OutputManager) Path(name string) string {
	if om == nil {
		return ""
	}
	return filepath.Join(om.dir, name)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*csvFile{om.levels, om.episodes, om.perf} {
		if c == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ io.Closer = (*OutputManager)(nil)
