package telemetry

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/bubbletrouble/config"
	"github.com/pthm-cable/bubbletrouble/game"
)

func TestNilOutputManager(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v, want nil, nil", om, err)
	}
	if err := om.WriteEpisode(EpisodeResult{}); err != nil {
		t.Errorf("WriteEpisode on nil manager: %v", err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Errorf("WriteConfig on nil manager: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil manager: %v", err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	episodes := []EpisodeResult{
		{Episode: "a", Seed: 1, Score: 150, Level: 2, Outcome: OutcomeGameOver},
		{Episode: "b", Seed: 2, Score: 900, Level: 5, Outcome: OutcomeCleared},
	}
	for _, e := range episodes {
		if err := om.WriteEpisode(e); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteLevels([]LevelStats{{Episode: "a", Level: 1, Attempt: 1, Outcome: OutcomeDied}}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteSummary(Summarize(episodes)); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "episodes.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var got []EpisodeResult
	if err := gocsv.UnmarshalFile(f, &got); err != nil {
		t.Fatalf("reading episodes.csv: %v", err)
	}
	if len(got) != 2 || got[1].Episode != "b" || got[1].Score != 900 {
		t.Errorf("episodes.csv = %+v", got)
	}

	for _, name := range []string{"levels.csv", "config.yaml", "summary.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}

func TestOutputManagerWritesPerf(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	perf := game.NewPerfStats(4)
	perf.Record(game.PhaseMovement, 10*time.Microsecond)
	perf.Record(game.PhaseMovement, 30*time.Microsecond)
	perf.Record(game.PhaseCollisions, 50*time.Microsecond)
	if err := om.WritePerf("ep", perf); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var got []PerfRecord
	if err := gocsv.UnmarshalFile(f, &got); err != nil {
		t.Fatalf("reading perf.csv: %v", err)
	}
	want := []PerfRecord{
		{Episode: "ep", Phase: "collisions", Samples: 1, AvgMicros: 50, MaxMicros: 50},
		{Episode: "ep", Phase: "movement", Samples: 2, AvgMicros: 20, MaxMicros: 30},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("perf.csv = %+v, want %+v", got, want)
	}
}
