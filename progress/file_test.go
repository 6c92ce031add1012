package progress

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "max_level"))
	got, err := store.MaxLevelUnlocked()
	if err != nil {
		t.Fatalf("MaxLevelUnlocked: %v", err)
	}
	if got != 1 {
		t.Errorf("MaxLevelUnlocked = %d, want 1", got)
	}
}

func TestFileStoreContents(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{"empty", "", 1, false},
		{"whitespace", " \n", 1, false},
		{"number", "4", 4, false},
		{"trailing newline", "7\n", 7, false},
		{"zero clamps", "0", 1, false},
		{"garbage", "level three", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "max_level")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			got, err := NewFileStore(path).MaxLevelUnlocked()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("MaxLevelUnlocked = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFileStoreAdvance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "max_level")
	store := NewFileStore(path)

	steps := []struct {
		advance int
		want    int
	}{
		{2, 2},
		{5, 5},
		{3, 5}, // lower values never move the marker back
		{5, 5},
	}
	for _, s := range steps {
		if err := store.AdvanceUnlockedLevel(s.advance); err != nil {
			t.Fatalf("AdvanceUnlockedLevel(%d): %v", s.advance, err)
		}
		got, err := store.MaxLevelUnlocked()
		if err != nil {
			t.Fatal(err)
		}
		if got != s.want {
			t.Errorf("after advance(%d): MaxLevelUnlocked = %d, want %d", s.advance, got, s.want)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "5" {
		t.Errorf("file contents = %q, want %q", data, "5")
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(0)
	if got, _ := store.MaxLevelUnlocked(); got != 1 {
		t.Errorf("NewMemoryStore(0) unlocked = %d, want 1", got)
	}
	store.AdvanceUnlockedLevel(3)
	store.AdvanceUnlockedLevel(2)
	if got, _ := store.MaxLevelUnlocked(); got != 3 {
		t.Errorf("MaxLevelUnlocked = %d, want 3", got)
	}
}
