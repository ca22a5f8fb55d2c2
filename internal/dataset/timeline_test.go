package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTimelineRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.yaml")
	table := map[string]int{"Hebbal Flyover": 2003, "Kengeri Flyover": 0}

	if err := SaveTimeline(path, table); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := LoadTimeline(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got["Hebbal Flyover"] != 2003 {
		t.Errorf("expected 2003, got %d", got["Hebbal Flyover"])
	}
	if year, ok := got["Kengeri Flyover"]; !ok || year != 0 {
		t.Error("unknown year entry lost")
	}
}

func TestLoadTimelineRejectsNegative(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.yaml")
	if err := os.WriteFile(path, []byte("Bad Flyover: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTimeline(path); err == nil {
		t.Error("expected error for negative year")
	}
}

func TestLoadTimelineMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.yaml")
	if err := os.WriteFile(path, []byte("- not\n- a map\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTimeline(path); err == nil {
		t.Error("expected error for a yaml list")
	}
}
