package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/blrviz/blrviz/internal/timeline"
	"github.com/paulmach/orb/geojson"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string         `json:"id"`
	View      string         `json:"view"`
	Source    string         `json:"source"`
	Timestamp time.Time      `json:"timestamp"`
	Range     timeline.Range `json:"range"`
	Features  int            `json:"features"`
	Frames    int            `json:"frames"`
	Unknown   int            `json:"unknown"`
}

// Frame is one rendered year of a run.
type Frame struct {
	Year       int
	Collection *geojson.FeatureCollection
}

// YearCount is one row of counts.csv.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// Save writes a complete run in one go.
func (s *Store) Save(meta RunMetadata, frames []Frame) (string, error) {
	rec, err := s.Record(meta)
	if err != nil {
		return "", err
	}
	for _, f := range frames {
		if err := rec.Render(f.Year, f.Collection); err != nil {
			return "", err
		}
	}
	if err := rec.Close(); err != nil {
		return "", err
	}
	return rec.ID(), nil
}

// Record opens a new run directory. The returned Recorder is a render sink;
// metadata and counts are written when it is closed.
func (s *Store) Record(meta RunMetadata) (*Recorder, error) {
	now := time.Now()
	if meta.View == "" {
		meta.View = "run"
	}
	meta.ID = fmt.Sprintf("%s_%d", meta.View, now.UnixNano())
	meta.Timestamp = now

	dir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Recorder{dir: dir, meta: meta, counts: make(map[int]int)}, nil
}

// Recorder is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	dir    string
	meta   RunMetadata
	counts map[int]int
	closed bool
}

func (r *Recorder) ID() string { return r.meta.ID }

func (r *Recorder) Dir() string { return r.dir }

// Render stores the frame as <year>.geojson. A year seen twice, as happens
// when playback wraps, overwrites the earlier frame.
func (r *Recorder) Render(year int, fc *geojson.FeatureCollection) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("recorder %s is closed", r.meta.ID)
	}
	if err := os.WriteFile(filepath.Join(r.dir, fmt.Sprintf("%d.geojson", year)), data, 0644); err != nil {
		return err
	}
	r.counts[year] = len(fc.Features)
	return nil
}

// Close writes metadata.json and counts.csv. Calling it again is a no-op.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	counts := make([]YearCount, 0, len(r.counts))
	for y, c := range r.counts {
		counts = append(counts, YearCount{Year: y, Count: c})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Year < counts[j].Year })
	r.meta.Frames = len(counts)

	err := writeFile(filepath.Join(r.dir, "metadata.json"), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.meta)
	})
	if err != nil {
		return err
	}

	return writeFile(filepath.Join(r.dir, "counts.csv"), func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"year", "count"}); err != nil {
			return err
		}
		for _, c := range counts {
			if err := cw.Write([]string{strconv.Itoa(c.Year), strconv.Itoa(c.Count)}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// writeFile creates path, hands it to write and closes it. A failed close is
// reported when the write itself succeeded.
func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	return closeAfter(file, write(file))
}

func closeAfter(c io.Closer, err error) error {
	if cerr := c.Close(); err == nil {
		err = cerr
	}
	return err
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadCounts(runID string) ([]YearCount, error) {
	csvPath := filepath.Join(s.baseDir, runID, "counts.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []YearCount{}, nil
	}

	counts := make([]YearCount, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		year, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		count, err := strconv.Atoi(record[1])
		if err != nil {
			continue
		}
		counts = append(counts, YearCount{Year: year, Count: count})
	}

	return counts, nil
}

func (s *Store) LoadFrame(runID string, year int) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, fmt.Sprintf("%d.geojson", year)))
	if err != nil {
		return nil, err
	}
	return geojson.UnmarshalFeatureCollection(data)
}
