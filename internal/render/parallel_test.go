package render

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type yearSet struct {
	mu    sync.Mutex
	years map[int]int
}

func (s *yearSet) Render(year int, fc *geojson.FeatureCollection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.years[year] = len(fc.Features)
	return nil
}

func pointsUpTo(year int) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for y := 2000; y <= year; y++ {
		fc.Append(geojson.NewFeature(orb.Point{float64(y), 0}))
	}
	return fc
}

func TestRenderYears(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 64} {
		s := &yearSet{years: make(map[int]int)}
		if err := RenderYears(context.Background(), s, 2000, 2010, workers, pointsUpTo); err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if len(s.years) != 11 {
			t.Fatalf("workers=%d: rendered %d years, want 11", workers, len(s.years))
		}
		for y := 2000; y <= 2010; y++ {
			if s.years[y] != y-1999 {
				t.Errorf("workers=%d: year %d has %d features, want %d", workers, y, s.years[y], y-1999)
			}
		}
	}
}

func TestRenderYearsEmptyRange(t *testing.T) {
	s := &yearSet{years: make(map[int]int)}
	if err := RenderYears(context.Background(), s, 2010, 2000, 2, pointsUpTo); err != nil {
		t.Fatal(err)
	}
	if len(s.years) != 0 {
		t.Errorf("rendered %d years for an empty range", len(s.years))
	}
}

func TestRenderYearsError(t *testing.T) {
	boom := errors.New("boom")
	sink := SinkFunc(func(year int, fc *geojson.FeatureCollection) error {
		if year == 2005 {
			return boom
		}
		return nil
	})
	err := RenderYears(context.Background(), sink, 2000, 2010, 3, pointsUpTo)
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want boom", err)
	}
}

func TestRenderYearsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &yearSet{years: make(map[int]int)}
	err := RenderYears(ctx, s, 2000, 2010, 2, pointsUpTo)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
