package playlist

import (
	"errors"
	"testing"

	"songprint/internal/analysis"
)

// song builds a Version1 song whose fingerprint is x in slot 0. With the
// euclidean metric, the distance between two such songs is |x1 - x2|.
func song(t *testing.T, path string, x float32) analysis.Song {
	t.Helper()
	return analysis.Song{Path: path, Analysis: fingerprint(t, x)}
}

func paths(songs []analysis.Song) []string {
	out := make([]string, len(songs))
	for i, s := range songs {
		out[i] = s.Path
	}
	return out
}

func assertOrder(t *testing.T, got []analysis.Song, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", paths(got), want)
	}
	for i, p := range want {
		if got[i].Path != p {
			t.Fatalf("got %v, want %v", paths(got), want)
		}
	}
}

func TestSortByClosestToGroup(t *testing.T) {
	group := []analysis.Song{song(t, "ref1", 0), song(t, "ref2", 10)}
	pool := []analysis.Song{
		song(t, "far", 5),  // min distance 5
		song(t, "near", 1), // min distance 1
		song(t, "mid", 8),  // min distance 2 (to ref2)
	}

	if err := SortByClosestToGroup(group, pool, Euclidean); err != nil {
		t.Fatal(err)
	}
	assertOrder(t, pool, "near", "mid", "far")
}

func TestSortByClosestToGroupEmpty(t *testing.T) {
	if err := SortByClosestToGroup(nil, nil, Euclidean); err != nil {
		t.Fatal(err)
	}
	pool := []analysis.Song{song(t, "a", 1)}
	if err := SortByClosestToGroup(nil, pool, Euclidean); err != nil {
		t.Fatal(err)
	}
	assertOrder(t, pool, "a")
}

func TestSortChain(t *testing.T) {
	seed := song(t, "seed", 0)
	// Greedy from 0: nearest is 1, then 2, then 10. A global ordering by
	// distance to the seed would give the same here, so also check a case
	// where the chain diverges from it.
	pool := []analysis.Song{song(t, "c", 10), song(t, "a", 1), song(t, "b", 2)}
	if err := SortChain(seed, pool, Euclidean); err != nil {
		t.Fatal(err)
	}
	assertOrder(t, pool, "a", "b", "c")

	// From 0 the nearest is 4; from 4 the nearest remaining is 7, not 5.
	pool = []analysis.Song{song(t, "y", 7), song(t, "x", 4), song(t, "z", -5)}
	if err := SortChain(seed, pool, Euclidean); err != nil {
		t.Fatal(err)
	}
	assertOrder(t, pool, "x", "y", "z")
}

func TestDedupByDistance(t *testing.T) {
	songs := []analysis.Song{
		song(t, "a", 0),
		song(t, "a2", 0.01), // within threshold of a
		song(t, "b", 0.2),
		song(t, "b2", 0.21), // within threshold of b
		song(t, "c", 0.5),
	}

	out, err := Dedup(songs, Euclidean, DefaultDedupThreshold)
	if err != nil {
		t.Fatal(err)
	}
	assertOrder(t, out, "a", "b", "c")
}

func TestDedupByMetadata(t *testing.T) {
	a := song(t, "a", 0)
	a.Title, a.Artist = "Song", "Artist"
	dup := song(t, "dup", 5)
	dup.Title, dup.Artist = "Song", "Artist"
	untagged := song(t, "untagged", 10)
	untagged2 := song(t, "untagged2", 20)

	out, err := Dedup([]analysis.Song{a, dup, untagged, untagged2}, Euclidean, DefaultDedupThreshold)
	if err != nil {
		t.Fatal(err)
	}
	// dup matches a's tags despite being distant; empty tags never match.
	assertOrder(t, out, "a", "untagged", "untagged2")
}

func TestDedupProperties(t *testing.T) {
	songs := []analysis.Song{
		song(t, "first", 0),
		song(t, "x", 0.001),
		song(t, "y", 0.002),
	}
	out, err := Dedup(songs, Euclidean, DefaultDedupThreshold)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) > len(songs) {
		t.Error("dedup grew the playlist")
	}
	if out[0].Path != "first" {
		t.Error("dedup dropped the first song")
	}

	if out, err = Dedup(nil, Euclidean, DefaultDedupThreshold); err != nil || out != nil {
		t.Errorf("Dedup(nil) = %v, %v", out, err)
	}
}

func TestVersionMismatchRejected(t *testing.T) {
	v2 := make([]float32, analysis.Version2.FeatureCount())
	a2, err := analysis.New(v2, analysis.Version2)
	if err != nil {
		t.Fatal(err)
	}

	mixed := []analysis.Song{song(t, "v1", 0), {Path: "v2", Analysis: a2}}

	if _, err := Dedup(mixed, Euclidean, DefaultDedupThreshold); !errors.Is(err, analysis.ErrVersionMismatch) {
		t.Errorf("Dedup error = %v, want ErrVersionMismatch", err)
	}
	if err := SortByClosestToGroup(mixed[:1], mixed[1:], Euclidean); !errors.Is(err, analysis.ErrVersionMismatch) {
		t.Errorf("SortByClosestToGroup error = %v, want ErrVersionMismatch", err)
	}
	if err := SortChain(mixed[0], mixed[1:], Euclidean); !errors.Is(err, analysis.ErrVersionMismatch) {
		t.Errorf("SortChain error = %v, want ErrVersionMismatch", err)
	}
	if _, err := GroupByAlbum(mixed[:1], mixed[1:], Euclidean); !errors.Is(err, analysis.ErrVersionMismatch) {
		t.Errorf("GroupByAlbum error = %v, want ErrVersionMismatch", err)
	}
}

func TestGroupByAlbum(t *testing.T) {
	g1 := song(t, "g1", 0)
	g1.Album = "Reference"
	g2 := song(t, "g2", 2)
	g2.Album = "Reference"
	group := []analysis.Song{g1, g2} // mean fingerprint 1

	near1 := song(t, "near1", 2)
	near1.Album, near1.TrackNumber = "Near", "2"
	near2 := song(t, "near2", 2)
	near2.Album, near2.TrackNumber = "Near", "10"
	far := song(t, "far", 9)
	far.Album = "Far"
	dupOfGroup := song(t, "g1", 0) // same path as g1, must be skipped
	dupOfGroup.Album = "Far"

	out, err := GroupByAlbum(group, []analysis.Song{far, near2, dupOfGroup, near1}, Euclidean)
	if err != nil {
		t.Fatal(err)
	}
	// Near (album mean 2, distance 1) ranks before Far (distance 8); the
	// Near tracks come back in numeric track order, 2 before 10.
	assertOrder(t, out, "g1", "g2", "near1", "near2", "far")
}

func TestGroupByAlbumEmptyGroup(t *testing.T) {
	if _, err := GroupByAlbum(nil, []analysis.Song{song(t, "a", 0)}, Euclidean); err == nil {
		t.Fatal("expected error for empty reference group")
	}
}

func TestTrackLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"2", "10", true},   // numeric, not lexical
		{"10", "2", false},
		{"a", "b", true},    // lexical fallback
		{"2", "b", true},    // mixed falls back to lexical
		{"3", "3", false},
	}
	for _, tt := range tests {
		sa := analysis.Song{TrackNumber: tt.a}
		sb := analysis.Song{TrackNumber: tt.b}
		if got := trackLess(sa, sb); got != tt.want {
			t.Errorf("trackLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
