package playlist

import (
	"fmt"
	"sort"
	"strconv"

	"songprint/internal/analysis"
)

// DefaultDedupThreshold is the distance below which two adjacent songs are
// considered duplicates.
const DefaultDedupThreshold = 0.05

// commonVersion returns the single analysis version shared by every song in
// the given groups, or ErrVersionMismatch when they disagree.
func commonVersion(groups ...[]analysis.Song) (analysis.Version, error) {
	var version analysis.Version
	for _, songs := range groups {
		for _, s := range songs {
			v := s.Analysis.Version()
			if version == 0 {
				version = v
				continue
			}
			if v != version {
				return 0, fmt.Errorf("%w: %d and %d in one pool",
					analysis.ErrVersionMismatch, version, v)
			}
		}
	}
	return version, nil
}

// SortByClosestToGroup reorders pool in place, ascending by each song's
// distance to its nearest member of group.
func SortByClosestToGroup(group, pool []analysis.Song, metric Metric) error {
	if _, err := commonVersion(group, pool); err != nil {
		return err
	}
	if len(group) == 0 || len(pool) == 0 {
		return nil
	}

	keys := make([]float32, len(pool))
	for i, song := range pool {
		best := metric(song.Analysis, group[0].Analysis)
		for _, ref := range group[1:] {
			if d := metric(song.Analysis, ref.Analysis); d < best {
				best = d
			}
		}
		keys[i] = best
	}

	order := make([]int, len(pool))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return keys[order[a]] < keys[order[b]] })

	sorted := make([]analysis.Song, len(pool))
	for i, idx := range order {
		sorted[i] = pool[idx]
	}
	copy(pool, sorted)
	return nil
}

// SortChain reorders pool in place into a greedy song-to-song chain: the
// first slot gets the song nearest to seed, the second the song nearest to
// the first, and so on. Chosen songs leave the candidate set each step.
func SortChain(seed analysis.Song, pool []analysis.Song, metric Metric) error {
	if _, err := commonVersion([]analysis.Song{seed}, pool); err != nil {
		return err
	}

	current := seed
	for i := range pool {
		best := i
		bestDist := metric(current.Analysis, pool[i].Analysis)
		for j := i + 1; j < len(pool); j++ {
			if d := metric(current.Analysis, pool[j].Analysis); d < bestDist {
				best = j
				bestDist = d
			}
		}
		pool[i], pool[best] = pool[best], pool[i]
		current = pool[i]
	}
	return nil
}

// Dedup walks an ordered playlist and drops a song when it is within
// threshold of the previously retained song, or when both carry the same
// non-empty title and artist. The first song is always retained and the
// relative order of survivors is preserved.
func Dedup(songs []analysis.Song, metric Metric, threshold float32) ([]analysis.Song, error) {
	if _, err := commonVersion(songs); err != nil {
		return nil, err
	}
	if len(songs) == 0 {
		return nil, nil
	}

	out := make([]analysis.Song, 0, len(songs))
	out = append(out, songs[0])
	for _, song := range songs[1:] {
		prev := out[len(out)-1]
		if metric(prev.Analysis, song.Analysis) < threshold {
			continue
		}
		if song.Title != "" && song.Artist != "" &&
			song.Title == prev.Title && song.Artist == prev.Artist {
			continue
		}
		out = append(out, song)
	}
	return out, nil
}

// GroupByAlbum emits group followed by the pool's albums ranked by the
// distance of each album's mean fingerprint to the group's mean fingerprint.
// Pool songs already present in group (by path) are skipped, and each
// album's tracks are ordered by track number.
func GroupByAlbum(group, pool []analysis.Song, metric Metric) ([]analysis.Song, error) {
	version, err := commonVersion(group, pool)
	if err != nil {
		return nil, err
	}
	if len(group) == 0 {
		return nil, fmt.Errorf("album grouping needs a non-empty reference group")
	}

	inGroup := make(map[string]bool, len(group))
	for _, s := range group {
		inGroup[s.Path] = true
	}

	albums := make(map[string][]analysis.Song)
	var names []string
	for _, s := range pool {
		if inGroup[s.Path] {
			continue
		}
		if _, ok := albums[s.Album]; !ok {
			names = append(names, s.Album)
		}
		albums[s.Album] = append(albums[s.Album], s)
	}

	groupMean, err := meanFingerprint(group, version)
	if err != nil {
		return nil, err
	}

	rank := make(map[string]float32, len(names))
	for _, name := range names {
		mean, err := meanFingerprint(albums[name], version)
		if err != nil {
			return nil, err
		}
		rank[name] = metric(groupMean, mean)
	}
	sort.SliceStable(names, func(a, b int) bool { return rank[names[a]] < rank[names[b]] })

	out := make([]analysis.Song, 0, len(group)+len(pool))
	out = append(out, group...)
	for _, name := range names {
		tracks := albums[name]
		sort.SliceStable(tracks, func(a, b int) bool {
			return trackLess(tracks[a], tracks[b])
		})
		out = append(out, tracks...)
	}
	return out, nil
}

// trackLess orders by parsed integer track number when both sides parse,
// falling back to lexical order.
func trackLess(a, b analysis.Song) bool {
	ai, aerr := strconv.Atoi(a.TrackNumber)
	bi, berr := strconv.Atoi(b.TrackNumber)
	if aerr == nil && berr == nil && ai != bi {
		return ai < bi
	}
	return a.TrackNumber < b.TrackNumber
}

func meanFingerprint(songs []analysis.Song, version analysis.Version) (analysis.Analysis, error) {
	sums := make([]float64, version.FeatureCount())
	for _, s := range songs {
		for i := 0; i < s.Analysis.Len(); i++ {
			sums[i] += float64(s.Analysis.At(i))
		}
	}
	mean := make([]float32, len(sums))
	for i, sum := range sums {
		mean[i] = float32(sum / float64(len(songs)))
	}
	return analysis.New(mean, version)
}
