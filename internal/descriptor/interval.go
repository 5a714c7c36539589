package descriptor

import "math"

// intervalScale sharpens the chroma distribution before template matching.
const intervalScale = 15.0

// intervalTemplates are 12-length binary pitch-class patterns: the six
// interval-class dyads followed by the major, minor, diminished and
// augmented triads. Each lists the pitch classes whose exponent is 1.
var intervalTemplates = [][]int{
	{0, 1}, // minor second / major seventh
	{0, 2}, // major second / minor seventh
	{0, 3}, // minor third / major sixth
	{0, 4}, // major third / minor sixth
	{0, 5}, // perfect fourth / perfect fifth
	{0, 6}, // tritone
	{0, 4, 7}, // major triad
	{0, 3, 7}, // minor triad
	{0, 3, 6}, // diminished triad
	{0, 4, 8}, // augmented triad
}

// numDyadTemplates is the count of two-note templates at the head of
// intervalTemplates.
const numDyadTemplates = 6

// intervalFeatures projects a chroma matrix (indexed [pitch class][frame])
// onto the interval templates. The chroma distribution is exponentiated and
// column-normalized, then for each template the products of the selected
// rows are summed over all 12 circular rotations and averaged over time.
// With extended set, three derived scalars follow: the L2 norm of the dyad
// features, the L2 norm of the triad features, and their ratio.
func intervalFeatures(chroma [][]float64, extended bool) []float64 {
	numFrames := 0
	if len(chroma) > 0 {
		numFrames = len(chroma[0])
	}

	features := make([]float64, len(intervalTemplates))
	if numFrames == 0 {
		if extended {
			features = append(features, 0, 0, 0)
		}
		return features
	}

	// Sharpen and L1-normalize each time column.
	boosted := make([][]float64, len(chroma))
	for c := range chroma {
		boosted[c] = make([]float64, numFrames)
		for t, v := range chroma[c] {
			boosted[c][t] = math.Exp(intervalScale * v)
		}
	}
	for t := 0; t < numFrames; t++ {
		var sum float64
		for c := range boosted {
			sum += boosted[c][t]
		}
		if sum < math.SmallestNonzeroFloat64 {
			sum = 1
		}
		for c := range boosted {
			boosted[c][t] /= sum
		}
	}

	for k, template := range intervalTemplates {
		var acc float64
		for t := 0; t < numFrames; t++ {
			for rotation := 0; rotation < NumChroma; rotation++ {
				product := 1.0
				for _, pc := range template {
					product *= boosted[(pc+rotation)%NumChroma][t]
				}
				acc += product
			}
		}
		features[k] = acc / float64(numFrames)
	}

	if extended {
		var dyadSq, triadSq float64
		for k, f := range features {
			if k < numDyadTemplates {
				dyadSq += f * f
			} else {
				triadSq += f * f
			}
		}
		dyadNorm := math.Sqrt(dyadSq)
		triadNorm := math.Sqrt(triadSq)
		ratio := 0.0
		if triadNorm > 0 {
			ratio = dyadNorm / triadNorm
		}
		features = append(features, dyadNorm, triadNorm, ratio)
	}
	return features
}
