package colors

import "math"

// ForDepth buckets a node depth into the sequential depth palette, dark at
// the root and light toward the leaves. maxDepth <= 0 yields the first
// entry.
func ForDepth(depth, maxDepth int) string {
	n := len(depthPalette)
	if maxDepth <= 0 {
		return depthPalette[0]
	}
	bucket := int(math.Floor(float64(depth) / float64(maxDepth) * float64(n)))
	return depthPalette[clamp(bucket, 0, n-1)]
}

// ForActivity buckets a commit count into the activity palette. Bucket 0 is
// reserved for exactly zero activity. Counts are log-scaled against the
// tree-wide maximum so a handful of very active files don't crush the
// visible range for everything else.
func ForActivity(count, maxCount int) string {
	n := len(activityPalette)
	if count <= 0 {
		return activityPalette[0]
	}
	if maxCount <= 1 {
		return activityPalette[1]
	}
	normalized := math.Log(float64(count)) / math.Log(float64(maxCount))
	bucket := 1 + int(math.Floor(normalized*float64(n-2)))
	return activityPalette[clamp(bucket, 1, n-2)]
}

// ForContributors buckets a raw contributor count directly, with no
// tree-wide normalization: zero contributors is the reserved cold bucket
// and each additional contributor steps one bucket hotter until the ramp
// saturates.
func ForContributors(count int) string {
	n := len(activityPalette)
	if count <= 0 {
		return activityPalette[0]
	}
	return activityPalette[clamp(count, 1, n-2)]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
