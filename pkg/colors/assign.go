package colors

import (
	"cmp"
	"hash/fnv"
	"slices"
	"strconv"
)

// rehashRounds is how many salted re-hash attempts a category gets after its
// primary slot and both tier alternatives are taken.
const rehashRounds = 10

// hashString is a pure FNV-1a string hash; identical inputs produce
// identical slots on every platform and run.
func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// Assign maps each category to a palette color.
//
// Categories are processed by descending frequency so the most common ones
// get their preferred slots; ties break on ascending category name, which
// keeps the result deterministic for equal frequencies. Each category hashes
// to a slot in the 20-entry reference tier and tries that index plus its
// tier-1 and tier-2 counterparts; on collision it re-hashes with a "#round"
// salt for up to ten rounds, then takes the lowest free index. Overflow is
// returned only once all 60 entries are claimed, so exactly PaletteSize
// categories can hold distinct colors.
func Assign(counts map[string]int) map[string]string {
	order := make([]string, 0, len(counts))
	for category := range counts {
		order = append(order, category)
	}
	slices.SortFunc(order, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	assigned := make(map[string]string, len(order))
	claimed := make([]bool, PaletteSize)

	for _, category := range order {
		assigned[category] = claim(category, claimed)
	}
	return assigned
}

func claim(category string, claimed []bool) string {
	for round := 0; round <= rehashRounds; round++ {
		key := category
		if round > 0 {
			key = category + "#" + strconv.Itoa(round)
		}
		slot := int(hashString(key) % (Hues * 2))
		for tier := 0; tier < Tiers; tier++ {
			idx := slot + tier*Hues*2
			if !claimed[idx] {
				claimed[idx] = true
				return Palette[idx]
			}
		}
	}
	for idx, taken := range claimed {
		if !taken {
			claimed[idx] = true
			return Palette[idx]
		}
	}
	return Overflow
}
