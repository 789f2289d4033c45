package tree

// Aggregate sums leafValue over every leaf under n. A childless n counts as
// its own single leaf. A nil root aggregates to 0.
func Aggregate(n *Node, leafValue func(*Node) int) int {
	if n == nil {
		return 0
	}
	if n.IsLeaf() {
		return leafValue(n)
	}
	total := 0
	for _, c := range n.Children {
		total += Aggregate(c, leafValue)
	}
	return total
}

// FindMax returns the maximum of getValue over every node under n, leaves
// and containers alike. Depth restarts at 0 at n regardless of where n sits
// in a larger tree, so recomputing on a drilled-down subtree yields depth
// values local to that view. A nil root yields 0.
func FindMax(n *Node, getValue func(n *Node, depth int) int) int {
	if n == nil {
		return 0
	}
	return findMax(n, 0, getValue)
}

func findMax(n *Node, depth int, getValue func(n *Node, depth int) int) int {
	max := getValue(n, depth)
	for _, c := range n.Children {
		if v := findMax(c, depth+1, getValue); v > max {
			max = v
		}
	}
	return max
}

// CountLeafValues tallies getKey over leaves only. Empty keys are skipped
// entirely: they are neither counted nor present in the result. A nil root
// yields an empty map.
func CountLeafValues(n *Node, getKey func(*Node) string) map[string]int {
	counts := make(map[string]int)
	countLeaves(n, getKey, counts)
	return counts
}

func countLeaves(n *Node, getKey func(*Node) string, counts map[string]int) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		if key := getKey(n); key != "" {
			counts[key]++
		}
		return
	}
	for _, c := range n.Children {
		countLeaves(c, getKey, counts)
	}
}

// FindByPath returns the first node (pre-order) whose Path equals target,
// or nil when the root is nil or nothing matches.
func FindByPath(root *Node, target string) *Node {
	if root == nil {
		return nil
	}
	if root.Path == target {
		return root
	}
	for _, c := range root.Children {
		if found := FindByPath(c, target); found != nil {
			return found
		}
	}
	return nil
}
