package search

import "sort"

// FilterParetoOptimal applies a 2-D skyline pass: group candidates by
// (city, visited) — for goal states this is a single group —
// sort by (cost, time) ascending, and keep only those whose time strictly
// decreases as cost increases. This is O(n log n) and replaces an O(n²)
// pairwise dominance scan.
func FilterParetoOptimal(arena *Arena, solutions []Solution) []Solution {
	groups := make(map[frontierKey][]Solution)
	for _, s := range solutions {
		l := arena.Get(s.LabelIndex)
		key := frontierKey{l.City, l.Visited}
		groups[key] = append(groups[key], s)
	}

	var out []Solution
	for _, group := range groups {
		out = append(out, skyline(group)...)
	}
	return out
}

func skyline(group []Solution) []Solution {
	sort.Slice(group, func(i, j int) bool {
		if group[i].Cost != group[j].Cost {
			return group[i].Cost < group[j].Cost
		}
		return group[i].Time < group[j].Time
	})

	var kept []Solution
	bestTime := int64(-1)
	first := true
	for _, s := range group {
		if first || s.Time < bestTime {
			kept = append(kept, s)
			bestTime = s.Time
			first = false
		}
	}
	return kept
}
