package chord

import "slices"

// CountCrossings returns the number of link pairs whose chords cross,
// using the leaf order around the circle. Links sharing an endpoint do
// not cross.
func CountCrossings(l *Layout) int {
	pos := make(map[string]int, len(l.Leaves))
	for i, n := range l.Leaves {
		pos[n.ID] = i
	}
	chords := make([][2]int, 0, len(l.Links))
	for _, k := range l.Links {
		a, okA := pos[k.Source]
		b, okB := pos[k.Target]
		if okA && okB {
			chords = append(chords, [2]int{a, b})
		}
	}
	return countChordCrossings(len(l.Leaves), chords)
}

// countChordCrossings counts crossing pairs among chords between n points
// on a circle. Chords (a1,b1) and (a2,b2) with a1 < a2 cross if and only if
//
//	a1 < a2 < b1 < b2
//
// Chords are swept by their lower endpoint while a Fenwick tree counts the
// upper endpoints already seen, giving O(E log n).
func countChordCrossings(n int, chords [][2]int) int {
	norm := make([][2]int, 0, len(chords))
	for _, c := range chords {
		a, b := min(c[0], c[1]), max(c[0], c[1])
		if a != b {
			norm = append(norm, [2]int{a, b})
		}
	}
	if len(norm) < 2 {
		return 0
	}
	slices.SortFunc(norm, func(x, y [2]int) int {
		if x[0] != y[0] {
			return x[0] - y[0]
		}
		return x[1] - y[1]
	})

	fenwick := make([]int, n+1)
	prefix := func(p int) int { // seen upper endpoints at positions <= p
		s := 0
		for q := p + 1; q > 0; q -= q & (-q) {
			s += fenwick[q]
		}
		return s
	}

	crossings := 0
	for i := 0; i < len(norm); {
		j := i
		for j < len(norm) && norm[j][0] == norm[i][0] {
			j++
		}
		// Chords sharing a lower endpoint never cross each other, so the
		// whole run is queried before any of it is inserted.
		for _, c := range norm[i:j] {
			crossings += prefix(c[1]-1) - prefix(c[0])
		}
		for _, c := range norm[i:j] {
			for q := c[1] + 1; q <= n; q += q & (-q) {
				fenwick[q]++
			}
		}
		i = j
	}
	return crossings
}
