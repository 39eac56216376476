package chord

import "testing"

func TestCountChordCrossings(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		chords [][2]int
		want   int
	}{
		{"crossing", 4, [][2]int{{0, 2}, {1, 3}}, 1},
		{"reversed endpoints", 4, [][2]int{{2, 0}, {3, 1}}, 1},
		{"disjoint", 4, [][2]int{{0, 1}, {2, 3}}, 0},
		{"nested", 4, [][2]int{{0, 3}, {1, 2}}, 0},
		{"shared endpoint", 4, [][2]int{{0, 2}, {2, 3}, {0, 3}}, 0},
		{"star", 6, [][2]int{{0, 3}, {1, 4}, {2, 5}}, 3},
		{"self loop ignored", 3, [][2]int{{1, 1}, {0, 2}}, 0},
		{"empty", 0, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countChordCrossings(tt.n, tt.chords); got != tt.want {
				t.Errorf("countChordCrossings() = %d, want %d", got, tt.want)
			}
		})
	}
}
