package chord

import (
	"testing"

	"github.com/matzehuels/stemma/pkg/geom"
)

func TestBundlePath(t *testing.T) {
	tests := []struct {
		name string
		pts  []geom.Point
		beta float64
		want string
	}{
		{
			name: "straight",
			pts:  []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}},
			beta: 1,
			want: "M0,0L1.67,0C3.33,0 6.67,0 10,0C13.33,0 16.67,0 18.33,0L20,0",
		},
		{
			name: "half tension",
			pts:  []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 20, Y: 0}},
			beta: 0.5,
			want: "M0,0L1.67,0.83C3.33,1.67 6.67,3.33 10,3.33C13.33,3.33 16.67,1.67 18.33,0.83L20,0",
		},
		{
			name: "two points",
			pts:  []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 5}},
			beta: 0.5,
			want: "M0,0L5,5",
		},
		{
			name: "single point",
			pts:  []geom.Point{{X: 1, Y: 1}},
			beta: 0.5,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BundlePath(tt.pts, tt.beta); got != tt.want {
				t.Errorf("BundlePath() = %q, want %q", got, tt.want)
			}
		})
	}
}
