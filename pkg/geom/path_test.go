package geom

import "testing"

func TestBuildPath(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "end anchor",
			raw:  "e,30,0 0,0 10,10 20,10 30,0",
			want: "M0,0C13.33,-13.33 26.67,-13.33 40,0L40,0",
		},
		{
			name: "start anchor",
			raw:  "s,0,-3 0,0 10,10 20,10 30,0",
			want: "M0,4L0,0C13.33,-13.33 26.67,-13.33 40,0",
		},
		{
			name: "both anchors",
			raw:  "s,0,-3 e,33,0 0,0 10,10 20,10 30,0",
			want: "M0,4L0,0C13.33,-13.33 26.67,-13.33 40,0L44,0",
		},
		{
			name: "no anchors",
			raw:  "0,0 3,3 6,3 9,0 12,-3 15,-3 18,0",
			want: "M0,0C4,-4 8,-4 12,0C16,4 20,4 24,0",
		},
		{
			name: "incomplete final group",
			raw:  "0,0 3,3 6,3 9,0 12,-3",
			want: "M0,0C4,-4 8,-4 12,0",
		},
		{
			name: "line continuation",
			raw:  "e,30,0 0,0 10,10\\\n20,10 30,0",
			want: "M0,0C13.33,-13.33 26.67,-13.33 40,0L40,0",
		},
		{
			name: "only end anchor",
			raw:  "e,10,20",
			want: "M13.33,-26.67",
		},
		{
			name: "only start anchor",
			raw:  "s,3,3",
			want: "M4,-4",
		},
		{
			name: "empty",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildPath(tt.raw); got != tt.want {
				t.Errorf("BuildPath(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseSplineAnchors(t *testing.T) {
	sp := ParseSpline("e,10,20 0,0 1,1 2,2 3,3")
	if sp.End == nil {
		t.Fatal("End = nil, want anchor")
	}
	if !near(sp.End.X, 13.33) || !near(sp.End.Y, -26.67) {
		t.Errorf("End = %+v, want {13.33 -26.67}", *sp.End)
	}
	if sp.Start != nil {
		t.Errorf("Start = %+v, want nil", *sp.Start)
	}
	if len(sp.Points) != 4 {
		t.Errorf("len(Points) = %d, want 4", len(sp.Points))
	}
}

func TestSplineValid(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"0,0 1,1 2,2 3,3", true},
		{"e,1,1", true},
		{"", false},
		{"0,0 x,1 2,2 3,3", false},
		{"e,a,b 0,0", false},
	}
	for _, tt := range tests {
		if got := ParseSpline(tt.raw).Valid(); got != tt.want {
			t.Errorf("ParseSpline(%q).Valid() = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-0.001, "0"},
		{1.005, "1"},
		{13.333333, "13.33"},
		{-26.666666, "-26.67"},
		{100, "100"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
