package geom

// Resolutions of the two coordinate systems, in units per inch.
const (
	SourceDPI  = 72
	DisplayDPI = 96
)

const scale = float64(DisplayDPI) / float64(SourceDPI)

// ToDisplayLength converts a source-space length to display pixels.
func ToDisplayLength(v float64) float64 { return v * scale }

// ToDisplayY converts a source-space y coordinate to display space,
// flipping the axis.
func ToDisplayY(v float64) float64 { return -v * scale }

// ToSourceLength is the inverse of [ToDisplayLength].
func ToSourceLength(v float64) float64 { return v / scale }

// ToSourceY is the inverse of [ToDisplayY].
func ToSourceY(v float64) float64 { return -v / scale }

// InchesToDisplay converts a length in inches (node width and height)
// to display pixels.
func InchesToDisplay(v float64) float64 { return v * DisplayDPI }

// PointsToDisplay converts a typographic size in points to display pixels.
func PointsToDisplay(v float64) float64 { return ToDisplayLength(v) }
