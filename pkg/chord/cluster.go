package chord

import "math"

// Radius returns the leaf circle radius for n leaves in g groups with
// markers of the given size: the circumference must hold every marker
// plus half a marker of gap per group, with a floor of two markers.
func Radius(n, g int, leafSize float64) float64 {
	circumference := float64(n)*leafSize + float64(g)*leafSize/2
	return 1.2 * math.Max(circumference/(2*math.Pi), 2*leafSize)
}

// LabelRadius returns the radius of the group label ring.
func LabelRadius(radius, leafSize float64) float64 {
	return radius + 1.5*leafSize
}

// separation is the cluster spacing between adjacent leaves.
func separation(a, b *HierarchyNode) float64 {
	if a.parent == b.parent {
		return 1
	}
	return 1.5
}

// place assigns angles over [0, 360) and radii by depth. Leaves are laid
// out left to right with [separation] between neighbours; an internal node
// sits at the mean of its children and one level above the deepest.
func place(root *HierarchyNode, radius float64) {
	var previous *HierarchyNode
	x := 0.0
	root.eachAfter(func(n *HierarchyNode) {
		if len(n.Children) > 0 {
			sum, depth := 0.0, 0.0
			for _, c := range n.Children {
				sum += c.x
				depth = math.Max(depth, c.y)
			}
			n.x = sum / float64(len(n.Children))
			n.y = depth + 1
			return
		}
		if previous != nil {
			x += separation(n, previous)
		}
		n.x, n.y = x, 0
		previous = n
	})

	left, right := root, root
	for len(left.Children) > 0 {
		left = left.Children[0]
	}
	for len(right.Children) > 0 {
		right = right.Children[len(right.Children)-1]
	}
	x0 := left.x - separation(left, right)/2
	x1 := right.x + separation(right, left)/2

	root.eachAfter(func(n *HierarchyNode) {
		n.Angle = (n.x - x0) / (x1 - x0) * 360
		if root.y > 0 {
			n.Radius = (1 - n.y/root.y) * radius
		} else {
			n.Radius = radius
		}
		n.X, n.Y = Polar(n.Angle, n.Radius)
	})
}

// Polar converts an angle in degrees (0 at twelve o'clock, clockwise) and
// a radius to display coordinates relative to the center.
func Polar(angle, radius float64) (x, y float64) {
	rad := (angle - 90) / 180 * math.Pi
	return radius * math.Cos(rad), radius * math.Sin(rad)
}
