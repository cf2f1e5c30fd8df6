// Package geometry provides the minimal enclosing circle computation used to
// estimate arena boundaries from pooled tracking coordinates.
package geometry

import (
	"errors"
	"math"
	"math/rand"
)

// epsilon is the relative tolerance used for containment checks. Points within
// r*(1+epsilon) of the center count as enclosed.
const epsilon = 1e-10

// ErrNoPoints is returned when a circle is requested for an empty point set.
var ErrNoPoints = errors.New("geometry: no points provided")

// Point is a 2D coordinate in pixel units as recorded by tracking software.
type Point struct {
	X float64
	Y float64
}

// Circle is a center and radius. The zero value is a degenerate point circle
// at the origin.
type Circle struct {
	X float64
	Y float64
	R float64
}

// Contains reports whether p lies on or inside the circle, within the
// relative numerical tolerance.
func (c Circle) Contains(p Point) bool {
	dx := p.X - c.X
	dy := p.Y - c.Y
	return math.Hypot(dx, dy) <= c.R*(1+epsilon)
}

// EnclosingCircle computes the minimum-radius circle containing every point.
// A single point yields a zero-radius circle at that point. An empty input
// returns ErrNoPoints.
//
// The algorithm is Welzl's incremental construction: process points in random
// order, maintaining the minimal circle of the prefix; a point outside the
// current circle must lie on the boundary of the new circle, so the prefix is
// re-solved constrained to pass through it, recursing into two-point and
// three-point boundary cases. Expected linear time for randomized order.
func EnclosingCircle(points []Point) (Circle, error) {
	if len(points) == 0 {
		return Circle{}, ErrNoPoints
	}

	// Shuffle a copy so the expected-linear bound holds regardless of input
	// order. A fixed seed keeps results reproducible across runs.
	shuffled := make([]Point, len(points))
	copy(shuffled, points)
	rng := rand.New(rand.NewSource(1))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var c Circle
	valid := false
	for i, p := range shuffled {
		if !valid || !c.Contains(p) {
			c = circleWithOnePoint(shuffled[:i+1], p)
			valid = true
		}
	}
	return c, nil
}

// circleWithOnePoint returns the minimal circle enclosing points with p known
// to lie on its boundary.
func circleWithOnePoint(points []Point, p Point) Circle {
	c := Circle{X: p.X, Y: p.Y, R: 0}
	for i, q := range points {
		if c.Contains(q) {
			continue
		}
		if c.R == 0 {
			c = diameterCircle(p, q)
		} else {
			c = circleWithTwoPoints(points[:i+1], p, q)
		}
	}
	return c
}

// circleWithTwoPoints returns the minimal circle enclosing points with p and q
// both on its boundary.
func circleWithTwoPoints(points []Point, p, q Point) Circle {
	circ := diameterCircle(p, q)
	var left, right Circle
	hasLeft, hasRight := false, false

	// Points outside the diameter circle force a circumcircle through p, q
	// and that point; track the extreme candidates on each side of pq.
	px, py := q.X-p.X, q.Y-p.Y
	for _, r := range points {
		if circ.Contains(r) {
			continue
		}
		cross := crossProduct(px, py, r.X-p.X, r.Y-p.Y)
		c, ok := circumcircle(p, q, r)
		if !ok {
			continue
		}
		d := crossProduct(px, py, c.X-p.X, c.Y-p.Y)
		switch {
		case cross > 0 && (!hasLeft || d > crossProduct(px, py, left.X-p.X, left.Y-p.Y)):
			left = c
			hasLeft = true
		case cross < 0 && (!hasRight || d < crossProduct(px, py, right.X-p.X, right.Y-p.Y)):
			right = c
			hasRight = true
		}
	}

	switch {
	case !hasLeft && !hasRight:
		return circ
	case !hasLeft:
		return right
	case !hasRight:
		return left
	case left.R <= right.R:
		return left
	default:
		return right
	}
}

// diameterCircle returns the circle with segment ab as diameter. The radius is
// taken as the larger of the two center-to-endpoint distances so both
// endpoints are enclosed despite rounding.
func diameterCircle(a, b Point) Circle {
	cx := (a.X + b.X) / 2
	cy := (a.Y + b.Y) / 2
	ra := math.Hypot(a.X-cx, a.Y-cy)
	rb := math.Hypot(b.X-cx, b.Y-cy)
	return Circle{X: cx, Y: cy, R: math.Max(ra, rb)}
}

// circumcircle returns the circle through the three points. ok is false when
// the points are collinear (zero determinant), in which case no finite
// circumcircle exists and the caller falls back to diameter circles.
func circumcircle(a, b, c Point) (Circle, bool) {
	// Translate toward the midpoint of the bounding box for numerical
	// stability before solving the perpendicular-bisector intersection.
	ox := (math.Min(math.Min(a.X, b.X), c.X) + math.Max(math.Max(a.X, b.X), c.X)) / 2
	oy := (math.Min(math.Min(a.Y, b.Y), c.Y) + math.Max(math.Max(a.Y, b.Y), c.Y)) / 2
	ax, ay := a.X-ox, a.Y-oy
	bx, by := b.X-ox, b.Y-oy
	cx, cy := c.X-ox, c.Y-oy

	d := (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by)) * 2
	if d == 0 {
		return Circle{}, false
	}
	x := ((ax*ax+ay*ay)*(by-cy) + (bx*bx+by*by)*(cy-ay) + (cx*cx+cy*cy)*(ay-by)) / d
	y := ((ax*ax+ay*ay)*(cx-bx) + (bx*bx+by*by)*(ax-cx) + (cx*cx+cy*cy)*(bx-ax)) / d

	center := Point{X: x + ox, Y: y + oy}
	ra := math.Hypot(center.X-a.X, center.Y-a.Y)
	rb := math.Hypot(center.X-b.X, center.Y-b.Y)
	rc := math.Hypot(center.X-c.X, center.Y-c.Y)
	return Circle{X: center.X, Y: center.Y, R: math.Max(ra, math.Max(rb, rc))}, true
}

// crossProduct returns the z-component of (x0,y0) x (x1,y1).
func crossProduct(x0, y0, x1, y1 float64) float64 {
	return x0*y1 - x1*y0
}
