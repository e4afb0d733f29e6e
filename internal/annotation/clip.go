package annotation

import (
	"sort"

	"github.com/RandomVariable1470/suryaverify/internal/geo"
)

// rect is an axis-aligned rectangle in local plane meters.
type rect struct {
	xMin, yMin, xMax, yMax float64
}

func (r rect) area() float64 {
	if r.xMax <= r.xMin || r.yMax <= r.yMin {
		return 0
	}
	return (r.xMax - r.xMin) * (r.yMax - r.yMin)
}

func boundingRect(pts []geo.PlanePoint) rect {
	r := rect{xMin: pts[0].X, yMin: pts[0].Y, xMax: pts[0].X, yMax: pts[0].Y}
	for _, p := range pts[1:] {
		if p.X < r.xMin {
			r.xMin = p.X
		}
		if p.X > r.xMax {
			r.xMax = p.X
		}
		if p.Y < r.yMin {
			r.yMin = p.Y
		}
		if p.Y > r.yMax {
			r.yMax = p.Y
		}
	}
	return r
}

// disjointCells decomposes the union of rectangles into non-overlapping
// cells via a vertical sweep, so overlap area can be summed per cell
// without double counting where detections overlap each other.
func disjointCells(rects []rect) []rect {
	if len(rects) == 0 {
		return nil
	}

	xs := make([]float64, 0, len(rects)*2)
	for _, r := range rects {
		xs = append(xs, r.xMin, r.xMax)
	}
	sort.Float64s(xs)
	xs = dedupe(xs)

	var cells []rect
	for i := 0; i+1 < len(xs); i++ {
		x0, x1 := xs[i], xs[i+1]
		if x1 <= x0 {
			continue
		}

		// y intervals of rects covering this slab, merged.
		var spans [][2]float64
		for _, r := range rects {
			if r.xMin <= x0 && r.xMax >= x1 {
				spans = append(spans, [2]float64{r.yMin, r.yMax})
			}
		}
		if len(spans) == 0 {
			continue
		}
		sort.Slice(spans, func(a, b int) bool { return spans[a][0] < spans[b][0] })

		cur := spans[0]
		for _, s := range spans[1:] {
			if s[0] <= cur[1] {
				if s[1] > cur[1] {
					cur[1] = s[1]
				}
				continue
			}
			cells = append(cells, rect{x0, cur[0], x1, cur[1]})
			cur = s
		}
		cells = append(cells, rect{x0, cur[0], x1, cur[1]})
	}
	return cells
}

func dedupe(sorted []float64) []float64 {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// clipToRect clips a simple polygon against an axis-aligned rectangle
// using Sutherland-Hodgman and returns the clipped polygon's area.
func clipAreaInRect(poly []geo.PlanePoint, r rect) float64 {
	clipped := poly
	clipped = clipHalfPlane(clipped, func(p geo.PlanePoint) bool { return p.X >= r.xMin },
		func(a, b geo.PlanePoint) geo.PlanePoint { return intersectX(a, b, r.xMin) })
	clipped = clipHalfPlane(clipped, func(p geo.PlanePoint) bool { return p.X <= r.xMax },
		func(a, b geo.PlanePoint) geo.PlanePoint { return intersectX(a, b, r.xMax) })
	clipped = clipHalfPlane(clipped, func(p geo.PlanePoint) bool { return p.Y >= r.yMin },
		func(a, b geo.PlanePoint) geo.PlanePoint { return intersectY(a, b, r.yMin) })
	clipped = clipHalfPlane(clipped, func(p geo.PlanePoint) bool { return p.Y <= r.yMax },
		func(a, b geo.PlanePoint) geo.PlanePoint { return intersectY(a, b, r.yMax) })
	return polygonArea(clipped)
}

func clipHalfPlane(poly []geo.PlanePoint, inside func(geo.PlanePoint) bool, cross func(a, b geo.PlanePoint) geo.PlanePoint) []geo.PlanePoint {
	if len(poly) == 0 {
		return nil
	}
	out := make([]geo.PlanePoint, 0, len(poly)+2)
	prev := poly[len(poly)-1]
	prevIn := inside(prev)
	for _, cur := range poly {
		curIn := inside(cur)
		switch {
		case curIn && prevIn:
			out = append(out, cur)
		case curIn && !prevIn:
			out = append(out, cross(prev, cur), cur)
		case !curIn && prevIn:
			out = append(out, cross(prev, cur))
		}
		prev, prevIn = cur, curIn
	}
	return out
}

func intersectX(a, b geo.PlanePoint, x float64) geo.PlanePoint {
	t := (x - a.X) / (b.X - a.X)
	return geo.PlanePoint{X: x, Y: a.Y + t*(b.Y-a.Y)}
}

func intersectY(a, b geo.PlanePoint, y float64) geo.PlanePoint {
	t := (y - a.Y) / (b.Y - a.Y)
	return geo.PlanePoint{X: a.X + t*(b.X-a.X), Y: y}
}

// polygonArea is the unsigned shoelace area of a plane polygon.
func polygonArea(pts []geo.PlanePoint) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}
