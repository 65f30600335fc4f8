// Package hittest answers which annotation, or which selection handle, lies
// under an image-space point.
package hittest

import (
	"math"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/geom"
)

// Scale derives tolerances from the image size.
type Scale struct {
	// MinHit is the smallest hit radius in image pixels.
	MinHit float64
	// Ratio of the longer image side used as hit radius on large photos.
	Ratio float64
}

// DefaultScale keeps selection usable by touch on high resolution photos.
var DefaultScale = Scale{MinHit: 10, Ratio: 0.05}

// Tolerance holds the distances used by one editing session.
type Tolerance struct {
	Hit          float64
	Handle       float64
	RotateOffset float64
}

// NewTolerance returns DefaultScale tolerances for a w by h image.
func NewTolerance(w, h int) Tolerance {
	return DefaultScale.For(w, h)
}

// For returns tolerances for a w by h image.
func (s Scale) For(w, h int) Tolerance {
	minHit := s.MinHit
	if minHit <= 0 {
		minHit = DefaultScale.MinHit
	}
	ratio := s.Ratio
	if ratio < 0 {
		ratio = 0
	}
	hit := math.Max(minHit, ratio*float64(max(w, h)))
	return Tolerance{
		Hit:          hit,
		Handle:       hit * 1.5,
		RotateOffset: math.Max(30, hit*2),
	}
}

// IsPointInside reports whether p touches the body of o. The test runs in
// o's local frame and is deliberately generous: rectangles and circles
// select on their interior and thin strokes use a tolerance band.
func IsPointInside(p geom.Point, o annotation.Object, tol Tolerance) bool {
	if _, ok := annotation.Center(o); !ok {
		return false
	}
	lp := annotation.ToLocal(o, p)
	switch v := o.(type) {
	case *annotation.Freehand:
		for _, q := range v.Points {
			if geom.Distance(lp, q) < tol.Hit {
				return true
			}
		}
		return false
	case *annotation.Text, *annotation.Rectangle:
		return annotation.Bounds(o).Expand(tol.Hit).Contains(lp)
	case *annotation.Circle:
		d := geom.Distance(v.Start, lp)
		r := v.Radius()
		return math.Abs(d-r) < tol.Hit || d < r
	case *annotation.Arrow:
		return geom.SegmentDistance(lp, v.Start, v.End) < tol.Hit
	}
	return false
}

// HitTestHandle returns the handle of o nearest to p within the handle
// radius, or HandleNone.
func HitTestHandle(p geom.Point, o annotation.Object, tol Tolerance) annotation.Handle {
	if _, ok := annotation.Center(o); !ok {
		return annotation.HandleNone
	}
	lp := annotation.ToLocal(o, p)
	best := annotation.HandleNone
	bestDist := tol.Handle
	for _, h := range annotation.Handles(o, tol.RotateOffset) {
		if d := geom.Distance(lp, h.At); d < bestDist {
			best, bestDist = h.Handle, d
		}
	}
	return best
}

// Hit is the result of Pick.
type Hit struct {
	Object annotation.Object
	Handle annotation.Handle
}

// Pick resolves p against a scene. Handles of the selected object win over
// any body; bodies are scanned topmost first. A zero Hit means nothing was
// under p.
func Pick(p geom.Point, objects []annotation.Object, selected annotation.Object, tol Tolerance) Hit {
	if selected != nil {
		if h := HitTestHandle(p, selected, tol); h != annotation.HandleNone {
			return Hit{Object: selected, Handle: h}
		}
	}
	for i := len(objects) - 1; i >= 0; i-- {
		if IsPointInside(p, objects[i], tol) {
			return Hit{Object: objects[i]}
		}
	}
	return Hit{}
}
