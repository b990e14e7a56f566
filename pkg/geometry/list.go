package geometry

import (
	"fmt"

	"github.com/lumiray/lumiray/pkg/core"
)

// HittableList is a composite shape holding an ordered collection of
// shapes. Member order never affects the nearest-hit result.
type HittableList struct {
	Shapes []core.Shape
}

// NewHittableList creates a list from the given shapes
func NewHittableList(shapes ...core.Shape) *HittableList {
	return &HittableList{Shapes: shapes}
}

// Add appends shapes to the list
func (l *HittableList) Add(shapes ...core.Shape) {
	l.Shapes = append(l.Shapes, shapes...)
}

// Clear removes all shapes from the list
func (l *HittableList) Clear() {
	l.Shapes = l.Shapes[:0]
}

// Len returns the number of shapes in the list
func (l *HittableList) Len() int {
	return len(l.Shapes)
}

// Validate checks every member that can validate itself and returns
// the first failure
func (l *HittableList) Validate() error {
	for i, shape := range l.Shapes {
		v, ok := shape.(interface{ Validate() error })
		if !ok {
			continue
		}
		if err := v.Validate(); err != nil {
			return fmt.Errorf("shape %d: %v", i, err)
		}
	}
	return nil
}

// Hit tests the ray against every member and returns the closest hit.
// The upper bound shrinks to each accepted hit's t, so the result is
// the nearest surface regardless of insertion order.
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := tMax
	hitAnything := false

	for _, shape := range l.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}
