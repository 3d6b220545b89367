// Package layout computes positions for newly expanded nodes. It treats every
// node as a fixed-size axis-aligned rectangle and walks candidate positions
// around the parent until one is free of overlap.
package layout

import (
	"math"
	"math/rand"

	"nodal-backend/domain/core/entities"
	"nodal-backend/domain/core/valueobjects"
)

const (
	// NodeWidth and NodeHeight approximate the rendered card size.
	NodeWidth  = 220.0
	NodeHeight = 150.0

	// BaseRadius is the preferred distance from parent to child.
	BaseRadius = 180.0
	// FallbackRadius is tried when every candidate at BaseRadius overlaps.
	FallbackRadius = 250.0
	// JitterRange bounds the random offset of the last-resort placement.
	JitterRange = 50.0
)

// candidateAngles are tried in this fixed order at each radius.
var candidateAngles = [...]float64{0, 45, 90, 135, 180, 225, 270, 315}

// PlaceNewNode returns a position for a child of parent that does not overlap
// any node in existing. The parent itself is excluded from the overlap test.
// Placement is deterministic unless both radii are exhausted, in which case a
// position at FallbackRadius plus random jitter at a random angle is returned;
// that branch is a last resort and is not guaranteed collision-free.
func PlaceNewNode(existing []entities.Node, parent *entities.Node) valueobjects.Position {
	for _, radius := range []float64{BaseRadius, FallbackRadius} {
		for _, angle := range candidateAngles {
			radians := angle * math.Pi / 180
			candidate, err := parent.Position.Translate(
				radius*math.Cos(radians),
				radius*math.Sin(radians),
			)
			if err != nil {
				continue
			}
			if !overlapsAny(candidate, existing, parent.ID) {
				return candidate
			}
		}
	}

	// Everything around the parent is occupied; scatter at a random angle.
	randomAngle := rand.Float64() * 2 * math.Pi
	distance := FallbackRadius + rand.Float64()*JitterRange
	jittered, err := parent.Position.Translate(
		distance*math.Cos(randomAngle),
		distance*math.Sin(randomAngle),
	)
	if err != nil {
		return parent.Position
	}
	return jittered
}

// overlapsAny reports whether candidate's rectangle overlaps any existing
// node's rectangle, skipping the parent.
func overlapsAny(candidate valueobjects.Position, existing []entities.Node, parentID string) bool {
	for i := range existing {
		if existing[i].ID == parentID {
			continue
		}
		if wouldOverlap(candidate, existing[i].Position) {
			return true
		}
	}
	return false
}

// wouldOverlap is the rectangle intersection test: two nodes collide when
// both axis deltas are smaller than the node dimensions.
func wouldOverlap(a, b valueobjects.Position) bool {
	dx := math.Abs(a.X() - b.X())
	dy := math.Abs(a.Y() - b.Y())
	return dx < NodeWidth && dy < NodeHeight
}
