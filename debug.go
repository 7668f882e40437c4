package birch

import (
	"fmt"
	"time"
)

// debugStats holds per-frame timing and traversal counts.
// Only populated when Scene.debug is true.
type debugStats struct {
	updateTime   time.Duration
	renderTime   time.Duration
	objectCount  int
	worldUpdates int
	maxDepth     int
}

// debugLog reports frame stats and warns about overly deep trees.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	Logger().Debug("birch: frame",
		"update", stats.updateTime,
		"render", stats.renderTime,
		"total", stats.updateTime+stats.renderTime,
		"objects", stats.objectCount,
		"worldUpdates", stats.worldUpdates,
	)
	debugCheckTreeDepth(stats.maxDepth)
}

// debugCheckDisposed panics with a descriptive message when a disposed object
// is used in a tree operation. Only called in debug mode.
func debugCheckDisposed(o *SceneObject, op string) {
	if o.disposed {
		panic(fmt.Sprintf("birch debug: %s on disposed object %q", op, o.Name))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(depth int) {
	if depth > debugMaxTreeDepth {
		Logger().Warn("birch: tree depth exceeds threshold",
			"depth", depth, "threshold", debugMaxTreeDepth)
	}
}

// debugCheckChildCount warns if an object has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(o *SceneObject) {
	if len(o.children) > debugMaxChildCount {
		Logger().Warn("birch: child count exceeds threshold",
			"object", o.Name, "children", len(o.children), "threshold", debugMaxChildCount)
	}
}
