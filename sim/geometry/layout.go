package geometry

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// ErrInvalidTowerCount is returned when a layout is requested for zero or
// fewer towers.
var ErrInvalidTowerCount = errors.New("tower count must be positive")

// LayoutKind selects how towers are placed in the unit square.
type LayoutKind string

const (
	// LayoutGrid places towers at the cell centers of a side x side grid.
	LayoutGrid LayoutKind = "grid"
	// LayoutRandom draws towers i.i.d. uniform in [0,1)^2.
	LayoutRandom LayoutKind = "random"
)

var validLayouts = map[LayoutKind]bool{
	LayoutGrid:   true,
	LayoutRandom: true,
}

// IsValidLayout reports whether name is a recognized layout kind.
func IsValidLayout(name string) bool {
	return validLayouts[LayoutKind(name)]
}

// Layout is the resolved tower placement. Count may differ from Requested for
// grid layouts; callers must use Count (== len(Towers)) from here on.
type Layout struct {
	Kind      LayoutKind
	Towers    []Point
	Requested int
	Count     int
	Adjusted  bool
}

// BuildTowers resolves a layout of count towers. rng is only drawn from for
// LayoutRandom and may be nil for LayoutGrid.
func BuildTowers(count int, kind LayoutKind, rng *rand.Rand) (Layout, error) {
	if count <= 0 {
		return Layout{}, fmt.Errorf("%w, got %d", ErrInvalidTowerCount, count)
	}
	switch kind {
	case LayoutRandom:
		if rng == nil {
			return Layout{}, fmt.Errorf("random layout requires an rng")
		}
		towers := make([]Point, count)
		for i := range towers {
			towers[i] = Point{X: rng.Float64(), Y: rng.Float64()}
		}
		return Layout{Kind: kind, Towers: towers, Requested: count, Count: count}, nil
	case LayoutGrid:
		return gridLayout(count), nil
	default:
		return Layout{}, fmt.Errorf("unknown layout %q; valid: grid, random", kind)
	}
}

// gridLayout spreads side*side towers evenly over [0, 1-1/side] on each axis
// and shifts them by half a cell so every tower sits at its cell center.
func gridLayout(count int) Layout {
	side := int(math.Ceil(math.Sqrt(float64(count))))
	// Guard against sqrt rounding on either side of an exact square.
	for side > 1 && (side-1)*(side-1) >= count {
		side--
	}
	for side*side < count {
		side++
	}
	layout := Layout{Kind: LayoutGrid, Requested: count, Count: side * side}
	if layout.Count != count {
		layout.Adjusted = true
		logrus.Warnf("number of towers changed from %d to %d to fill a %dx%d grid", count, layout.Count, side, side)
	}

	step := 1 / float64(side)
	pad := step / 2
	layout.Towers = make([]Point, 0, layout.Count)
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			layout.Towers = append(layout.Towers, Point{X: float64(i)*step + pad, Y: float64(j)*step + pad})
		}
	}
	return layout
}
