/*package cats matches astronomical catalogs against one another by sky
position.*/
package cats

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/phil-mansfield/toolbox/astro"
)

// Match is the result of matching a set of coordinates against a catalog.
type Match struct {
	// Mask[i] is true if the i-th input coordinate has a catalog counterpart
	// closer than the maximum separation.
	Mask []bool
	// Idx holds the catalog index of each masked coordinate's counterpart,
	// in input order. len(Idx) is the number of true elements of Mask.
	Idx []int
	// Sep holds the separation of each counterpart in Idx, in the units
	// passed to MatchCoordinates.
	Sep []float64
}

// Len returns the number of matched coordinates.
func (m *Match) Len() int { return len(m.Idx) }

// MatchCoordinates finds the nearest catalog entry to every coordinate in
// match and keeps those which are strictly closer than maxSep, measured in
// units of u.
func MatchCoordinates(
	match, cat []astro.SkyCoord, maxSep float64, u astro.Unit,
) *Match {
	m := &Match{Mask: make([]bool, len(match))}
	if len(cat) == 0 {
		return m
	}

	tree := newSkyTree(cat)
	for i := range match {
		j := tree.nearest(match[i])
		if j < 0 {
			continue
		}
		sep := astro.AngSep(
			match[i].RA, match[i].Dec, cat[j].RA, cat[j].Dec, u,
		)
		if sep < maxSep {
			m.Mask[i] = true
			m.Idx = append(m.Idx, j)
			m.Sep = append(m.Sep, sep)
		}
	}
	return m
}

// Positioned is a catalog row with a position on the sky.
type Positioned interface {
	Position() astro.SkyCoord
}

// Crossmatch matches two tables by position. It returns the rows of t1 which
// have a counterpart in t2 within maxSep, the counterparts themselves, and
// their separations in units of u. All three slices have the same length and
// the i-th elements of m1 and m2 refer to the same object.
func Crossmatch[T1, T2 Positioned](
	t1 []T1, t2 []T2, maxSep float64, u astro.Unit,
) (m1 []T1, m2 []T2, sep []float64) {
	c1 := make([]astro.SkyCoord, len(t1))
	for i := range t1 {
		c1[i] = t1[i].Position()
	}
	c2 := make([]astro.SkyCoord, len(t2))
	for i := range t2 {
		c2[i] = t2[i].Position()
	}

	m := MatchCoordinates(c1, c2, maxSep, u)
	m1 = make([]T1, 0, m.Len())
	m2 = make([]T2, 0, m.Len())
	for i := range t1 {
		if m.Mask[i] {
			m1 = append(m1, t1[i])
		}
	}
	for _, j := range m.Idx {
		m2 = append(m2, t2[j])
	}
	return m1, m2, m.Sep
}

///////////////////////
// k-d Tree Plumbing //
///////////////////////

// skyPoint is a catalog position embedded on the unit sphere. Euclidean
// distance between two such points increases monotonically with their
// angular separation, so nearest neighbors in 3D are nearest on the sky.
type skyPoint struct {
	x   [3]float64
	idx int
}

func (p skyPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.x[d] - c.(skyPoint).x[d]
}

func (p skyPoint) Dims() int { return 3 }

func (p skyPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(skyPoint)
	dx, dy, dz := p.x[0]-q.x[0], p.x[1]-q.x[1], p.x[2]-q.x[2]
	return dx*dx + dy*dy + dz*dz
}

type skyPoints []skyPoint

func (p skyPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p skyPoints) Len() int                      { return len(p) }
func (p skyPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p skyPoints) Pivot(d kdtree.Dim) int {
	return skyPlane{skyPoints: p, dim: d}.pivot()
}

// skyPlane sorts points along a single dimension.
type skyPlane struct {
	skyPoints
	dim kdtree.Dim
}

func (p skyPlane) Less(i, j int) bool {
	return p.skyPoints[i].x[p.dim] < p.skyPoints[j].x[p.dim]
}
func (p skyPlane) Swap(i, j int) {
	p.skyPoints[i], p.skyPoints[j] = p.skyPoints[j], p.skyPoints[i]
}
func (p skyPlane) Slice(start, end int) kdtree.SortSlicer {
	p.skyPoints = p.skyPoints[start:end]
	return p
}
func (p skyPlane) pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

type skyTree struct {
	tree *kdtree.Tree
}

func newSkyTree(cat []astro.SkyCoord) *skyTree {
	pts := make(skyPoints, len(cat))
	for i := range cat {
		pts[i] = skyPoint{x: cat[i].Vector(), idx: i}
	}
	return &skyTree{tree: kdtree.New(pts, false)}
}

// nearest returns the catalog index of the point closest to c.
func (t *skyTree) nearest(c astro.SkyCoord) int {
	q, dist := t.tree.Nearest(skyPoint{x: c.Vector(), idx: -1})
	if q == nil || math.IsInf(dist, 1) {
		return -1
	}
	return q.(skyPoint).idx
}
