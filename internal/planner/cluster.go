// Package planner computes the advisory survivor assignment built once per
// grid: a k-means split of survivors among agents followed by a genetic
// ordering of each agent's share.
package planner

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"rescue_ai/internal/grid"
)

const DefaultKMeansIterations = 10

// Cluster partitions survivors among len(agents) groups by Manhattan
// proximity. The i-th result belongs to agents[i]; every agent gets an entry
// even when it is empty. Agent positions do not seed the centroids: the first
// k survivors do, and missing seeds fall back to (0,0). The loop always runs
// the full iteration count.
func Cluster(survivors, agents []grid.Cell, iterations int) [][]grid.Cell {
	k := len(agents)
	clusters := make([][]grid.Cell, k)
	if k == 0 {
		return clusters
	}
	centroids := make([]grid.Cell, k)
	copy(centroids, survivors)

	for it := 0; it < iterations; it++ {
		clusters = make([][]grid.Cell, k)
		for _, s := range survivors {
			best := 0
			for i := 1; i < k; i++ {
				if grid.Manhattan(s, centroids[i]) < grid.Manhattan(s, centroids[best]) {
					best = i
				}
			}
			clusters[best] = append(clusters[best], s)
		}
		for i, members := range clusters {
			if len(members) > 0 {
				centroids[i] = meanCell(members)
			}
		}
	}
	for i := range clusters {
		if clusters[i] == nil {
			clusters[i] = []grid.Cell{}
		}
	}
	return clusters
}

// meanCell rounds the centroid of the members half-to-even.
func meanCell(members []grid.Cell) grid.Cell {
	mp := make(orb.MultiPoint, len(members))
	for i, c := range members {
		mp[i] = orb.Point{float64(c.Row), float64(c.Col)}
	}
	center, _ := planar.CentroidArea(mp)
	return grid.Cell{
		Row: int(math.RoundToEven(center.X())),
		Col: int(math.RoundToEven(center.Y())),
	}
}
