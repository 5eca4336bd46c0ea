package routegraph

import (
	"container/heap"
	"math"

	"github.com/passbi/transitguide/internal/model"
	"github.com/sirupsen/logrus"
)

// pqItem is one entry of the Dijkstra open set, shaped after
// internal/routing/astar.go's searchPath/PriorityQueue in the teacher: a
// vertex id, its best known distance, and a heap index for container/heap's
// fix-up bookkeeping. There is no heuristic field — spec.md forbids
// alternative shortest-path criteria, so this is plain Dijkstra, not A*.
type pqItem struct {
	vertex int
	dist   float64
	index  int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }

// Less ties weight to the vertex id so that two equal-weight candidates
// pop in a fixed order across runs over identical input (DESIGN.md Open
// Question 1).
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].vertex < pq[j].vertex
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// singleSourceResult holds, for a single source vertex, the best distance
// and the edge used to reach every other vertex (for path reconstruction).
type singleSourceResult struct {
	dist    []float64
	viaEdge []int // edge id used to reach vertex v on the shortest path, or -1
	from    []int // predecessor vertex, or -1
}

const infinite = math.MaxFloat64

// dijkstra runs single-source Dijkstra from src over g, relaxing each
// vertex's outgoing edges in edge-id (append) order — the deterministic
// tie-break from DESIGN.md Open Question 1.
func dijkstra(g *Graph, src int) singleSourceResult {
	n := len(g.adjacency)
	res := singleSourceResult{
		dist:    make([]float64, n),
		viaEdge: make([]int, n),
		from:    make([]int, n),
	}
	for i := range res.dist {
		res.dist[i] = infinite
		res.viaEdge[i] = -1
		res.from[i] = -1
	}
	res.dist[src] = 0

	pq := priorityQueue{{vertex: src, dist: 0}}
	heap.Init(&pq)

	visited := make([]bool, n)
	for pq.Len() > 0 {
		cur := heap.Pop(&pq).(*pqItem)
		if visited[cur.vertex] {
			continue
		}
		visited[cur.vertex] = true

		for _, e := range g.adjacency[cur.vertex] {
			nd := cur.dist + e.weight
			if nd < res.dist[e.to] {
				res.dist[e.to] = nd
				res.viaEdge[e.to] = e.activityID
				res.from[e.to] = cur.vertex
				heap.Push(&pq, &pqItem{vertex: e.to, dist: nd})
			}
		}
	}
	return res
}

// BuildAllPairsCache runs Dijkstra from every stop's "in" vertex and
// records, for every reachable "in" destination vertex, the compact route
// cache entry spec.md §4.3 describes. route_id is dense and assigned in
// (source, destination) enumeration order, matching the deterministic
// tie-break above so rebuilding from identical input reproduces identical
// ids (spec.md §8 "Round-trips").
func BuildAllPairsCache(cat *model.Catalog, g *Graph, log *logrus.Entry) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	routeID := 0
	reachable := 0
	total := len(cat.StopOrder) * len(cat.StopOrder)

	for _, fromName := range cat.StopOrder {
		fromIdx := cat.StopIndex(fromName)
		res := dijkstra(g, cat.VertexIn(fromIdx))

		for _, toName := range cat.StopOrder {
			toIdx := cat.StopIndex(toName)
			dst := cat.VertexIn(toIdx)
			if res.dist[dst] == infinite {
				continue
			}

			edges := reconstructEdgeIDs(res, cat.VertexIn(fromIdx), dst)
			cat.Routes[model.StopPair{From: fromName, To: toName}] = model.RouteCacheEntry{
				RouteID:       routeID,
				TotalWeight:   res.dist[dst],
				ExpandedEdges: edges,
			}
			routeID++
			reachable++
		}
	}

	log.WithFields(logrus.Fields{"reachable_pairs": reachable, "total_pairs": total}).Info("routegraph: all-pairs cache computed")
}

// reconstructEdgeIDs walks the predecessor chain from dst back to src and
// returns the traversed edge ids in forward order.
func reconstructEdgeIDs(res singleSourceResult, src, dst int) []int {
	if src == dst {
		return nil
	}
	var reversed []int
	v := dst
	for v != src {
		reversed = append(reversed, res.viaEdge[v])
		v = res.from[v]
	}
	out := make([]int, len(reversed))
	for i, e := range reversed {
		out[len(reversed)-1-i] = e
	}
	return out
}
