package routing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fjellvarme/heatgrid/pkg/logging"
	"github.com/fjellvarme/heatgrid/pkg/network"
	"github.com/fjellvarme/heatgrid/pkg/parallel"
	"github.com/fjellvarme/heatgrid/pkg/pipes"
)

// Router turns shortest paths from the plant into deduplicated supply and
// return pipe sets with aggregated flows.
type Router struct {
	graph      *network.Graph
	categories pipes.Categories
	logger     logging.Logger
	// workers bounds the parallel path computations; the dedup reduction
	// is always single threaded.
	workers int
}

// NewRouter creates a router over a connected street graph
func NewRouter(graph *network.Graph, categories pipes.Categories, logger logging.Logger) *Router {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Router{
		graph:      graph,
		categories: categories,
		logger:     logger,
		workers:    1,
	}
}

// SetWorkers sets the number of goroutines used for path computation.
// Results are identical for any worker count.
func (r *Router) SetWorkers(workers int) {
	if workers < 1 {
		workers = 1
	}
	r.workers = workers
}

// Result is the routed, unsized dual-pipe topology
type Result struct {
	Supply []*pipes.Pipe
	Return []*pipes.Pipe
	// Unrouted lists buildings that stayed unreachable after connectivity
	// repair. They are excluded from the pipe sets, not fatal to the run.
	Unrouted []string
}

// Route computes the shortest path from the plant to every connection and
// merges the per-building paths into one supply and one return pipe set.
// A segment shared by several buildings appears once per direction, with
// flow equal to the sum of the flows it carries downstream.
func (r *Router) Route(plantNode int, conns []pipes.ServiceConnection) (*Result, error) {
	if _, err := r.graph.Node(plantNode); err != nil {
		return nil, fmt.Errorf("plant node: %w", err)
	}

	type pathResult struct {
		path []int
		err  error
	}
	results := make([]pathResult, len(conns))

	// Paths are independent per building; the merge below is the only
	// shared state and runs sequentially in connection order.
	parallel.ForEach(len(conns), r.workers, func(i int) {
		path, _, err := ShortestPath(r.graph, plantNode, conns[i].Node)
		results[i] = pathResult{path: path, err: err}
	})

	res := &Result{
		Supply:   make([]*pipes.Pipe, 0),
		Return:   make([]*pipes.Pipe, 0),
		Unrouted: make([]string, 0),
	}
	supplyByKey := make(map[string]*pipes.Pipe)
	returnByKey := make(map[string]*pipes.Pipe)

	for i, conn := range conns {
		if results[i].err != nil {
			if errors.Is(results[i].err, ErrNoRoute) {
				r.logger.Warn("Building unreachable from plant, excluded from design",
					logging.Component("routing"),
					logging.BuildingID(conn.BuildingID))
				res.Unrouted = append(res.Unrouted, conn.BuildingID)
				continue
			}
			return nil, fmt.Errorf("route to building %s: %w", conn.BuildingID, results[i].err)
		}

		path := results[i].path
		r.mergePath(supplyByKey, &res.Supply, path, pipes.Supply, conn)
		r.mergePath(returnByKey, &res.Return, reversed(path), pipes.Return, conn)
	}

	r.assignCategories(res.Supply)
	r.assignCategories(res.Return)

	r.logger.Info("Routing complete",
		logging.Component("routing"),
		logging.Int("supply_pipes", len(res.Supply)),
		logging.Int("return_pipes", len(res.Return)),
		logging.Int("unrouted", len(res.Unrouted)))
	return res, nil
}

// mergePath folds one building's path into the pipe set, creating segments
// for unseen edges and adding flow to shared ones.
func (r *Router) mergePath(byKey map[string]*pipes.Pipe, out *[]*pipes.Pipe, path []int, pipeType pipes.Type, conn pipes.ServiceConnection) {
	for i := 0; i+1 < len(path); i++ {
		from, to := path[i], path[i+1]
		probe := pipes.Pipe{Type: pipeType, FromNode: from, ToNode: to}
		key := probe.Key()

		if existing, ok := byKey[key]; ok {
			existing.FlowKgS += conn.FlowKgS
			existing.AddBuilding(conn.BuildingID)
			continue
		}

		length := r.edgeLength(from, to)
		p := &pipes.Pipe{
			ID:       key,
			Type:     pipeType,
			FromNode: from,
			ToNode:   to,
			LengthM:  length,
			FlowKgS:  conn.FlowKgS,
		}
		p.AddBuilding(conn.BuildingID)
		byKey[key] = p
		*out = append(*out, p)
	}
}

func (r *Router) edgeLength(a, b int) float64 {
	for _, e := range r.graph.Neighbors(a) {
		if e.Other(a) == b {
			return e.LengthM
		}
	}
	return 0
}

// assignCategories tiers the pipe set: branches serving a single building are
// services, shared trunks tier by aggregate flow.
func (r *Router) assignCategories(set []*pipes.Pipe) {
	for _, p := range set {
		if len(p.Buildings) == 1 {
			p.Category = pipes.Service
			continue
		}
		p.Category = r.categories.ForFlow(p.FlowKgS).Name
	}
}

func reversed(path []int) []int {
	out := make([]int, len(path))
	for i, n := range path {
		out[len(path)-1-i] = n
	}
	return out
}

// RootFlow sums the flow over pipes incident to the given node in a pipe
// set. For the supply set and the plant node this must equal the total
// connected building flow (flow conservation through deduplication).
func RootFlow(set []*pipes.Pipe, node int) float64 {
	total := 0.0
	for _, p := range set {
		if p.FromNode == node || p.ToNode == node {
			total += p.FlowKgS
		}
	}
	return total
}

// SortPipes orders a pipe set by ID for stable serialization
func SortPipes(set []*pipes.Pipe) {
	sort.Slice(set, func(i, j int) bool { return set[i].ID < set[j].ID })
}
