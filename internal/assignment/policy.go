package assignment

import "atelier/internal/store"

// Policy selects one worker from the available candidates. Candidates are
// never empty when Select is called. The selection algorithm is explicit and
// swappable rather than baked into the resolver.
type Policy interface {
	Select(candidates []*store.Worker) *store.Worker
}

// LeastLoaded picks the worker with the fewest in-progress entries, breaking
// ties by worker id ascending.
type LeastLoaded struct{}

// Select implements Policy.
func (LeastLoaded) Select(candidates []*store.Worker) *store.Worker {
	var best *store.Worker
	for _, candidate := range candidates {
		if best == nil {
			best = candidate
			continue
		}
		if candidate.Workload < best.Workload ||
			(candidate.Workload == best.Workload && candidate.ID < best.ID) {
			best = candidate
		}
	}
	return best
}
