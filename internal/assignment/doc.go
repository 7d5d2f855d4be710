// Package assignment decides whether an order entering a department gets a
// worker immediately or waits in the department queue.
//
// Worker selection is a swappable Policy; the default picks the worker with
// the lowest current workload, breaking ties by worker id ascending so
// outcomes are deterministic. The resolver is invoked by the orchestrator at
// every point an order needs a worker: first entry, manual move, cascade, and
// queue drain.
package assignment
