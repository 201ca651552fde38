// Package sim generates synthetic mobile-user traces over a network of
// fixed towers and aggregates them into per-cycle occupancy counts.
//
// # Pipeline
//
// Generate runs four stages, each consuming the previous stage's output:
//   - geometry: resolve the tower layout (grid or random) and precompute the
//     pairwise distance matrix
//   - kernel: turn distances into a row-stochastic transition matrix
//   - traces: walk every user cycle by cycle (uniform cold start, one kernel
//     transition, then inertial steps biased along the last move)
//   - trace.Aggregate: count users per tower per cycle
//
// GenerateMobility replaces the kernel and walk with a mobility model from
// sim/mobility whose continuous positions are snapped to their nearest tower.
//
// # Reproducibility
//
// All randomness flows from Config.Seed through PartitionedRNG. Each user
// owns an independent stream, so results are identical for any worker count.
//
// # Sub-packages
//   - sim/geometry/: tower layout, distances, nearest tower, inertial predictor
//   - sim/kernel/: distance weighting, softmax rows, row sampling
//   - sim/mobility/: random walk, random waypoint, random direction, stochastic walk
//   - sim/trace/: trace matrix, occupancy aggregation, summary statistics
package sim
