// Package rotation assigns deacons to households over a multi-week horizon.
//
// A run goes through three steps:
//   - CheckFeasibility rejects rotas that are too dense or too large and flags
//     rotas where deacons would visit very rarely.
//   - When every household shares one frequency, GeneratePattern builds a
//     cycle table in which no deacon is used twice per cycle. Otherwise the
//     per-household visit weeks are merged into a timeline and AssignTimeline
//     picks a deacon for each entry.
//   - Analyze reports workload balance and household coverage of the result.
//
// Both assignment strategies are greedy and deterministic: the same
// configuration always yields the same ordered visit sequence. Scores are
// driven by the Weights policy.
package rotation
