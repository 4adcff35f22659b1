package sedeval

import (
	"math"
)

// collarEpsilon is the slack, in seconds, applied when comparing a time
// difference against a collar, so that 2.6-2.5 (0.10000000000000009) fits a
// 0.1 collar.
const collarEpsilon = 1e-9

// matchRule decides whether an estimated event may match a reference event
// and which of two candidates is preferred.
type matchRule struct {
	collar         float64
	offsetPct      float64
	evaluateOnset  bool
	evaluateOffset bool
}

func newMatchRule(cfg config) matchRule {
	return matchRule{
		collar:         cfg.collar,
		offsetPct:      cfg.offsetPct,
		evaluateOnset:  cfg.evaluateOnset,
		evaluateOffset: cfg.evaluateOffset,
	}
}

// offsetCollar returns the offset tolerance for reference event r.
func (m matchRule) offsetCollar(r Event) float64 {
	return math.Max(m.collar, m.offsetPct*r.Duration())
}

// feasible reports whether e lies within the collar of r. Labels are not
// compared.
func (m matchRule) feasible(r, e Event) bool {
	if m.evaluateOnset && math.Abs(e.Onset-r.Onset) > m.collar+collarEpsilon {
		return false
	}
	if m.evaluateOffset && math.Abs(e.Offset-r.Offset) > m.offsetCollar(r)+collarEpsilon {
		return false
	}
	return true
}

// prefer reports whether candidate a is strictly preferred over b for
// reference r: smaller onset distance, then smaller offset distance, then
// earlier onset. Distances within collarEpsilon count as equal.
func (m matchRule) prefer(r, a, b Event) bool {
	if c := compareDistance(math.Abs(a.Onset-r.Onset), math.Abs(b.Onset-r.Onset)); c != 0 {
		return c < 0
	}
	if c := compareDistance(math.Abs(a.Offset-r.Offset), math.Abs(b.Offset-r.Offset)); c != 0 {
		return c < 0
	}
	return a.Onset < b.Onset
}

func compareDistance(a, b float64) int {
	switch {
	case a < b-collarEpsilon:
		return -1
	case a > b+collarEpsilon:
		return 1
	default:
		return 0
	}
}

// candidates returns the indices of ests feasible for r, most preferred
// first. Equal candidates keep their order in ests.
func (m matchRule) candidates(r Event, ests []Event) []int {
	var out []int
	for j, e := range ests {
		if !m.feasible(r, e) {
			continue
		}
		// insertion keeps the order stable for equal preference
		k := len(out)
		out = append(out, j)
		for k > 0 && m.prefer(r, ests[j], ests[out[k-1]]) {
			out[k] = out[k-1]
			k--
		}
		out[k] = j
	}
	return out
}

// greedyMatch visits refs in order and assigns each the most preferred
// unmatched candidate. The result maps reference index to estimate index,
// or -1 for an unmatched reference.
func greedyMatch(m matchRule, refs, ests []Event) []int {
	assigned := make([]int, len(refs))
	used := make([]bool, len(ests))
	for i, r := range refs {
		assigned[i] = -1
		best := -1
		for j, e := range ests {
			if used[j] || !m.feasible(r, e) {
				continue
			}
			if best < 0 || m.prefer(r, e, ests[best]) {
				best = j
			}
		}
		if best >= 0 {
			used[best] = true
			assigned[i] = best
		}
	}
	return assigned
}

// optimalMatch returns a maximum-cardinality one-to-one assignment over the
// feasible pairs. It starts from the greedy assignment and grows it along
// augmenting paths, trying unmatched references in order and candidates in
// preference order. When greedy is already maximal the two agree.
func optimalMatch(m matchRule, refs, ests []Event) []int {
	adj := make([][]int, len(refs))
	for i, r := range refs {
		adj[i] = m.candidates(r, ests)
	}

	assigned := greedyMatch(m, refs, ests)
	owner := make([]int, len(ests))
	for j := range owner {
		owner[j] = -1
	}
	for i, j := range assigned {
		if j >= 0 {
			owner[j] = i
		}
	}

	var augment func(i int, visited []bool) bool
	augment = func(i int, visited []bool) bool {
		for _, j := range adj[i] {
			if visited[j] {
				continue
			}
			visited[j] = true
			if owner[j] < 0 || augment(owner[j], visited) {
				owner[j] = i
				assigned[i] = j
				return true
			}
		}
		return false
	}

	for i := range refs {
		if assigned[i] < 0 {
			augment(i, make([]bool, len(ests)))
		}
	}
	return assigned
}

// checkAssignment panics if an estimate is assigned to two references.
func checkAssignment(assigned []int, nest int) {
	seen := make([]bool, nest)
	for _, j := range assigned {
		if j < 0 {
			continue
		}
		if j >= nest || seen[j] {
			panic("sedeval: estimate assigned twice in event matching")
		}
		seen[j] = true
	}
}
