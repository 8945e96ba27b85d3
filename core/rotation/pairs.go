package rotation

// pairTable counts visits per (deacon, household) in a dense matrix.
type pairTable struct {
	households int
	counts     []int
}

func newPairTable(deacons, households int) *pairTable {
	return &pairTable{households: households, counts: make([]int, deacons*households)}
}

func (p *pairTable) get(d, h int) int { return p.counts[d*p.households+h] }

func (p *pairTable) inc(d, h int) { p.counts[d*p.households+h]++ }
