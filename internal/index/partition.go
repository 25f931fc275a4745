package index

// Partition maps each category to the corpus positions of its chunks.
// Searchers use it to boost positions matching a detected query
// category without touching the rest of the score vector.
type Partition struct {
	byCategory map[string][]int
}

// NewPartition groups corpus positions by category; categories[i] is
// the category of the chunk at position i.
func NewPartition(categories []string) *Partition {
	p := &Partition{byCategory: make(map[string][]int)}
	for i, c := range categories {
		p.byCategory[c] = append(p.byCategory[c], i)
	}
	return p
}

// Positions returns the corpus positions assigned to category, nil if
// the category has none.
func (p *Partition) Positions(category string) []int {
	return p.byCategory[category]
}

// Categories returns the number of distinct categories present.
func (p *Partition) Categories() int {
	return len(p.byCategory)
}
