package content

// Retrieval is everything retrieved for one query: one group per retriever.
type Retrieval struct {
	Query  Query
	Groups [][]Content
}

// IsEmpty reports whether no group holds any content.
func (r Retrieval) IsEmpty() bool {
	for _, g := range r.Groups {
		if len(g) > 0 {
			return false
		}
	}
	return true
}

// Size returns the total number of content items across groups.
func (r Retrieval) Size() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g)
	}
	return n
}

// Request is the input of one aggregation call, in the order queries were issued.
type Request []Retrieval

// NonEmpty returns the retrievals that carry at least one content item.
func (r Request) NonEmpty() []Retrieval {
	out := make([]Retrieval, 0, len(r))
	for _, ret := range r {
		if !ret.IsEmpty() {
			out = append(out, ret)
		}
	}
	return out
}
