package graph

// Visited is the shared set of record identifiers already expanded during
// one migration run. It guarantees each record is fetched and expanded at
// most once and terminates traversal of cyclic reference chains. One Visited
// set is threaded through the whole recursive expansion of a run; it is not
// safe for concurrent use.
type Visited map[string]struct{}

// NewVisited creates an empty visited set.
func NewVisited() Visited {
	return make(Visited)
}

// Seen reports whether the identifier has already been visited.
func (v Visited) Seen(id string) bool {
	_, ok := v[id]
	return ok
}

// Mark records an identifier as visited. Marking happens before recursing
// into a record's edges so that cycles terminate.
func (v Visited) Mark(id string) {
	v[id] = struct{}{}
}

// Len returns the number of visited identifiers.
func (v Visited) Len() int {
	return len(v)
}
