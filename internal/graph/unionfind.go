package graph

import "sort"

// UnionFind groups node ids into connected components using path halving
// and union by size.
type UnionFind struct {
	parent map[string]string
	size   map[string]int
}

// NewUnionFind creates a UnionFind where each id is its own component
func NewUnionFind(ids []string) *UnionFind {
	uf := &UnionFind{
		parent: make(map[string]string, len(ids)),
		size:   make(map[string]int, len(ids)),
	}
	for _, id := range ids {
		uf.parent[id] = id
		uf.size[id] = 1
	}
	return uf
}

// Find returns the representative of id's component. Unknown ids are their
// own representative.
func (uf *UnionFind) Find(id string) string {
	if _, ok := uf.parent[id]; !ok {
		return id
	}
	for uf.parent[id] != id {
		uf.parent[id] = uf.parent[uf.parent[id]]
		id = uf.parent[id]
	}
	return id
}

// Union merges the components of a and b. Returns true if they were separate.
func (uf *UnionFind) Union(a, b string) bool {
	ra, rb := uf.Find(a), uf.Find(b)
	if ra == rb {
		return false
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
	return true
}

// Components returns the size of every component, largest first.
func (uf *UnionFind) Components() []int {
	sizes := make(map[string]int)
	for id := range uf.parent {
		sizes[uf.Find(id)]++
	}
	out := make([]int, 0, len(sizes))
	for _, n := range sizes {
		out = append(out, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
