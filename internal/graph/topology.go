package graph

import "sort"

// HubNode is a node with high connectivity
type HubNode struct {
	ID        string `json:"id"`
	Degree    int    `json:"degree"`
	InDegree  int    `json:"inDegree"`
	OutDegree int    `json:"outDegree"`
}

// DegreeBucket is one bucket in the degree histogram
type DegreeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TopologyReport contains component and degree results
type TopologyReport struct {
	NumComponents    int            `json:"numComponents"`
	ComponentSizes   []int          `json:"componentSizes"`
	LargestComponent int            `json:"largestComponent"`
	IsolatedCount    int            `json:"isolatedCount"`
	IsolatedIDs      []string       `json:"isolatedIds"`
	DegreeHistogram  []DegreeBucket `json:"degreeHistogram"`
	Hubs             []HubNode      `json:"hubs"`
}

// ComputeTopology finds connected components, isolated nodes, the degree
// distribution, and hubs with degree above hubThreshold. Id lists are capped
// at topN.
func ComputeTopology(snap *GraphSnapshot, hubThreshold, topN int) *TopologyReport {
	report := &TopologyReport{
		ComponentSizes:  []int{},
		IsolatedIDs:     []string{},
		DegreeHistogram: defaultHistogram(),
		Hubs:            []HubNode{},
	}
	if len(snap.Nodes) == 0 {
		return report
	}

	nodeIDs := snap.NodeIDs()
	uf := NewUnionFind(nodeIDs)
	for _, e := range snap.Edges {
		uf.Union(e.Source, e.Target)
	}
	report.ComponentSizes = uf.Components()
	report.NumComponents = len(report.ComponentSizes)
	report.LargestComponent = report.ComponentSizes[0]

	for _, id := range nodeIDs {
		degree := len(snap.Adj[id])
		report.DegreeHistogram[degreeBucket(degree)].Count++
		if degree == 0 {
			report.IsolatedCount++
			if len(report.IsolatedIDs) < topN {
				report.IsolatedIDs = append(report.IsolatedIDs, id)
			}
		}
		if degree > hubThreshold {
			report.Hubs = append(report.Hubs, HubNode{
				ID:        id,
				Degree:    degree,
				InDegree:  len(snap.InAdj[id]),
				OutDegree: len(snap.OutAdj[id]),
			})
		}
	}

	sort.SliceStable(report.Hubs, func(i, j int) bool { return report.Hubs[i].Degree > report.Hubs[j].Degree })
	if len(report.Hubs) > topN {
		report.Hubs = report.Hubs[:topN]
	}
	return report
}

func defaultHistogram() []DegreeBucket {
	return []DegreeBucket{
		{Label: "0"}, {Label: "1"}, {Label: "2-3"},
		{Label: "4-7"}, {Label: "8-15"}, {Label: "16+"},
	}
}

func degreeBucket(degree int) int {
	switch {
	case degree == 0:
		return 0
	case degree == 1:
		return 1
	case degree <= 3:
		return 2
	case degree <= 7:
		return 3
	case degree <= 15:
		return 4
	default:
		return 5
	}
}
