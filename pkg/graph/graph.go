// Package graph derives a node/edge dependency view over the casefile
// collections. The projection is recomputed from a store snapshot on every
// call and holds no state.
package graph

import (
	"fmt"

	"casefile/pkg/casefile"
)

// Node kinds emitted by the projector.
const (
	KindEvidence = "evidence"
	KindGoal     = "goal"
	KindArgument = "argument"
	KindCharge   = "charge"
	KindMission  = "mission"
)

// Relation labels on edges.
const (
	RelArgues   = "argues"   // goal -> argument
	RelSupports = "supports" // argument -> evidence
	RelCites    = "cites"    // charge -> evidence
)

// Node is one derived graph node. ID is "{kind}-{recordId}" so numeric ids
// from different collections never collide.
type Node struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

// Edge connects two nodes by their synthesized ids.
type Edge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"relation"`
}

// Graph is the projected node/edge view.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeID synthesizes the graph id for a record.
func NodeID(kind string, recordID int64) string {
	return fmt.Sprintf("%s-%d", kind, recordID)
}

// Project builds the graph for a document snapshot. It is pure and
// deterministic: the same snapshot always yields the same graph, in the
// same order. Edges whose endpoint was not emitted (a dangling reference to
// a deleted record) are omitted, never emitted into a missing node.
func Project(doc casefile.Document) Graph {
	g := Graph{Nodes: []Node{}, Edges: []Edge{}}
	present := make(map[string]bool)

	emit := func(kind string, id int64, label string) string {
		nodeID := NodeID(kind, id)
		g.Nodes = append(g.Nodes, Node{ID: nodeID, Kind: kind, Label: label})
		present[nodeID] = true
		return nodeID
	}

	for _, e := range doc.Evidence {
		emit(KindEvidence, e.ID, e.Description)
	}
	for _, goal := range doc.Goals {
		emit(KindGoal, goal.ID, goal.Title)
		for _, arg := range goal.Arguments {
			emit(KindArgument, arg.ID, arg.Claim)
		}
	}
	for _, c := range doc.Charges {
		emit(KindCharge, c.ID, c.Title)
	}
	// Only active missions participate in dependency analysis.
	for _, m := range doc.Missions {
		if m.Status != casefile.MissionComplete {
			emit(KindMission, m.ID, m.Title)
		}
	}

	addEdge := func(from, to, relation string) {
		if present[from] && present[to] {
			g.Edges = append(g.Edges, Edge{From: from, To: to, Relation: relation})
		}
	}

	for _, goal := range doc.Goals {
		goalID := NodeID(KindGoal, goal.ID)
		for _, arg := range goal.Arguments {
			argID := NodeID(KindArgument, arg.ID)
			addEdge(goalID, argID, RelArgues)
			for _, evID := range arg.EvidenceIDs {
				addEdge(argID, NodeID(KindEvidence, evID), RelSupports)
			}
		}
	}
	for _, c := range doc.Charges {
		if c.EvidenceID != 0 {
			addEdge(NodeID(KindCharge, c.ID), NodeID(KindEvidence, c.EvidenceID), RelCites)
		}
	}

	return g
}
