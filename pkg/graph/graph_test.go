package graph

import (
	"reflect"
	"testing"

	"casefile/pkg/casefile"
)

func sampleDocument() casefile.Document {
	return casefile.Document{
		Evidence: []casefile.Evidence{
			{ID: 10, Description: "call log"},
			{ID: 11, Description: "photo"},
		},
		Goals: []casefile.Goal{
			{ID: 20, Title: "prove timeline", Arguments: []casefile.Argument{
				{ID: 30, Claim: "photo fixes the date", EvidenceIDs: []int64{11}},
			}},
		},
		Charges: []casefile.Charge{
			{ID: 40, Title: "records request", EvidenceID: 10},
		},
		Missions: []casefile.Mission{
			{ID: 50, Title: "file motion", Status: casefile.MissionActive},
			{ID: 51, Title: "done already", Status: casefile.MissionComplete},
		},
	}
}

func nodeIDs(g Graph) []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

func TestProject(t *testing.T) {
	g := Project(sampleDocument())

	wantNodes := []string{
		"evidence-10", "evidence-11",
		"goal-20", "argument-30",
		"charge-40",
		"mission-50",
	}
	if got := nodeIDs(g); !reflect.DeepEqual(got, wantNodes) {
		t.Errorf("nodes = %v, want %v", got, wantNodes)
	}

	wantEdges := []Edge{
		{From: "goal-20", To: "argument-30", Relation: RelArgues},
		{From: "argument-30", To: "evidence-11", Relation: RelSupports},
		{From: "charge-40", To: "evidence-10", Relation: RelCites},
	}
	if !reflect.DeepEqual(g.Edges, wantEdges) {
		t.Errorf("edges = %v, want %v", g.Edges, wantEdges)
	}
}

// TestProject_Deterministic verifies repeated projections of the same
// snapshot are identical.
func TestProject_Deterministic(t *testing.T) {
	doc := sampleDocument()
	first := Project(doc)
	for i := 0; i < 5; i++ {
		if got := Project(doc); !reflect.DeepEqual(got, first) {
			t.Fatalf("projection %d differs: %+v vs %+v", i, got, first)
		}
	}
}

// TestProject_DanglingReferencesOmitted verifies edges pointing at deleted
// records are dropped while the source nodes remain.
func TestProject_DanglingReferencesOmitted(t *testing.T) {
	doc := casefile.Document{
		Goals: []casefile.Goal{
			{ID: 20, Title: "goal", Arguments: []casefile.Argument{
				{ID: 30, Claim: "claim", EvidenceIDs: []int64{999}},
			}},
		},
		Charges: []casefile.Charge{
			{ID: 40, Title: "charge", EvidenceID: 998},
		},
	}

	g := Project(doc)

	wantNodes := []string{"goal-20", "argument-30", "charge-40"}
	if got := nodeIDs(g); !reflect.DeepEqual(got, wantNodes) {
		t.Errorf("nodes = %v, want %v", got, wantNodes)
	}
	wantEdges := []Edge{{From: "goal-20", To: "argument-30", Relation: RelArgues}}
	if !reflect.DeepEqual(g.Edges, wantEdges) {
		t.Errorf("edges = %v, want %v", g.Edges, wantEdges)
	}
}

// TestProject_ChargeWithoutEvidence verifies an unlinked charge emits no
// cites edge.
func TestProject_ChargeWithoutEvidence(t *testing.T) {
	doc := casefile.Document{
		Charges: []casefile.Charge{{ID: 40, Title: "charge"}},
	}
	g := Project(doc)
	if len(g.Edges) != 0 {
		t.Errorf("edges = %v, want none", g.Edges)
	}
}

// TestProject_EmptyDocument verifies the zero snapshot projects to empty,
// non-nil slices so JSON output stays [] rather than null.
func TestProject_EmptyDocument(t *testing.T) {
	g := Project(casefile.Document{})
	if g.Nodes == nil || g.Edges == nil {
		t.Fatal("nodes and edges must be non-nil")
	}
	if len(g.Nodes) != 0 || len(g.Edges) != 0 {
		t.Errorf("got %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	}
}

func TestNodeID(t *testing.T) {
	if got := NodeID(KindEvidence, 7); got != "evidence-7" {
		t.Errorf("NodeID = %q", got)
	}
}
