package casefile

import "encoding/json"

// Collection key constants. These are also the JSON keys of the persisted
// document, so they must not change without a migration.
const (
	KeyEvidence    = "evidence"
	KeyActionItems = "actionItems"
	KeyMissions    = "missions"
	KeyGoals       = "goals"
	KeyCharges     = "charges"
)

// requiredImportKeys are the top-level keys an imported document must carry
// to be accepted.
var requiredImportKeys = []string{KeyEvidence, KeyMissions}

// Document is the root of the persisted state: all named record collections
// plus the scalar settings. It is the sole unit of durability; the whole
// document is rewritten on every mutation.
type Document struct {
	Evidence    []Evidence   `json:"evidence"`
	ActionItems []ActionItem `json:"actionItems"`
	Missions    []Mission    `json:"missions"`
	Goals       []Goal       `json:"goals"`
	Charges     []Charge     `json:"charges"`

	Theme           string            `json:"theme"`
	APIKey          string            `json:"apiKey"`
	PromptTemplates map[string]string `json:"promptTemplates,omitempty"`
}

// NewDocument returns an empty document with all collections initialized so
// the persisted JSON always carries every collection key.
func NewDocument() Document {
	return Document{
		Evidence:    []Evidence{},
		ActionItems: []ActionItem{},
		Missions:    []Mission{},
		Goals:       []Goal{},
		Charges:     []Charge{},
		Theme:       "dark",
	}
}

// Clone returns a deep copy of the document. Snapshots handed to callers are
// clones so no external component ever holds a mutable reference into the
// store.
func (d Document) Clone() Document {
	out := d

	out.Evidence = make([]Evidence, len(d.Evidence))
	for i, e := range d.Evidence {
		out.Evidence[i] = e.clone()
	}
	out.ActionItems = append([]ActionItem(nil), d.ActionItems...)
	if out.ActionItems == nil {
		out.ActionItems = []ActionItem{}
	}
	out.Missions = make([]Mission, len(d.Missions))
	for i, m := range d.Missions {
		out.Missions[i] = m.clone()
	}
	out.Goals = make([]Goal, len(d.Goals))
	for i, g := range d.Goals {
		out.Goals[i] = g.clone()
	}
	out.Charges = append([]Charge(nil), d.Charges...)
	if out.Charges == nil {
		out.Charges = []Charge{}
	}
	if d.PromptTemplates != nil {
		out.PromptTemplates = make(map[string]string, len(d.PromptTemplates))
		for k, v := range d.PromptTemplates {
			out.PromptTemplates[k] = v
		}
	}
	return out
}

func (e Evidence) clone() Evidence {
	e.Entities.Dates = append([]string(nil), e.Entities.Dates...)
	e.Entities.Names = append([]string(nil), e.Entities.Names...)
	e.Entities.Refs = append([]string(nil), e.Entities.Refs...)
	e.Entities.Orgs = append([]string(nil), e.Entities.Orgs...)
	e.Tags = append([]string(nil), e.Tags...)
	return e
}

func (g Goal) clone() Goal {
	args := make([]Argument, len(g.Arguments))
	for i, a := range g.Arguments {
		a.EvidenceIDs = append([]int64(nil), a.EvidenceIDs...)
		args[i] = a
	}
	g.Arguments = args
	return g
}

func (m Mission) clone() Mission {
	m.Steps = append([]Step(nil), m.Steps...)
	return m
}

// maxID returns the largest record id present anywhere in the document.
// Used to seed the id generator after a load or import.
func (d Document) maxID() int64 {
	var max int64
	bump := func(id int64) {
		if id > max {
			max = id
		}
	}
	for _, e := range d.Evidence {
		bump(e.ID)
	}
	for _, a := range d.ActionItems {
		bump(a.ID)
	}
	for _, m := range d.Missions {
		bump(m.ID)
	}
	for _, g := range d.Goals {
		bump(g.ID)
		for _, arg := range g.Arguments {
			bump(arg.ID)
		}
	}
	for _, c := range d.Charges {
		bump(c.ID)
	}
	return max
}

// marshal serializes the document for persistence. Indented so the on-disk
// file stays diffable and export files stay human-readable.
func (d Document) marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
