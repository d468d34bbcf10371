package casefile

// Strength grades how well an argument is supported by its evidence.
type Strength string

// Valid argument strengths, from unassessed to strongest.
const (
	StrengthUnknown    Strength = "Unknown"
	StrengthWeak       Strength = "Weak"
	StrengthModerate   Strength = "Moderate"
	StrengthStrong     Strength = "Strong"
	StrengthVeryStrong Strength = "Very Strong"
)

// ParseStrength maps a free-form strength label to a valid Strength.
// Unrecognized labels become StrengthUnknown.
func ParseStrength(s string) Strength {
	switch Strength(s) {
	case StrengthWeak, StrengthModerate, StrengthStrong, StrengthVeryStrong:
		return Strength(s)
	default:
		return StrengthUnknown
	}
}

// ChargeStatus tracks an accountability entry through its lifecycle.
type ChargeStatus string

const (
	ChargeLogged           ChargeStatus = "Logged"
	ChargeSubmitted        ChargeStatus = "Submitted"
	ChargeResponseReceived ChargeStatus = "Response Received"
	ChargeClosed           ChargeStatus = "Closed"
)

// StepStatus is the state of a single mission step.
type StepStatus string

const (
	StepPending  StepStatus = "pending"
	StepComplete StepStatus = "complete"
)

// MissionStatus is derived from step statuses: a mission is complete exactly
// when every step is complete.
type MissionStatus string

const (
	MissionActive   MissionStatus = "active"
	MissionComplete MissionStatus = "complete"
)

// Entities holds the structured entities extracted from an evidence
// description. All fields default to empty slices on an unenriched record.
type Entities struct {
	Dates []string `json:"dates"`
	Names []string `json:"names"`
	Refs  []string `json:"refs"`
	Orgs  []string `json:"orgs"`
}

// IsEmpty reports whether no entities have been extracted yet.
func (e Entities) IsEmpty() bool {
	return len(e.Dates) == 0 && len(e.Names) == 0 && len(e.Refs) == 0 && len(e.Orgs) == 0
}

// Evidence is a single piece of case evidence. Entities and Tags are filled
// in by background enrichment; a freshly inserted record carries them empty.
type Evidence struct {
	ID          int64    `json:"id"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Entities    Entities `json:"entities"`
	Tags        []string `json:"tags"`
}

// ActionItem is a dated task on the case worklist.
type ActionItem struct {
	ID   int64  `json:"id"`
	Date string `json:"date"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Argument is one claim under a goal, supported by zero or more evidence
// records referenced by id.
type Argument struct {
	ID          int64    `json:"id"`
	Claim       string   `json:"claim"`
	EvidenceIDs []int64  `json:"evidenceIds"`
	Strength    Strength `json:"strength"`
}

// Goal is a case objective with an ordered list of supporting arguments.
type Goal struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Arguments []Argument `json:"arguments"`
}

// Charge is an accountability entry, optionally linked to one evidence
// record. EvidenceID of zero means no link.
type Charge struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	EvidenceID  int64        `json:"evidenceId,omitempty"`
	Status      ChargeStatus `json:"status"`
	ImpactScore int          `json:"impactScore"`
}

// Step is one unit of work inside a mission.
type Step struct {
	Text   string     `json:"text"`
	Status StepStatus `json:"status"`
}

// Mission is a planned effort with ordered steps. CampaignID of zero means
// the mission belongs to no campaign. Status is derived from the steps and
// recomputed on every step update.
type Mission struct {
	ID         int64         `json:"id"`
	Title      string        `json:"title"`
	CampaignID int64         `json:"campaignId,omitempty"`
	Steps      []Step        `json:"steps"`
	Status     MissionStatus `json:"status"`
}

// DeriveStatus returns the mission status implied by the current steps:
// complete exactly when every step is complete. A mission with no steps is
// active.
func (m Mission) DeriveStatus() MissionStatus {
	if len(m.Steps) == 0 {
		return MissionActive
	}
	for _, s := range m.Steps {
		if s.Status != StepComplete {
			return MissionActive
		}
	}
	return MissionComplete
}

// RecordID implementations let the generic collection operations address any
// record kind by its integer id.

func (e Evidence) RecordID() int64   { return e.ID }
func (a ActionItem) RecordID() int64 { return a.ID }
func (g Goal) RecordID() int64       { return g.ID }
func (c Charge) RecordID() int64     { return c.ID }
func (m Mission) RecordID() int64    { return m.ID }
