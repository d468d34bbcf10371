package casefile

import (
	"context"
	"strings"
	"time"
)

// Domain-level operations. These wrap the generic CRUD with per-entity
// defaults and validation; everything still funnels through the same
// persist-on-mutation path.

// AddEvidence inserts a new evidence record with empty enrichment fields.
// Date defaults to today when empty. Enrichment, if configured, runs in the
// background after this returns (see pkg/enrich).
func (s *Store) AddEvidence(ctx context.Context, date, description string, tags []string) (Evidence, error) {
	if strings.TrimSpace(description) == "" {
		return Evidence{}, validationErrorf("description", "cannot be empty")
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	rec := Evidence{
		Date:        date,
		Description: description,
		Entities:    Entities{Dates: []string{}, Names: []string{}, Refs: []string{}, Orgs: []string{}},
		Tags:        append([]string{}, tags...),
	}
	return Insert(ctx, s, Evidences, rec)
}

// AddActionItem inserts a new task on the worklist.
func (s *Store) AddActionItem(ctx context.Context, date, text string) (ActionItem, error) {
	if strings.TrimSpace(text) == "" {
		return ActionItem{}, validationErrorf("text", "cannot be empty")
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	return Insert(ctx, s, ActionItems, ActionItem{Date: date, Text: text})
}

// AddCharge inserts an accountability entry with status Logged. evidenceID
// of zero means no linked evidence. The impact score must be in [1,10].
func (s *Store) AddCharge(ctx context.Context, title string, evidenceID int64, impactScore int) (Charge, error) {
	if strings.TrimSpace(title) == "" {
		return Charge{}, validationErrorf("title", "cannot be empty")
	}
	if impactScore < 1 || impactScore > 10 {
		return Charge{}, validationErrorf("impactScore", "must be between 1 and 10, got %d", impactScore)
	}
	rec := Charge{
		Title:       title,
		EvidenceID:  evidenceID,
		Status:      ChargeLogged,
		ImpactScore: impactScore,
	}
	return Insert(ctx, s, Charges, rec)
}

// AddGoal inserts a goal with no arguments yet.
func (s *Store) AddGoal(ctx context.Context, title string) (Goal, error) {
	if strings.TrimSpace(title) == "" {
		return Goal{}, validationErrorf("title", "cannot be empty")
	}
	return Insert(ctx, s, Goals, Goal{Title: title, Arguments: []Argument{}})
}

// AddArgument appends an argument to a goal, with strength Unknown until
// assessed. Returns the stored argument.
func (s *Store) AddArgument(ctx context.Context, goalID int64, claim string, evidenceIDs []int64) (Argument, error) {
	if strings.TrimSpace(claim) == "" {
		return Argument{}, validationErrorf("claim", "cannot be empty")
	}

	arg := Argument{
		Claim:       claim,
		EvidenceIDs: append([]int64{}, evidenceIDs...),
		Strength:    StrengthUnknown,
	}
	s.mu.Lock()
	arg.ID = s.nextIDLocked()
	s.mu.Unlock()

	ok, err := UpdateByID(ctx, s, Goals, goalID, func(g *Goal) {
		g.Arguments = append(g.Arguments, arg)
	})
	if err != nil {
		return arg, err
	}
	if !ok {
		return Argument{}, validationErrorf("goalId", "no goal with id %d", goalID)
	}
	return arg, nil
}

// UpdateArgument applies patch to one argument of a goal. Missing goal or
// argument ids are a no-op, matching the generic update contract.
func (s *Store) UpdateArgument(ctx context.Context, goalID, argumentID int64, patch func(*Argument)) (bool, error) {
	touched := false
	ok, err := UpdateByID(ctx, s, Goals, goalID, func(g *Goal) {
		for i := range g.Arguments {
			if g.Arguments[i].ID == argumentID {
				patch(&g.Arguments[i])
				touched = true
				return
			}
		}
	})
	return ok && touched, err
}

// LinkArgumentEvidence adds an evidence reference to an argument, ignoring
// duplicates.
func (s *Store) LinkArgumentEvidence(ctx context.Context, goalID, argumentID, evidenceID int64) (bool, error) {
	return s.UpdateArgument(ctx, goalID, argumentID, func(a *Argument) {
		for _, id := range a.EvidenceIDs {
			if id == evidenceID {
				return
			}
		}
		a.EvidenceIDs = append(a.EvidenceIDs, evidenceID)
	})
}

// AddMission inserts a mission with the given step texts, all pending.
// campaignID of zero means no campaign.
func (s *Store) AddMission(ctx context.Context, title string, campaignID int64, stepTexts []string) (Mission, error) {
	if strings.TrimSpace(title) == "" {
		return Mission{}, validationErrorf("title", "cannot be empty")
	}
	steps := make([]Step, len(stepTexts))
	for i, text := range stepTexts {
		steps[i] = Step{Text: text, Status: StepPending}
	}
	rec := Mission{
		Title:      title,
		CampaignID: campaignID,
		Steps:      steps,
		Status:     MissionActive,
	}
	return Insert(ctx, s, Missions, rec)
}

// UpdateMissionStep sets the status of one step and recomputes the derived
// mission status: the mission becomes complete exactly when every step is
// complete. Returns the mission as stored.
func (s *Store) UpdateMissionStep(ctx context.Context, missionID int64, stepIndex int, status StepStatus) (Mission, error) {
	if status != StepPending && status != StepComplete {
		return Mission{}, validationErrorf("status", "unknown step status %q", status)
	}

	current, found := FindByID(s, Missions, missionID)
	if !found {
		return Mission{}, validationErrorf("missionId", "no mission with id %d", missionID)
	}
	if stepIndex < 0 || stepIndex >= len(current.Steps) {
		return Mission{}, validationErrorf("stepIndex", "mission %d has no step %d", missionID, stepIndex)
	}

	var updated Mission
	_, err := UpdateByID(ctx, s, Missions, missionID, func(m *Mission) {
		if stepIndex >= len(m.Steps) {
			return
		}
		m.Steps[stepIndex].Status = status
		m.Status = m.DeriveStatus()
		updated = m.clone()
	})
	return updated, err
}
