package enrich

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casefile/pkg/casefile"
	"casefile/pkg/llm"
	"casefile/pkg/storage"
)

// mockClient returns a canned JSON response, optionally blocking on gate
// first so tests can interleave store mutations with an in-flight call.
type mockClient struct {
	response string
	err      error
	gate     chan struct{}
}

func (m *mockClient) Complete(ctx context.Context, prompt string) (string, error) {
	if m.gate != nil {
		<-m.gate
	}
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockClient) CompleteWithSchema(ctx context.Context, prompt string, schema any) error {
	response, err := m.Complete(ctx, prompt)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(llm.StripCodeFence(response)), schema)
}

func newTestPipeline(t *testing.T, client llm.Client) (*Pipeline, *casefile.Store) {
	t.Helper()
	store, err := casefile.Open(context.Background(), storage.NewMemoryBacking())
	require.NoError(t, err)
	return NewPipeline(store, client), store
}

func drainNotification(t *testing.T, p *Pipeline) Notification {
	t.Helper()
	select {
	case n := <-p.Notifications():
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("no notification received")
		return Notification{}
	}
}

func TestPipeline_EvidenceEnrichmentMergesResult(t *testing.T) {
	client := &mockClient{response: `{
		"entities": {"dates": ["2026-01-15"], "names": ["J. Doe"], "refs": ["CASE-42"], "orgs": []},
		"tags": ["phone", "Logs"]
	}`}
	p, store := newTestPipeline(t, client)

	rec, err := p.AddEvidence(context.Background(), "2026-01-15", "call log from J. Doe", []string{"logs"})
	require.NoError(t, err)
	assert.True(t, rec.Entities.IsEmpty(), "record must be inserted unenriched")

	p.Wait()

	got, ok := casefile.FindByID(store, casefile.Evidences, rec.ID)
	require.True(t, ok)
	assert.Equal(t, []string{"2026-01-15"}, got.Entities.Dates)
	assert.Equal(t, []string{"J. Doe"}, got.Entities.Names)
	assert.Equal(t, []string{"CASE-42"}, got.Entities.Refs)
	// "Logs" duplicates the user tag case-insensitively and is dropped.
	assert.Equal(t, []string{"logs", "phone"}, got.Tags)

	n := drainNotification(t, p)
	assert.Equal(t, rec.ID, n.RecordID)
	assert.Equal(t, OpEnrichEvidence, n.Operation)
	assert.NoError(t, n.Err)
}

func TestPipeline_EnrichmentFailureLeavesRecordUntouched(t *testing.T) {
	client := &mockClient{err: &llm.RemoteCallError{Operation: "openai completion", Err: context.DeadlineExceeded}}
	p, store := newTestPipeline(t, client)

	rec, err := p.AddEvidence(context.Background(), "", "meeting notes", []string{"meeting"})
	require.NoError(t, err, "insert must succeed even when enrichment will fail")

	p.Wait()

	got, ok := casefile.FindByID(store, casefile.Evidences, rec.ID)
	require.True(t, ok)
	assert.True(t, got.Entities.IsEmpty())
	assert.Equal(t, []string{"meeting"}, got.Tags)

	n := drainNotification(t, p)
	assert.Equal(t, rec.ID, n.RecordID)
	assert.Error(t, n.Err)
}

func TestPipeline_NilClientSkipsEnrichment(t *testing.T) {
	p, store := newTestPipeline(t, nil)
	assert.False(t, p.Enabled())

	rec, err := p.AddEvidence(context.Background(), "", "notes", nil)
	require.NoError(t, err)

	p.Wait()

	got, ok := casefile.FindByID(store, casefile.Evidences, rec.ID)
	require.True(t, ok)
	assert.True(t, got.Entities.IsEmpty())

	select {
	case n := <-p.Notifications():
		t.Fatalf("unexpected notification: %+v", n)
	default:
	}
}

func TestPipeline_DeleteBeforeResolveIsNoOp(t *testing.T) {
	client := &mockClient{
		response: `{"entities": {"dates": [], "names": [], "refs": [], "orgs": []}, "tags": ["late"]}`,
		gate:     make(chan struct{}),
	}
	p, store := newTestPipeline(t, client)

	rec, err := p.AddEvidence(context.Background(), "", "soon deleted", nil)
	require.NoError(t, err)

	deleted, err := casefile.DeleteByID(context.Background(), store, casefile.Evidences, rec.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	close(client.gate)
	p.Wait()

	_, ok := casefile.FindByID(store, casefile.Evidences, rec.ID)
	assert.False(t, ok, "enrichment must not resurrect a deleted record")
	assert.Empty(t, casefile.Get(store, casefile.Evidences))
}

func TestPipeline_ArgumentStrengthAssessment(t *testing.T) {
	client := &mockClient{response: `{"strength": "Strong"}`}
	p, store := newTestPipeline(t, client)
	ctx := context.Background()

	goal, err := store.AddGoal(ctx, "prove timeline")
	require.NoError(t, err)
	ev, err := store.AddEvidence(ctx, "", "timestamped photo", nil)
	require.NoError(t, err)

	arg, err := p.AssessArgument(ctx, goal.ID, "the photo fixes the date", []int64{ev.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, casefile.StrengthUnknown, arg.Strength)

	p.Wait()

	goals := casefile.Get(store, casefile.Goals)
	require.Len(t, goals, 1)
	require.Len(t, goals[0].Arguments, 1)
	assert.Equal(t, casefile.StrengthStrong, goals[0].Arguments[0].Strength)
}

func TestMergeTags(t *testing.T) {
	cases := []struct {
		existing, suggested, want []string
	}{
		{nil, []string{"a", "b"}, []string{"a", "b"}},
		{[]string{"a"}, []string{"A", "b"}, []string{"a", "b"}},
		{[]string{"a", "b"}, nil, []string{"a", "b"}},
		{[]string{"a"}, []string{"", "a", "c", "c"}, []string{"a", "c"}},
	}
	for _, tc := range cases {
		if got := mergeTags(tc.existing, tc.suggested); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("mergeTags(%v, %v) = %v, want %v", tc.existing, tc.suggested, got, tc.want)
		}
	}
}
