package enrich

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"casefile/pkg/casefile"
	"casefile/pkg/llm"
	"casefile/pkg/metrics"
	"casefile/pkg/trace"
)

// Notification reports an enrichment outcome to the caller's notification
// channel. The optimistically inserted record is never rolled back; a
// notification with a non-nil Err means the record stays unenriched.
type Notification struct {
	RecordID  int64
	Operation string
	Err       error
}

// Pipeline runs background enrichment against the record store. Each
// enrichment is an independent goroutine keyed by the target record's id;
// enrichments never block each other, and an enrichment that resolves after
// its record was deleted lands as a harmless no-op update.
type Pipeline struct {
	store     *casefile.Store
	client    llm.Client
	collector metrics.Collector
	exporter  trace.Exporter

	notifications chan Notification
	wg            sync.WaitGroup
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithCollector attaches a metrics collector.
func WithCollector(c metrics.Collector) PipelineOption {
	return func(p *Pipeline) { p.collector = c }
}

// WithExporter attaches a trace exporter.
func WithExporter(e trace.Exporter) PipelineOption {
	return func(p *Pipeline) { p.exporter = e }
}

// NewPipeline creates a pipeline over the store. A nil client disables
// enrichment: records are inserted with empty enrichment fields and no
// remote call is attempted, which is the graceful no-credential mode.
func NewPipeline(store *casefile.Store, client llm.Client, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		store:         store,
		client:        client,
		collector:     metrics.NewNoopCollector(),
		exporter:      trace.NewNoopExporter(),
		notifications: make(chan Notification, 16),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enabled reports whether a remote enrichment client is configured.
func (p *Pipeline) Enabled() bool {
	return p.client != nil
}

// Notifications is the channel enrichment failures (and successes) are
// reported on. Sends are non-blocking; a full channel drops the
// notification rather than stalling an enrichment goroutine.
func (p *Pipeline) Notifications() <-chan Notification {
	return p.notifications
}

// Wait blocks until all in-flight enrichments have resolved. Used by tests
// and at shutdown; normal callers never wait.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// AddEvidence optimistically inserts an evidence record and, when a client
// is configured, schedules background enrichment. The record is durable and
// visible when this returns; enrichment patches it in place later or leaves
// it untouched on failure.
func (p *Pipeline) AddEvidence(ctx context.Context, date, description string, tags []string) (casefile.Evidence, error) {
	rec, err := p.store.AddEvidence(ctx, date, description, tags)
	if err != nil {
		return rec, err
	}
	if p.client == nil {
		return rec, nil
	}

	p.wg.Add(1)
	go p.enrichEvidence(rec.ID, description, tags)
	return rec, nil
}

// AssessArgument optimistically appends an argument to a goal and, when a
// client is configured, schedules a background strength assessment. The
// argument starts at strength Unknown.
func (p *Pipeline) AssessArgument(ctx context.Context, goalID int64, claim string, evidenceIDs []int64) (casefile.Argument, error) {
	arg, err := p.store.AddArgument(ctx, goalID, claim, evidenceIDs)
	if err != nil {
		return arg, err
	}
	if p.client == nil {
		return arg, nil
	}

	p.wg.Add(1)
	go p.assessArgument(goalID, arg.ID, claim, evidenceIDs)
	return arg, nil
}

func (p *Pipeline) enrichEvidence(recordID int64, description string, userTags []string) {
	defer p.wg.Done()
	ctx := context.Background()
	start := time.Now()

	extractor := &EvidenceExtractor{
		Client:   p.client,
		Template: p.store.PromptTemplate(OpEnrichEvidence),
	}

	callStart := time.Now()
	result, err := extractor.Extract(ctx, description)
	callMs := time.Since(callStart).Milliseconds()
	p.collector.RecordStage(ctx, OpEnrichEvidence, "call", callMs)

	spans := []trace.Span{{Name: "call", DurationMs: callMs, OK: err == nil}}
	if err != nil {
		p.finish(ctx, OpEnrichEvidence, recordID, start, spans, err)
		return
	}

	mergeStart := time.Now()
	entities := result.AsEntities()
	merged := mergeTags(userTags, result.Tags.Strings())
	_, err = casefile.UpdateByID(ctx, p.store, casefile.Evidences, recordID, func(e *casefile.Evidence) {
		// Merge is additive: entity fields are filled only while empty, and
		// tags already on the record are never removed.
		if e.Entities.IsEmpty() {
			e.Entities = entities
		}
		e.Tags = mergeTags(e.Tags, merged)
	})
	mergeMs := time.Since(mergeStart).Milliseconds()
	p.collector.RecordStage(ctx, OpEnrichEvidence, "merge", mergeMs)
	spans = append(spans, trace.Span{Name: "merge", DurationMs: mergeMs, OK: err == nil})

	p.finish(ctx, OpEnrichEvidence, recordID, start, spans, err)
}

func (p *Pipeline) assessArgument(goalID, argumentID int64, claim string, evidenceIDs []int64) {
	defer p.wg.Done()
	ctx := context.Background()
	start := time.Now()

	assessor := &StrengthAssessor{
		Client:   p.client,
		Template: p.store.PromptTemplate(OpAssessArgument),
	}

	descriptions := p.evidenceDescriptions(evidenceIDs)

	callStart := time.Now()
	strength, err := assessor.Assess(ctx, claim, descriptions)
	callMs := time.Since(callStart).Milliseconds()
	p.collector.RecordStage(ctx, OpAssessArgument, "call", callMs)

	spans := []trace.Span{{Name: "call", DurationMs: callMs, OK: err == nil}}
	if err != nil {
		p.finish(ctx, OpAssessArgument, argumentID, start, spans, err)
		return
	}

	mergeStart := time.Now()
	_, err = p.store.UpdateArgument(ctx, goalID, argumentID, func(a *casefile.Argument) {
		a.Strength = strength
	})
	mergeMs := time.Since(mergeStart).Milliseconds()
	p.collector.RecordStage(ctx, OpAssessArgument, "merge", mergeMs)
	spans = append(spans, trace.Span{Name: "merge", DurationMs: mergeMs, OK: err == nil})

	p.finish(ctx, OpAssessArgument, argumentID, start, spans, err)
}

// evidenceDescriptions resolves linked evidence ids to their descriptions,
// skipping ids that no longer resolve (dangling references are filtered at
// read time, never an error).
func (p *Pipeline) evidenceDescriptions(ids []int64) []string {
	var out []string
	for _, id := range ids {
		if ev, ok := casefile.FindByID(p.store, casefile.Evidences, id); ok {
			out = append(out, ev.Description)
		}
	}
	return out
}

// finish records metrics, exports the trace, and notifies the caller.
func (p *Pipeline) finish(ctx context.Context, operation string, recordID int64, start time.Time, spans []trace.Span, err error) {
	durationMs := time.Since(start).Milliseconds()

	status := "success"
	errType := ""
	if err != nil {
		status = "error"
		errType = ClassifyError(err)
		p.collector.RecordError(ctx, operation, errType)
		log.Printf("casefile: %s for record %d failed: %v", operation, recordID, err)
	}
	p.collector.RecordOperation(ctx, operation, status, durationMs)

	rec := &trace.Record{
		Timestamp:   start,
		OperationID: uuid.New().String(),
		Operation:   operation,
		DurationMs:  durationMs,
		Status:      status,
		Spans:       spans,
		ErrorType:   errType,
		RecordID:    recordID,
	}
	if exportErr := p.exporter.Export(ctx, rec); exportErr != nil {
		log.Printf("casefile: trace export failed: %v", exportErr)
	}

	select {
	case p.notifications <- Notification{RecordID: recordID, Operation: operation, Err: err}:
	default:
	}
}

// mergeTags appends suggestions not already present, comparing
// case-insensitively so user-supplied tags win over model casing.
func mergeTags(existing, suggested []string) []string {
	out := append([]string{}, existing...)
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[strings.ToLower(t)] = true
	}
	for _, t := range suggested {
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}
