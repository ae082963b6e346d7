package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fieldside/playvault/assets"
	"github.com/fieldside/playvault/core"
	"github.com/fieldside/playvault/extract"
	"github.com/fieldside/playvault/media"
	"github.com/fieldside/playvault/merge"
	"github.com/fieldside/playvault/source"
	"github.com/fieldside/playvault/storage"
	"github.com/google/uuid"
)

const (
	defaultDelay        = time.Second
	defaultFetchTimeout = 30 * time.Second
)

// Transferrer turns resolved media references into durable assets.
type Transferrer interface {
	ResolveItem(ctx context.Context, identity core.Identity, refs media.Refs) (assets.Resolved, error)
}

// outcome is the terminal state of one processed item.
type outcome int

const (
	outcomePersisted outcome = iota
	outcomeDuplicate
	outcomeIrrelevant
	outcomeIncomplete
	outcomeFailed
)

// Pipeline runs the ingestion loop for one source adapter: search for
// items, extract candidate records, transfer their media, and append
// accepted records to the collection.
type Pipeline struct {
	store        storage.CollectionStore
	adapter      source.Adapter
	transfers    Transferrer
	resolver     *media.Resolver
	engine       *merge.Engine
	observers    []Observer
	delay        time.Duration
	maxNew       int
	fetchTimeout time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithResolver sets a custom media resolver.
// Default is media.NewResolver() with its built-in denylist and divider.
func WithResolver(resolver *media.Resolver) Option {
	return func(p *Pipeline) error {
		if resolver != nil {
			p.resolver = resolver
		}
		return nil
	}
}

// WithDelay sets the pause between items. Zero disables the pause.
// Default is 1 second.
func WithDelay(delay time.Duration) Option {
	return func(p *Pipeline) error {
		if delay >= 0 {
			p.delay = delay
		}
		return nil
	}
}

// WithMaxNew caps the number of newly accepted records per run.
// Zero means unlimited, which is the default.
func WithMaxNew(n int) Option {
	return func(p *Pipeline) error {
		if n >= 0 {
			p.maxNew = n
		}
		return nil
	}
}

// WithFetchTimeout sets the per-item markup fetch timeout.
// Default is 30 seconds.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) error {
		if timeout > 0 {
			p.fetchTimeout = timeout
		}
		return nil
	}
}

// WithObserver attaches an observer.
func WithObserver(observer Observer) Option {
	return func(p *Pipeline) error {
		p.Attach(observer)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	store storage.CollectionStore,
	adapter source.Adapter,
	transfers Transferrer,
	opts ...Option,
) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if adapter == nil {
		return nil, ErrAdapterRequired
	}
	if transfers == nil {
		return nil, ErrTransferrerRequired
	}

	p := &Pipeline{
		store:        store,
		adapter:      adapter,
		transfers:    transfers,
		delay:        defaultDelay,
		fetchTimeout: defaultFetchTimeout,
		now:          time.Now,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			return nil, optErr
		}
	}

	// Defaults built after options are applied so they pick up the final
	// logger.
	if p.resolver == nil {
		p.resolver = media.NewResolver()
	}
	if p.engine == nil {
		p.engine = merge.NewEngine(merge.WithLogger(p.logger))
	}

	return p, nil
}

// Attach registers an observer for subsequent runs.
// Not safe to call during an active Run.
func (p *Pipeline) Attach(observer Observer) {
	if observer == nil {
		return
	}
	p.observers = append(p.observers, observer)
}

// Detach removes a previously attached observer.
func (p *Pipeline) Detach(observer Observer) {
	for i, attached := range p.observers {
		if attached == observer {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			return
		}
	}
}

// Run executes one ingestion pass over the items the adapter's search
// yields for query. The loop is single-writer and interruptible between
// items; per-item failures are counted, while store errors abort the run.
func (p *Pipeline) Run(ctx context.Context, query string, limit int) (*Summary, error) {
	runID := uuid.NewString()
	family := p.adapter.Family()
	started := time.Now()

	summary := &Summary{RunID: runID, Family: family}
	p.notifyRunStarted(runID, family)
	defer func() {
		summary.Elapsed = time.Since(started)
		p.notifyRunFinished(summary)
	}()

	records, err := p.store.Load(ctx)
	if err != nil {
		return summary, err
	}
	index := merge.NewIndex(records)

	items, err := p.adapter.Search(ctx, query, limit)
	if err != nil {
		return summary, fmt.Errorf("searching %s source: %w", family, err)
	}
	p.logger.Info("ingesting",
		"run", runID, "family", string(family),
		"items", len(items), "known", len(records))

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if p.maxNew > 0 && summary.Accepted >= p.maxNew {
			p.logger.Info("new-record cap reached", "cap", p.maxNew)
			break
		}

		p.notifyItemStarted(item.ID)
		out, err := p.processItem(ctx, index, item)
		if err != nil {
			return summary, err
		}
		summary.record(out)

		// Label workflow: the source queue moves on regardless of outcome,
		// so a bad item cannot wedge the queue.
		p.markProcessed(ctx, item.ID)

		if i < len(items)-1 {
			if err := p.pause(ctx); err != nil {
				return summary, err
			}
		}
	}

	return summary, nil
}

// processItem drives one item to a terminal state. The returned error is
// reserved for fatal store failures; per-item failures come back as
// outcomeFailed.
func (p *Pipeline) processItem(ctx context.Context, index *merge.Index, item *source.Item) (outcome, error) {
	if p.adapter.Family() == core.SourceSocial {
		return p.processSocialItem(ctx, index, item)
	}
	return p.processMailItem(ctx, index, item)
}

func (p *Pipeline) processMailItem(ctx context.Context, index *merge.Index, item *source.Item) (outcome, error) {
	number, ok := extract.PlayNumber(item.Subject)
	if !ok {
		err := fmt.Errorf("no play number in subject %q", item.Subject)
		p.notifyItemFailed(item.ID, err)
		return outcomeFailed, nil
	}
	identity := core.NumericIdentity(number)

	// Cheap duplicate check before fetching or transferring anything.
	if index.Contains(identity) {
		p.notifyItemSkipped(item.ID, SkipReasonDuplicate)
		return outcomeDuplicate, nil
	}

	markup, err := p.fetchMarkup(ctx, item.ID)
	if err != nil {
		p.notifyItemFailed(item.ID, err)
		return outcomeFailed, nil
	}

	candidate := core.NewRecord(identity,
		extractTitle(markup),
		extract.CaptureDate(extract.DateHeader(markup), p.now))
	candidate.Attributes = core.NormalizeAttributes(extract.Attributes(markup))
	candidate.Provenance = core.Provenance{Source: core.SourceMail, Reference: item.ID}

	return p.persist(ctx, index, item, candidate, p.resolver.Resolve(markup))
}

func (p *Pipeline) processSocialItem(ctx context.Context, index *merge.Index, item *source.Item) (outcome, error) {
	if !extract.LikelyPlay(item.Body) {
		p.notifyItemSkipped(item.ID, SkipReasonIrrelevant)
		return outcomeIrrelevant, nil
	}

	identity := core.ExternalIdentity("x", item.ID)
	if index.Contains(identity) {
		p.notifyItemSkipped(item.ID, SkipReasonDuplicate)
		return outcomeDuplicate, nil
	}

	candidate := core.NewRecord(identity,
		extract.SocialTitle(item.Body),
		p.now().Format(core.DateLayout))
	candidate.Provenance = core.Provenance{Source: core.SourceSocial, Reference: item.Permalink}

	// Structured refs from the source bypass markup scanning.
	refs := media.Refs{Sequence: item.MediaRefs}
	if len(refs.Sequence) == 0 {
		refs = p.resolver.Resolve(item.Body)
	}

	return p.persist(ctx, index, item, candidate, refs)
}

// persist carries a candidate through transfer, decision, and the
// incremental write. Accepted records are saved one at a time: a crash
// loses at most the in-flight item.
func (p *Pipeline) persist(ctx context.Context, index *merge.Index, item *source.Item, candidate *core.Record, refs media.Refs) (outcome, error) {
	resolved, err := p.transfers.ResolveItem(ctx, candidate.Identity, refs)
	if err != nil {
		p.notifyItemFailed(item.ID, err)
		return outcomeFailed, nil
	}
	candidate.MediaSequence = resolved.Sequence
	candidate.AuxiliaryMedia = resolved.Auxiliary

	switch p.engine.Decide(candidate, index) {
	case merge.SkipDuplicate:
		p.notifyItemSkipped(item.ID, SkipReasonDuplicate)
		return outcomeDuplicate, nil
	case merge.RejectIncomplete:
		p.notifyItemSkipped(item.ID, SkipReasonIncomplete)
		return outcomeIncomplete, nil
	}

	accepted, err := p.append(ctx, candidate)
	if err != nil {
		return outcomeFailed, err
	}
	if !accepted {
		// Another writer persisted this identity between the pre-check
		// and the write.
		p.notifyItemSkipped(item.ID, SkipReasonDuplicate)
		return outcomeDuplicate, nil
	}

	index.Add(candidate.Identity)
	p.notifyItemPersisted(item.ID, candidate.Identity)
	return outcomePersisted, nil
}

// append reloads the collection, re-decides against the fresh index, and
// saves with the candidate included. The reload keeps the decision
// correct under interleaved writers; the in-memory index is only a
// pre-check.
func (p *Pipeline) append(ctx context.Context, candidate *core.Record) (bool, error) {
	if locker, ok := p.store.(storage.CollectionLocker); ok {
		locker.Lock()
		defer locker.Unlock()
	}

	records, err := p.store.Load(ctx)
	if err != nil {
		return false, err
	}
	if p.engine.Decide(candidate, merge.NewIndex(records)) != merge.Accept {
		return false, nil
	}
	if err := p.store.Save(ctx, append(records, candidate)); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Pipeline) fetchMarkup(ctx context.Context, id string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	item, err := p.adapter.Fetch(ctx, id)
	if err != nil {
		return "", err
	}
	if item == nil || strings.TrimSpace(item.Body) == "" {
		return "", fmt.Errorf("%w: empty body for item %s", source.ErrUnavailable, id)
	}
	return item.Body, nil
}

func (p *Pipeline) markProcessed(ctx context.Context, id string) {
	marker, ok := p.adapter.(source.ProcessedMarker)
	if !ok {
		return
	}
	if err := marker.MarkProcessed(ctx, id); err != nil {
		p.logger.Warn("marking item processed", "item", id, "err", err)
	}
}

func (p *Pipeline) pause(ctx context.Context) error {
	if p.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(p.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func extractTitle(markup string) string {
	if title, ok := extract.Title(markup); ok {
		return title
	}
	return extract.FallbackTitle
}

func (s *Summary) record(out outcome) {
	s.Processed++
	switch out {
	case outcomePersisted:
		s.Accepted++
	case outcomeDuplicate:
		s.Duplicates++
	case outcomeIrrelevant:
		s.Irrelevant++
	case outcomeIncomplete:
		s.Incomplete++
	case outcomeFailed:
		s.Failed++
	}
}

func (p *Pipeline) notifyRunStarted(runID string, family core.SourceFamily) {
	for _, observer := range p.observers {
		observer.RunStarted(runID, family)
	}
}

func (p *Pipeline) notifyItemStarted(itemID string) {
	for _, observer := range p.observers {
		observer.ItemStarted(itemID)
	}
}

func (p *Pipeline) notifyItemPersisted(itemID string, identity core.Identity) {
	for _, observer := range p.observers {
		observer.ItemPersisted(itemID, identity)
	}
}

func (p *Pipeline) notifyItemSkipped(itemID string, reason SkipReason) {
	for _, observer := range p.observers {
		observer.ItemSkipped(itemID, reason)
	}
}

func (p *Pipeline) notifyItemFailed(itemID string, err error) {
	for _, observer := range p.observers {
		observer.ItemFailed(itemID, err)
	}
}

func (p *Pipeline) notifyRunFinished(summary *Summary) {
	for _, observer := range p.observers {
		observer.RunFinished(summary)
	}
}
