package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fieldside/playvault/assets"
	"github.com/fieldside/playvault/core"
	"github.com/fieldside/playvault/media"
	"github.com/fieldside/playvault/source"
	"github.com/fieldside/playvault/source/mock"
	"github.com/fieldside/playvault/storage"
	"github.com/fieldside/playvault/storage/playsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTransferrer implements Transferrer without touching the network.
// The default behavior maps every reference to a deterministic durable
// path.
type testTransferrer struct {
	resolveFunc func(ctx context.Context, identity core.Identity, refs media.Refs) (assets.Resolved, error)
	calls       int
}

func (tf *testTransferrer) ResolveItem(ctx context.Context, identity core.Identity, refs media.Refs) (assets.Resolved, error) {
	tf.calls++
	if tf.resolveFunc != nil {
		return tf.resolveFunc(ctx, identity, refs)
	}

	var resolved assets.Resolved
	for i := range refs.Sequence {
		resolved.Sequence = append(resolved.Sequence,
			fmt.Sprintf("media/%s_angle%d.mp4", identity.String(), i+1))
	}
	if refs.Auxiliary != "" {
		resolved.Auxiliary = fmt.Sprintf("media/%s_diagram.jpg", identity.String())
	}
	return resolved, nil
}

// testObserver records callback order for assertions.
type testObserver struct {
	NoopObserver
	events []string
}

func (o *testObserver) RunStarted(runID string, family core.SourceFamily) {
	o.events = append(o.events, "run-started")
}

func (o *testObserver) ItemStarted(itemID string) {
	o.events = append(o.events, "item-started:"+itemID)
}

func (o *testObserver) ItemPersisted(itemID string, identity core.Identity) {
	o.events = append(o.events, "persisted:"+identity.String())
}

func (o *testObserver) ItemSkipped(itemID string, reason SkipReason) {
	o.events = append(o.events, "skipped:"+string(reason))
}

func (o *testObserver) ItemFailed(itemID string, err error) {
	o.events = append(o.events, "failed:"+itemID)
}

func (o *testObserver) RunFinished(summary *Summary) {
	o.events = append(o.events, "run-finished")
}

type testHarness struct {
	pipeline  *Pipeline
	store     *playsjson.Store
	storePath string
	adapter   *mock.MockAdapter
	transfers *testTransferrer
}

func setupTestPipeline(t *testing.T, opts ...Option) *testHarness {
	t.Helper()

	storePath := filepath.Join(t.TempDir(), "plays.json")
	h := &testHarness{
		store:     playsjson.NewStore(storePath),
		storePath: storePath,
		adapter:   mock.NewMockAdapter(),
		transfers: &testTransferrer{},
	}

	all := append([]Option{WithDelay(0)}, opts...)
	pipeline, err := NewPipeline(h.store, h.adapter, h.transfers, all...)
	require.NoError(t, err)
	h.pipeline = pipeline

	return h
}

func mailMarkup(title string, clips ...string) string {
	var b strings.Builder
	b.WriteString("Date: Tue, 5 Aug 2025 14:02:11 -0400\n")
	b.WriteString(`<div class="preheader">` + title + `</div>`)
	b.WriteString(`<td>Down & Distance: 2nd & 10 | Personnel: 11p | Formation: Dual Rt</td>`)
	for _, clip := range clips {
		b.WriteString(`<img src="` + clip + `">`)
	}
	return b.String()
}

func seedRecord(t *testing.T, store *playsjson.Store, identity core.Identity) {
	t.Helper()
	record := core.NewRecord(identity, "Seeded play kept from an earlier run", "2025-01-01")
	record.MediaSequence = []string{"media/seed_angle1.mp4"}
	record.Provenance = core.Provenance{Source: core.SourceMail}
	require.NoError(t, store.Save(context.Background(), []*core.Record{record}))
}

func findRecord(t *testing.T, records []*core.Record, identity string) *core.Record {
	t.Helper()
	for _, record := range records {
		if record.Identity.String() == identity {
			return record
		}
	}
	t.Fatalf("record %s not found", identity)
	return nil
}

const testTitle = "2009 Wk 3 Jets vs Patriots Counter Trey Right"

func TestPipeline_Run_MailIngestsNewPlay(t *testing.T) {
	h := setupTestPipeline(t)
	ctx := context.Background()

	markup := mailMarkup(testTitle,
		"https://cdn.example.com/sideline.gif",
		"https://cdn.example.com/endzone.gif")

	h.adapter.SearchFunc = func(ctx context.Context, query string, limit int) ([]*source.Item, error) {
		return []*source.Item{{ID: "18c2a4", Subject: "One Play a Day #737"}}, nil
	}
	h.adapter.FetchFunc = func(ctx context.Context, id string) (*source.Item, error) {
		return &source.Item{ID: id, Body: markup}, nil
	}

	summary, err := h.pipeline.Run(ctx, "label:play-queue", 25)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Accepted)
	assert.Zero(t, summary.Failed)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, core.SourceMail, summary.Family)

	records, err := h.store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, "737", record.Identity.String())
	assert.Equal(t, testTitle, record.Title)
	assert.Equal(t, "2025-08-05", record.CapturedDate)
	assert.Equal(t, "2nd & 10", record.Attributes[core.AttrDownAndDistance])
	assert.Equal(t, "11p", record.Attributes[core.AttrPersonnel])
	assert.Equal(t, "Dual Rt", record.Attributes[core.AttrFormation])
	assert.Equal(t, []string{"media/737_angle1.mp4", "media/737_angle2.mp4"}, record.MediaSequence)
	assert.Empty(t, record.AuxiliaryMedia)
	assert.Equal(t, core.SourceMail, record.Provenance.Source)
	assert.Equal(t, "18c2a4", record.Provenance.Reference)

	assert.Equal(t, []string{"18c2a4"}, h.adapter.ProcessedIDs())
}

func TestPipeline_Run_MailIdempotence(t *testing.T) {
	h := setupTestPipeline(t)
	ctx := context.Background()

	markup := mailMarkup(testTitle, "https://cdn.example.com/sideline.gif")
	h.adapter.SearchFunc = func(ctx context.Context, query string, limit int) ([]*source.Item, error) {
		return []*source.Item{{ID: "18c2a4", Subject: "One Play a Day #737"}}, nil
	}
	h.adapter.FetchFunc = func(ctx context.Context, id string) (*source.Item, error) {
		return &source.Item{ID: id, Body: markup}, nil
	}

	first, err := h.pipeline.Run(ctx, "label:play-queue", 25)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Accepted)

	afterFirst, err := os.ReadFile(h.storePath)
	require.NoError(t, err)
	transferCalls := h.transfers.calls

	second, err := h.pipeline.Run(ctx, "label:play-queue", 25)
	require.NoError(t, err)
	assert.Zero(t, second.Accepted)
	assert.Equal(t, 1, second.Duplicates)

	afterSecond, err := os.ReadFile(h.storePath)
	require.NoError(t, err)
	assert.Equal(t, afterFirst, afterSecond, "document must be byte-identical after a duplicate run")
	assert.Equal(t, transferCalls, h.transfers.calls, "duplicates must not reach the transfer pipeline")
}

func TestPipeline_Run_MailDuplicateSkipsFetch(t *testing.T) {
	h := setupTestPipeline(t)
	ctx := context.Background()
	seedRecord(t, h.store, core.NumericIdentity(737))

	fetched := false
	h.adapter.SearchFunc = func(ctx context.Context, query string, limit int) ([]*source.Item, error) {
		return []*source.Item{{ID: "18c2a4", Subject: "One Play a Day #737"}}, nil
	}
	h.adapter.FetchFunc = func(ctx context.Context, id string) (*source.Item, error) {
		fetched = true
		return &source.Item{ID: id, Body: "unused"}, nil
	}

	summary, err := h.pipeline.Run(ctx, "label:play-queue", 25)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Duplicates)
	assert.False(t, fetched, "duplicate pre-check must skip the fetch")
}

func TestPipeline_Run_MailFailures(t *testing.T) {
	t.Run("no play number in subject", func(t *testing.T) {
		h := setupTestPipeline(t)
		h.adapter.SearchFunc = func(ctx context.Context, query string, limit int) ([]*source.Item, error) {
			return []*source.Item{{ID: "a1", Subject: "Weekly schedule update"}}, nil
		}

		summary, err := h.pipeline.Run(context.Background(), "", 25)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, []string{"a1"}, h.adapter.ProcessedIDs())
	})

	t.Run("fetch error", func(t *testing.T) {
		h := setupTestPipeline(t)
		h.adapter.SearchFunc = func(ctx context.Context, query string, limit int) ([]*source.Item, error) {
			return []*source.Item{{ID: "a1", Subject: "One Play a Day #737"}}, nil
		}
		h.adapter.FetchFunc = func(ctx context.Context, id string) (*source.Item, error) {
			return nil, fmt.Errorf("%w: exit status 1", source.ErrUnavailable)
		}

		summary, err := h.pipeline.Run(context.Background(), "", 25)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
	})

	t.Run("empty body", func(t *testing.T) {
		h := setupTestPipeline(t)
		h.adapter.SearchFunc = func(ctx context.Context, query string, limit int) ([]*source.Item, error) {
			return []*source.Item{{ID: "a1", Subject: "One Play a Day #737"}}, nil
		}
		h.adapter.FetchFunc = func(ctx context.Context, id string) (*source.Item, error) {
			return &source.Item{ID: id, Body: "   "}, nil
		}

		summary, err := h.pipeline.Run(context.Background(), "", 25)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
	})
}

func TestPipeline_Run_IncompleteNeverPersisted(t *testing.T) {
	t.Run("no media in markup", func(t *testing.T) {
		h := setupTestPipeline(t)
		ctx := context.Background()

		h.adapter.SearchFunc = func(ctx context.Context, query string, limit int) ([]*source.Item, error) {
			return []*source.Item{{ID: "a1", Subject: "One Play a Day #737"}}, nil
		}
		h.adapter.FetchFunc = func(ctx context.Context, id string) (*source.Item, error) {
			return &source.Item{ID: id, Body: mailMarkup(testTitle)}, nil
		}

		summary, err := h.pipeline.Run(ctx, "", 25)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Incomplete)

		records, err := h.store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("every transfer failed", func(t *testing.T) {
		h := setupTestPipeline(t)
		ctx := context.Background()

		h.adapter.SearchFunc = func(ctx context.Context, query string, limit int) ([]*source.Item, error) {
			return []*source.Item{{ID: "a1", Subject: "One Play a Day #737"}}, nil
		}
		h.adapter.FetchFunc = func(ctx context.Context, id string) (*source.Item, error) {
			return &source.Item{ID: id, Body: mailMarkup(testTitle, "https://cdn.example.com/gone.gif")}, nil
		}
		h.transfers.resolveFunc = func(ctx context.Context, identity core.Identity, refs media.Refs) (assets.Resolved, error) {
			return assets.Resolved{}, nil
		}

		summary, err := h.pipeline.Run(ctx, "", 25)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Incomplete)

		records, err := h.store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("transfer error fails the item", func(t *testing.T) {
		h := setupTestPipeline(t)

		h.adapter.SearchFunc = func(ctx context.Context, query string, limit int) ([]*source.Item, error) {
			return []*source.Item{{ID: "a1", Subject: "One Play a Day #737"}}, nil
		}
		h.adapter.FetchFunc = func(ctx context.Context, id string) (*source.Item, error) {
			return &source.Item{ID: id, Body: mailMarkup(testTitle, "https://cdn.example.com/clip.gif")}, nil
		}
		h.transfers.resolveFunc = func(ctx context.Context, identity core.Identity, refs media.Refs) (assets.Resolved, error) {
			return assets.Resolved{}, errors.New("pool exhausted")
		}

		summary, err := h.pipeline.Run(context.Background(), "", 25)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
	})
}

func TestPipeline_Run_MaxNewCapsRun(t *testing.T) {
	h := setupTestPipeline(t, WithMaxNew(1))
	ctx := context.Background()

	h.adapter.SearchFunc = func(ctx context.Context, query string, limit int) ([]*source.Item, error) {
		return []*source.Item{
			{ID: "a1", Subject: "One Play a Day #101"},
			{ID: "a2", Subject: "One Play a Day #102"},
			{ID: "a3", Subject: "One Play a Day #103"},
		}, nil
	}
	h.adapter.FetchFunc = func(ctx context.Context, id string) (*source.Item, error) {
		return &source.Item{ID: id, Body: mailMarkup(testTitle, "https://cdn.example.com/"+id+".gif")}, nil
	}

	summary, err := h.pipeline.Run(ctx, "", 25)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Accepted)
	assert.Equal(t, 1, summary.Processed)

	records, err := h.store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestPipeline_Run_SocialFlow(t *testing.T) {
	h := setupTestPipeline(t)
	ctx := context.Background()

	h.pipeline.now = func() time.Time {
		return time.Date(2026, time.August, 21, 10, 0, 0, 0, time.UTC)
	}

	h.adapter.FamilyFunc = func() core.SourceFamily { return core.SourceSocial }
	h.adapter.SearchFunc = func(ctx context.Context, query string, limit int) ([]*source.Item, error) {
		return []*source.Item{
			{
				ID:        "1958301994872861003",
				Body:      "Film room: counter trey from the 2009 opener https://t.co/abc",
				MediaRefs: []string{"https://video.twimg.com/abc.mp4"},
				Permalink: "https://x.com/coach/status/1958301994872861003",
			},
			{
				ID:   "1958301994872861099",
				Body: "Practice schedule updated for Thursday",
			},
		}, nil
	}

	summary, err := h.pipeline.Run(ctx, "coachfilm", 40)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Accepted)
	assert.Equal(t, 1, summary.Irrelevant)
	assert.Equal(t, core.SourceSocial, summary.Family)

	records, err := h.store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := findRecord(t, records, "x-1958301994872861003")
	assert.Equal(t, "Film room: counter trey from the 2009 opener", record.Title)
	assert.Equal(t, "2026-08-21", record.CapturedDate)
	assert.Equal(t, []string{"media/x-1958301994872861003_angle1.mp4"}, record.MediaSequence)
	assert.Equal(t, core.SourceSocial, record.Provenance.Source)
	assert.Equal(t, "https://x.com/coach/status/1958301994872861003", record.Provenance.Reference)
	assert.Equal(t, "", record.Attributes[core.AttrFormation])
}

func TestPipeline_Run_SocialDuplicateAgainstLegacyIdentity(t *testing.T) {
	h := setupTestPipeline(t)
	ctx := context.Background()

	// A record stored before identities carried source prefixes.
	seedRecord(t, h.store, core.NumericIdentity(12345))

	h.adapter.FamilyFunc = func() core.SourceFamily { return core.SourceSocial }
	h.adapter.SearchFunc = func(ctx context.Context, query string, limit int) ([]*source.Item, error) {
		return []*source.Item{{
			ID:        "12345",
			Body:      "Film room: same play, new post",
			MediaRefs: []string{"https://video.twimg.com/abc.mp4"},
		}}, nil
	}

	summary, err := h.pipeline.Run(ctx, "coachfilm", 40)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Duplicates)
	assert.Zero(t, summary.Accepted)

	records, err := h.store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestPipeline_Run_ConcurrentWritersShareStore(t *testing.T) {
	h := setupTestPipeline(t)
	ctx := context.Background()

	mailItems := make([]*source.Item, 6)
	for i := range mailItems {
		mailItems[i] = &source.Item{
			ID:      fmt.Sprintf("mail-%d", 801+i),
			Subject: fmt.Sprintf("One Play a Day #%d", 801+i),
		}
	}
	h.adapter.SearchFunc = func(ctx context.Context, query string, limit int) ([]*source.Item, error) {
		return mailItems, nil
	}
	h.adapter.FetchFunc = func(ctx context.Context, id string) (*source.Item, error) {
		return &source.Item{ID: id, Body: mailMarkup("Counter read "+id, "https://cdn.example.com/a.gif")}, nil
	}

	social := mock.NewMockAdapter()
	social.FamilyFunc = func() core.SourceFamily { return core.SourceSocial }
	social.SearchFunc = func(ctx context.Context, query string, limit int) ([]*source.Item, error) {
		items := make([]*source.Item, 6)
		for i := range items {
			id := fmt.Sprintf("995000%d", i)
			items[i] = &source.Item{
				ID:        id,
				Body:      "Film room: concurrent ingest angle " + id,
				MediaRefs: []string{"https://video.twimg.com/" + id + ".mp4"},
			}
		}
		return items, nil
	}
	socialPipeline, err := NewPipeline(h.store, social, &testTransferrer{}, WithDelay(0))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	summaries := make([]*Summary, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		summaries[0], errs[0] = h.pipeline.Run(ctx, "label:play-queue", 25)
	}()
	go func() {
		defer wg.Done()
		summaries[1], errs[1] = socialPipeline.Run(ctx, "coachfilm", 25)
	}()
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 6, summaries[0].Accepted)
	assert.Equal(t, 6, summaries[1].Accepted)

	// Interleaved appends must not overwrite each other.
	records, err := h.store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 12)
}

func TestPipeline_Run_SearchErrorAborts(t *testing.T) {
	h := setupTestPipeline(t)
	h.adapter.SearchFunc = func(ctx context.Context, query string, limit int) ([]*source.Item, error) {
		return nil, fmt.Errorf("%w: exit status 1", source.ErrUnavailable)
	}

	_, err := h.pipeline.Run(context.Background(), "", 25)
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrUnavailable)
}

func TestPipeline_Run_MalformedStoreAborts(t *testing.T) {
	h := setupTestPipeline(t)
	require.NoError(t, os.WriteFile(h.storePath, []byte("{not json"), 0644))

	_, err := h.pipeline.Run(context.Background(), "", 25)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrMalformedCollection)
}

func TestPipeline_Run_CancelledBetweenItems(t *testing.T) {
	h := setupTestPipeline(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h.adapter.SearchFunc = func(ctx context.Context, query string, limit int) ([]*source.Item, error) {
		return []*source.Item{{ID: "a1", Subject: "One Play a Day #737"}}, nil
	}

	summary, err := h.pipeline.Run(ctx, "", 25)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Processed)
}

func TestPipeline_Observers(t *testing.T) {
	h := setupTestPipeline(t)
	ctx := context.Background()

	observer := &testObserver{}
	counting := &SummaryObserver{}
	h.pipeline.Attach(observer)
	h.pipeline.Attach(counting)

	h.adapter.SearchFunc = func(ctx context.Context, query string, limit int) ([]*source.Item, error) {
		return []*source.Item{{ID: "18c2a4", Subject: "One Play a Day #737"}}, nil
	}
	h.adapter.FetchFunc = func(ctx context.Context, id string) (*source.Item, error) {
		return &source.Item{ID: id, Body: mailMarkup(testTitle, "https://cdn.example.com/a.gif")}, nil
	}

	summary, err := h.pipeline.Run(ctx, "", 25)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"run-started",
		"item-started:18c2a4",
		"persisted:737",
		"run-finished",
	}, observer.events)

	counted := counting.Summary()
	assert.Equal(t, summary.RunID, counted.RunID)
	assert.Equal(t, summary.Accepted, counted.Accepted)
	assert.Equal(t, summary.Processed, counted.Processed)
}

func TestPipeline_Detach(t *testing.T) {
	h := setupTestPipeline(t)

	kept := &testObserver{}
	dropped := &testObserver{}
	h.pipeline.Attach(kept)
	h.pipeline.Attach(dropped)
	h.pipeline.Detach(dropped)

	_, err := h.pipeline.Run(context.Background(), "", 25)
	require.NoError(t, err)

	assert.NotEmpty(t, kept.events)
	assert.Empty(t, dropped.events)
}

func TestPipeline_Run_MarksProcessedRegardlessOfOutcome(t *testing.T) {
	h := setupTestPipeline(t)
	seedRecord(t, h.store, core.NumericIdentity(737))

	h.adapter.SearchFunc = func(ctx context.Context, query string, limit int) ([]*source.Item, error) {
		return []*source.Item{
			{ID: "dup", Subject: "One Play a Day #737"},
			{ID: "bad", Subject: "no number here"},
		}, nil
	}

	_, err := h.pipeline.Run(context.Background(), "", 25)
	require.NoError(t, err)

	assert.Equal(t, []string{"dup", "bad"}, h.adapter.ProcessedIDs())
}

func TestNewPipeline(t *testing.T) {
	store := playsjson.NewStore(filepath.Join(t.TempDir(), "plays.json"))
	adapter := mock.NewMockAdapter()
	transfers := &testTransferrer{}

	t.Run("valid pipeline", func(t *testing.T) {
		pipeline, err := NewPipeline(store, adapter, transfers)
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		assert.NotNil(t, pipeline.resolver)
		assert.NotNil(t, pipeline.engine)
	})

	t.Run("nil store", func(t *testing.T) {
		_, err := NewPipeline(nil, adapter, transfers)
		assert.Equal(t, ErrStoreRequired, err)
	})

	t.Run("nil adapter", func(t *testing.T) {
		_, err := NewPipeline(store, nil, transfers)
		assert.Equal(t, ErrAdapterRequired, err)
	})

	t.Run("nil transferrer", func(t *testing.T) {
		_, err := NewPipeline(store, adapter, nil)
		assert.Equal(t, ErrTransferrerRequired, err)
	})
}
