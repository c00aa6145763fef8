package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisor/pkg/models"
)

type stubBuilder struct {
	text  string
	err   error
	calls int
}

func (b *stubBuilder) Build(_ context.Context, _, _ string, _ []string, _ string) (string, error) {
	b.calls++
	return b.text, b.err
}

const builderText = `Options below.

### Strategy 1: Alpha
First option.
Scores (0-10): Cost=2; Risk=2; Time=2; Effect=2; Optimality=4

### Strategy 2: Beta
Second option.
Scores (0-10): Cost=5; Risk=5; Time=5; Effect=5; Optimality=9`

func readySession(st *Store) *Session {
	sess := st.Create()
	sess.CommitRetrieval(models.RetrievalResult{Answer: "retrieved"})
	sess.CommitWebsearch(models.WebsearchResult{RawPayload: `{"summary":"web"}`})
	sess.CommitForecast(models.ForecastResult{Answer: "forecast"})
	return sess
}

func Test_FinalStrategy_triggersOnceUpstreamReady(t *testing.T) {
	builder := &stubBuilder{text: builderText}
	st := NewStore(builder)
	sess := readySession(st)

	final := st.FinalStrategy(context.Background(), sess)

	require.NotNil(t, final)
	assert.Equal(t, 1, builder.calls)
	require.Len(t, final.Ranked, 2)
	// Beta outranks Alpha on optimality
	assert.Equal(t, 2, final.Ranked[0].EmissionIndex)
	assert.Equal(t, 1, final.Ranked[0].Rank)
}

func Test_FinalStrategy_notBeforeAllUpstreamReady(t *testing.T) {
	builder := &stubBuilder{text: builderText}
	st := NewStore(builder)
	sess := st.Create()
	sess.CommitRetrieval(models.RetrievalResult{Answer: "retrieved"})
	sess.CommitWebsearch(models.WebsearchResult{})

	assert.Nil(t, st.FinalStrategy(context.Background(), sess))
	assert.Equal(t, 0, builder.calls)

	sess.CommitForecast(models.ForecastResult{Answer: "forecast"})
	assert.NotNil(t, st.FinalStrategy(context.Background(), sess))
	assert.Equal(t, 1, builder.calls)
}

func Test_FinalStrategy_neverRecomputed(t *testing.T) {
	builder := &stubBuilder{text: builderText}
	st := NewStore(builder)
	sess := readySession(st)

	first := st.FinalStrategy(context.Background(), sess)
	require.NotNil(t, first)

	// superseding an upstream slot does not invalidate the final slot
	sess.CommitForecast(models.ForecastResult{Answer: "revised"})
	second := st.FinalStrategy(context.Background(), sess)

	assert.Same(t, first, second)
	assert.Equal(t, 1, builder.calls)
}

func Test_FinalStrategy_failureWritesSentinel(t *testing.T) {
	builder := &stubBuilder{err: errors.New("gateway exploded")}
	st := NewStore(builder)
	sess := readySession(st)

	assert.Nil(t, st.FinalStrategy(context.Background(), sess))
	assert.True(t, sess.Unavailable(models.AgentStrategist))

	// the sentinel suppresses retries until a fresh action clears it
	assert.Nil(t, st.FinalStrategy(context.Background(), sess))
	assert.Equal(t, 1, builder.calls)

	sess.ResetForAction()
	builder.err = nil
	builder.text = builderText
	assert.NotNil(t, st.FinalStrategy(context.Background(), sess))
}

func Test_FinalStrategy_resetsSWOTVisibility(t *testing.T) {
	builder := &stubBuilder{text: builderText}
	st := NewStore(builder)
	sess := readySession(st)
	sess.ToggleSWOT(1)

	st.FinalStrategy(context.Background(), sess)

	assert.False(t, sess.ShowSWOT[1])
}

func Test_MarkUnavailable_clearsSlot(t *testing.T) {
	st := NewStore(&stubBuilder{})
	sess := readySession(st)

	sess.MarkUnavailable(models.AgentWebsearch)

	assert.Nil(t, sess.Websearch)
	assert.True(t, sess.Unavailable(models.AgentWebsearch))
	assert.False(t, sess.UpstreamReady())

	sess.CommitWebsearch(models.WebsearchResult{})
	assert.False(t, sess.Unavailable(models.AgentWebsearch))
	assert.True(t, sess.UpstreamReady())
}

func Test_ToggleSWOT(t *testing.T) {
	st := NewStore(&stubBuilder{})
	sess := st.Create()

	assert.True(t, sess.ToggleSWOT(2))
	assert.False(t, sess.ToggleSWOT(2))
}

func Test_Store_Get(t *testing.T) {
	st := NewStore(&stubBuilder{})
	sess := st.Create()

	got, ok := st.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)

	other := st.Create()
	_, ok = st.Get(other.ID)
	assert.True(t, ok)
	assert.NotEqual(t, sess.ID, other.ID)
}
