package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infomate/internal/chunker"
	"infomate/internal/domain"
	"infomate/internal/session"
	"infomate/internal/summarizer"
	"infomate/internal/vectorstore/memory"
)

// stubEmbedder hashes tokens into a small fixed-dimension vector, enough to
// make related texts land near each other without a remote service.
type stubEmbedder struct {
	calls int
	fail  error
}

func (e *stubEmbedder) Name() string { return "stub" }

func (e *stubEmbedder) Prepare(ctx context.Context, corpus []string) error { return nil }

func (e *stubEmbedder) Dimension() int { return 8 }

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	e.calls++
	if e.fail != nil {
		return nil, e.fail
	}
	vec := make([]float64, 8)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := 0
		for _, r := range tok {
			h = h*31 + int(r)
		}
		if h < 0 {
			h = -h
		}
		vec[h%8]++
	}
	return vec, nil
}

type stubGenerator struct {
	calls  int
	answer string
	fail   error
	prompt string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	g.prompt = prompt
	if g.fail != nil {
		return "", g.fail
	}
	return g.answer, nil
}

type fixture struct {
	svc *ChatService
	emb *stubEmbedder
	gen *stubGenerator
}

func newFixture(t *testing.T, corpus string) *fixture {
	t.Helper()
	emb := &stubEmbedder{}
	gen := &stubGenerator{answer: "generated answer"}
	svc := New(
		chunker.NewWindowChunker(200, 20),
		emb,
		memory.NewStore(),
		gen,
		summarizer.NewFrequencySummarizer(),
		session.NewStore(0, 0),
		nil,
		Config{TopK: 5},
	)
	if corpus != "" {
		require.NoError(t, svc.BuildIndex(context.Background(), "dept.pdf", corpus))
	}
	return &fixture{svc: svc, emb: emb, gen: gen}
}

const placementCorpus = "Placement statistics for the department. " +
	"Company A offered 7 LPA to three students. " +
	"Company B offered 9 LPA to two students. " +
	"The department also offers B.Tech and M.Tech programs with modern laboratories."

func TestChatRejectsEmptyQuery(t *testing.T) {
	f := newFixture(t, placementCorpus)
	before := f.emb.calls
	_, err := f.svc.Chat(context.Background(), "   \t ", "")
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	// rejected before retrieval: no embedding call happened
	assert.Equal(t, before, f.emb.calls)
}

func TestChatIndexNotReady(t *testing.T) {
	f := newFixture(t, "")
	_, err := f.svc.Chat(context.Background(), "What is the average package?", "")
	assert.ErrorIs(t, err, domain.ErrIndexNotReady)
}

func TestChatDeterministicAverage(t *testing.T) {
	f := newFixture(t, placementCorpus)
	ans, err := f.svc.Chat(context.Background(), "What is the average package?", "s1")
	require.NoError(t, err)
	assert.True(t, ans.Deterministic)
	assert.Contains(t, ans.Answer, "8.00 LPA")
	assert.NotEmpty(t, ans.Sources)
	// the generative service is never invoked on the deterministic path
	assert.Zero(t, f.gen.calls)

	turns := historyOf(f, "s1")
	require.Len(t, turns, 2)
	assert.Equal(t, domain.RoleUser, turns[0].Role)
}

func TestChatGenerativeFallback(t *testing.T) {
	f := newFixture(t, placementCorpus)
	ans, err := f.svc.Chat(context.Background(), "What programs does the department offer?", "s1")
	require.NoError(t, err)
	assert.False(t, ans.Deterministic)
	assert.Equal(t, "generated answer", ans.Answer)
	assert.Equal(t, 1, f.gen.calls)
	assert.Contains(t, f.gen.prompt, "Context chunk 1")
	assert.Contains(t, f.gen.prompt, "User question: What programs does the department offer?")
}

func TestChatNumericIntentWithoutAmountsFallsThrough(t *testing.T) {
	f := newFixture(t, "The department was founded decades ago and hosts seminars weekly with faculty mentors present.")
	_, err := f.svc.Chat(context.Background(), "What is the average package?", "")
	require.NoError(t, err)
	assert.Equal(t, 1, f.gen.calls)
}

func TestChatEmptyGenerationGetsFallbackMessage(t *testing.T) {
	f := newFixture(t, placementCorpus)
	f.gen.answer = ""
	ans, err := f.svc.Chat(context.Background(), "Tell me about the labs", "")
	require.NoError(t, err)
	assert.Equal(t, fallbackAnswer, ans.Answer)
}

func TestChatGenerationError(t *testing.T) {
	f := newFixture(t, placementCorpus)
	f.gen.fail = errors.New("upstream down")
	_, err := f.svc.Chat(context.Background(), "Tell me about the labs", "")
	var genErr *domain.GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestChatRetrievalError(t *testing.T) {
	f := newFixture(t, placementCorpus)
	f.emb.fail = errors.New("embedding gateway down")
	_, err := f.svc.Chat(context.Background(), "Tell me about the labs", "")
	var retErr *domain.RetrievalError
	assert.ErrorAs(t, err, &retErr)
}

func TestChatHistoryWindowInPrompt(t *testing.T) {
	f := newFixture(t, placementCorpus)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := f.svc.Chat(ctx, "Tell me something new about the department", "s1")
		require.NoError(t, err)
	}
	// 4 completed exchanges precede the 5th call; only 3 (6 turns) replayed
	assert.Equal(t, 3, strings.Count(f.gen.prompt, "User: "))
	assert.Equal(t, 3, strings.Count(f.gen.prompt, "Assistant: "))
}

func TestChatSeparateSessionsKeepSeparateHistory(t *testing.T) {
	f := newFixture(t, placementCorpus)
	ctx := context.Background()
	_, err := f.svc.Chat(ctx, "What is the highest package?", "alice")
	require.NoError(t, err)
	assert.Len(t, historyOf(f, "alice"), 2)
	assert.Empty(t, historyOf(f, "bob"))
}

func TestRetrieveReturnsAtMostK(t *testing.T) {
	f := newFixture(t, placementCorpus)
	res, err := f.svc.Retrieve(context.Background(), "placement", 2)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res), 2)
	for i := 0; i < len(res)-1; i++ {
		assert.GreaterOrEqual(t, res[i].Score, res[i+1].Score)
	}
}

func TestStatus(t *testing.T) {
	f := newFixture(t, placementCorpus)
	st := f.svc.Status()
	assert.True(t, st.Ready)
	assert.Greater(t, st.Chunks, 0)
	assert.Equal(t, "dept.pdf", st.Source)
	assert.NotEmpty(t, st.Summary)
}

func TestBuildIndexEmptyText(t *testing.T) {
	f := newFixture(t, "")
	assert.Error(t, f.svc.BuildIndex(context.Background(), "dept.pdf", ""))
}

func historyOf(f *fixture, id string) []domain.Turn {
	return f.svc.sessions.History(id)
}
