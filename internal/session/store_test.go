package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infomate/internal/domain"
)

func TestUnknownSessionHasEmptyHistory(t *testing.T) {
	s := NewStore(0, 0)
	assert.Empty(t, s.History("nobody"))
	assert.Zero(t, s.Len())
}

func TestAppendExchangeRecordsTwoTurns(t *testing.T) {
	s := NewStore(0, 0)
	s.AppendExchange("s1", "what is offered?", "B.Tech and M.Tech.")
	turns := s.History("s1")
	require.Len(t, turns, 2)
	assert.Equal(t, domain.Turn{Role: domain.RoleUser, Content: "what is offered?"}, turns[0])
	assert.Equal(t, domain.RoleAssistant, turns[1].Role)
}

func TestHistoryBoundedToTwentyTurns(t *testing.T) {
	s := NewStore(20, 0)
	for i := 0; i < 11; i++ {
		s.AppendExchange("s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}
	turns := s.History("s1")
	require.Len(t, turns, 20)
	// oldest exchange dropped first
	assert.Equal(t, "q1", turns[0].Content)
	assert.Equal(t, "a10", turns[19].Content)
}

func TestHistoryReturnsCopy(t *testing.T) {
	s := NewStore(0, 0)
	s.AppendExchange("s1", "q", "a")
	turns := s.History("s1")
	turns[0].Content = "mutated"
	assert.Equal(t, "q", s.History("s1")[0].Content)
}

func TestSessionCapEvictsLeastRecentlyUsed(t *testing.T) {
	s := NewStore(0, 2)
	s.AppendExchange("a", "q", "a")
	s.AppendExchange("b", "q", "a")
	// touch "a" so "b" becomes the eviction candidate
	_ = s.History("a")
	s.AppendExchange("c", "q", "a")

	assert.Equal(t, 2, s.Len())
	assert.NotEmpty(t, s.History("a"))
	assert.Empty(t, s.History("b"))
	assert.NotEmpty(t, s.History("c"))
}
