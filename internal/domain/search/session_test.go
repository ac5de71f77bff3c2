package search

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/review-search/internal/domain"
)

func jobItems(from, n int) []domain.CardItem {
	items := make([]domain.CardItem, 0, n)
	for i := from; i < from+n; i++ {
		items = append(items, &domain.JobCard{ID: fmt.Sprintf("job-%d", i)})
	}
	return items
}

func cursor(s string) *string { return &s }

func definedSession(t *testing.T, pageSize int) *session {
	t.Helper()
	q := domain.Query{Text: "intern", Type: domain.SearchJobs}
	vars, err := ComposeVariables(q)
	require.NoError(t, err)
	return newSession(1, q, vars, pageSize)
}

func TestSessionBeginHoldsSingleSlot(t *testing.T) {
	s := definedSession(t, 20)

	vars, ok := s.begin()
	require.True(t, ok)
	require.Nil(t, vars.After)
	require.Equal(t, StateLoading, s.state())

	_, ok = s.begin()
	require.False(t, ok)

	s.merge(domain.Page{Count: 20, Cursor: cursor("c1"), HasMore: true}, jobItems(0, 20))
	vars, ok = s.begin()
	require.True(t, ok)
	require.Equal(t, "c1", *vars.After)
}

func TestSessionUndefinedNeverFetches(t *testing.T) {
	s := initialSession(0, domain.Query{Type: domain.SearchCompanies}, 20)
	_, ok := s.begin()
	require.False(t, ok)
	require.Equal(t, StateInitial, s.state())
}

func TestSessionMergeAppendsInOrder(t *testing.T) {
	s := definedSession(t, 20)

	s.begin()
	s.merge(domain.Page{Count: 20, Cursor: cursor("c1"), HasMore: true}, jobItems(0, 20))
	require.Equal(t, StateResults, s.state())

	s.begin()
	s.merge(domain.Page{Count: 5, Cursor: cursor("c2"), HasMore: false}, jobItems(20, 5))
	require.Equal(t, StateNoMoreResults, s.state())
	require.Len(t, s.items, 25)
	for i, it := range s.items {
		require.Equal(t, fmt.Sprintf("job-%d", i), it.Key())
	}

	_, ok := s.begin()
	require.False(t, ok)
}

func TestSessionExhaustion(t *testing.T) {
	tests := []struct {
		name string
		page domain.Page
		n    int
		want bool
	}{
		{name: "has more", page: domain.Page{Cursor: cursor("c"), HasMore: true}, n: 20, want: false},
		{name: "server says done", page: domain.Page{Cursor: cursor("c")}, n: 20, want: true},
		{name: "short page", page: domain.Page{Cursor: cursor("c"), HasMore: true}, n: 7, want: true},
		{name: "no cursor", page: domain.Page{HasMore: true}, n: 20, want: true},
		{name: "count overrides item length", page: domain.Page{Count: 3, Cursor: cursor("c"), HasMore: true}, n: 20, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := definedSession(t, 20)
			s.begin()
			s.merge(tt.page, jobItems(0, tt.n))
			require.Equal(t, tt.want, s.exhausted)
		})
	}
}

func TestSessionEmptyFirstPage(t *testing.T) {
	s := definedSession(t, 20)
	s.begin()
	s.merge(domain.Page{HasMore: true, Cursor: cursor("c")}, nil)
	require.True(t, s.exhausted)
	require.Equal(t, StateNoResults, s.state())
}

func TestSessionFailKeepsItems(t *testing.T) {
	s := definedSession(t, 20)
	s.begin()
	s.merge(domain.Page{Count: 20, Cursor: cursor("c1"), HasMore: true}, jobItems(0, 20))

	s.begin()
	done := s.done
	s.fail(errors.New("boom"))
	require.Equal(t, StateError, s.state())
	require.Len(t, s.items, 20)
	require.False(t, s.loading)

	_, open := <-done
	require.False(t, open)

	vars, ok := s.begin()
	require.True(t, ok)
	require.Equal(t, "c1", *vars.After)
	require.Nil(t, s.err)
}
