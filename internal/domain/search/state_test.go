package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveState(t *testing.T) {
	tests := []struct {
		name string
		in   StateInputs
		want State
	}{
		{name: "no query", in: StateInputs{}, want: StateInitial},
		{name: "no query ignores stale items", in: StateInputs{ItemCount: 3, Exhausted: true}, want: StateInitial},
		{name: "first page loading", in: StateInputs{QueryDefined: true, Loading: true}, want: StateLoading},
		{name: "next page loading", in: StateInputs{QueryDefined: true, Loading: true, ItemCount: 20}, want: StateLoading},
		{name: "error wins over loading", in: StateInputs{QueryDefined: true, Loading: true, Failed: true}, want: StateError},
		{name: "error wins over items", in: StateInputs{QueryDefined: true, Failed: true, ItemCount: 20}, want: StateError},
		{name: "empty result", in: StateInputs{QueryDefined: true, Exhausted: true}, want: StateNoResults},
		{name: "more available", in: StateInputs{QueryDefined: true, ItemCount: 20}, want: StateResults},
		{name: "exhausted", in: StateInputs{QueryDefined: true, ItemCount: 25, Exhausted: true}, want: StateNoMoreResults},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DeriveState(tt.in))
		})
	}
}

func TestStateText(t *testing.T) {
	b, err := StateNoMoreResults.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "NO_MORE_RESULTS", string(b))
	require.Equal(t, "State(42)", State(42).String())
}
