package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStaticSourceList(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	src := NewStaticSource(now)

	list, err := src.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 7)
	require.Equal(t, "ord-1041", list[0].ID.String())
	require.Equal(t, "ord-1047", list[6].ID.String())

	for _, o := range list {
		created, ok := o.CreatedTime(time.UTC)
		require.True(t, ok, o.ID)
		require.False(t, created.After(now), o.ID)
	}

	list[0].ID = "mutated"
	again, err := src.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ord-1041", again[0].ID.String())
}

func TestStaticSourceCoversFilterFields(t *testing.T) {
	list, err := NewStaticSource(time.Now()).List(context.Background())
	require.NoError(t, err)

	deleted := ApplyFilters(list, []Filter{{Field: "deleted", Operator: OpIs, Value: true}})
	require.Len(t, deleted, 1)
	require.Equal(t, "ord-1045", deleted[0].ID.String())

	noted := ApplyFilters(list, []Filter{{Field: "customer_notes", Operator: OpContains, Value: "שומשום"}})
	require.Len(t, noted, 1)
	require.Equal(t, "ord-1046", noted[0].ID.String())

	flatName := ApplyFilters(list, []Filter{{Field: "customer_name", Operator: OpIs, Value: "אבי כהן"}})
	require.Len(t, flatName, 1)
	require.Equal(t, "ord-1042", flatName[0].ID.String())
}
