package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseStatus("todo")
	assert.Error(t, err)
	_, err = ParseStatus("BLOCKED")
	assert.ErrorContains(t, err, "TODO, IN_PROGRESS, DONE, WONT_DO")
}

func TestGroupByStatus(t *testing.T) {
	t.Run("empty input still has every bucket", func(t *testing.T) {
		groups := GroupByStatus([]*Ticket{}, func(t *Ticket) Status { return t.Status })
		require.Len(t, groups, len(Statuses))
		for _, s := range Statuses {
			assert.NotNil(t, groups[s])
			assert.Empty(t, groups[s])
		}
	})

	t.Run("items land in their bucket in input order", func(t *testing.T) {
		tickets := []*Ticket{
			{Id: 1, Status: StatusDone},
			{Id: 2, Status: StatusTodo},
			{Id: 3, Status: StatusDone},
		}
		groups := GroupByStatus(tickets, func(t *Ticket) Status { return t.Status })
		require.Len(t, groups[StatusDone], 2)
		assert.Equal(t, uint(1), groups[StatusDone][0].Id)
		assert.Equal(t, uint(3), groups[StatusDone][1].Id)
		assert.Len(t, groups[StatusTodo], 1)
		assert.Empty(t, groups[StatusInProgress])
		assert.Empty(t, groups[StatusWontDo])
	})
}
