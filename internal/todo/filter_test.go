package todo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTasks() []Task {
	return []Task{
		{ID: 1, Text: "Buy milk", Completed: true},
		{ID: 2, Text: "Walk dog"},
		{ID: 3, Text: "Call mom", Completed: true},
		{ID: 4, Text: "Pay rent"},
	}
}

func ids(tasks []Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		mode Filter
		want []int64
	}{
		{"all", FilterAll, []int64{1, 2, 3, 4}},
		{"active", FilterActive, []int64{2, 4}},
		{"completed", FilterCompleted, []int64{1, 3}},
		{"unknown behaves as all", Filter("someday"), []int64{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(sampleTasks(), tt.mode)))
		})
	}
}

func TestApplyPartitionsTasks(t *testing.T) {
	tasks := sampleTasks()

	active := Apply(tasks, FilterActive)
	completed := Apply(tasks, FilterCompleted)

	assert.Len(t, tasks, len(active)+len(completed))
	for _, task := range active {
		assert.NotContains(t, ids(completed), task.ID)
	}
}

func TestApplyDoesNotAliasInput(t *testing.T) {
	tasks := sampleTasks()

	out := Apply(tasks, FilterAll)
	out[0].Text = "changed"

	assert.Equal(t, "Buy milk", tasks[0].Text)
}

func TestApplyEmpty(t *testing.T) {
	assert.Empty(t, Apply(nil, FilterActive))
	assert.NotNil(t, Apply(nil, FilterAll))
}

func TestParseFilter(t *testing.T) {
	for _, mode := range Filters() {
		got, err := ParseFilter(string(mode))
		require.NoError(t, err)
		assert.Equal(t, mode, got)
	}

	got, err := ParseFilter("Active")
	assert.Error(t, err)
	assert.Equal(t, FilterAll, got)
}

func TestFilterNext(t *testing.T) {
	assert.Equal(t, FilterActive, FilterAll.Next())
	assert.Equal(t, FilterCompleted, FilterActive.Next())
	assert.Equal(t, FilterAll, FilterCompleted.Next())
	assert.Equal(t, FilterAll, Filter("bogus").Next())
}

func TestCountersOf(t *testing.T) {
	assert.Equal(t, Counters{Total: 4, Active: 2, Completed: 2}, CountersOf(sampleTasks()))
	assert.Equal(t, Counters{}, CountersOf(nil))
}
