package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressTaskLifecycleReflectsInLatest(t *testing.T) {
	p, root := NewProgress(2, "root op")
	defer p.Close()

	root.Start()
	require.Eventually(t, func() bool {
		return p.Latest().Status == StatusActive
	}, time.Second, time.Millisecond)

	root.Advance(1)
	require.Eventually(t, func() bool {
		return p.Latest().Completed == 1
	}, time.Second, time.Millisecond)

	root.Complete()
	require.Eventually(t, func() bool {
		return p.Latest().Status == StatusSuccess
	}, time.Second, time.Millisecond)
}

func TestProgressChildTasksNestUnderParent(t *testing.T) {
	p, root := NewProgress(1, "root op")
	defer p.Close()

	child := root.Child(3, "step one")
	child.Start()
	child.Advance(2)

	require.Eventually(t, func() bool {
		snap := p.Latest()
		return len(snap.Children) == 1 && snap.Children[0].Completed == 2
	}, time.Second, time.Millisecond)

	snap := p.Latest()
	assert.Equal(t, "step one", snap.Children[0].Label)
	assert.Equal(t, 3, snap.Children[0].Total)
}

func TestReportPercentCompleteAcrossSubtree(t *testing.T) {
	report := Report{
		Total:     2,
		Completed: 1,
		Children: []Report{
			{Total: 2, Completed: 2},
		},
	}
	assert.InDelta(t, 0.75, report.PercentComplete(), 0.0001)
}

func TestReportPercentCompleteZeroWeightIsZero(t *testing.T) {
	var report Report
	assert.Equal(t, 0.0, report.PercentComplete())
}

func TestProgressWatchReceivesUpdates(t *testing.T) {
	p, root := NewProgress(1, "root op")
	ch := p.Watch()

	root.Start()
	select {
	case snap := <-ch:
		assert.Equal(t, StatusActive, snap.Status)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for progress update")
	}
	p.Close()

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after Close")
}
