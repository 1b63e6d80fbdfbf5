package stats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordSuccessUpdatesRunAndLatency(t *testing.T) {
	p := New(2)

	p.Workers[0].RecordSuccess(1500)

	snap := p.Snapshot()
	require.Equal(t, int64(1), snap[0].TasksRun)
	require.Equal(t, int64(0), snap[0].TasksFailed)
	require.Equal(t, int64(1500), snap[0].LastLatencyNs)
}

func TestRecordFailureIncrementsBothCounters(t *testing.T) {
	p := New(1)

	p.Workers[0].RecordFailure()
	p.Workers[0].RecordFailure()

	snap := p.Snapshot()
	require.Equal(t, int64(2), snap[0].TasksRun)
	require.Equal(t, int64(2), snap[0].TasksFailed)
}

func TestSnapshotIsPerWorkerIndependent(t *testing.T) {
	p := New(3)

	p.Workers[1].RecordSuccess(42)

	snap := p.Snapshot()
	require.Equal(t, int64(0), snap[0].TasksRun)
	require.Equal(t, int64(1), snap[1].TasksRun)
	require.Equal(t, int64(0), snap[2].TasksRun)
}
