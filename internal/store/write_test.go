package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hexlife/internal/engine"
	"github.com/roach88/hexlife/internal/grid"
	"github.com/roach88/hexlife/internal/session"
)

func TestCreateRun_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := createTestRun("run-1")

	require.NoError(t, s.CreateRun(ctx, run))
	require.NoError(t, s.CreateRun(ctx, run))

	ids, err := s.ListRunIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1"}, ids)
}

func TestWriteTick_DuplicateSeqIgnored(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateRun(ctx, createTestRun("run-1")))

	tk := session.Tick{Seq: 1, Generation: 1, Verdict: engine.Continue, Label: engine.Chaotic, Alive: 2}
	require.NoError(t, s.WriteTick(ctx, "run-1", tk))
	tk.Alive = 99
	require.NoError(t, s.WriteTick(ctx, "run-1", tk))

	ticks, err := s.ReadTicks(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, ticks, 1)
	assert.Equal(t, 2, ticks[0].Alive, "first write wins")
}

func TestWriteTick_UnknownRun(t *testing.T) {
	s := createTestStore(t)
	err := s.WriteTick(context.Background(), "missing", session.Tick{Seq: 1})
	assert.Error(t, err)
}

func TestWriteTick_ReseedRecorded(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateRun(ctx, createTestRun("run-1")))

	require.NoError(t, s.WriteTick(ctx, "run-1", session.Tick{
		Seq:      7,
		Epoch:    1,
		Seed:     11,
		Verdict:  engine.LoopDetected,
		Label:    engine.Chaotic,
		Reseeded: true,
	}))

	reseeds, err := s.ReadReseeds(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, []Reseed{{Seq: 7, Epoch: 1, Seed: 11}}, reseeds)
}

func TestWriteReseed(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateRun(ctx, createTestRun("run-1")))

	require.NoError(t, s.WriteReseed(ctx, "run-1", Reseed{Seq: 9, Epoch: 2, Seed: 12}))
	require.NoError(t, s.WriteReseed(ctx, "run-1", Reseed{Seq: 4, Epoch: 1, Seed: 11}))

	reseeds, err := s.ReadReseeds(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, []Reseed{{Seq: 4, Epoch: 1, Seed: 11}, {Seq: 9, Epoch: 2, Seed: 12}}, reseeds)
}

func TestTickBuffer_FlushesInBatches(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateRun(ctx, createTestRun("run-1")))

	buf := s.NewTickBuffer("run-1", 3)
	for seq := int64(1); seq <= 4; seq++ {
		require.NoError(t, buf.Add(ctx, session.Tick{Seq: seq, Fingerprint: grid.Fingerprint(seq)}))
	}

	ticks, err := s.ReadTicks(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, ticks, 3, "fourth tick still buffered")

	require.NoError(t, buf.Flush(ctx))
	ticks, err = s.ReadTicks(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, ticks, 4)
}
