package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RandomVariable1470/suryaverify/internal/store"
	"github.com/RandomVariable1470/suryaverify/internal/verify"
)

func TestPersistRecords_CarriesFailureCount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := &verifyEnv{Store: store.NewMemory()}

	recs := []verify.Record{{SampleID: 1, HasSolar: true}, {SampleID: 2}}
	require.NoError(t, persistRecords(ctx, env, "batch:samples.csv", recs, 4))

	runs, err := env.Store.ListRuns(ctx, store.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, store.RunStatusCompleted, runs[0].Status)
	assert.Equal(t, 2, runs[0].Succeeded)
	assert.Equal(t, 4, runs[0].Failed)
}

func TestPersistRecords_AllFailedRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := &verifyEnv{Store: store.NewMemory()}

	require.NoError(t, persistRecords(ctx, env, "batch:samples.csv", nil, 3))

	runs, err := env.Store.ListRuns(ctx, store.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, store.RunStatusFailed, runs[0].Status)
	assert.Equal(t, 3, runs[0].Failed)
}
