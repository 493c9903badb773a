package netutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacerBurstIsImmediate(t *testing.T) {
	p := NewPacer(1, 2)

	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	require.NoError(t, p.Wait(context.Background()))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestPacerHonorsCancel(t *testing.T) {
	p := NewPacer(0.001, 1)
	require.NoError(t, p.Wait(context.Background())) // drains the burst token

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, p.Wait(ctx))
}
