package xwlru

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

const (
	workers       = 8
	keysPerWorker = 250
)

func TestCache_ConcurrentInsertsUnbounded(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := newTestCache(t, 0, 0)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < keysPerWorker; i++ {
				if err := c.Set(fmt.Sprintf("w%d-k%d", w, i), i, uint64(i%7+1)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var perWorker uint64
	for i := 0; i < keysPerWorker; i++ {
		perWorker += uint64(i%7 + 1)
	}
	assert.Equal(t, workers*keysPerWorker, c.Len())
	assert.Equal(t, workers*perWorker, c.Weight())
	checkConsistency(t, c)
}

func TestCache_ConcurrentMixedBounded(t *testing.T) {
	defer goleak.VerifyNone(t)

	var inserted, removed atomic.Int64
	c := newTestCache(t, 300, 40,
		WithOnInsert(func(context.Context, Entry[string, int]) error {
			inserted.Add(1)
			return nil
		}),
		WithOnRemove(func(context.Context, Entry[string, int]) error {
			removed.Add(1)
			return nil
		}),
	)

	g, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < keysPerWorker; i++ {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				key := fmt.Sprintf("w%d-k%d", w, i)
				if err := c.SetWithContext(ctx, key, i, uint64(i%5+1)); err != nil {
					return err
				}
				if i%3 == 0 {
					_, _ = c.Get(fmt.Sprintf("w%d-k%d", w, i/2))
				}
				if i%11 == 0 {
					if _, err := c.Delete(fmt.Sprintf("w%d-k%d", w, i/3)); err != nil {
						return err
					}
				}
				if c.Weight() > c.HardLimit() {
					return fmt.Errorf("weight %d above hard limit", c.Weight())
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	checkConsistency(t, c)
	assert.LessOrEqual(t, c.Weight(), c.HardLimit())

	s := c.Stats()
	assert.Equal(t, int64(workers*keysPerWorker), inserted.Load())
	assert.Equal(t, uint64(workers*keysPerWorker), s.Inserts+s.Updates)
	assert.Equal(t, int64(s.Evictions+s.Removals), removed.Load())
	assert.Equal(t, int(s.Inserts)-int(s.Evictions)-int(s.Removals), c.Len())
}
