package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/loan-portfolio-simulator/internal/model"
	"github.com/anyulbade/loan-portfolio-simulator/internal/repository"
)

func newTestCache(t *testing.T, ttl time.Duration) (*SummaryCache, *miniredis.Miniredis) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSummaryCache(client, ttl), s
}

func sampleRows() []model.SummaryRow {
	return []model.SummaryRow{{
		CutMonth: 202203, DisbursementMonth: 202201, Term: 12, AnnualRate: 0.08,
		OfficeCode: 10, OfficeName: "Toronto", ProductCode: 2, ProductName: "General",
		CreditStatus: "Excellent", OutstandingBalance: 841, RecordCount: 1,
	}}
}

func TestSummaryCache_RoundTrip(t *testing.T) {
	c, s := newTestCache(t, time.Minute)
	ctx := context.Background()
	f := repository.SummaryFilter{CutMonth: 202203}

	_, ok := c.Get(ctx, "run-1", f)
	assert.False(t, ok, "empty cache is a miss")

	c.Set(ctx, "run-1", f, sampleRows())

	got, ok := c.Get(ctx, "run-1", f)
	require.True(t, ok)
	assert.Equal(t, sampleRows(), got)

	assert.True(t, s.Exists(Key("run-1", f)))
	assert.Equal(t, time.Minute, s.TTL(Key("run-1", f)))

	_, ok = c.Get(ctx, "run-1", repository.SummaryFilter{CutMonth: 202204})
	assert.False(t, ok, "filters are keyed separately")
}

func TestSummaryCache_Expiry(t *testing.T) {
	c, s := newTestCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "run-1", repository.SummaryFilter{}, sampleRows())
	s.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "run-1", repository.SummaryFilter{})
	assert.False(t, ok)
}

func TestSummaryCache_CorruptEntry(t *testing.T) {
	c, s := newTestCache(t, time.Minute)
	require.NoError(t, s.Set(Key("run-1", repository.SummaryFilter{}), "{not json"))

	_, ok := c.Get(context.Background(), "run-1", repository.SummaryFilter{})
	assert.False(t, ok)
}

func TestSummaryCache_ServerDown(t *testing.T) {
	c, s := newTestCache(t, time.Minute)
	s.Close()

	c.Set(context.Background(), "run-1", repository.SummaryFilter{}, sampleRows())
	_, ok := c.Get(context.Background(), "run-1", repository.SummaryFilter{})
	assert.False(t, ok)
}

func TestSummaryCache_Disabled(t *testing.T) {
	c := NewSummaryCache(nil, time.Minute)
	assert.False(t, c.Enabled())

	c.Set(context.Background(), "run-1", repository.SummaryFilter{}, sampleRows())
	_, ok := c.Get(context.Background(), "run-1", repository.SummaryFilter{})
	assert.False(t, ok)
}

func TestConnect(t *testing.T) {
	client, err := Connect(context.Background(), "", "", 0)
	require.NoError(t, err)
	assert.Nil(t, client)

	s := miniredis.RunT(t)
	client, err = Connect(context.Background(), s.Addr(), "", 0)
	require.NoError(t, err)
	require.NotNil(t, client)
	client.Close()
}
