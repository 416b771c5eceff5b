package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.FeedProcessed("ok", 3)
	m.ArticleProcessed("added")
	m.SetPending(1)
	m.SetPool(1, 2)
	m.ObserveFetch(0.1)
	m.IngestFinished(1, 2)
	m.SearchServed("hit", "miss", 0.001, 1)
	m.CacheLookup(true)
}

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.FeedProcessed("ok", 2)
	m.FeedProcessed("fetch_error", 0)
	m.ArticleProcessed("added")
	m.ArticleProcessed("duplicate")
	m.ArticleProcessed("added")
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.IngestFinished(0.5, 7)

	assert.Equal(t, 1.0, value(t, m.FeedsTotal.WithLabelValues("ok")))
	assert.Equal(t, 2.0, value(t, m.FeedEntriesTotal))
	assert.Equal(t, 2.0, value(t, m.ArticlesTotal.WithLabelValues("added")))
	assert.Equal(t, 1.0, value(t, m.CacheHitsTotal))
	assert.Equal(t, 1.0, value(t, m.CacheMissesTotal))
	assert.Equal(t, 7.0, value(t, m.RepositorySize))
}

func value(t *testing.T, c prometheus.Metric) float64 {
	t.Helper()
	var pb dto.Metric
	require.NoError(t, c.Write(&pb))
	if pb.Counter != nil {
		return pb.GetCounter().GetValue()
	}
	return pb.GetGauge().GetValue()
}
