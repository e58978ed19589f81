package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecordGeneration(t *testing.T) {
	success := value(t, GenerationsTotal.WithLabelValues("test", StatusSuccess))
	failure := value(t, GenerationsTotal.WithLabelValues("test", StatusFailure))

	RecordGeneration("test", nil, time.Millisecond)
	RecordGeneration("test", errors.New("boom"), time.Millisecond)
	RecordGeneration("test", errors.New("boom"), time.Millisecond)

	assert.Equal(t, success+1, value(t, GenerationsTotal.WithLabelValues("test", StatusSuccess)))
	assert.Equal(t, failure+2, value(t, GenerationsTotal.WithLabelValues("test", StatusFailure)))
}

func TestRecordCacheLookup(t *testing.T) {
	hits := value(t, CacheLookupsTotal.WithLabelValues("hit"))
	misses := value(t, CacheLookupsTotal.WithLabelValues("miss"))

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	assert.Equal(t, hits+1, value(t, CacheLookupsTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+2, value(t, CacheLookupsTotal.WithLabelValues("miss")))
}
