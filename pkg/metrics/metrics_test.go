package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveQuery(t *testing.T) {
	c := NewCollector("byo_graphql")

	c.ObserveQuery(OutcomeOK, 20*time.Millisecond)
	c.ObserveQuery(OutcomeOK, 30*time.Millisecond)
	c.ObserveQuery(OutcomeGraphQLError, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Queries.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Queries.WithLabelValues(OutcomeGraphQLError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.Queries.WithLabelValues(OutcomeNoData)))
	assert.Equal(t, 1, testutil.CollectAndCount(c.QueryDuration))
}

func TestCollector_Pages(t *testing.T) {
	c := NewCollector("byo_graphql")

	c.ObservePage()
	c.ObservePage()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Pages))
}

func TestCollector_SeparateRegistries(t *testing.T) {
	a := NewCollector("byo_graphql")
	b := NewCollector("byo_graphql")

	a.ObservePage()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Pages))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Pages))

	families, err := a.Registry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "byo_graphql_pages_total")
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.ObserveQuery(OutcomeOK, time.Second)
		c.ObservePage()
	})
	assert.Nil(t, c.Registry())
}
