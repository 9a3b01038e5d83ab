package metrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/margenes-api/internal/application/metrics"
	"github.com/jhoicas/margenes-api/internal/domain"
)

func TestParseRange_RangoValido(t *testing.T) {
	from, to, err := metrics.ParseRange("2026-01-01", "2026-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), to)
}

func TestParseRange_UnSoloDia(t *testing.T) {
	from, to, err := metrics.ParseRange("2026-05-15", "2026-05-15")
	require.NoError(t, err)
	assert.True(t, from.Equal(to))
}

func TestParseRange_FechaInvalida_RetornaError(t *testing.T) {
	_, _, err := metrics.ParseRange("2026-13-01", "2026-01-31")
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	_, _, err = metrics.ParseRange("2026-01-01", "no-es-fecha")
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestParseRange_FromPosteriorATo_RetornaError(t *testing.T) {
	_, _, err := metrics.ParseRange("2026-02-01", "2026-01-01")
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}
