package core

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var integrityRejections = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "integrity_rejections_total",
		Help: "Writes rejected by integrity checks, by entity and reason",
	},
	[]string{"entity", "reason"},
)

// observe counts and logs *errp when it is a rejected write. Infrastructure
// errors are left to the caller.
func observe(ctx context.Context, entity string, errp *error) {
	if *errp == nil {
		return
	}
	r := reason(*errp)
	if r == "" {
		return
	}
	integrityRejections.WithLabelValues(entity, r).Inc()
	zerolog.Ctx(ctx).Info().
		Str("entity", entity).
		Str("reason", r).
		Err(*errp).
		Msg("write rejected")
}
