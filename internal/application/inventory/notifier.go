package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	domaininv "github.com/jhoicas/Pescaderia-api/internal/domain/inventory"
)

// stockChange cambio confirmado de un producto, pendiente de notificar.
type stockChange struct {
	productID  string
	vector     domaininv.StockVector
	totalStock int
}

// stockNotifier invalida la caché y publica eventos después del Commit.
// Sus fallos se registran pero nunca revierten la operación ya confirmada.
type stockNotifier struct {
	cache  StockCacheInvalidator
	events StockEventPublisher
	log    zerolog.Logger
}

func newStockNotifier(cache StockCacheInvalidator, events StockEventPublisher, log zerolog.Logger) stockNotifier {
	if cache == nil {
		cache = NopInvalidator{}
	}
	if events == nil {
		events = NopPublisher{}
	}
	return stockNotifier{cache: cache, events: events, log: log}
}

func (n stockNotifier) afterCommit(ctx context.Context, source string, changes []stockChange) {
	if len(changes) == 0 {
		return
	}
	ids := make([]string, 0, len(changes))
	for _, c := range changes {
		ids = append(ids, c.productID)
	}
	if err := n.cache.Invalidate(ctx, ids...); err != nil {
		n.log.Warn().Err(err).Strs("product_ids", ids).Msg("invalidar caché de stock")
	}
	now := time.Now().UTC()
	for _, c := range changes {
		evt := StockChangedEvent{
			ProductID:  c.productID,
			Source:     source,
			Stock:      c.vector,
			TotalStock: c.totalStock,
			OccurredAt: now,
		}
		if err := n.events.PublishStockChanged(ctx, evt); err != nil {
			n.log.Warn().Err(err).Str("product_id", c.productID).Msg("publicar evento de stock")
		}
	}
}

// logClamp deja constancia de un recorte a cero: puede ocultar una carrera aguas arriba.
func logClamp(log zerolog.Logger, productID, source, granularity string, delta int, clamped []domaininv.Granularity) {
	log.Warn().
		Str("product_id", productID).
		Str("source", source).
		Str("granularity", granularity).
		Int("delta", delta).
		Strs("clamped", granularityNames(clamped)).
		Msg("stock recortado a cero")
}

func granularityNames(gs []domaininv.Granularity) []string {
	if len(gs) == 0 {
		return nil
	}
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = g.String()
	}
	return out
}
