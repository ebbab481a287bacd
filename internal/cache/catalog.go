package cache

import (
	"context"
	"fmt"
	"time"
)

// Catalog cache keys. Public reads of the partner directory and review
// aggregates go through these; writes invalidate them.
const (
	catalogAggregateTTL = 5 * time.Minute
)

func partnerAggregateKey(partnerID uint) string {
	return fmt.Sprintf("partner:%d:review_aggregate", partnerID)
}

// GetPartnerAggregate reads a cached review aggregate.
func GetPartnerAggregate(ctx context.Context, partnerID uint, dest interface{}) (bool, error) {
	return GetJSON(ctx, partnerAggregateKey(partnerID), dest)
}

// SetPartnerAggregate caches a review aggregate.
func SetPartnerAggregate(ctx context.Context, partnerID uint, value interface{}) error {
	return SetJSON(ctx, partnerAggregateKey(partnerID), value, catalogAggregateTTL)
}

// InvalidatePartnerAggregate drops a partner's cached aggregate after a new
// review lands.
func InvalidatePartnerAggregate(ctx context.Context, partnerID uint) error {
	return Del(ctx, partnerAggregateKey(partnerID))
}
