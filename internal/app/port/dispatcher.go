package port

import (
	"context"

	"github.com/wearedood/BaseEcosystemTools/internal/domain/entity"
)

// Dispatcher routes a built intent to the right chain client, submits
// it and returns the mined result. Client errors pass through unchanged
// so callers can branch on the typed error values.
type Dispatcher interface {
	Dispatch(ctx context.Context, intent entity.TransactionIntent) (entity.TransactionResult, error)
}
