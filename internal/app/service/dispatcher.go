package service

import (
	"context"

	"github.com/wearedood/BaseEcosystemTools/internal/app/port"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/entity"
	"github.com/wearedood/BaseEcosystemTools/internal/pkg/metrics"
)

// dispatcherImpl implements port.Dispatcher.
type dispatcherImpl struct {
	clientProvider port.ClientProvider
	logger         port.Logger
}

// NewDispatcher creates a new instance of dispatcherImpl.
func NewDispatcher(clientProvider port.ClientProvider, logger port.Logger) port.Dispatcher {
	return &dispatcherImpl{clientProvider: clientProvider, logger: logger}
}

// Dispatch submits the intent through the chain client for its chain id.
// Errors from the client are returned as-is so callers can branch on
// the typed error values.
func (d *dispatcherImpl) Dispatch(ctx context.Context, intent entity.TransactionIntent) (entity.TransactionResult, error) {
	chainClient, err := d.clientProvider.GetClient(intent.ChainID)
	if err != nil {
		d.logger.Error("Failed to get chain client for dispatch", "chain_id", intent.ChainID, "error", err)
		return entity.TransactionResult{}, err
	}

	d.logger.Info("Dispatching transaction intent",
		"chain_id", intent.ChainID, "kind", string(intent.Kind), "protocol", intent.Protocol, "destination", intent.Destination)

	result, err := chainClient.Submit(ctx, intent)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues(intent.Protocol, "error").Inc()
		d.logger.Error("Transaction submission failed",
			"chain_id", intent.ChainID, "kind", string(intent.Kind), "protocol", intent.Protocol, "error", err)
		return entity.TransactionResult{}, err
	}

	metrics.SubmissionsTotal.WithLabelValues(intent.Protocol, string(result.Status)).Inc()
	d.logger.Info("Transaction mined",
		"hash", result.Hash, "block", result.BlockNumber, "gas_used", result.GasUsed, "status", string(result.Status))
	return result, nil
}
