// Package events publishes applied ledger transactions to a message
// broker so that downstream consumers can mirror the ledger.
package events

import (
	"context"

	"github.com/classfund/backend/internal/ledger"
)

// NopPublisher drops all events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishTransaction(context.Context, ledger.TransactionEvent) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
