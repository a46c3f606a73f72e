package sheets

import (
	"context"

	"contas/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionAppender writes a posted ledger entry to the export
	// spreadsheet and returns a reference to the written row.
	TransactionAppender interface {
		Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}
)
