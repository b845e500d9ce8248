package port

import "context"

// ExportTransport delivers a formatted export payload to the external
// file-drop endpoint. Implementations acquire and release the connection
// per call; nothing is pooled across batches.
type ExportTransport interface {
	// Validate checks the transport configuration without touching the
	// network. It returns a *ConfigurationError when the endpoint is not
	// fully configured.
	Validate(ctx context.Context) error

	// Upload writes payload to filename under the configured remote
	// directory. Connection, authentication and write failures are
	// returned as a *DispatchError.
	Upload(ctx context.Context, filename string, payload []byte) error
}

// GLAccount is one selectable GL account option from the reference
// workbook.
type GLAccount struct {
	Account string `json:"account"`
	Label   string `json:"label"`
}

// ReferenceDataProvider supplies the GL account and expense-type lookup
// tables backing line validation and form choices. Implementations cache
// aggressively; Invalidate drops the cache so the next read reloads from
// the source.
type ReferenceDataProvider interface {
	GLAccounts(ctx context.Context) ([]GLAccount, error)
	ExpenseTypes(ctx context.Context) ([]string, error)
	Invalidate()
}

// ReceiptStorage persists an uploaded receipt and returns an opaque URL
// or reference string, or "" when storage is not configured.
type ReceiptStorage interface {
	Store(ctx context.Context, reportID int64, lineIndex int, filename string, content []byte) (string, error)
}
