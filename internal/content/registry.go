package content

import "context"

// Registry tracks the mapping from external content ids to local records.
// Implement this in your app, or use SQLRegistry.
type Registry interface {
	// RegisterOrUpdate inserts a record for an unseen externalID or updates
	// the title of the existing one. Must be atomic: concurrent calls for
	// the same externalID never create duplicates.
	RegisterOrUpdate(ctx context.Context, externalID, title string) (Record, error)

	ResolveByExternalID(ctx context.Context, externalID string) (Record, error)
	Get(ctx context.Context, localID int64) (Record, error)
	List(ctx context.Context) ([]Record, error)

	// Delete removes a record. Grades referencing it are cascade-deleted.
	Delete(ctx context.Context, localID int64) error
}
