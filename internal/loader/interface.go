package loader

import "context"

// Fetcher is the slice of the API client the loader depends on.
type Fetcher interface {
	GetJSON(ctx context.Context, endpoint string, dest any) error
}
