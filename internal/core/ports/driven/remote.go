package driven

import "context"

// RemoteFetcher issues rate-limited GET requests against the remote
// API and returns the parsed JSON object.
//
// Expected-absence statuses (400, 401, 403, 404, 422) are not errors:
// implementations return a synthetic payload {"error": <reason>} so
// callers read absent entities the same way as absent optional fields.
// Any other non-2xx status, transport failure or JSON parse failure is
// returned as an error and aborts the current mirroring operation.
type RemoteFetcher interface {
	Fetch(ctx context.Context, url string) (map[string]any, error)
}
