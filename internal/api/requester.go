package api

import "context"

// PathResolver builds endpoint URLs relative to the API root.
type PathResolver interface {
	// EndpointURL returns the JSON URL of an endpoint.
	// Example: EndpointURL("contacts") -> "https://app.rapidpro.io/api/v2/contacts.json"
	EndpointURL(endpoint string) string
}

// HTTPExecutor performs one API call and returns the decoded JSON response.
//
// Implementations classify failures into *Error values and honour
// Request.RetryOnRateExceed.
type HTTPExecutor interface {
	Do(ctx context.Context, r Request) (any, error)
}

// Requester combines PathResolver and HTTPExecutor to provide the request
// surface used by pagers and queries.
//
// Example usage in tests:
//
//	type fakeRequester struct{ responses []any }
//	func (f *fakeRequester) EndpointURL(e string) string { return "http://x/" + e + ".json" }
//	func (f *fakeRequester) Do(ctx context.Context, r Request) (any, error) { ... }
type Requester interface {
	PathResolver
	HTTPExecutor
}
