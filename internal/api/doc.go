// Package api provides the HTTP client for the haven platform REST API.
//
// # Overview
//
// Every backend call goes through Client. It builds the target URL, bounds
// the request with a timeout, injects the bearer token, serializes JSON
// bodies and maps every failure to a single typed error, *APIError.
//
// # Client Usage
//
//	client, err := api.NewClient("https://api.example.com/v1",
//		api.WithNotifier(toasts),
//		api.WithLogger(logger),
//	)
//	if err != nil {
//		return err
//	}
//
//	page, err := api.Get[api.Paginated[models.Article]](ctx, client, "/articles", api.RequestOptions{
//		Params: api.Params{"limit": 6, "category_id": categoryID},
//	})
//
// # Request Handling
//
// All requests:
//   - Default to a 30 second timeout, overridable per call via RequestOptions.Timeout
//   - Send Accept and Content-Type: application/json (uploads use the multipart type)
//   - Send User-Agent: haven/0.1 and a fresh X-Request-Id
//   - Send Authorization: Bearer <token> when a token is supplied
//
// A 204 response returns without touching the destination, so the generic
// helpers yield the zero value of T.
//
// # Error Handling
//
// The taxonomy is:
//
//   - TIMEOUT (status 408): the request exceeded its deadline
//   - NETWORK_ERROR (status 0): no response was received
//   - backend code or UNKNOWN (HTTP status): any non-2xx response
//   - INVALID_RESPONSE (HTTP status): a 2xx body failed to decode or validate
//
// A 429 additionally notifies the configured RateLimitNotifier. The client
// never retries and never swallows errors.
//
// # Schema Validation
//
// Decoded success payloads are checked with validator struct tags. Response
// and Paginated also implement Validate, which rejects success=false and
// broken pagination arithmetic.
package api
