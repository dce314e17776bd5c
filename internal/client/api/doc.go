// Package api is the client's single outbound point to the habit REST API.
//
// Gateway performs one HTTP round trip per call. It attaches the bearer
// token supplied by a TokenSource and normalizes every failure into an
// *APIError whose Payload has the server's error shape. Client builds the
// typed auth and habit operations on top of Gateway and validates each
// decoded response.
//
// Match failures with errors.Is against ErrUnavailable, ErrUnauthorized
// and ErrInvalidResponse; use PayloadOf to get the payload of any error.
//
// The gateway never refreshes tokens, retries or queues requests.
package api
