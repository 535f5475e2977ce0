// Package lametric provides a typed client for the LaMetric Time device API (v2).
//
// # Overview
//
// The package maps every supported API call to an endpoint descriptor
// (method, path, optional body), executes it through a pluggable Transport
// and wraps the raw result in a Response that decodes lazily into a typed
// value. The client is a stateless request/response mapper: no retries, no
// caching, no queuing.
//
// # Architecture
//
//   - wire.go: the shared JSON codec and the snake_case naming rule
//   - value.go, frame.go, sound.go: variant types decoded by field presence
//   - types.go, responses.go: device, display, app and notification models
//   - endpoint.go: endpoint descriptors per resource group
//   - connection.go: connection target and base URL
//   - transport.go: Transport interface and the net/http implementation
//   - response.go: Response envelope with Required/PrettyPrinted
//   - client.go, services.go, apps.go: the public facade
//
// # Client Usage
//
//	client, err := lametric.New(apiKey, lametric.LocalConnection("LM1234.local", 0))
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	resp, err := client.Device().State(ctx)
//	if err != nil {
//		log.Fatalf("request failed: %v", err)
//	}
//	state, err := resp.Required()
//	if err != nil {
//		log.Fatalf("unexpected response: %v", err)
//	}
//
//	_, err = client.Notifications().Send(ctx, lametric.NewNotification(lametric.TextFrame("Hello")))
//
// # Request Handling
//
// All requests:
//   - Target scheme://host[:port]/api/v2/ followed by "device/" (except the
//     endpoint listing) and the endpoint path
//   - Send Content-Type: application/json and Authorization: Basic base64("dev:" + key)
//   - Encode bodies with snake_case field names
//   - Have a 5-second timeout; timeouts surface as ErrTimeout
//   - Honour context cancellation
//
// Path segments such as package names, widget ids and notification ids are
// inserted verbatim. Callers pass values that are already valid segments.
//
// # Error Handling
//
// Transport failures are returned by the service methods. HTTP and payload
// failures are returned by Response.Required:
//
//   - *StatusCodeError (errors.Is ErrInvalidStatusCode): non-2xx status
//   - ErrEmptyResponse: 2xx status without body
//   - *DecodingError (errors.Is ErrDecodingFailure): body of the wrong shape;
//     the error carries a pretty-printed copy of the payload
//
// # Thread Safety
//
// Client and Response values are immutable once built and safe for
// concurrent use. The underlying http.Client handles connection reuse.
package lametric
