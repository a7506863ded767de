/*
Package server implements msgpack IPC for the word index.

The server reads a stream of msgpack maps from stdin and writes one msgpack
map per request to stdout. Every request carries an "id" echoed back in the
response and an "op" naming the operation.

# IPC

Search for words starting with a prefix (at most max_results, default 10):

	{"id": "req_001", "op": "search", "p": "ca", "l": 5}

Words come back in the order the index found them, ranked from 1:

	{"id": "req_001", "s": [{"w": "cat", "r": 1, "n": 3}, {"w": "car", "r": 2, "n": 1}], "c": 2, "t": 12}

Record occurrences of a word ("n" defaults to 1) and look a count up:

	{"id": "req_002", "op": "add", "w": "cart", "n": 2}
	{"id": "req_003", "op": "count", "w": "cart"}

"stats" and "health" return index counters and liveness. "config" changes
max_results at runtime and saves it to the active config file.

Failures are reported as {"id": ..., "e": "message", "c": 400}; the stream
stays usable after a malformed request.
*/
package server

// Request is any client message; fields unused by the op are ignored.
type Request struct {
	ID         string `msgpack:"id"`
	Op         string `msgpack:"op"`
	Word       string `msgpack:"w,omitempty"`
	Prefix     string `msgpack:"p,omitempty"`
	Limit      int    `msgpack:"l,omitempty"`
	Count      int    `msgpack:"n,omitempty"`
	MaxResults *int   `msgpack:"max_results,omitempty"`
}

// Suggestion is one search result.
type Suggestion struct {
	Word  string `msgpack:"w"`
	Rank  uint16 `msgpack:"r"`
	Count int    `msgpack:"n"`
}

// SearchResponse answers "search".
type SearchResponse struct {
	ID          string       `msgpack:"id"`
	Suggestions []Suggestion `msgpack:"s"`
	Count       int          `msgpack:"c"`
	TimeTaken   int64        `msgpack:"t"` // microseconds
}

// CountResponse answers "add" and "count" with the word's current count.
type CountResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Word   string `msgpack:"w"`
	Count  int    `msgpack:"n"`
}

// StatsResponse answers "stats".
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"stats"`
}

// StatusResponse answers "health" and announces readiness.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ConfigResponse answers "config".
type ConfigResponse struct {
	ID         string `msgpack:"id"`
	Status     string `msgpack:"status"`
	MaxResults int    `msgpack:"max_results"`
	Error      string `msgpack:"error,omitempty"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
