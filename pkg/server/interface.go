/*
Package server implements msgpack IPC for title queries.

Clients write a stream of msgpack-encoded requests to the server's stdin and
read one msgpack-encoded response per request from its stdout. Logs go to
stderr so they never interleave with the stream.

# IPC

Every request carries an ID, echoed in the response, and an operation:

	{"id": "q1", "op": "prefix", "q": "Array of", "l": 5}
	{"id": "q2", "op": "contains", "q": "Key", "l": 5}
	{"id": "i1", "op": "insert", "t": "15 Tips for Slices"}
	{"id": "s1", "op": "stats"}
	{"id": "h1", "op": "health"}

Queries are answered with the exact flag, ranked titles and timing in
microseconds:

	{"id": "q1", "o": "prefix", "m": false, "s": [{"w": "Array of Strings in Action: 15 Practical Examples", "r": 1}], "c": 1, "n": 2, "t": 12}

For prefix queries "m" is true when the query is itself an indexed title. For
contains queries it is true when the query occurs in any title, and "s" holds
the titles containing it.

Failures are reported as {"id": "q1", "e": "message", "c": 400}.
Insertion is refused with code 403 unless enabled in the config.
*/
package server

// Operation names accepted in Request.Op.
const (
	OpPrefix   = "prefix"
	OpContains = "contains"
	OpInsert   = "insert"
	OpStats    = "stats"
	OpHealth   = "health"
)

// Request is a single client message.
type Request struct {
	ID    string `msgpack:"id"`
	Op    string `msgpack:"op"`
	Query string `msgpack:"q,omitempty"`
	Limit int    `msgpack:"l,omitempty"`
	Title string `msgpack:"t,omitempty"`
}

// QuerySuggestion - minimal suggestion response
type QuerySuggestion struct {
	Title string `msgpack:"w"`
	Rank  uint16 `msgpack:"r"`
}

// QueryResponse answers prefix and contains requests.
type QueryResponse struct {
	ID          string            `msgpack:"id"`
	Mode        string            `msgpack:"o"`
	Exact       bool              `msgpack:"m"`
	Suggestions []QuerySuggestion `msgpack:"s"`
	Count       int               `msgpack:"c"`
	Total       int               `msgpack:"n"`
	TimeTaken   int64             `msgpack:"t"`
}

// InsertResponse answers insert requests.
type InsertResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Added  bool   `msgpack:"added"`
}

// StatsResponse answers stats requests.
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"stats"`
}

// StatusResponse is sent on startup and for health requests.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// QueryError holds basic error information for failed requests
type QueryError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
