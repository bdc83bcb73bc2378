// Package api defines the govledger RPC contract: request and response
// messages, procedure names, Connect handler constructors and clients.
//
// Messages are plain Go structs encoded as JSON, so the package registers a
// JSON codec with every handler and client it builds. Callers that talk to
// the server with another Connect client must send Content-Type
// application/json.
package api
