package api

import (
	"encoding/json"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/govledger/internal/governance"
)

// jsonCodec replaces Connect's protojson codec under the same name, so
// handlers and clients exchange application/json bodies.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }
func (jsonCodec) Unmarshal(b []byte, v any) error { return json.Unmarshal(b, v) }

// Codec returns the option every handler and client in this package uses.
func Codec() connect.Option {
	return connect.WithCodec(jsonCodec{})
}

// VoteErrorFrom recovers the lifecycle error from an RPC error.
// The server puts the VoteError name in the error message.
func VoteErrorFrom(err error) (governance.VoteError, bool) {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return "", false
	}
	return governance.ParseVoteError(connectErr.Message())
}
