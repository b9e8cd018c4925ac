package pb

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content-subtype clients send, i.e. "application/grpc+json".
const CodecName = "json"

// Codec marshals MenuService messages as JSON. The server forces it with
// grpc.ForceServerCodec and clients with grpc.ForceCodec.
//
// There are no protobuf descriptors for these messages, so only JSON clients
// work: Go clients with grpc.ForceCodec(Codec), and gRPC-web callers sending
// "application/grpc-web+json". Generated protobuf stubs (grpcurl, the stock
// grpc-web JS client) cannot call the service; browsers without a JSON
// gRPC-web transport use the REST endpoints instead.
var Codec encoding.Codec = jsonCodec{}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(Codec)
}
