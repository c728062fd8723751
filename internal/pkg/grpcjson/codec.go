// Package grpcjson registers a JSON codec for gRPC so services can exchange
// plain Go structs without generated protobuf types.
package grpcjson

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// Name is the content subtype; requests travel as application/grpc+json.
const Name = "json"

type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("grpcjson: marshal %T: %w", v, err)
	}
	return b, nil
}

func (codec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("grpcjson: unmarshal %T: %w", v, err)
	}
	return nil
}

func (codec) Name() string {
	return Name
}

func init() {
	encoding.RegisterCodec(codec{})
}

// CallOption makes a client call use the JSON codec.
func CallOption() grpc.CallOption {
	return grpc.CallContentSubtype(Name)
}
