package grpcjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(Name)
	require.NotNil(t, c)

	type payload struct {
		Code  string `json:"code"`
		Price int64  `json:"price"`
	}
	b, err := c.Marshal(payload{Code: "MUG", Price: 810})
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"MUG","price":810}`, string(b))

	var out payload
	require.NoError(t, c.Unmarshal(b, &out))
	assert.Equal(t, payload{Code: "MUG", Price: 810}, out)
}

func TestCodecUnmarshalError(t *testing.T) {
	var out struct{}
	err := codec{}.Unmarshal([]byte("{"), &out)
	assert.ErrorContains(t, err, "grpcjson: unmarshal")
}
