package codec_test

import (
	"testing"

	"github.com/cey0225/kon/assert"
	"github.com/cey0225/kon/codec"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	bz, err := codec.Encode(payload{Name: "slime", Count: 3})
	assert.NilError(t, err)
	assert.JSONEq(t, `{"name":"slime","count":3}`, string(bz))

	got, err := codec.Decode[payload](bz)
	assert.NilError(t, err)
	assert.Equal(t, payload{Name: "slime", Count: 3}, got)
}

func TestDecode_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := codec.Decode[payload]([]byte("{nope"))
	assert.Assert(t, err != nil)
}

func TestEncodeIndent(t *testing.T) {
	t.Parallel()

	bz, err := codec.EncodeIndent(payload{Name: "slime"})
	assert.NilError(t, err)
	assert.JSONEq(t, `{"name":"slime","count":0}`, string(bz))
}
