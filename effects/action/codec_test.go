package action_test

import (
	"testing"

	"github.com/on-the-ground/effect_ive_connect/effects/action"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_JSONWireShape(t *testing.T) {
	data, err := action.Encode(action.JSON, action.Of("delay", "hello 2"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"delay","payload":"hello 2"}`, string(data))

	data, err = action.Encode(action.JSON, action.New[string]("delay"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"delay"}`, string(data))
}

func TestEncode_RejectsMissingType(t *testing.T) {
	_, err := action.Encode(action.JSON, action.Action[int]{})
	assert.ErrorIs(t, err, action.ErrMissingType)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		codec   action.Codec
		data    string
		want    action.Action[int]
		wantErr error
	}{
		{
			name:  "json with payload",
			codec: action.JSON,
			data:  `{"type":"set-message","payload":7}`,
			want:  action.Of("set-message", 7),
		},
		{
			name:  "json without payload",
			codec: action.JSON,
			data:  `{"type":"reset"}`,
			want:  action.New[int]("reset"),
		},
		{
			name:    "json without type",
			codec:   action.JSON,
			data:    `{"payload":7}`,
			wantErr: action.ErrMissingType,
		},
		{
			name:  "yaml with payload",
			codec: action.YAML,
			data:  "type: set-message\npayload: 7\n",
			want:  action.Of("set-message", 7),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := action.Decode[int](tt.codec, []byte(tt.data))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_PayloadTypeMismatch(t *testing.T) {
	_, err := action.Decode[int](action.JSON, []byte(`{"type":"x","payload":"seven"}`))
	assert.Error(t, err)
}

func TestPeek(t *testing.T) {
	typ, err := action.Peek(action.YAML, []byte("type: delay\npayload: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, "delay", typ)

	_, err = action.Peek(action.JSON, []byte(`{"payload":5}`))
	assert.ErrorIs(t, err, action.ErrMissingType)
}

func TestYAML_RoundTrip(t *testing.T) {
	data, err := action.Encode(action.YAML, action.Of("delay", "hello 5!"))
	require.NoError(t, err)
	got, err := action.Decode[string](action.YAML, data)
	require.NoError(t, err)
	assert.Equal(t, "hello 5!", got.Must())
}
