package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidJSON(t *testing.T) {
	tests := []struct {
		name     string
		rendered string
	}{
		{"object", `{"msg_type":"text","content":{"text":"hi"}}`},
		{"array", `[1, 2, 3]`},
		{"string", `"hello"`},
		{"number", `42`},
		{"null", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := Validate(tt.rendered)
			require.NoError(t, err)
			if tt.name != "null" {
				assert.NotNil(t, body)
			}
		})
	}
}

func TestValidate_DecodedShape(t *testing.T) {
	body, err := Validate(`{"count": 3, "ok": true}`)
	require.NoError(t, err)

	obj, ok := body.(map[string]any)
	require.True(t, ok, "decoded body should be a map")
	assert.Equal(t, float64(3), obj["count"])
	assert.Equal(t, true, obj["ok"])
}

func TestValidate_InvalidJSON(t *testing.T) {
	rendered := `{"text":"he said "hi""}`

	body, err := Validate(rendered)
	require.Error(t, err)
	assert.Nil(t, body)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, rendered, renderErr.Rendered)

	// The message must carry the rendered text verbatim so the failure
	// is diagnosable without re-running the render.
	assert.Contains(t, err.Error(), rendered)
	assert.Contains(t, err.Error(), "not valid JSON")
}

func TestValidate_EmptyInput(t *testing.T) {
	_, err := Validate("")
	require.Error(t, err)

	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
}

func TestValidate_TrailingGarbage(t *testing.T) {
	_, err := Validate(`{"a":1} trailing`)
	assert.Error(t, err)
}
