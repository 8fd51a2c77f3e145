package proxmox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractField(t *testing.T) {
	payload := `{"data":{"status":"running","vmid":100,"agent":true,"lock":null}}`

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "nested string", path: "data.status", want: "running"},
		{name: "leading dot accepted", path: ".data.status", want: "running"},
		{name: "number rendered as text", path: "data.vmid", want: "100"},
		{name: "bool rendered as text", path: "data.agent", want: "true"},
		{name: "null is empty", path: "data.lock", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractField(payload, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractField_AbsentFieldIsParseError(t *testing.T) {
	_, err := ExtractField(`{"data":{}}`, "data.status")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "data.status", parseErr.Path)
}

func TestExtractField_InvalidJSONIsParseError(t *testing.T) {
	_, err := ExtractField("not json at all", "data.status")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestExtractField_NonObjectSegmentIsParseError(t *testing.T) {
	_, err := ExtractField(`{"data":[1,2,3]}`, "data.status")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestExtractField_NonScalarLeafIsParseError(t *testing.T) {
	_, err := ExtractField(`{"data":{"status":{"nested":"x"}}}`, "data.status")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}
