package feed

import (
	"bytes"
	"strings"

	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
	"github.com/theoremus-urban-solutions/gpsdio-vector/plugin"
)

// Input formats
const (
	FormatNDJSON = "ndjson"
	FormatGTFSRT = "gtfsrt"
)

// Decode decodes data in the named input format.
func Decode(format string, data []byte) ([]plugin.Message, error) {
	switch strings.ToLower(format) {
	case FormatNDJSON, "":
		return ReadNDJSON(bytes.NewReader(data))
	case FormatGTFSRT:
		return DecodeVehiclePositions(data)
	}
	return nil, errors.WithHintf(
		errors.Newf("unknown input format %q", format),
		"use %s or %s", FormatNDJSON, FormatGTFSRT,
	)
}
