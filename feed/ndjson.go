package feed

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/theoremus-urban-solutions/gpsdio-vector/errors"
	"github.com/theoremus-urban-solutions/gpsdio-vector/plugin"
)

const maxLineSize = 1 << 20

// ReadNDJSON reads one JSON object per line. Numbers are kept as
// json.Number; blank lines are skipped.
func ReadNDJSON(r io.Reader) ([]plugin.Message, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var msgs []plugin.Message
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		var msg plugin.Message
		if err := dec.Decode(&msg); err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		if msg == nil {
			return nil, errors.Newf("line %d: expected a JSON object", line)
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return nil, errors.Newf("line %d: unexpected data after JSON object", line)
		}
		msgs = append(msgs, msg)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "after line %d", line)
	}
	return msgs, nil
}
