package bgzf

import (
	"io"
	"strings"
)

// TextReader wraps a Reader to hand back decoded lines as strings,
// keeping text access as a separate type instead of a runtime mode
// flag: binary access stays on Reader's []byte API and text access
// goes through TextReader, so the two modes can never be accidentally
// mixed on one value.
type TextReader struct {
	r *Reader
}

// NewTextReader wraps an existing Reader for line-oriented text
// access. The TextReader shares r rather than copying it: closing the
// TextReader closes r too, since there is no independent resource to
// release.
func NewTextReader(r *Reader) *TextReader {
	return &TextReader{r: r}
}

// ReadLine reads the next line, including its trailing newline if one
// was present (absent only for a final unterminated line at true end
// of stream), decoded as UTF-8.
func (t *TextReader) ReadLine() (string, error) {
	b, err := t.r.ReadLine()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadLines reads every remaining line and returns them with trailing
// newlines stripped, for callers that want the whole stream at once.
func (t *TextReader) ReadLines() ([]string, error) {
	var lines []string
	for {
		line, err := t.r.ReadLine()
		if len(line) > 0 {
			lines = append(lines, strings.TrimSuffix(string(line), "\n"))
		}
		if err != nil {
			if err == io.EOF {
				return lines, nil
			}
			return lines, err
		}
	}
}

// Tell and Seek delegate to the wrapped Reader so a TextReader
// participates in the same virtual-offset addressing as Reader.
func (t *TextReader) Tell() uint64 { return t.r.Tell() }

func (t *TextReader) Seek(voffset uint64) (uint64, error) { return t.r.Seek(voffset) }

func (t *TextReader) Close() error { return t.r.Close() }
