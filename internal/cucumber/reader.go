package cucumber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrEmptyReport   = errors.New("cucumber report is empty")
	ErrInvalidReport = errors.New("cucumber report is invalid")
)

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

type Reader struct {
	r io.Reader
}

// ReadAll reads and validates the whole report. Terminal noise around the JSON
// document, such as ANSI colour codes or a banner, is stripped first.
func (r *Reader) ReadAll(ctx context.Context) ([]Feature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(r.r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	return Parse(raw)
}

// ReadFile opens pth and reads it as a cucumber report. A missing file is an
// error: the report is the input of correlation, not an optional extra.
func ReadFile(ctx context.Context, pth string) ([]Feature, error) {
	file, err := os.Open(pth)
	if err != nil {
		return nil, fmt.Errorf("os.Open: %w", err)
	}

	defer file.Close()

	features, err := NewReader(file).ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", pth, err)
	}

	return features, nil
}

func Parse(data []byte) ([]Feature, error) {
	data = clean(data)
	if len(data) == 0 {
		return nil, ErrEmptyReport
	}

	if err := validate(data); err != nil {
		return nil, err
	}

	var features []Feature
	if err := json.Unmarshal(data, &features); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return features, nil
}

// clean strips ANSI escapes and anything before the first JSON delimiter.
func clean(data []byte) []byte {
	stripped := bytes.TrimSpace(stripANSI(data))
	if len(stripped) == 0 {
		return stripped
	}

	if idx := bytes.IndexAny(stripped, "[{"); idx > 0 {
		stripped = bytes.TrimSpace(stripped[idx:])
	}

	return stripped
}

func stripANSI(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); {
		if data[i] == 0x1b && i+1 < len(data) && data[i+1] == '[' {
			i += 2
			for i < len(data) {
				ch := data[i]
				i++
				if ch >= 0x40 && ch <= 0x7e {
					break
				}
			}
			continue
		}
		out = append(out, data[i])
		i++
	}

	return out
}
