// Package emaillog loads the classified email log from a delimited file.
package emaillog

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// resolveEncoding maps an IANA charset name to a decoder. UTF-8 maps to a
// pass-through so invalid bytes can be reported instead of replaced.
func resolveEncoding(name string) (encoding.Encoding, bool, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "utf-8" || name == "utf8" {
		return encoding.Nop, true, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, false, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, false, fmt.Errorf("unsupported encoding %q", name)
	}
	if canonical, err := ianaindex.IANA.Name(enc); err == nil && canonical == "UTF-8" {
		return encoding.Nop, true, nil
	}
	return enc, false, nil
}

// decodingReader strips a leading byte order mark and decodes src to UTF-8.
func decodingReader(src io.Reader, enc encoding.Encoding) io.Reader {
	return transform.NewReader(src, unicode.BOMOverride(enc.NewDecoder()))
}
