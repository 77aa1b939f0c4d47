package util

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeSource converts raw file bytes into the UTF-8 text the scanner
// works on. A UTF-8 byte order mark is stripped and UTF-16 input (detected
// by its BOM) is transcoded. Input without a BOM is passed through as is,
// so byte offsets keep matching the file on disk.
func DecodeSource(data []byte) (string, error) {
	decoder := unicode.BOMOverride(transform.Nop)
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("decode source: %w", err)
	}
	return string(out), nil
}

// NewParseSourceFileFromBytes decodes data with DecodeSource and wraps it
// in a ParseSourceFile.
func NewParseSourceFileFromBytes(data []byte, url string) (*ParseSourceFile, error) {
	content, err := DecodeSource(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return NewParseSourceFile(content, url), nil
}
