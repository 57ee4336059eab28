package engine

import (
	"fmt"
	"strings"

	"github.com/tsawler/asyncpdf/bytestream"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ExtractMetadataFile extracts document metadata from the PDF at path.
func (e *Engine) ExtractMetadataFile(path string, flag cancelFlag) (MetadataResult, error) {
	s, err := bytestream.OpenFile(path)
	if err != nil {
		return MetadataResult{}, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer s.Close()

	return e.ExtractMetadata(s, flag)
}

// ExtractMetadataBuffer extracts document metadata from an in-memory
// PDF. The buffer is copied before use.
func (e *Engine) ExtractMetadataBuffer(data []byte, flag cancelFlag) (MetadataResult, error) {
	s := bytestream.NewBuffer(data)
	defer s.Close()

	return e.ExtractMetadata(s, flag)
}

// ExtractMetadata runs the core metadata extraction over an open stream:
// page count, declared PDF version, and the named string fields of the
// document's info dictionary. Fields absent from the dictionary stay
// nil, never the empty string, so downstream consumers can tell
// "absent" from "present but empty".
//
// The cancellation flag is checked before and after the library call,
// never during.
func (e *Engine) ExtractMetadata(s bytestream.Stream, flag cancelFlag) (MetadataResult, error) {
	if flag != nil && flag.Cancelled() {
		return MetadataResult{Cancelled: true}, nil
	}

	info, err := e.docs.parseDocument(s)

	if flag != nil && flag.Cancelled() {
		return MetadataResult{Cancelled: true}, nil
	}
	if err != nil {
		return MetadataResult{}, fmt.Errorf("%w: %w", ErrParse, err)
	}

	return MetadataResult{
		PageCount:        info.pageCount,
		Version:          info.version,
		Title:            info.title,
		Author:           info.author,
		Subject:          info.subject,
		Creator:          info.creator,
		Producer:         info.producer,
		CreationDate:     info.creationDate,
		ModificationDate: info.modificationDate,
	}, nil
}

// decodePDFString converts a raw PDF text string to UTF-8. PDF strings
// are either UTF-16BE with a byte order mark, or PDFDocEncoding, which
// agrees with Latin-1 for all printable characters.
func decodePDFString(raw string) string {
	if strings.HasPrefix(raw, "\xfe\xff") {
		decoder := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		if decoded, err := decoder.String(raw); err == nil {
			return decoded
		}
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().String(raw)
	if err != nil {
		return raw
	}
	return decoded
}
