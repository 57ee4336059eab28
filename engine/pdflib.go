package engine

import (
	"fmt"
	"regexp"

	"github.com/ledongthuc/pdf"
	"github.com/tsawler/asyncpdf/bytestream"
	"github.com/tsawler/asyncpdf/model"
)

// pdfLib adapts the external PDF parsing library to the engine's two
// collaborator entry points. The library is known to panic on some
// malformed documents, so both entry points recover and report the
// panic as an ordinary parse error.
type pdfLib struct{}

// extractRuns walks every page and converts the library's positioned
// text fragments into the engine's run model. Pages the library cannot
// resolve contribute an empty run list but still count as pages.
func (pdfLib) extractRuns(s bytestream.Stream) (pages []model.PageRuns, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf library panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(s, s.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	total := reader.NumPage()
	pages = make([]model.PageRuns, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}

		content := page.Content()
		runs := make(model.PageRuns, 0, len(content.Text))
		for _, t := range content.Text {
			runs = append(runs, model.TextRun{
				Text: t.S,
				Box:  model.NewBBox(t.X, t.Y, t.W, t.FontSize),
				// The library reports fragments already transformed into
				// page space, so their orientation is the normal one.
				Matrix: model.Identity(),
			})
		}
		pages = append(pages, runs)
	}

	return pages, nil
}

// parseDocument opens the document and pulls out page count, declared
// version, and the info dictionary's string fields.
func (pdfLib) parseDocument(s bytestream.Stream) (info *documentInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			info = nil
			err = fmt.Errorf("pdf library panic: %v", r)
		}
	}()

	version, err := parseHeaderVersion(s)
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(s, s.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	info = &documentInfo{
		pageCount: reader.NumPage(),
		version:   version,
	}

	dict := reader.Trailer().Key("Info")
	if dict.IsNull() {
		return info, nil
	}

	info.title = stringField(dict, "Title")
	info.author = stringField(dict, "Author")
	info.subject = stringField(dict, "Subject")
	info.creator = stringField(dict, "Creator")
	info.producer = stringField(dict, "Producer")
	info.creationDate = stringField(dict, "CreationDate")
	info.modificationDate = stringField(dict, "ModDate")

	return info, nil
}

// stringField reads one named string entry from a dictionary, decoded to
// UTF-8. It returns nil when the entry is absent or not a string.
func stringField(dict pdf.Value, key string) *string {
	v := dict.Key(key)
	if v.IsNull() || v.Kind() != pdf.String {
		return nil
	}
	decoded := decodePDFString(v.RawString())
	return &decoded
}

// headerVersionRe matches the %PDF-x.y marker that opens every document.
var headerVersionRe = regexp.MustCompile(`^%PDF-(\d+)\.(\d+)`)

// parseHeaderVersion reads the declared PDF version from the stream
// header without moving the stream position.
func parseHeaderVersion(s bytestream.Stream) (string, error) {
	header := make([]byte, 16)
	n, err := s.ReadAt(header, 0)
	if n == 0 {
		return "", fmt.Errorf("failed to read header: %w", err)
	}

	m := headerVersionRe.FindSubmatch(header[:n])
	if m == nil {
		return "", fmt.Errorf("invalid PDF header")
	}
	return fmt.Sprintf("%s.%s", m[1], m[2]), nil
}
