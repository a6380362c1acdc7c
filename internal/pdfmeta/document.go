package pdfmeta

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"github.com/docintegrity/pdf-forensics-api/internal/analyzer"
)

// document adapts a pdf.Reader to the analyzer's Document interface
// for the integrity re-read.
type document struct {
	r      *pdf.Reader
	closer io.Closer
}

func (d *document) NumPages() int { return d.r.NumPage() }

func (d *document) PageText(page, maxChars int) (text string, err error) {
	defer recoverPanic(&err)

	p := d.r.Page(page)
	if p.V.IsNull() {
		return "", fmt.Errorf("page %d is missing", page)
	}

	text, err = p.GetPlainText(nil)
	if err != nil {
		return "", err
	}
	if maxChars >= 0 && len(text) > maxChars {
		text = text[:maxChars]
	}
	return text, nil
}

func (d *document) InfoFields() (fields map[string]string, err error) {
	defer recoverPanic(&err)

	fields = make(map[string]string)

	info := d.r.Trailer().Key("Info")
	if info.Kind() != pdf.Dict {
		return fields, nil
	}

	for _, key := range []string{"Title", "Author", "Subject", "Keywords", "Creator", "Producer"} {
		if v := info.Key(key); !v.IsNull() {
			fields[key] = v.Text()
		}
	}
	return fields, nil
}

func (d *document) Close() error {
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}

func recoverPanic(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("pdf parser panic: %v", r)
	}
}

// BytesSource re-opens an in-memory PDF for the integrity check.
type BytesSource struct {
	data []byte
}

func NewBytesSource(data []byte) *BytesSource {
	return &BytesSource{data: data}
}

func (s *BytesSource) Reopen() (analyzer.Document, error) {
	r, err := pdf.NewReader(bytes.NewReader(s.data), int64(len(s.data)))
	if err != nil {
		return nil, err
	}
	return &document{r: r}, nil
}

// FileSource re-opens an on-disk PDF for the integrity check. The file
// handle is held by the returned Document and released on Close.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Reopen() (analyzer.Document, error) {
	f, r, err := pdf.Open(s.path)
	if err != nil {
		return nil, err
	}
	return &document{r: r, closer: f}, nil
}
