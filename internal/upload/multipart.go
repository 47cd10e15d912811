package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Form accumulates text fields and file parts for a multipart request.
// Encoding streams file content through a pipe, so a 500 MB video is never
// buffered in memory.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	name string
	src  Source
}

// Field adds a plain text field.
func (f *Form) Field(name, value string) {
	f.fields = append(f.fields, formField{name: name, value: value})
}

// File adds a file part sourced from src under the given part name.
func (f *Form) File(name string, src Source) {
	f.files = append(f.files, formFile{name: name, src: src})
}

// Encode returns the multipart content type (boundary included) and a
// reader producing the encoded body. The reader must be consumed exactly
// once; encoding errors surface from the reader.
func (f *Form) Encode() (string, io.Reader) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := f.write(mw)
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	return mw.FormDataContentType(), pr
}

func (f *Form) write(mw *multipart.Writer) error {
	for _, field := range f.fields {
		if err := mw.WriteField(field.name, field.value); err != nil {
			return fmt.Errorf("multipart form: field %s: %w", field.name, err)
		}
	}

	for _, file := range f.files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`,
			escapeQuotes(file.name), escapeQuotes(file.src.Name())))
		header.Set("Content-Type", contentTypeFor(file.src))

		part, err := mw.CreatePart(header)
		if err != nil {
			return fmt.Errorf("multipart form: part %s: %w", file.name, err)
		}

		reader, err := file.src.Open()
		if err != nil {
			return fmt.Errorf("multipart form: part %s: %w", file.name, err)
		}
		_, err = io.Copy(part, reader)
		if cerr := reader.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("multipart form: part %s: %w", file.name, err)
		}
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
