package httpclient

import (
	"bytes"
	"io"
	"mime/multipart"
	"sort"

	"github.com/go-resty/resty/v2"
)

// Request describes one call. A non-nil Form makes it multipart and Body
// is ignored.
type Request struct {
	Method string
	Path   string
	Body   any
	Form   *Multipart
}

// File is one file part of a multipart body.
type File struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// Multipart is a form body mixing text fields and file uploads.
type Multipart struct {
	fields map[string]string
	files  map[string]File
}

// NewMultipart returns an empty form.
func NewMultipart() *Multipart {
	return &Multipart{
		fields: make(map[string]string),
		files:  make(map[string]File),
	}
}

// SetField sets a text field, replacing any previous value.
func (m *Multipart) SetField(name, value string) *Multipart {
	m.fields[name] = value
	return m
}

// SetFile attaches a file part. Files without a reader are skipped.
func (m *Multipart) SetFile(field string, f File) *Multipart {
	if f.Reader == nil {
		return m
	}
	m.files[field] = f
	return m
}

// Field returns a text field value.
func (m *Multipart) Field(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.fields[name]
	return v, ok
}

// FieldNames returns the text field names in sorted order.
func (m *Multipart) FieldNames() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.fields))
	for k := range m.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// FileNames returns the file field names in sorted order.
func (m *Multipart) FileNames() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.files))
	for k := range m.files {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// apply writes the form onto a resty request. resty sets the multipart
// content type and boundary itself, except for a form with no parts, which
// resty would send without a body.
func (m *Multipart) apply(req *resty.Request) {
	if len(m.fields) == 0 && len(m.files) == 0 {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		_ = w.Close()
		req.SetHeader(headerContentType, w.FormDataContentType())
		req.SetBody(buf.Bytes())
		return
	}
	if len(m.fields) > 0 {
		req.SetMultipartFormData(m.fields)
	}
	for _, field := range m.FileNames() {
		f := m.files[field]
		name := f.Name
		if name == "" {
			name = field
		}
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		req.SetMultipartField(field, name, contentType, f.Reader)
	}
}
