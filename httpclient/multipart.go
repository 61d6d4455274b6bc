package httpclient

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
)

// MultipartBody is a multipart/form-data request body. Pass it as the
// Body of a Request; the content type boundary is set automatically.
type MultipartBody struct {
	// Fields are plain form fields.
	Fields map[string]string
	// Files are file upload fields.
	Files []FileField
}

// FileField is one file in a multipart upload.
type FileField struct {
	// FieldName is the form field name (e.g. "audio").
	FieldName string
	// FileName is the file name sent to the server.
	FileName string
	// ContentType is the MIME type; empty means application/octet-stream.
	ContentType string
	// Data is the file content.
	Data []byte
}

// encode builds the multipart body and its Content-Type header value.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range m.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		var part io.Writer
		var err error
		if f.ContentType != "" {
			header := make(textproto.MIMEHeader)
			header.Set("Content-Disposition",
				`form-data; name="`+escapeQuotes(f.FieldName)+`"; filename="`+escapeQuotes(f.FileName)+`"`)
			header.Set("Content-Type", f.ContentType)
			part, err = w.CreatePart(header)
		} else {
			part, err = w.CreateFormFile(f.FieldName, f.FileName)
		}
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func escapeQuotes(s string) string {
	var buf bytes.Buffer
	for _, b := range []byte(s) {
		if b == '"' || b == '\\' {
			buf.WriteByte('\\')
		}
		buf.WriteByte(b)
	}
	return buf.String()
}
