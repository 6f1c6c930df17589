package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
)

// FileField is a file attached to a POST, PUT or PATCH request. Any file
// switches the body from JSON to multipart/form-data.
type FileField struct {
	// FieldName is the form field name (e.g., "file", "avatar").
	FieldName string
	// FileName is the file name sent to the server.
	FileName string
	// ContentType is the MIME type. If empty, uses application/octet-stream.
	ContentType string
	// Data is the file content. Used if Reader is nil.
	Data []byte
	// Reader is an alternative to Data.
	Reader io.Reader
}

// encodeMultipart writes data as form fields followed by the files and
// returns the body and its content type. data must encode to a JSON object.
func encodeMultipart(data any, files []FileField) ([]byte, string, error) {
	fields, err := formFields(data)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, f := range files {
		var part io.Writer
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

		if f.Data != nil {
			if _, err := part.Write(f.Data); err != nil {
				return nil, "", err
			}
		} else if f.Reader != nil {
			if _, err := io.Copy(part, f.Reader); err != nil {
				return nil, "", err
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// formFields flattens data into string form values. Strings are kept,
// other values are JSON-encoded.
func formFields(data any) (map[string]string, error) {
	if data == nil {
		return nil, nil
	}
	if m, ok := data.(map[string]string); ok {
		return m, nil
	}

	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode form data: %w", err)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, fmt.Errorf("form data must be an object: %w", err)
	}

	out := make(map[string]string, len(obj))
	for k, raw := range obj {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			out[k] = s
			continue
		}
		out[k] = string(raw)
	}
	return out, nil
}

// escapeQuotes replaces special characters in header values.
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
