package httpx

import (
	"bytes"
	"errors"
	"mime/multipart"
)

// Form builds a multipart/form-data body. Parts are written in the order they are added.
type Form struct {
	parts []formPart
}

type formPart struct {
	name     string
	fileName string
	value    []byte
	isFile   bool
}

func NewForm() *Form { return &Form{} }

// Field adds a plain text field.
func (f *Form) Field(name, value string) *Form {
	f.parts = append(f.parts, formPart{name: name, value: []byte(value)})
	return f
}

// File adds a file part tagged with fileName.
func (f *Form) File(name, fileName string, data []byte) *Form {
	f.parts = append(f.parts, formPart{name: name, fileName: fileName, value: data, isFile: true})
	return f
}

// Encode renders the form and returns the body plus its Content-Type (with boundary).
func (f *Form) Encode() ([]byte, string, error) {
	if f == nil {
		return nil, "", errors.New("httpx: nil form")
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range f.parts {
		if !p.isFile {
			if err := w.WriteField(p.name, string(p.value)); err != nil {
				return nil, "", err
			}
			continue
		}
		fw, err := w.CreateFormFile(p.name, p.fileName)
		if err != nil {
			return nil, "", err
		}
		if _, err := fw.Write(p.value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
