package core

import (
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"studymate.dev/presentation/internal/store"
)

const mimePDF = "application/pdf"

// IntakeFile classifies an uploaded file. Images are kept with a data URL
// preview; PDFs are replaced by MockDocument without reading their bytes.
// Any other type yields ErrUnsupportedFileType.
func IntakeFile(name, declaredType string, data []byte) (*store.Attachment, error) {
	mimeType := resolveMIMEType(declaredType, data)

	switch {
	case strings.HasPrefix(mimeType, "image/"):
		preview := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
		return &store.Attachment{
			Name:     name,
			MIMEType: mimeType,
			Kind:     store.FileKindImage,
			Data:     data,
			Preview:  preview,
		}, nil
	case mimeType == mimePDF:
		return &store.Attachment{
			Name:     name,
			MIMEType: mimeType,
			Kind:     store.FileKindPDF,
			Preview:  MockDocument,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, mimeType)
	}
}

// resolveMIMEType trusts the declared type unless it is missing or the
// generic octet-stream, in which case the content is sniffed.
func resolveMIMEType(declared string, data []byte) string {
	mt := baseMediaType(declared)
	if mt == "" || mt == "application/octet-stream" {
		mt = baseMediaType(mimetype.Detect(data).String())
	}
	return mt
}

func baseMediaType(v string) string {
	if v == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(v)
	if err != nil {
		mt, _, _ = strings.Cut(v, ";")
	}
	return strings.ToLower(strings.TrimSpace(mt))
}
