package service

import (
	"io"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"

	"github.com/dbknowledge/dbchat/backend"
)

// allowedExtensions are accepted regardless of the declared content type.
var allowedExtensions = map[string]bool{
	".sql": true,
	".txt": true,
}

// ReadAttachment reads an uploaded file as a text attachment.
//
// The file must be named .sql or .txt or be declared text/plain, must not
// exceed maxBytes, must not look like a known binary format, and must be
// valid UTF-8. A byte order mark is dropped.
func ReadAttachment(name, contentType string, r io.Reader, maxBytes int64) (*backend.Attachment, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxAttachmentBytes
	}

	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) || !acceptedType(name, contentType) {
		return nil, ErrUnsupportedAttachment
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrAttachmentTooLarge
	}

	if kind, _ := filetype.Match(data); kind != filetype.Unknown {
		return nil, ErrUnsupportedAttachment
	}
	data = trimBOM(data)
	if !utf8.Valid(data) {
		return nil, ErrUnsupportedAttachment
	}

	return &backend.Attachment{Name: name, Content: string(data)}, nil
}

func acceptedType(name, contentType string) bool {
	if allowedExtensions[strings.ToLower(filepath.Ext(name))] {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "text/plain"
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
