// Package upload contains the pieces of the query submission pipeline
// that touch uploaded images: the pre-flight validator and the file
// store that owns the uploads directory.
package upload

import (
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// File describes one uploaded image before it is persisted: the
// client-declared name, MIME type and size, plus an opener for the
// payload. Validation looks only at the declared metadata; the
// payload is read once, when the file is stored.
type File struct {
	Name string // original file name from the client
	MIME string // declared content type
	Size int64  // declared size in bytes
	Open func() (io.ReadCloser, error)
}

// FromMultipart adapts a multipart file part into a File. When the
// part carries no Content-Type header the type is guessed from the
// file extension, matching what browsers send for plain file inputs.
func FromMultipart(fh *multipart.FileHeader) File {
	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = MIMEFromName(fh.Filename)
	}
	return File{
		Name: fh.Filename,
		MIME: mimeType,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// mimeByExt maps image file extensions to MIME types. jpeg is the
// default for unknown extensions, matching typical camera uploads.
var mimeByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// MIMEFromName guesses an image MIME type from a file name.
func MIMEFromName(name string) string {
	if m, ok := mimeByExt[strings.ToLower(filepath.Ext(name))]; ok {
		return m
	}
	return "image/jpeg"
}
