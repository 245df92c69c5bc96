package media

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
)

// DefaultContentType is used when the declared type cannot be determined.
const DefaultContentType = "application/octet-stream"

// File is a selected evidence file.
//
// Size is the declared size. It normally equals len(Data), but callers (and
// tests) may declare a size without materializing the payload.
type File struct {
	Name string
	Type string
	Size int64
	Data []byte
}

// FromBytes builds a File whose declared size is the payload length.
func FromBytes(name, contentType string, data []byte) File {
	return File{Name: name, Type: contentType, Size: int64(len(data)), Data: data}
}

// Reader returns a fresh reader over the payload.
func (f File) Reader() *bytes.Reader {
	return bytes.NewReader(f.Data)
}

// FromPath reads a file from disk. The MIME type is detected from the file
// extension.
func FromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read file: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = DefaultContentType
	}

	return File{
		Name: filepath.Base(path),
		Type: contentType,
		Size: info.Size(),
		Data: data,
	}, nil
}

// FromMultipart reads a file submitted through a multipart form (file picker
// or drag-and-drop in the console). The declared type comes from the part
// header, falling back to the file extension.
func FromMultipart(fh *multipart.FileHeader) (File, error) {
	src, err := fh.Open()
	if err != nil {
		return File{}, fmt.Errorf("failed to open form file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return File{}, fmt.Errorf("failed to read form file: %w", err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(fh.Filename))
	}
	if contentType == "" {
		contentType = DefaultContentType
	}

	return File{
		Name: filepath.Base(fh.Filename),
		Type: contentType,
		Size: fh.Size,
		Data: data,
	}, nil
}
