// Package uploads validates multipart image uploads and spools them to a
// temporary file whose lifetime is bound to the request.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNoFile          = errors.New("no image uploaded")
	ErrTooLarge        = errors.New("image exceeds maximum upload size")
	ErrUnsupportedType = errors.New("only image files are allowed")
)

var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
}

// checks presence, size, declared MIME type and extension
func Validate(header *multipart.FileHeader, maxBytes int64) error {
	if header == nil {
		return ErrNoFile
	}

	if header.Size > maxBytes {
		return fmt.Errorf("%w: %d bytes > %d bytes", ErrTooLarge, header.Size, maxBytes)
	}

	mimeType := strings.ToLower(header.Header.Get("Content-Type"))
	ext := strings.ToLower(filepath.Ext(header.Filename))

	if !allowedMIMETypes[mimeType] || !allowedExtensions[ext] {
		return fmt.Errorf("%w: %q (%s)", ErrUnsupportedType, header.Filename, mimeType)
	}

	return nil
}

// an accepted upload. The backing temp file is created on first read and
// removed by Close; Close is safe to call on every exit path.
type Upload struct {
	header   *multipart.FileHeader
	dir      string
	maxBytes int64

	mu   sync.Mutex
	path string
}

func New(header *multipart.FileHeader, dir string, maxBytes int64) *Upload {
	return &Upload{header: header, dir: dir, maxBytes: maxBytes}
}

func (u *Upload) MIMEType() string {
	return strings.ToLower(u.header.Header.Get("Content-Type"))
}

func (u *Upload) Filename() string {
	return u.header.Filename
}

// spools the upload to disk if needed and returns its contents
func (u *Upload) Bytes() ([]byte, error) {
	path, err := u.spool()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spooled upload: %w", err)
	}

	return data, nil
}

// location of the spooled copy, empty until Bytes has been called
func (u *Upload) Path() string {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.path
}

func (u *Upload) spool() (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.path != "" {
		return u.path, nil
	}

	src, err := u.header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close() //nolint:errcheck

	if err := os.MkdirAll(u.dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(u.header.Filename))
	path := filepath.Join(u.dir, name)

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create spool file: %w", err)
	}

	// the declared size is client-controlled; enforce the cap on actual bytes
	written, copyErr := io.Copy(dst, io.LimitReader(src, u.maxBytes+1))
	closeErr := dst.Close()

	if copyErr == nil && written > u.maxBytes {
		copyErr = fmt.Errorf("%w: more than %d bytes", ErrTooLarge, u.maxBytes)
	}

	if copyErr != nil || closeErr != nil {
		os.Remove(path) //nolint:errcheck,gosec // best-effort cleanup
		return "", errors.Join(copyErr, closeErr)
	}

	u.path = path
	return path, nil
}

// removes the spooled copy
func (u *Upload) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.path == "" {
		return nil
	}

	err := os.Remove(u.path)
	u.path = ""

	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove spooled upload: %w", err)
	}

	return nil
}
