// Package storage persists uploaded product images on local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ErrUnsupportedImage is returned for files that are not jpg, png, gif or webp.
var ErrUnsupportedImage = errors.New("unsupported image type")

const maxImageBytes = 5 << 20

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type ImageStore struct {
	Dir       string
	URLPrefix string
	Now       func() time.Time
}

func NewImageStore(dir, urlPrefix string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &ImageStore{Dir: dir, URLPrefix: urlPrefix, Now: time.Now}, nil
}

// Save copies the upload to Dir under a fresh gorra-<ts>-<rand><ext> name and
// returns the public reference.
func (s *ImageStore) Save(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImage, ext)
	}
	if fh.Size > maxImageBytes {
		return "", fmt.Errorf("%w: file larger than %d bytes", ErrUnsupportedImage, maxImageBytes)
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := fmt.Sprintf("gorra-%d-%d%s", s.Now().UnixNano(), rand.IntN(1_000_000_000), ext)
	dst, err := os.OpenFile(filepath.Join(s.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return path.Join(s.URLPrefix, name), nil
}

// Remove deletes the file behind a reference returned by Save. References
// outside URLPrefix are ignored.
func (s *ImageStore) Remove(ref string) error {
	name, ok := strings.CutPrefix(ref, strings.TrimSuffix(s.URLPrefix, "/")+"/")
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
