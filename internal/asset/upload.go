package asset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// KiB is the unit upload ceilings are expressed in.
	KiB int64 = 1 << 10

	// LargeImage is the ceiling for hero slides and gallery photos.
	LargeImage = 5120 * KiB
	// SmallImage is the ceiling for every other image.
	SmallImage = 2048 * KiB
)

var (
	// ErrFileRequired is returned when a required image is missing.
	ErrFileRequired = errors.New("an image is required")
	// ErrFileTooLarge is returned when an upload exceeds its ceiling.
	ErrFileTooLarge = errors.New("the image is too large")
	// ErrFileType is returned when the content is not an accepted image type.
	ErrFileType = errors.New("the file must be a jpeg, png, gif or svg image")
)

// accepted maps the sniffed MIME types to the extension used for storage keys.
var accepted = []struct { //nolint:gochecknoglobals
	mime string
	ext  string
}{
	{"image/jpeg", ".jpg"},
	{"image/png", ".png"},
	{"image/gif", ".gif"},
	{"image/svg+xml", ".svg"},
}

// Rule describes what a form field accepts.
type Rule struct {
	Required bool
	MaxBytes int64
}

// WithRequired returns a copy of r with Required set to req.
func (r Rule) WithRequired(req bool) Rule {
	r.Required = req
	return r
}

// Upload is a validated image held in memory, ready to be stored.
type Upload struct {
	Data     []byte
	MIME     string
	Ext      string
	Filename string // client side name, informational only
}

// Size returns the number of bytes of the upload.
func (u *Upload) Size() int64 {
	return int64(len(u.Data))
}

// Reader returns a fresh reader over the upload.
func (u *Upload) Reader() io.Reader {
	return bytes.NewReader(u.Data)
}

// Check validates fh against r. A missing optional file yields (nil, nil).
// The content type is sniffed from the bytes, the client supplied header is ignored.
func (r Rule) Check(fh *multipart.FileHeader) (*Upload, error) {
	if fh == nil || fh.Size == 0 {
		if r.Required {
			return nil, ErrFileRequired
		}

		return nil, nil //nolint:nilnil // no file is a valid outcome
	}

	if r.MaxBytes > 0 && fh.Size > r.MaxBytes {
		return nil, fmt.Errorf("%w (max %d KB)", ErrFileTooLarge, r.MaxBytes/KiB)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	return r.CheckReader(f, fh.Filename)
}

// CheckReader validates the content of src against r. A nil src is a missing file.
func (r Rule) CheckReader(src io.Reader, filename string) (*Upload, error) {
	if src == nil {
		if r.Required {
			return nil, ErrFileRequired
		}

		return nil, nil //nolint:nilnil // no file is a valid outcome
	}

	return r.read(src, filename)
}

func (r Rule) read(src io.Reader, filename string) (*Upload, error) {
	reader := src
	if r.MaxBytes > 0 {
		reader = io.LimitReader(src, r.MaxBytes+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	if len(data) == 0 {
		if r.Required {
			return nil, ErrFileRequired
		}

		return nil, nil //nolint:nilnil // empty file input
	}

	if r.MaxBytes > 0 && int64(len(data)) > r.MaxBytes {
		return nil, fmt.Errorf("%w (max %d KB)", ErrFileTooLarge, r.MaxBytes/KiB)
	}

	mt := mimetype.Detect(data)
	for _, a := range accepted {
		if mt.Is(a.mime) {
			return &Upload{Data: data, MIME: a.mime, Ext: a.ext, Filename: filename}, nil
		}
	}

	return nil, ErrFileType
}
