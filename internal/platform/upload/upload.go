// Package upload stores image files posted in multipart forms and hands back
// the bare object keys.
package upload

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"

	dErrors "electoral/pkg/domain-errors"
)

// MaxFileSize is the per-file limit for photos and party symbols.
const MaxFileSize = 2 << 20

// maxFormSize bounds a whole form: two files plus text fields.
const maxFormSize = 3*MaxFileSize + 1<<20

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// Putter is the write side of object storage.
type Putter interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

type Uploader struct {
	store Putter
}

func New(store Putter) *Uploader {
	return &Uploader{store: store}
}

// ParseForm parses a multipart body within the form size limit.
func ParseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return dErrors.New(dErrors.CodeValidation, "request too large")
		}
		return dErrors.New(dErrors.CodeBadRequest, "invalid multipart form")
	}
	return nil
}

// Save stores the file posted as field under folder/<uuid>.<ext> and returns
// the key. It returns "" without error when the field is absent.
func (u *Uploader) Save(ctx context.Context, r *http.Request, field, folder string) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid file field "+field)
	}
	defer file.Close()
	return u.save(ctx, file, header, field, folder)
}

func (u *Uploader) save(ctx context.Context, file multipart.File, header *multipart.FileHeader, field, folder string) (string, error) {
	if header.Size > MaxFileSize {
		return "", dErrors.New(dErrors.CodeValidation, field+": file too large (max 2MB)")
	}
	body, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read "+field)
	}
	if len(body) > MaxFileSize {
		return "", dErrors.New(dErrors.CodeValidation, field+": file too large (max 2MB)")
	}
	contentType := http.DetectContentType(body)
	ext, ok := extensions[contentType]
	if !ok {
		return "", dErrors.New(dErrors.CodeValidation, field+": only image files are allowed")
	}
	key := folder + "/" + uuid.NewString() + ext
	if err := u.store.Put(ctx, key, contentType, body); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to store upload")
	}
	return key, nil
}

// ProfilePhotoFolder is where profile photos for a role folder live.
func ProfilePhotoFolder(roleFolder string) string {
	return "profile-photos/" + roleFolder
}

// PartySymbolFolder holds party symbol images.
const PartySymbolFolder = "party-symbols"
