package storage

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// allowedImageExt maps accepted content types to file extensions.
var allowedImageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// DetectImage sniffs data and returns its content type and extension when it is an accepted image.
// The client supplied content type is never trusted.
func DetectImage(data []byte) (contentType, ext string, ok bool) {
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if ext, ok := allowedImageExt[m.String()]; ok {
			return m.String(), ext, true
		}
	}
	return mt.String(), "", false
}

// RandomName builds a collision-free object name such as "photos/student-<uuid>.jpg". The
// extension of original is kept when ext is empty.
func RandomName(dir, prefix, original, ext string) string {
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(original))
	}
	name := prefix + "-" + uuid.NewString() + ext
	if dir == "" {
		return name
	}
	return strings.TrimRight(dir, "/") + "/" + name
}
