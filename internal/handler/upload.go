package handler

import (
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/school-ledger-api/pkg/errors"
)

// maxFormFile caps how much of an uploaded part is buffered. Services apply their own, smaller limit.
const maxFormFile = 16 << 20

func readFormFile(c *gin.Context, field string) ([]byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, field+" is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxFormFile+1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to buffer file")
	}
	if len(data) > maxFormFile {
		return nil, appErrors.ErrPayloadTooLarge
	}
	return data, nil
}

// documentName builds a download file name from non-empty parts.
func documentName(ext string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kept = append(kept, strings.ReplaceAll(p, " ", "_"))
	}
	return fmt.Sprintf("%s.%s", strings.Join(kept, "-"), ext)
}
