package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/mikey/eco-scheduler/internal/core"
)

var errNotImage = errors.New("uploaded file is not an image")

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// parseForm parses a multipart body within the configured upload limit
func (s *Server) parseForm(r *http.Request) error {
	return r.ParseMultipartForm(s.cfg.MaxUploadBytes)
}

// readImage returns the image uploaded under field, or nil when none was sent.
// The MIME type is sniffed from the bytes rather than trusted from the client.
func readImage(r *http.Request, field string) (*core.InlineImage, error) {
	file, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%w: %s", errNotImage, mtype.String())
	}

	return &core.InlineImage{Data: data, MIMEType: mtype.String()}, nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
