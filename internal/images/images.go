package images

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Image attachments travel through the RPC envelope as data URIs, the shape
// the upload flow hands to post and message submission.

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

var (
	ErrNotDataURI       = errors.New("not a data uri")
	ErrUnsupportedImage = errors.New("unsupported image type")
)

// EncodeDataURI wraps raw image bytes as a base64 data URI, detecting the
// media type from the content.
func EncodeDataURI(data []byte) (string, error) {
	mime := mimetype.Detect(data)
	if _, ok := allowedImageTypes[mime.String()]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, mime.String())
	}

	return fmt.Sprintf("data:%s;base64,%s", mime.String(), base64.StdEncoding.EncodeToString(data)), nil
}

// DecodeDataURI extracts the raw bytes and media type from a data URI. The
// declared media type is ignored; the decoded content decides.
func DecodeDataURI(uri string) ([]byte, string, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, "", ErrNotDataURI
	}

	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, "", ErrNotDataURI
	}

	header := uri[len("data:"):comma]
	if !strings.HasSuffix(header, ";base64") {
		return nil, "", fmt.Errorf("%w: missing base64 marker", ErrNotDataURI)
	}

	data, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil {
		return nil, "", fmt.Errorf("decode data uri payload: %w", err)
	}

	mime := mimetype.Detect(data)
	if _, ok := allowedImageTypes[mime.String()]; !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedImage, mime.String())
	}

	return data, mime.String(), nil
}

// IsDataURI reports whether the string looks like an inline image rather
// than a hosted URL.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}
