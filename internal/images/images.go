// Package images turns user-supplied image inputs into storable references.
// A remote URL is stored as-is, an uploaded file is re-encoded as a data URI,
// and when neither is given a fixed placeholder is substituted.
package images

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/craftline/orderdesk/internal/apperrors"
)

// Placeholder is stored whenever no image was supplied.
const Placeholder = "/placeholder.svg"

// DefaultMaxBytes caps inline uploads at 5 MiB unless configured otherwise.
const DefaultMaxBytes = 5 << 20

type Input struct {
	// URL of an externally hosted image, stored untouched.
	URL string
	// Data is the raw content of a locally selected file.
	Data []byte
	// ContentType of Data, e.g. "image/png". Defaults to image/jpeg.
	ContentType string
}

type Resolver struct {
	MaxBytes int
}

func NewResolver(maxBytes int) *Resolver {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Resolver{MaxBytes: maxBytes}
}

// Resolve validates the input and returns the reference to store. A file
// larger than MaxBytes is rejected rather than silently accepted.
func (r *Resolver) Resolve(in Input) (string, error) {
	if len(in.Data) > 0 {
		if len(in.Data) > r.MaxBytes {
			return "", fmt.Errorf("%w: image is %d bytes, limit is %d", apperrors.ErrValidation, len(in.Data), r.MaxBytes)
		}
		ct := in.ContentType
		if ct == "" {
			ct = "image/jpeg"
		}
		if !strings.HasPrefix(ct, "image/") {
			return "", fmt.Errorf("%w: unsupported content type %q", apperrors.ErrValidation, ct)
		}
		return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(in.Data), nil
	}
	if u := strings.TrimSpace(in.URL); u != "" {
		return u, nil
	}
	return Placeholder, nil
}
