package mirror

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"strings"

	"github.com/pkg/errors"
)

// dataURLPrefix introduces every encoded snapshot.
const dataURLPrefix = "data:image/png;base64,"

// ErrNotDataURL is returned when decoding a string that is not a PNG data URL.
var ErrNotDataURL = errors.New("not a png data url")

// EncodeDataURL encodes img as a base64 PNG data URL.
func EncodeDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", errors.Wrap(err, "encode png")
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL decodes a string produced by EncodeDataURL.
func DecodeDataURL(s string) (image.Image, error) {
	if !strings.HasPrefix(s, dataURLPrefix) {
		return nil, ErrNotDataURL
	}

	raw, err := base64.StdEncoding.DecodeString(s[len(dataURLPrefix):])
	if err != nil {
		return nil, errors.Wrap(err, "decode base64 payload")
	}

	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "decode png")
	}
	return img, nil
}
