package report

import (
	"bytes"
	"context"
	"image"
	"strings"

	"github.com/pkg/errors"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ImageResolver fetches image bytes for non-data-URI photo sources.
// The builder itself performs no network I/O; the delivery layer injects
// an HTTP-backed resolver and tests inject fakes.
type ImageResolver interface {
	Resolve(ctx context.Context, src string) ([]byte, error)
}

// ResolverFunc adapts a function to the ImageResolver interface.
type ResolverFunc func(ctx context.Context, src string) ([]byte, error)

func (f ResolverFunc) Resolve(ctx context.Context, src string) ([]byte, error) {
	return f(ctx, src)
}

// loadImage turns a photo source into validated image data. Data URIs
// are decoded in-process; everything else goes through the resolver.
func (b *Builder) loadImage(ctx context.Context, src string) (*Image, error) {
	var data []byte
	var err error
	switch {
	case strings.HasPrefix(src, "data:"):
		data, err = DecodeDataURI(src)
	case b.Images != nil:
		data, err = b.Images.Resolve(ctx, src)
	default:
		err = errors.New("no resolver configured for remote image source")
	}
	if err != nil {
		return nil, err
	}
	return validateImage(data)
}

// validateImage confirms the bytes decode as an embeddable image and
// derives the extension the workbook serializer needs.
func validateImage(data []byte) (*Image, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	switch format {
	case "png", "jpeg", "gif":
		return &Image{Data: data, Ext: "." + format}, nil
	default:
		return nil, errors.Errorf("unsupported image format %q", format)
	}
}
