package report

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kundix7-sys/product-testing-app/internal/domain"
)

// Builder assembles and serializes inspection reports. The zero value
// is usable: without an ImageResolver only data-URI photo sources can
// be embedded, and the wall clock is used for the generated-at stamp.
type Builder struct {
	Images ImageResolver
	// Now is the clock; tests pin it for deterministic filenames.
	Now func() time.Time
}

// Build produces the report artifact for one export action. Components
// and photos are rendered in the order supplied, one entry each, with
// no silent drops: an image that cannot be embedded degrades to an
// explicit unavailability marker. A nil screenshot omits the screenshot
// section entirely.
//
// Build never mutates its inputs and performs no I/O beyond the
// injected resolver.
func (b *Builder) Build(ctx context.Context, product domain.Product, components []domain.ComponentTest,
	photos []domain.ProductPhoto, screenshot []byte, purpose Purpose) (*Artifact, error) {
	doc, err := b.BuildDocument(ctx, product, components, photos, screenshot)
	if err != nil {
		return nil, err
	}
	content, err := EncodeXLSX(doc)
	if err != nil {
		// No partial artifact ever leaves the builder.
		return nil, errors.Wrapf(ErrSerialization, "encode workbook: %v", err)
	}
	return &Artifact{
		Content:  content,
		Filename: Filename(product.Name, purpose, doc.GeneratedAt),
	}, nil
}

// BuildDocument assembles the structural document model without
// serializing it. Exported so tests and alternative encoders can assert
// structure directly.
func (b *Builder) BuildDocument(ctx context.Context, product domain.Product, components []domain.ComponentTest,
	photos []domain.ProductPhoto, screenshot []byte) (*Document, error) {
	if strings.TrimSpace(product.Name) == "" || strings.TrimSpace(product.InventoryID) == "" {
		return nil, ErrInvalidInput
	}

	doc := &Document{
		Title: TitleBlock{
			Name:        product.Name,
			InventoryID: product.InventoryID,
			Description: product.Description,
			Price:       product.Price,
		},
		GeneratedAt: b.now(),
	}

	doc.Components = make([]ComponentEntry, 0, len(components))
	for _, ct := range components {
		status := normalizeStatus(ct.Status)
		doc.Components = append(doc.Components, ComponentEntry{
			Name:     ct.Name,
			Status:   status,
			Marker:   markerFor(status),
			Notes:    ct.Notes,
			TestedAt: ct.TestedAt,
		})
	}

	doc.Photos = make([]PhotoEntry, 0, len(photos))
	for _, photo := range photos {
		doc.Photos = append(doc.Photos, b.photoEntry(ctx, photo.Source))
	}

	if screenshot != nil {
		entry := b.screenshotEntry(screenshot)
		doc.Screenshot = &entry
	}

	return doc, nil
}

func (b *Builder) photoEntry(ctx context.Context, source string) PhotoEntry {
	img, err := b.loadImage(ctx, source)
	if err != nil {
		zap.L().Warn("report: photo unavailable, embedding placeholder", zap.Error(err))
		return PhotoEntry{Unavailable: true, Reason: "image unavailable"}
	}
	return PhotoEntry{Image: img}
}

func (b *Builder) screenshotEntry(screenshot []byte) PhotoEntry {
	img, err := validateImage(screenshot)
	if err != nil {
		zap.L().Warn("report: screenshot undecodable, embedding placeholder", zap.Error(err))
		return PhotoEntry{Unavailable: true, Reason: "image unavailable"}
	}
	return PhotoEntry{Image: img}
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}
