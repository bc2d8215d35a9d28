package report

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kundix7-sys/product-testing-app/internal/domain"
)

func testProduct() domain.Product {
	return domain.Product{
		ID:          1001,
		InventoryID: "INV-042",
		Name:        "Widget Pro",
		Description: "Bench unit",
		Price:       24.5,
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func pngDataURI(t *testing.T) string {
	t.Helper()
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t))
}

func fixedClock() func() time.Time {
	at := time.Date(2026, 8, 25, 10, 15, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestBuildDocumentOrderAndCounts(t *testing.T) {
	b := &Builder{Now: fixedClock()}
	components := []domain.ComponentTest{
		{Name: "Power supply", Status: domain.StatusWorking},
		{Name: "Fan", Status: domain.StatusNotWorking, Notes: "rattles"},
		{Name: "Display", Status: domain.StatusUntested},
	}
	photos := []domain.ProductPhoto{
		{Source: pngDataURI(t)},
		{Source: pngDataURI(t)},
	}

	doc, err := b.BuildDocument(context.Background(), testProduct(), components, photos, nil)
	require.NoError(t, err)

	require.Len(t, doc.Components, len(components))
	for i, entry := range doc.Components {
		assert.Equal(t, components[i].Name, entry.Name)
	}
	require.Len(t, doc.Photos, len(photos))
	for _, entry := range doc.Photos {
		assert.False(t, entry.Unavailable)
		assert.NotNil(t, entry.Image)
	}
	assert.Nil(t, doc.Screenshot, "no screenshot section when none supplied")
}

func TestBuildDocumentStatusMarkers(t *testing.T) {
	b := &Builder{Now: fixedClock()}

	tests := []struct {
		name       string
		status     string
		wantMarker string
	}{
		{"working maps to pass", domain.StatusWorking, markerWorking},
		{"not-working maps to fail", domain.StatusNotWorking, markerNotWorking},
		{"untested maps to untested", domain.StatusUntested, markerUntested},
		{"unknown degrades to untested", "exploded", markerUntested},
		{"empty degrades to untested", "", markerUntested},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := b.BuildDocument(context.Background(), testProduct(),
				[]domain.ComponentTest{{Name: "x", Status: tt.status}}, nil, nil)
			require.NoError(t, err)
			require.Len(t, doc.Components, 1)
			assert.Equal(t, tt.wantMarker, doc.Components[0].Marker)
		})
	}
}

func TestBuildDocumentUnknownStatusMatchesUntested(t *testing.T) {
	b := &Builder{Now: fixedClock()}
	doc, err := b.BuildDocument(context.Background(), testProduct(), []domain.ComponentTest{
		{Name: "a", Status: "???"},
		{Name: "b", Status: domain.StatusUntested},
	}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, doc.Components[1].Marker, doc.Components[0].Marker)
	assert.Equal(t, doc.Components[1].Status, doc.Components[0].Status)
}

func TestBuildDocumentBadPhotoBecomesPlaceholder(t *testing.T) {
	b := &Builder{Now: fixedClock()}
	photos := []domain.ProductPhoto{
		{Source: "data:image/png;base64,AAAA"}, // decodes to garbage, not an image
		{Source: pngDataURI(t)},
	}
	doc, err := b.BuildDocument(context.Background(), testProduct(), nil, photos, nil)
	require.NoError(t, err, "a single bad image must not abort the build")
	require.Len(t, doc.Photos, 2)
	assert.True(t, doc.Photos[0].Unavailable)
	assert.Equal(t, "image unavailable", doc.Photos[0].Reason)
	assert.False(t, doc.Photos[1].Unavailable)
}

func TestBuildDocumentRemoteSourceWithoutResolver(t *testing.T) {
	b := &Builder{Now: fixedClock()}
	doc, err := b.BuildDocument(context.Background(), testProduct(), nil,
		[]domain.ProductPhoto{{Source: "https://example.com/a.png"}}, nil)
	require.NoError(t, err)
	require.Len(t, doc.Photos, 1)
	assert.True(t, doc.Photos[0].Unavailable)
}

func TestBuildDocumentResolverIsUsedForURLs(t *testing.T) {
	img := pngBytes(t)
	var resolved []string
	b := &Builder{
		Now: fixedClock(),
		Images: ResolverFunc(func(ctx context.Context, src string) ([]byte, error) {
			resolved = append(resolved, src)
			return img, nil
		}),
	}
	doc, err := b.BuildDocument(context.Background(), testProduct(), nil,
		[]domain.ProductPhoto{{Source: "https://example.com/a.png"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/a.png"}, resolved)
	require.Len(t, doc.Photos, 1)
	assert.False(t, doc.Photos[0].Unavailable)
}

func TestBuildDocumentScreenshotSection(t *testing.T) {
	b := &Builder{Now: fixedClock()}

	doc, err := b.BuildDocument(context.Background(), testProduct(), nil, nil, pngBytes(t))
	require.NoError(t, err)
	require.NotNil(t, doc.Screenshot)
	assert.False(t, doc.Screenshot.Unavailable)

	// An undecodable screenshot degrades to a marker instead of failing.
	doc, err = b.BuildDocument(context.Background(), testProduct(), nil, nil, []byte("not an image"))
	require.NoError(t, err)
	require.NotNil(t, doc.Screenshot)
	assert.True(t, doc.Screenshot.Unavailable)
}

func TestBuildDocumentEmptyListsTitleOnly(t *testing.T) {
	b := &Builder{Now: fixedClock()}
	doc, err := b.BuildDocument(context.Background(), testProduct(), nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Components)
	assert.Empty(t, doc.Photos)
	assert.Nil(t, doc.Screenshot)
	assert.Equal(t, "Widget Pro", doc.Title.Name)
	assert.Equal(t, "INV-042", doc.Title.InventoryID)
}

func TestBuildInvalidInput(t *testing.T) {
	b := &Builder{Now: fixedClock()}

	tests := []struct {
		name    string
		product domain.Product
	}{
		{"empty name", domain.Product{InventoryID: "INV-1"}},
		{"empty inventory id", domain.Product{Name: "Widget"}},
		{"whitespace name", domain.Product{Name: "   ", InventoryID: "INV-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(context.Background(), tt.product, nil, nil, nil, PurposeDownload)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestBuildDeterministicStructure(t *testing.T) {
	b := &Builder{Now: fixedClock()}
	components := []domain.ComponentTest{
		{Name: "Power supply", Status: domain.StatusWorking},
		{Name: "Fan", Status: domain.StatusNotWorking},
	}
	photos := []domain.ProductPhoto{{Source: pngDataURI(t)}}

	first, err := b.BuildDocument(context.Background(), testProduct(), components, photos, nil)
	require.NoError(t, err)
	second, err := b.BuildDocument(context.Background(), testProduct(), components, photos, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildDoesNotMutateInputs(t *testing.T) {
	b := &Builder{Now: fixedClock()}
	components := []domain.ComponentTest{{Name: "Fan", Status: "bogus"}}
	photos := []domain.ProductPhoto{{Source: "data:image/png;base64,AAAA"}}

	_, err := b.Build(context.Background(), testProduct(), components, photos, nil, PurposeDownload)
	require.NoError(t, err)
	assert.Equal(t, "bogus", components[0].Status, "normalization must not write back")
	assert.Equal(t, "data:image/png;base64,AAAA", photos[0].Source)
}

func TestBuildArtifactFilename(t *testing.T) {
	b := &Builder{Now: fixedClock()}

	artifact, err := b.Build(context.Background(), testProduct(), nil, nil, nil, PurposeDownload)
	require.NoError(t, err)
	assert.Equal(t, "Widget_Pro_test_report_20260825101500.xlsx", artifact.Filename)
	assert.NotEmpty(t, artifact.Content)

	artifact, err = b.Build(context.Background(), testProduct(), nil, nil, nil, PurposeEmail)
	require.NoError(t, err)
	assert.Equal(t, "Widget_Pro_test_report.xlsx", artifact.Filename)
}
