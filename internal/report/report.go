// Package report builds the inspection report artifact for a product:
// a structured document model assembled from the product record, its
// ordered component test results, its photos and an optional screenshot
// of the live test panel, serialized to a self-contained xlsx workbook.
//
// The builder is a pure transformation. It performs no network or
// storage I/O; remote photo sources are resolved through an injected
// ImageResolver supplied by the delivery layer.
package report

import (
	"time"

	"github.com/pkg/errors"

	"github.com/kundix7-sys/product-testing-app/internal/domain"
)

// Purpose selects the filename scheme for the artifact.
type Purpose string

const (
	// PurposeDownload appends a numeric uniqueness token so repeated
	// exports of the same product do not collide on disk.
	PurposeDownload Purpose = "download"
	// PurposeEmail keeps the filename stable for the mail handoff.
	PurposeEmail Purpose = "email"
)

// ErrInvalidInput marks a precondition violation: the caller handed in a
// product without the required name or inventory id.
var ErrInvalidInput = errors.New("product name and inventory id are required")

// ErrSerialization marks a workbook encoding failure. No partial
// artifact accompanies it.
var ErrSerialization = errors.New("report serialization failed")

// Artifact is the serialized report plus its suggested filename.
type Artifact struct {
	Content  []byte
	Filename string
}

// Document is the structural model of a report, assembled before
// serialization so structure can be asserted without parsing the
// workbook bytes.
type Document struct {
	Title       TitleBlock
	Components  []ComponentEntry
	Photos      []PhotoEntry
	Screenshot  *PhotoEntry
	GeneratedAt time.Time
}

// TitleBlock carries the product metadata shown at the top of the report.
type TitleBlock struct {
	Name        string
	InventoryID string
	Description string
	Price       float64
}

// ComponentEntry is one row of the components section, in input order.
type ComponentEntry struct {
	Name string
	// Status is the normalized status key; unrecognized input values
	// collapse to "untested" here so rendering stays consistent.
	Status   string
	Marker   string
	Notes    string
	TestedAt *time.Time
}

// PhotoEntry is one embedded image, or an explicit unavailability
// marker when the source could not be resolved or decoded. An image
// failure never drops the entry; the document always contains one entry
// per supplied photo.
type PhotoEntry struct {
	Image       *Image
	Unavailable bool
	Reason      string
}

// Image is decoded raw image data plus the extension the serializer
// needs for embedding.
type Image struct {
	Data []byte
	Ext  string
}

const (
	markerWorking    = "PASS ✔"
	markerNotWorking = "FAIL ✘"
	markerUntested   = "UNTESTED —"
)

// normalizeStatus maps any stored status string onto one of the three
// rendered states. Unrecognized values degrade to untested.
func normalizeStatus(status string) string {
	switch status {
	case domain.StatusWorking, domain.StatusNotWorking:
		return status
	default:
		return domain.StatusUntested
	}
}

func markerFor(status string) string {
	switch status {
	case domain.StatusWorking:
		return markerWorking
	case domain.StatusNotWorking:
		return markerNotWorking
	default:
		return markerUntested
	}
}
