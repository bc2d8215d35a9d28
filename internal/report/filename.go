package report

import (
	"fmt"
	"strings"
	"time"
)

const filenameStem = "test_report"

// Filename derives the artifact filename from the product name:
// whitespace runs collapse to a single underscore, the stem identifies
// the report kind, and the download purpose appends a numeric timestamp
// token so repeated exports never collide. The email purpose keeps the
// name stable for the handoff text.
func Filename(name string, purpose Purpose, at time.Time) string {
	base := filenameBase(name)
	if purpose == PurposeDownload {
		return fmt.Sprintf("%s_%s_%s.xlsx", base, filenameStem, at.Format("20060102150405"))
	}
	return fmt.Sprintf("%s_%s.xlsx", base, filenameStem)
}

// CSVFilename names the component summary export.
func CSVFilename(name string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%s.csv", filenameBase(name), filenameStem, at.Format("20060102150405"))
}

func filenameBase(name string) string {
	base := strings.Join(strings.Fields(name), "_")
	if base == "" {
		return "product"
	}
	return base
}
