package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilename(t *testing.T) {
	at := time.Date(2026, 8, 25, 10, 15, 0, 0, time.UTC)

	tests := []struct {
		name    string
		product string
		purpose Purpose
		want    string
	}{
		{"download with token", "Widget Pro", PurposeDownload, "Widget_Pro_test_report_20260825101500.xlsx"},
		{"double space collapses", "Widget  Pro", PurposeDownload, "Widget_Pro_test_report_20260825101500.xlsx"},
		{"tabs and newlines collapse", "Widget\t \nPro", PurposeDownload, "Widget_Pro_test_report_20260825101500.xlsx"},
		{"leading and trailing space trimmed", "  Widget Pro  ", PurposeEmail, "Widget_Pro_test_report.xlsx"},
		{"email omits token", "Widget Pro", PurposeEmail, "Widget_Pro_test_report.xlsx"},
		{"empty name falls back", "   ", PurposeDownload, "product_test_report_20260825101500.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.product, tt.purpose, at))
		})
	}
}

func TestFilenameIsPure(t *testing.T) {
	at := time.Date(2026, 8, 25, 10, 15, 0, 0, time.UTC)
	first := Filename("Widget Pro", PurposeDownload, at)
	second := Filename("Widget Pro", PurposeDownload, at)
	assert.Equal(t, first, second)
}

func TestCSVFilename(t *testing.T) {
	at := time.Date(2026, 8, 25, 10, 15, 0, 0, time.UTC)
	assert.Equal(t, "Widget_Pro_test_report_20260825101500.csv", CSVFilename("Widget  Pro", at))
}
