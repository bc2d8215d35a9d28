package report

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kundix7-sys/product-testing-app/internal/domain"
)

func TestDecodeDataURI(t *testing.T) {
	payload := []byte{0x01, 0x02, 0xFF}
	encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	data, err := DecodeDataURI(encoded)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestDecodeDataURIPlainPayload(t *testing.T) {
	data, err := DecodeDataURI("data:text/plain,hello%20world")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), data)
}

func TestDecodeDataURIErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"not a data uri", "https://example.com/x.png"},
		{"missing payload", "data:image/png;base64"},
		{"broken base64", "data:image/png;base64,!!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDataURI(tt.src)
			assert.Error(t, err)
		})
	}
}

func TestEncodeComponentCSV(t *testing.T) {
	at := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	components := []domain.ComponentTest{
		{Name: "Fan", Status: domain.StatusWorking, Notes: "ok", TestedAt: &at},
		{Name: "Display", Status: "mystery"},
	}

	data, err := EncodeComponentCSV(testProduct(), components)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "product,inventory_id,component,status,notes,last_tested")
	assert.Contains(t, out, "Fan")
	assert.Contains(t, out, domain.StatusWorking)
	// Unknown statuses are normalized the same way the workbook does it.
	assert.Contains(t, out, domain.StatusUntested)
	assert.NotContains(t, out, "mystery")
}
