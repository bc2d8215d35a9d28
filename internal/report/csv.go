package report

import (
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/kundix7-sys/product-testing-app/internal/domain"
)

type componentRow struct {
	Product     string `csv:"product"`
	InventoryID string `csv:"inventory_id"`
	Component   string `csv:"component"`
	Status      string `csv:"status"`
	Notes       string `csv:"notes"`
	LastTested  string `csv:"last_tested"`
}

// EncodeComponentCSV renders the component results as a flat CSV
// summary, same ordering guarantees as the workbook.
func EncodeComponentCSV(product domain.Product, components []domain.ComponentTest) ([]byte, error) {
	rows := make([]componentRow, 0, len(components))
	for _, ct := range components {
		row := componentRow{
			Product:     product.Name,
			InventoryID: product.InventoryID,
			Component:   ct.Name,
			Status:      normalizeStatus(ct.Status),
			Notes:       ct.Notes,
		}
		if ct.TestedAt != nil {
			row.LastTested = ct.TestedAt.Format(time.RFC3339)
		}
		rows = append(rows, row)
	}
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, errors.Wrap(err, "marshal component csv")
	}
	return data, nil
}
