package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"sunkissed-backend/internal/domains/design/model"
)

const (
	exportSheet    = "Custom designs"
	exportPageSize = 100
	exportMaxRows  = 10000
)

var exportHeaders = []string{
	"Share Code", "Name", "Jewelry Item", "Creator", "Slots", "Charms",
	"Tags", "Total Price", "Public", "Views", "Likes", "Purchases", "Created At",
}

// ExportDesigns renders every custom design into an XLSX workbook.
func (s *DesignService) ExportDesigns(ctx context.Context) ([]byte, error) {
	var designs []model.Design
	for page := 1; len(designs) < exportMaxRows; page++ {
		batch, total, err := s.ListAll(ctx, model.ListDesignsQuery{Page: page, Limit: exportPageSize})
		if err != nil {
			return nil, err
		}
		designs = append(designs, batch...)
		if len(batch) < exportPageSize || len(designs) >= total {
			break
		}
	}

	f, err := buildDesignsWorkbook(designs)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func buildDesignsWorkbook(designs []model.Design) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, headerStyle)
	}

	for i, d := range designs {
		creator := ""
		if d.CreatorName != nil {
			creator = *d.CreatorName
		} else if d.UserID != nil {
			creator = *d.UserID
		}

		row := []interface{}{
			d.ShareCode,
			d.Name,
			d.JewelryItemName,
			creator,
			d.SlotCount,
			len(d.Placements),
			strings.Join(d.Tags, ", "),
			d.TotalPrice.InexactFloat64(),
			d.IsPublic,
			d.Views,
			d.Likes,
			d.PurchaseCount,
			d.CreatedAt.Format("2006-01-02 15:04"),
		}
		start, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, start, &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}
