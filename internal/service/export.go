package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	customError "github.com/opsdash/liquidity-engine/pkg/errors"
)

const exportSheet = "Cash Flow"

// ExportWeekXLSX builds an Excel workbook with the week's line items and
// derived totals. The caller owns the returned file and should Close it.
func (s *LiquidityService) ExportWeekXLSX(ctx context.Context, weekID uuid.UUID) (*excelize.File, error) {
	detail, err := s.GetWeek(ctx, weekID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, customError.WrapExportError(err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, customError.WrapExportError(err)
	}

	// Headers
	f.SetCellValue(exportSheet, "A1", "Type")
	f.SetCellValue(exportSheet, "B1", "Description")
	f.SetCellValue(exportSheet, "C1", "Expected")
	f.SetCellValue(exportSheet, "D1", "Actual")
	f.SetCellValue(exportSheet, "E1", "Status")
	f.SetCellValue(exportSheet, "F1", "DueDate")
	f.SetCellValue(exportSheet, "G1", "PaymentDate")

	row := 2
	for _, item := range detail.Items {
		f.SetCellValue(exportSheet, "A"+fmt.Sprint(row), item.ItemType)
		f.SetCellValue(exportSheet, "B"+fmt.Sprint(row), item.Description)
		f.SetCellValue(exportSheet, "C"+fmt.Sprint(row), item.ExpectedAmount.Round(2).InexactFloat64())
		f.SetCellValue(exportSheet, "D"+fmt.Sprint(row), item.ActualAmount.Round(2).InexactFloat64())
		f.SetCellValue(exportSheet, "E"+fmt.Sprint(row), item.Status)
		if item.DueDate != nil {
			f.SetCellValue(exportSheet, "F"+fmt.Sprint(row), item.DueDate.Format("2006-01-02"))
		}
		if item.PaymentDate != nil {
			f.SetCellValue(exportSheet, "G"+fmt.Sprint(row), item.PaymentDate.Format("2006-01-02"))
		}
		row++
	}

	// Totals block under the items
	row++
	writeTotal := func(label string, value float64) {
		f.SetCellValue(exportSheet, "B"+fmt.Sprint(row), label)
		f.SetCellValue(exportSheet, "C"+fmt.Sprint(row), value)
		row++
	}

	writeTotal("Opening Balance", detail.Week.OpeningBalance.Round(2).InexactFloat64())
	writeTotal("Expected Collections", detail.Summary.ExpectedCollections.Round(2).InexactFloat64())
	writeTotal("Scheduled Payments", detail.Summary.ScheduledPayments.Round(2).InexactFloat64())
	writeTotal("Projected End Balance", detail.Summary.ProjectedEndBalance.Round(2).InexactFloat64())
	writeTotal("Actual Collections", detail.Summary.ActualCollections.Round(2).InexactFloat64())
	writeTotal("Actual Payments", detail.Summary.ActualPayments.Round(2).InexactFloat64())
	writeTotal("Actual Balance", detail.Summary.ActualBalance.Round(2).InexactFloat64())
	writeTotal("Variance", detail.Summary.Variance.Round(2).InexactFloat64())

	return f, nil
}
