// Package export writes batch variance reports as XLSX workbooks for lab
// review outside the API.
package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/formulab/batchcalc/internal/model"
	"github.com/formulab/batchcalc/internal/scale"
)

var reportHeader = []string{
	"Ingredient", "INCI Name", "Planned", "Actual", "Variance", "Variance %", "Unit", "Notes",
}

// BatchReport writes one sheet per batch with a line-level variance table.
// Lines without a recorded actual get empty variance cells.
func BatchReport(path string, batches []model.Batch) error {
	f := xlsx.NewFile()

	for _, b := range batches {
		sheet, err := f.AddSheet(sheetName(b))
		if err != nil {
			return eris.Wrapf(err, "export: add sheet for batch %s", b.ID)
		}

		info := sheet.AddRow()
		info.AddCell().SetString("Formulation")
		info.AddCell().SetString(b.FormulationName)
		info.AddCell().SetString("Target")
		info.AddCell().SetFloat(b.TargetAmount)
		info.AddCell().SetString("Produced")
		if b.ActualAmount != nil {
			info.AddCell().SetFloat(*b.ActualAmount)
		} else {
			info.AddCell().SetString("")
		}

		sheet.AddRow() // spacer

		header := sheet.AddRow()
		for _, h := range reportHeader {
			header.AddCell().SetString(h)
		}

		for _, l := range b.Lines {
			row := sheet.AddRow()
			row.AddCell().SetString(l.IngredientName)
			row.AddCell().SetString(l.INCIName)
			row.AddCell().SetFloat(l.PlannedAmount)
			if l.ActualAmount != nil {
				row.AddCell().SetFloat(*l.ActualAmount)
				row.AddCell().SetFloat(scale.Variance(*l.ActualAmount, l.PlannedAmount))
				row.AddCell().SetFloat(scale.VariancePercent(*l.ActualAmount, l.PlannedAmount))
			} else {
				row.AddCell().SetString("")
				row.AddCell().SetString("")
				row.AddCell().SetString("")
			}
			row.AddCell().SetString(l.Unit)
			row.AddCell().SetString(l.Notes)
		}
	}

	return eris.Wrap(f.Save(path), "export: save workbook")
}

// sheetName builds a sheet title within the 31-character XLSX limit.
func sheetName(b model.Batch) string {
	name := b.BatchName
	if name == "" {
		name = b.ProductionDate.Format("2006-01-02") + " " + b.ID
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
