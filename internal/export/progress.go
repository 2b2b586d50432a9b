// Package export writes learner progress reports as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/krishh26/locker-backend-sub000/internal/enrollment"
)

// ProgressSheet is the name of the sheet written by WriteProgress.
const ProgressSheet = "Progress"

// ProgressHeaders are the column headings of the progress sheet.
var ProgressHeaders = []string{
	"Learner",
	"Course",
	"Total sub-units",
	"Fully completed",
	"Partially completed",
	"Not started",
	"Percent complete",
}

// WriteProgress writes one row per enrollment to an .xlsx workbook.
func WriteProgress(w io.Writer, rows []enrollment.LearnerProgress) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ProgressSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(ProgressHeaders))
	for i, h := range ProgressHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(ProgressSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(ProgressHeaders), 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(ProgressSheet, "A1", last, bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, p := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		course := p.CourseName
		if course == "" {
			course = p.CourseID
		}
		values := []any{
			p.LearnerID,
			course,
			p.TotalSubUnits,
			p.FullyCompleted,
			p.PartiallyCompleted,
			p.NotStarted,
			p.PercentComplete,
		}
		if err := f.SetSheetRow(ProgressSheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	if err := f.SetColWidth(ProgressSheet, "A", "B", 28); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}
	if err := f.SetColWidth(ProgressSheet, "C", "G", 18); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
