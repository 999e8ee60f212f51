package transcript

import (
	"fmt"
	"io"
	"math"

	"github.com/academic-tracker/backend/internal/grading"
	"github.com/academic-tracker/backend/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	ModulesSheet = "Modules"
	SummarySheet = "Summary"
)

var (
	moduleHeader  = []interface{}{"Semester", "Code", "Module", "Credits", "Grade", "Grade Points"}
	summaryHeader = []interface{}{"Semester", "Name", "SGPA", "Finished"}
)

// Build renders a student's modules and GPA overview as a workbook. Modules
// are expected in semester order.
func Build(student string, modules []models.Module, overview grading.Overview) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ModulesSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := writeModules(f, modules, bold); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write modules: %w", err)
	}
	if err := writeSummary(f, student, overview, bold); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Write builds the workbook and streams it to w
func Write(w io.Writer, student string, modules []models.Module, overview grading.Overview) error {
	f, err := Build(student, modules, overview)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func writeModules(f *excelize.File, modules []models.Module, headerStyle int) error {
	if err := f.SetSheetRow(ModulesSheet, "A1", &moduleHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(ModulesSheet, "A1", "F1", headerStyle); err != nil {
		return err
	}

	for i, m := range modules {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			optionalInt(m.SemesterNumber),
			m.Code,
			m.Name,
			m.Credits,
			optionalString(m.Grade),
			optionalFloat(grading.GradePointValue(m.Grade)),
		}
		if err := f.SetSheetRow(ModulesSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SetColWidth(ModulesSheet, "C", "C", 40)
}

func writeSummary(f *excelize.File, student string, overview grading.Overview, headerStyle int) error {
	if err := f.SetCellValue(SummarySheet, "A1", "Student"); err != nil {
		return err
	}
	if err := f.SetCellValue(SummarySheet, "B1", student); err != nil {
		return err
	}
	if err := f.SetSheetRow(SummarySheet, "A3", &summaryHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A3", "D3", headerStyle); err != nil {
		return err
	}

	row := 4
	for _, s := range overview.Semesters {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		finished := "no"
		if s.Finished {
			finished = "yes"
		}
		values := []interface{}{s.Number, s.Name, optionalFloat(s.SGPA), finished}
		if err := f.SetSheetRow(SummarySheet, cell, &values); err != nil {
			return err
		}
		row++
	}

	cell, err := excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return err
	}
	cgpa := []interface{}{"CGPA", "", optionalFloat(overview.CGPA)}
	return f.SetSheetRow(SummarySheet, cell, &cgpa)
}

func optionalInt(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optionalFloat(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return math.Round(*v*100) / 100
}
