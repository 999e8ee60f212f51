package transcript

import (
	"bytes"
	"testing"
	"time"

	"github.com/academic-tracker/backend/internal/grading"
	"github.com/academic-tracker/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWrite(t *testing.T) {
	one := 1
	a, s := "A", "S"
	modules := []models.Module{
		{SemesterNumber: &one, Code: "MA1013", Name: "Mathematics", Credits: 3, Grade: &a},
		{SemesterNumber: &one, Code: "EN1021", Name: "Communication Skills", Credits: 2, Grade: &s},
		{Code: "CS2012", Name: "Data Structures", Credits: 3},
	}
	sgpa, cgpa := 4.0, 11.0/3.0
	overview := grading.Overview{
		CGPA: &cgpa,
		Semesters: []grading.SemesterGPA{
			{SemesterID: uuid.New(), Number: 1, Name: "Semester 1", SGPA: &sgpa, Finished: true},
			{SemesterID: uuid.New(), Number: 2, Name: "Semester 2"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "Jane Doe", modules, overview))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ModulesSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(ModulesSheet)
	require.NoError(t, err)
	rows = trimRows(rows)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Semester", "Code", "Module", "Credits", "Grade", "Grade Points"}, rows[0])
	assert.Equal(t, []string{"1", "MA1013", "Mathematics", "3", "A", "4"}, rows[1])
	// non countable grade leaves grade points blank
	assert.Equal(t, []string{"1", "EN1021", "Communication Skills", "2", "S"}, rows[2])
	assert.Equal(t, []string{"", "CS2012", "Data Structures", "3"}, rows[3])

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	summary = trimRows(summary)
	assert.Equal(t, []string{"Student", "Jane Doe"}, summary[0])
	assert.Equal(t, []string{"1", "Semester 1", "4", "yes"}, summary[3])
	assert.Equal(t, []string{"2", "Semester 2", "", "no"}, summary[4])
	assert.Equal(t, []string{"CGPA", "", "3.67"}, summary[6])
}

func TestBuild_EmptyOverview(t *testing.T) {
	f, err := Build("Nobody", nil, grading.BuildOverview(nil, nil, time.Now()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	rows = trimRows(rows)
	assert.Equal(t, []string{"CGPA"}, rows[len(rows)-1])
}

// trimRows drops trailing blank cells so assertions do not depend on how
// empty values are stored.
func trimRows(rows [][]string) [][]string {
	for i, row := range rows {
		for len(row) > 0 && row[len(row)-1] == "" {
			row = row[:len(row)-1]
		}
		rows[i] = row
	}
	return rows
}
