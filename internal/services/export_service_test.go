package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ranznz/wage-survey/internal/database/testutil"
)

func submitFixture(t *testing.T, db *gorm.DB, input SubmitInput) uint {
	t.Helper()

	svc, err := NewSurveyService(db)
	require.NoError(t, err)

	id, err := svc.Submit(context.Background(), input)
	require.NoError(t, err)
	return id
}

func TestStatsCountsBothTables(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	input := validInput()
	input.Rates = map[string]map[string]RateEntry{
		"foreman": {
			"1_year":  {HourlyRate: "28"},
			"3_years": {HourlyRate: "32.50"},
		},
	}
	submitFixture(t, db, input)
	submitFixture(t, db, validInput())

	svc, err := NewExportService(db)
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.TotalSubmissions)
	require.EqualValues(t, 3, stats.TotalRates)
}

func TestWriteCSVHeaderAndJoin(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	// One submission with two rate lines, one with none.
	input := validInput()
	input.Rates = map[string]map[string]RateEntry{
		"foreman":  {"3_years": {HourlyRate: "32.50", ChargeOutRate: "65"}},
		"labourer": {"1_year": {HourlyRate: "23"}},
	}
	submitFixture(t, db, input)

	empty := validInput()
	empty.Company.CompanyName = "No Rates Ltd"
	empty.Rates = nil
	submitFixture(t, db, empty)

	svc, err := NewExportService(db)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(context.Background(), &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, ExportColumns, records[0])
	require.Len(t, records, 4) // header + 2 joined rows + 1 empty-rate row

	// Catalog order puts foreman before labourer.
	require.Equal(t, "foreman", records[1][10])
	require.Equal(t, "32.50", records[1][12])
	require.Equal(t, "65.00", records[1][13])
	require.Equal(t, "labourer", records[2][10])

	// The rate-less submission still emits one row with empty rate fields.
	require.Equal(t, "No Rates Ltd", records[3][1])
	require.Equal(t, "", records[3][10])
	require.Equal(t, "", records[3][12])

}

func TestWriteCSVEscapesSpecialCharacters(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	tricky := "Quote \" comma , and\nnewline"
	input := validInput()
	input.Company.CompanyName = tricky
	input.Rates = nil
	submitFixture(t, db, input)

	svc, err := NewExportService(db)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(context.Background(), &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	// A standard CSV parser must reconstruct the original string exactly.
	require.Equal(t, tricky, records[1][1])
}

func TestWriteCSVIsDeterministic(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	input := validInput()
	input.Rates = map[string]map[string]RateEntry{
		"apprentice": {
			"apprentice_2": {HourlyRate: "21"},
			"apprentice_1": {HourlyRate: "19"},
		},
		"foreman": {"8_plus": {ChargeOutRate: "75"}},
	}
	submitFixture(t, db, input)
	submitFixture(t, db, validInput())

	svc, err := NewExportService(db)
	require.NoError(t, err)

	var first, second bytes.Buffer
	require.NoError(t, svc.WriteCSV(context.Background(), &first))
	require.NoError(t, svc.WriteCSV(context.Background(), &second))

	require.Equal(t, first.Bytes(), second.Bytes())
}
