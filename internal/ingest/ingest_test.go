package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cennik/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectTables(t *testing.T) {
	text := "Cennik 2026\n" +
		"Model;Grupa I;Grupa II\n" +
		"Fotel Nidzica; 1200 ;1350\n" +
		"\n" +
		"Uwagi ogólne\n" +
		"Sofa Ustka   2100   2300\n" +
		"Sofa Hel     2500   2700\n" +
		"a,b\n"

	tables := DetectTables(text)
	require.Len(t, tables, 2)

	assert.Equal(t, 2, tables[0].StartLine)
	assert.Equal(t, ";", tables[0].Delimiter)
	assert.Equal(t, [][]string{
		{"Model", "Grupa I", "Grupa II"},
		{"Fotel Nidzica", "1200", "1350"},
	}, tables[0].Rows)

	assert.Equal(t, 6, tables[1].StartLine)
	assert.Equal(t, []string{"Sofa Ustka", "2100", "2300"}, tables[1].Rows[0])
	assert.Equal(t, []string{"a", "b"}, tables[1].Rows[2])
}

func TestDetectTables_SemicolonWinsOverComma(t *testing.T) {
	tables := DetectTables("Fotel, tkanina;1200,50")
	require.Len(t, tables, 1)
	assert.Equal(t, []string{"Fotel, tkanina", "1200,50"}, tables[0].Rows[0])
}

func TestDetectTables_NoTables(t *testing.T) {
	assert.Empty(t, DetectTables("Zwykły tekst bez tabel\nDruga linia"))
}

type fakeVision struct {
	text  string
	err   error
	calls int
}

func (v *fakeVision) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	v.calls++
	return v.text, v.err
}

func TestPDFAnalyzer_FallsBackToVision(t *testing.T) {
	v := &fakeVision{text: "Model;Cena\nFotel Nidzica;1200"}
	a := NewPDFAnalyzer(v, logger.Nop())

	res, err := a.Analyze(context.Background(), []byte("not really a pdf"))
	require.NoError(t, err)
	assert.Equal(t, 1, v.calls)
	assert.Equal(t, SourceVision, res.Source)
	require.Len(t, res.Tables, 1)
	assert.Len(t, res.Tables[0].Rows, 2)
}

func TestPDFAnalyzer_VisionErrors(t *testing.T) {
	_, err := NewPDFAnalyzer(&fakeVision{err: errors.New("boom")}, logger.Nop()).
		Analyze(context.Background(), []byte("x"))
	assert.Error(t, err)

	_, err = NewPDFAnalyzer(nil, logger.Nop()).Analyze(context.Background(), []byte("x"))
	assert.Error(t, err)
}

func TestParseExcel(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Model", "", "Cena", "", "Cena"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Fotel Nidzica", "x", 1200}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]interface{}{"Sofa Ustka", "", 2100, "y", 2300, "extra"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	sheet, err := ParseExcel(buf)
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", sheet.Name)
	assert.Equal(t, []string{"Model", "__EMPTY", "Cena", "__EMPTY_1", "Cena_1", "__EMPTY_2"}, sheet.Headers)
	require.Len(t, sheet.Rows, 2, "blank row 3 is skipped")

	assert.Equal(t, "Fotel Nidzica", sheet.Rows[0]["Model"])
	assert.Equal(t, "x", sheet.Rows[0]["__EMPTY"])
	assert.Equal(t, "1200", sheet.Rows[0]["Cena"])
	assert.Equal(t, "", sheet.Rows[0]["Cena_1"])

	assert.Equal(t, "2300", sheet.Rows[1]["Cena_1"])
	assert.Equal(t, "extra", sheet.Rows[1]["__EMPTY_2"])
}

func TestParseExcel_DuplicateSuffixSkipsTakenNames(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Cena", "Cena_1", "Cena"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{100, 200, 300}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	sheet, err := ParseExcel(buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"Cena", "Cena_1", "Cena_2"}, sheet.Headers)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, map[string]string{"Cena": "100", "Cena_1": "200", "Cena_2": "300"}, sheet.Rows[0])
}

func TestHeaderNames_AlwaysUnique(t *testing.T) {
	assert.Equal(t,
		[]string{"A", "A_1", "A_1_1", "A_2", "__EMPTY", "__EMPTY_1", "__EMPTY_1_1"},
		headerNames([]string{"A", "A", "A_1", "A", "", "__EMPTY_1", ""}, 7))
}

func TestParseExcel_Invalid(t *testing.T) {
	_, err := ParseExcel(strings.NewReader("definitely not xlsx"))
	assert.Error(t, err)
}
