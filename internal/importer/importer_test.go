package importer_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/sourcegen/internal/importer"
)

func TestFromText_ParsesCommentsAndBlanks(t *testing.T) {
	input := strings.Join([]string{
		"# news domains for the March batch",
		"news.example.com",
		"",
		"https://blog.example.org/latest  # full URL is fine",
		"  daily.example.net  ",
	}, "\n")

	res, err := importer.FromText(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"news.example.com", "blog.example.org", "daily.example.net"}, res.Domains)
	assert.Empty(t, res.Skipped)
}

func TestFromText_DeduplicatesNormalizedEntries(t *testing.T) {
	input := strings.Join([]string{
		"News.Example.COM",
		"https://news.example.com/section/world",
		"news.example.com.",
		"other.example.com",
	}, "\n")

	res, err := importer.FromText(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"news.example.com", "other.example.com"}, res.Domains)
}

func TestFromText_ReportsSkippedRows(t *testing.T) {
	input := strings.Join([]string{
		"news.example.com",
		"not a domain at all",
		"localhost",
	}, "\n")

	res, err := importer.FromText(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"news.example.com"}, res.Domains)
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, 2, res.Skipped[0].Row)
	assert.Equal(t, "not a domain at all", res.Skipped[0].Value)
	assert.Equal(t, 3, res.Skipped[1].Row)
}

func TestFromText_EmptyInput(t *testing.T) {
	_, err := importer.FromText(strings.NewReader("# only comments\n\n"))
	require.ErrorIs(t, err, importer.ErrNoDomains)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "bare domain", raw: "news.example.com", want: "news.example.com"},
		{name: "uppercase", raw: "News.Example.COM", want: "news.example.com"},
		{name: "https url", raw: "https://news.example.com/section?page=2", want: "news.example.com"},
		{name: "scheme relative", raw: "//cdn.example.com/feed", want: "cdn.example.com"},
		{name: "port stripped", raw: "news.example.com:8080", want: "news.example.com"},
		{name: "trailing dot", raw: "news.example.com.", want: "news.example.com"},
		{name: "www kept", raw: "www.example.com", want: "www.example.com"},
		{name: "single label", raw: "localhost", wantErr: true},
		{name: "spaces inside", raw: "news example com", wantErr: true},
		{name: "empty", raw: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := importer.Normalize(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// writeWorkbook builds an in-memory .xlsx with the given rows on Sheet1.
func writeWorkbook(t *testing.T, rows [][]string) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, cells := range rows {
		for c, v := range cells {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestFromExcel_HeaderedSheet(t *testing.T) {
	workbook := writeWorkbook(t, [][]string{
		{"name", "Domain", "notes"},
		{"Example News", "news.example.com", "daily"},
		{"Example Blog", "https://blog.example.org", ""},
		{"Duplicate", "NEWS.example.com", ""},
	})

	res, err := importer.FromExcel(workbook)
	require.NoError(t, err)
	assert.Equal(t, []string{"news.example.com", "blog.example.org"}, res.Domains)
	assert.Empty(t, res.Skipped)
}

func TestFromExcel_NoHeaderUsesFirstColumn(t *testing.T) {
	workbook := writeWorkbook(t, [][]string{
		{"news.example.com"},
		{"blog.example.org"},
	})

	res, err := importer.FromExcel(workbook)
	require.NoError(t, err)
	assert.Equal(t, []string{"news.example.com", "blog.example.org"}, res.Domains)
}

func TestFromExcel_SkipsBadRowsWithRowNumbers(t *testing.T) {
	workbook := writeWorkbook(t, [][]string{
		{"domain"},
		{"news.example.com"},
		{"definitely not a domain!"},
	})

	res, err := importer.FromExcel(workbook)
	require.NoError(t, err)
	assert.Equal(t, []string{"news.example.com"}, res.Domains)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 3, res.Skipped[0].Row)
}

func TestFromExcel_EmptySheet(t *testing.T) {
	workbook := writeWorkbook(t, [][]string{{"domain"}})
	_, err := importer.FromExcel(workbook)
	require.ErrorIs(t, err, importer.ErrNoDomains)
}

func TestFromFile_DispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()

	txtPath := filepath.Join(dir, "domains.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("news.example.com\n"), 0o644))

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "domain"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "blog.example.org"))
	xlsxPath := filepath.Join(dir, "domains.xlsx")
	require.NoError(t, f.SaveAs(xlsxPath))
	require.NoError(t, f.Close())

	txtRes, err := importer.FromFile(txtPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"news.example.com"}, txtRes.Domains)

	xlsxRes, err := importer.FromFile(xlsxPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"blog.example.org"}, xlsxRes.Domains)
}

func TestFromFile_MissingFile(t *testing.T) {
	_, err := importer.FromFile(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}
