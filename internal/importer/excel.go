package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// domainHeaders are the recognized headings for the domain column, matched
// case-insensitively against the first row.
var domainHeaders = []string{"domain", "domains", "host", "hostname", "website", "site", "url"}

// FromExcel reads domains from the first sheet of an .xlsx workbook. When
// the first row carries a recognized heading, that column is used and the
// heading row is skipped; otherwise the first column is read from row one.
func FromExcel(r io.Reader) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, ErrNoDomains
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Result{}, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	col, start := domainColumn(rows)
	c := newCollector()
	for i := start; i < len(rows); i++ {
		if col >= len(rows[i]) {
			continue
		}
		cell := strings.TrimSpace(rows[i][col])
		if cell == "" {
			continue
		}
		// Excel rows are 1-based in error reports.
		c.add(i+1, cell)
	}
	return c.result()
}

func domainColumn(rows [][]string) (col, firstDataRow int) {
	if len(rows) == 0 {
		return 0, 0
	}
	for i, heading := range rows[0] {
		h := strings.ToLower(strings.TrimSpace(heading))
		for _, want := range domainHeaders {
			if h == want {
				return i, 1
			}
		}
	}
	return 0, 0
}
