// Command gentemplate writes a starter domains workbook for batch runs.
// Usage: go run cmd/gentemplate/main.go [output.xlsx]
package main

import (
	"log"
	"os"

	"github.com/xuri/excelize/v2"
)

func main() {
	out := "domains.xlsx"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", "Domains"); err != nil {
		log.Fatal(err)
	}

	// The batch importer matches this header case-insensitively and reads
	// the column below it.
	if err := f.SetCellValue("Domains", "A1", "domain"); err != nil {
		log.Fatal(err)
	}

	examples := []string{
		"medicalnewstoday.com",
		"example-news.com",
		"https://blog.example.org/news", // full URLs are normalized on import
	}
	for i, v := range examples {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetCellValue("Domains", cell, v); err != nil {
			log.Fatal(err)
		}
	}

	if err := f.SetColWidth("Domains", "A", "A", 40); err != nil {
		log.Fatal(err)
	}

	if err := f.SaveAs(out); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", out)
}
