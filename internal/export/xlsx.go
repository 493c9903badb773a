// Package export renders the ranked snapshot as an xlsx workbook: a
// "Jobs" sheet with one row per listing in rank order, and a "Summary"
// sheet with the filters in effect, run totals, and the top listings.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"remotive-ranker/internal/config"
	"remotive-ranker/internal/store"
)

const (
	jobsSheet    = "Jobs"
	summarySheet = "Summary"
)

var jobsHeaders = []string{
	"Title",
	"Company",
	"Category",
	"Publication Date",
	"Days Since Posted",
	"Salary",
	"Keyword Match Count",
	"Recency Score (R)",
	"Keyword Score (K)",
	"Compensation Score (C)",
	"Ranking Score",
	"Link",
}

// BuildWorkbook assembles the workbook in memory. Callers own Close.
func BuildWorkbook(rows []store.RankedListing, run store.Run, cfg config.Config) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", jobsSheet); err != nil {
		return nil, err
	}

	linkStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "0563C1", Underline: "single"},
	})
	if err != nil {
		return nil, err
	}

	if err := writeJobs(f, rows, linkStyle); err != nil {
		return nil, err
	}
	if err := writeSummary(f, rows, run, cfg, linkStyle); err != nil {
		return nil, err
	}
	return f, nil
}

// WriteTo builds the workbook and streams it, for the /export handler.
func WriteTo(w io.Writer, rows []store.RankedListing, run store.Run, cfg config.Config) error {
	f, err := BuildWorkbook(rows, run, cfg)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func writeJobs(f *excelize.File, rows []store.RankedListing, linkStyle int) error {
	for col, h := range jobsHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(jobsSheet, cell, h); err != nil {
			return err
		}
	}

	for i, l := range rows {
		row := i + 2
		values := []any{
			l.Title,
			l.Company,
			l.Category,
			l.PublishedAt,
			l.DaysOld,
			l.Salary,
			l.KeywordMatches,
			l.RecencyScore,
			l.KeywordScore,
			l.CompensationScore,
			l.Score,
			"View Job",
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(jobsSheet, cell, v); err != nil {
				return err
			}
		}
		if l.URL != "" {
			link := fmt.Sprintf("L%d", row)
			if err := f.SetCellHyperLink(jobsSheet, link, l.URL, "External"); err != nil {
				return err
			}
			_ = f.SetCellStyle(jobsSheet, link, link, linkStyle)
		}
	}

	if err := f.SetColWidth(jobsSheet, "A", "L", 20); err != nil {
		return err
	}
	_ = f.SetColWidth(jobsSheet, "A", "A", 45) // titles run long
	_ = f.SetColWidth(jobsSheet, "L", "L", 15)
	return nil
}

func writeSummary(f *excelize.File, rows []store.RankedListing, run store.Run, cfg config.Config, linkStyle int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	set := func(cell string, v any) {
		_ = f.SetCellValue(summarySheet, cell, v)
	}

	set("A1", "Remotive Ranker Summary")

	set("A3", "Source")
	set("B3", cfg.Source.BaseURL)

	set("A5", "Keywords")
	set("B5", strings.Join(cfg.Filters.Keywords, ", "))

	set("A6", "Category Filter")
	if cfg.Filters.Category != "" {
		set("B6", cfg.Filters.Category)
	} else {
		set("B6", "(none)")
	}

	set("A7", "Max Days Old (Filter)")
	set("B7", cfg.Filters.MaxDaysOld)

	set("A9", "Total Listings Fetched")
	set("B9", run.Fetched)

	set("A10", "Total Listings After Filters")
	set("B10", run.Admitted)

	set("A12", "Top Listings")
	set("A13", "Rank")
	set("B13", "Title")
	set("C13", "Company")
	set("D13", "Ranking Score")
	set("E13", "Link")

	top := cfg.Export.SummaryTop
	if top <= 0 || top > len(rows) {
		top = len(rows)
	}
	for i := 0; i < top; i++ {
		l := rows[i]
		r := 14 + i
		set(fmt.Sprintf("A%d", r), i+1)
		set(fmt.Sprintf("B%d", r), l.Title)
		set(fmt.Sprintf("C%d", r), l.Company)
		set(fmt.Sprintf("D%d", r), l.Score)
		set(fmt.Sprintf("E%d", r), "View Job")
		if l.URL != "" {
			cell := fmt.Sprintf("E%d", r)
			if err := f.SetCellHyperLink(summarySheet, cell, l.URL, "External"); err != nil {
				return err
			}
			_ = f.SetCellStyle(summarySheet, cell, cell, linkStyle)
		}
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 22)
	_ = f.SetColWidth(summarySheet, "B", "B", 55)
	_ = f.SetColWidth(summarySheet, "C", "C", 25)
	_ = f.SetColWidth(summarySheet, "D", "E", 15)
	return nil
}
