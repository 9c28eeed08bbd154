package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
)

// XLSXContentType is the MIME type for the generated workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var complaintHeaders = []string{
	"Seq No", "Date", "Source", "Place of Supply", "Receiving Location",
	"Party Name", "Product", "Type", "Area of Concern", "Sub Category",
	"VOC", "Status", "Priority", "Final Status", "Date of Resolution",
}

// ComplaintsWorkbook renders the full complaint register as an xlsx buffer.
func ComplaintsWorkbook(complaints []domain.Complaint) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	const sheet = "Complaints"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range complaintHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, c := range complaints {
		row := []any{
			c.YearlySequenceNumber,
			c.Date.Format("2006-01-02"),
			c.ComplaintSource,
			c.PlaceOfSupply,
			c.ReceivingLocation,
			c.PartyName,
			c.ProductName,
			c.ComplaintType,
			c.AreaOfConcern,
			c.SubCategory,
			c.VOC,
			string(c.Status),
			string(c.Priority),
			string(c.FinalStatus),
			formatOptionalTime(c.DateOfResolution),
		}
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f.WriteToBuffer()
}

// AnalyticsWorkbook renders dashboard stats and the daily trend as an xlsx
// buffer with one sheet per section.
func AnalyticsWorkbook(stats *service.ComplaintStats, trends []service.TrendEntry) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	const summarySheet = "Summary"
	f.SetSheetName("Sheet1", summarySheet)

	summaryRows := [][]any{
		{"Metric", "Count"},
		{"Total", stats.Total},
		{"New", stats.New},
		{"In Progress", stats.InProgress},
		{"Resolved", stats.Resolved},
		{"Closed", stats.Closed},
		{"Resolved Today", stats.ResolvedToday},
	}
	if err := writeRows(f, summarySheet, summaryRows); err != nil {
		return nil, err
	}

	const trendSheet = "Daily Trend"
	if _, err := f.NewSheet(trendSheet); err != nil {
		return nil, err
	}
	trendRows := [][]any{{"Date", "New", "Resolved"}}
	for _, entry := range trends {
		trendRows = append(trendRows, []any{entry.Date, entry.New, entry.Resolved})
	}
	if err := writeRows(f, trendSheet, trendRows); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

// AttachmentName builds a dated download filename.
func AttachmentName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", prefix, now.Format("20060102"))
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if err := f.SetSheetRow(sheet, "A"+strconv.Itoa(i+1), &row); err != nil {
			return err
		}
	}
	return nil
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
