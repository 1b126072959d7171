// export.go implements GET /export.
// Returns all trips and their activities as a flat table.
// Supports ?format=json (default), ?format=csv and ?format=xlsx.

package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/oapi-codegen/runtime"
	"github.com/xuri/excelize/v2"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/domain"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
	formatXLSX = "xlsx"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	xlsxSheet       = "Trips"
)

// exportHeaders defines the column names written as the first row of CSV and
// XLSX exports.
var exportHeaders = []string{
	"trip_id", "destination", "origin", "trip_start_date", "trip_end_date",
	"travelers", "style", "trip_budget",
	"date", "activity_type", "activity_name", "time", "price", "link",
}

// getExport handles GET /export.
// It returns a flat table of every trip and activity of the caller.
func (s *Server) getExport(w http.ResponseWriter, r *http.Request) {
	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		badParam(w, err)
		return
	}
	f := formatJSON
	if format != nil {
		f = *format
	}
	if f != formatJSON && f != formatCSV && f != formatXLSX {
		writeJSON(w, http.StatusBadRequest, requestBody(fmt.Sprintf("unsupported export format %q", f)))
		return
	}

	rows, err := s.export.Export(r.Context(), currentUser(r))
	if err != nil {
		s.writeServiceError(w, r, err, "export not found")
		return
	}

	switch f {
	case formatCSV:
		writeCSV(w, rows)
	case formatXLSX:
		buf, err := buildXLSX(rows)
		if err != nil {
			s.writeServiceError(w, r, fmt.Errorf("handler.getExport: %w", err), "")
			return
		}
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="trips.xlsx"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	default:
		writeJSON(w, http.StatusOK, exportRowsToResponse(rows))
	}
}

// writeCSV encodes rows as CSV with a header line.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck bytes.Buffer.Write never returns an error.
	cw.Write(exportHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(rowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="trips.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// rowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// A missing price is encoded as an empty string.
func rowToCSVRecord(r domain.ExportRow) []string {
	price := ""
	if r.Price != nil {
		price = r.Price.String()
	}
	return []string{
		r.TripID,
		r.Destination,
		r.Origin,
		r.TripStartDate,
		r.TripEndDate,
		strconv.Itoa(r.Travelers),
		string(r.Style),
		r.TripBudget.String(),
		r.Date,
		string(r.ActivityType),
		r.ActivityName,
		r.Time,
		price,
		r.Link,
	}
}

// buildXLSX writes rows to a single-sheet workbook with a bold header row.
// Money columns are written as numbers so spreadsheets can sum them.
func buildXLSX(rows []domain.ExportRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	header := make([]any, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := setRow(f, 1, header); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(xlsxSheet, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, r := range rows {
		var price any = ""
		if r.Price != nil {
			price = r.Price.InexactFloat64()
		}
		values := []any{
			r.TripID,
			r.Destination,
			r.Origin,
			r.TripStartDate,
			r.TripEndDate,
			r.Travelers,
			string(r.Style),
			r.TripBudget.InexactFloat64(),
			r.Date,
			string(r.ActivityType),
			r.ActivityName,
			r.Time,
			price,
			r.Link,
		}
		if err := setRow(f, i+2, values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	return nil
}
