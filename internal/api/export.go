package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"shareit/internal/config"
	"shareit/internal/service"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// exportPageSize bounds a single export so a runaway owner cannot make the
// handler buffer an unbounded sheet.
const exportPageSize = 1000

// Exporter renders an owner's booking history as an Excel workbook.
type Exporter struct {
	cfg      config.ExportConfig
	bookings *service.BookingService
	logger   *zerolog.Logger
}

func NewExporter(cfg config.ExportConfig, bookings *service.BookingService, logger *zerolog.Logger) *Exporter {
	return &Exporter{cfg: cfg, bookings: bookings, logger: logger}
}

func (s *Server) handleExportOwnerBookings(w http.ResponseWriter, r *http.Request) {
	views, err := s.bookings.FindOwnerBookings(r.Context(), headerUserID(r), r.URL.Query().Get("state"), 0, exportPageSize)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	f, fileName, err := s.exports.buildWorkbook(views)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	defer f.Close()

	if path, err := s.exports.saveCopy(f, fileName); err != nil {
		s.logger.Warn().Err(err).Msg("could not keep export copy")
	} else {
		s.logger.Info().Str("file_path", path).Msg("Excel export created")
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if err := f.Write(w); err != nil {
		s.logger.Error().Err(err).Msg("export stream failed")
	}
}

func (e *Exporter) buildWorkbook(views []service.BookingView) (*excelize.File, string, error) {
	f := excelize.NewFile()

	const sheetName = "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Item", "Booker ID", "Start", "End", "Status"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, view := range views {
		row := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), view.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), view.Item.Name)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), view.Booker.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), view.Start.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), view.End.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), view.Status)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 10)
	_ = f.SetColWidth(sheetName, "B", "B", 30)
	_ = f.SetColWidth(sheetName, "C", "C", 12)
	_ = f.SetColWidth(sheetName, "D", "E", 20)
	_ = f.SetColWidth(sheetName, "F", "F", 12)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	return f, fileName, nil
}

// saveCopy keeps a server-side copy of the export next to the stream.
func (e *Exporter) saveCopy(f *excelize.File, fileName string) (string, error) {
	if err := os.MkdirAll(e.cfg.Path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}
	path := filepath.Join(e.cfg.Path, fileName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}
	return path, nil
}
