package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"wisefido-sedentary/internal/models"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	defaultExportLimit = 1000
	maxExportLimit     = 100000
	exportSheet        = "Sedentary Log"
)

var sedentaryLogExportHeader = []string{
	"ID",
	"State",
	"Timer Seconds",
	"Acceleration",
	"Created At",
}

func (h *Handlers) exportSedentaryLog(w http.ResponseWriter, r *http.Request) {
	limit := clamp(parseInt(r.URL.Query().Get("limit"), defaultExportLimit), 1, maxExportLimit)

	rows, err := h.Logs.ListRecent(r.Context(), limit)
	if err != nil {
		h.Logger.Error("Failed to load sedentary log for export", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to load sedentary log"))
		return
	}

	data, err := GenerateSedentaryLogExport(rows)
	if err != nil {
		h.Logger.Error("Failed to build export workbook", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to build export"))
		return
	}

	filename := fmt.Sprintf("sedentary-log-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GenerateSedentaryLogExport renders rows into an xlsx workbook.
func GenerateSedentaryLogExport(rows []*models.SedentaryLog) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range sedentaryLogExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
	}
	if err := f.SetCellStyle(exportSheet, "A1", "E1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}
	if err := f.SetColWidth(exportSheet, "A", "A", 38); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(exportSheet, "B", "E", 18); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	for i, row := range rows {
		values := []any{
			row.ID.String(),
			row.State,
			row.TimerSeconds,
			row.AccelerationVal,
			row.CreatedAt.UTC().Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
