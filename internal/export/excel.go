// Package export renders reminder history as an Excel workbook for
// operators who want the audit trail outside the API.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"teachtime/internal/models"
)

var historyColumns = []string{"ID", "User", "Channel", "Success", "Error", "Sent At"}

// WriteReminderHistory writes one workbook with a single "Reminder History"
// sheet, newest entries first as provided. usernames maps user IDs to
// usernames; unknown IDs are rendered numerically.
func WriteReminderHistory(w io.Writer, logs []models.ReminderLog, usernames map[int64]string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Reminder History"
	f.SetSheetName("Sheet1", sheet)

	for i, col := range historyColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(historyColumns), 1)
		_ = f.SetCellStyle(sheet, startCell, endCell, style)
	}

	for i, l := range logs {
		user := usernames[l.UserID]
		if user == "" {
			user = fmt.Sprintf("#%d", l.UserID)
		}
		row := []interface{}{
			l.ID,
			user,
			string(l.Channel),
			l.Success,
			l.ErrorMessage,
			l.SentAt.Format("2006-01-02 15:04:05"),
		}
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}
