package catalysts

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"

	"katmarket-backend/internal/domain"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ImportResult summarizes one bulk import run.
type ImportResult struct {
	TotalRows int `json:"total_rows"`
	Imported  int `json:"imported"`
	Skipped   int `json:"skipped"`
}

var (
	ErrInvalidExcelFile  = errors.New("Could not read Excel file (corrupted or not .xlsx)")
	ErrNoCatalystRows    = errors.New("File contains no catalyst rows")
	ErrBadImportFormat   = errors.New("Invalid file format: expected columns catalyst_id, name, ceramic_weight_g, pt_ppm, pd_ppm, rh_ppm")
	ErrNoValidImportRows = errors.New("No valid catalyst rows found in file")
)

// ImportExcel replaces the whole catalyst store from a spreadsheet. Columns:
// catalyst_id | name | ceramic_weight_g | pt_ppm | pd_ppm | rh_ppm | add_info (optional).
// Rows with a blank id or unparseable numbers are skipped, not fatal.
// Overrides for ids that survive the import are kept; the rest are removed
// with their records.
func (s *Service) ImportExcel(ctx context.Context, data []byte) (*ImportResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidExcelFile
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		return nil, ErrNoCatalystRows
	}
	if len(rows[0]) < 6 {
		return nil, ErrBadImportFormat
	}

	result := &ImportResult{}
	var records []domain.Catalyst
	seen := make(map[string]bool)

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		result.TotalRows++
		if len(row) < 6 {
			result.Skipped++
			continue
		}

		id := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		if id == "" || name == "" || seen[id] {
			result.Skipped++
			continue
		}

		weight, err1 := parseCell(row[2])
		ptPpm, err2 := parseCell(row[3])
		pdPpm, err3 := parseCell(row[4])
		rhPpm, err4 := parseCell(row[5])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			result.Skipped++
			continue
		}
		if weight < 0 || ptPpm < 0 || pdPpm < 0 || rhPpm < 0 {
			result.Skipped++
			continue
		}

		record := domain.Catalyst{
			CatalystID:     id,
			Name:           name,
			CeramicWeightG: weight,
			PtPpm:          ptPpm,
			PdPpm:          pdPpm,
			RhPpm:          rhPpm,
		}
		if len(row) > 6 {
			if info := strings.TrimSpace(row[6]); info != "" {
				record.AddInfo = &info
			}
		}
		seen[id] = true
		records = append(records, record)
		result.Imported++
	}

	if len(records) == 0 {
		return nil, ErrNoValidImportRows
	}

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.CatalystID)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.Catalyst{}).Error; err != nil {
			return err
		}
		if err := tx.Where("catalyst_id NOT IN ?", ids).Delete(&domain.CatalystOverride{}).Error; err != nil {
			return err
		}
		return tx.CreateInBatches(records, 200).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, nil
	}
	// Spreadsheets from the old system use comma decimal separators.
	cell = strings.ReplaceAll(cell, ",", ".")
	return strconv.ParseFloat(cell, 64)
}
