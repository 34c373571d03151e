package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/peterg4059/savannah-restaurant-map/internal/domain"
)

// APISource reads a sheet through the Sheets API v4 with a service account.
// Unlike the CSV export it can see =IMAGE() formulas in the photo column.
// It implements pipeline.Extractor.
type APISource struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetName     string
	logger        *slog.Logger
}

// NewAPISource authenticates with a service-account JSON key.
func NewAPISource(ctx context.Context, credsJSON, spreadsheetID, sheetName string, logger *slog.Logger) (*APISource, error) {
	key, err := normalizePrivateKey([]byte(credsJSON))
	if err != nil {
		return nil, err
	}
	creds, err := google.CredentialsFromJSON(ctx, key, sheetsapi.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("load sheets credentials: %w", err)
	}
	svc, err := sheetsapi.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewAPISourceWithService(svc, spreadsheetID, sheetName, logger), nil
}

// NewAPISourceWithService wraps an already configured Sheets service.
func NewAPISourceWithService(svc *sheetsapi.Service, spreadsheetID, sheetName string, logger *slog.Logger) *APISource {
	return &APISource{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger,
	}
}

// Extract reads the formatted values of the whole tab, then the formulas of
// the photo column so image cells resolve to their URLs.
func (s *APISource) Extract(ctx context.Context) (domain.Sheet, error) {
	tab := quoteSheetName(s.sheetName)

	values, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, tab).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return domain.Sheet{}, fmt.Errorf("fetch sheet values: %w", err)
	}

	sheet, err := toSheet(toStrings(values.Values))
	if err != nil {
		return domain.Sheet{}, err
	}

	cols, err := domain.ResolveColumns(sheet.Header)
	if err != nil {
		return domain.Sheet{}, fmt.Errorf("parse sheet: %w", err)
	}

	images := 0
	if cols.Photo >= 0 {
		letter := columnLetter(cols.Photo)
		formulas, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, fmt.Sprintf("%s!%s2:%s", tab, letter, letter)).
			ValueRenderOption("FORMULA").
			Context(ctx).
			Do()
		if err != nil {
			return domain.Sheet{}, fmt.Errorf("fetch photo formulas: %w", err)
		}
		images = mergeFormulas(&sheet, cols.Photo, toStrings(formulas.Values))
	}

	s.logger.Info("sheet fetched", "source", "api", "rows", len(sheet.Rows), "image_formulas", images)
	return sheet, nil
}

// mergeFormulas replaces photo cells with their =IMAGE() formula when the
// formatted value hides it. formulas[i] holds the cell for data row i.
func mergeFormulas(sheet *domain.Sheet, col int, formulas [][]string) int {
	n := 0
	for i, f := range formulas {
		if i >= len(sheet.Rows) || len(f) == 0 || domain.PhotoURL(f[0]) == "" {
			continue
		}
		row := sheet.Rows[i]
		for len(row) <= col {
			row = append(row, "")
		}
		row[col] = f[0]
		sheet.Rows[i] = row
		n++
	}
	return n
}

func toStrings(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = fmt.Sprint(v)
			}
		}
		out[i] = cells
	}
	return out
}

// quoteSheetName quotes a tab name for A1 notation: Full Data -> 'Full Data'.
func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// columnLetter converts a zero-based column index to A1 letters: 0 -> A, 27 -> AB.
func columnLetter(i int) string {
	var b []byte
	for i++; i > 0; i = (i - 1) / 26 {
		b = append([]byte{byte('A' + (i-1)%26)}, b...)
	}
	return string(b)
}

// normalizePrivateKey restores newlines in a private key that was stored
// with literal "\n" sequences, as CI secret stores often do.
func normalizePrivateKey(credsJSON []byte) ([]byte, error) {
	var creds map[string]any
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return nil, fmt.Errorf("parse sheets credentials: %w", err)
	}
	pk, ok := creds["private_key"].(string)
	if !ok {
		return credsJSON, nil
	}
	creds["private_key"] = strings.ReplaceAll(pk, `\n`, "\n")
	return json.Marshal(creds)
}
