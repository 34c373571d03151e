package sheets

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/peterg4059/savannah-restaurant-map/internal/domain"
)

// CSVSource reads a sheet through its public CSV export.
// It implements pipeline.Extractor.
type CSVSource struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewCSVSource creates a source for an export URL. file:// URLs read a local
// snapshot instead of making a request.
func NewCSVSource(exportURL string, timeout time.Duration, logger *slog.Logger) *CSVSource {
	return &CSVSource{
		url: exportURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Extract downloads and parses the whole sheet.
func (s *CSVSource) Extract(ctx context.Context) (domain.Sheet, error) {
	u, err := url.Parse(s.url)
	if err != nil {
		return domain.Sheet{}, fmt.Errorf("parse export url: %w", err)
	}

	var body io.ReadCloser
	if u.Scheme == "file" {
		path := u.Path
		if path == "" {
			path = u.Opaque // file:relative/path.csv
		}
		body, err = os.Open(path)
		if err != nil {
			return domain.Sheet{}, fmt.Errorf("open snapshot: %w", err)
		}
	} else {
		body, err = s.download(ctx)
		if err != nil {
			return domain.Sheet{}, err
		}
	}
	defer body.Close()

	sheet, err := ReadCSV(body)
	if err != nil {
		return domain.Sheet{}, err
	}
	s.logger.Info("sheet fetched", "source", "csv", "rows", len(sheet.Rows))
	return sheet, nil
}

func (s *CSVSource) download(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch sheet: status %d: %s", resp.StatusCode, body)
	}
	return resp.Body, nil
}

// ReadCSV parses CSV data whose first record is the header row.
func ReadCSV(r io.Reader) (domain.Sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // exports trim trailing empty cells inconsistently

	records, err := cr.ReadAll()
	if err != nil {
		return domain.Sheet{}, fmt.Errorf("read csv: %w", err)
	}
	return toSheet(records)
}

// toSheet splits records into header and rows. An export without a header
// row is an error, not an empty map.
func toSheet(records [][]string) (domain.Sheet, error) {
	if len(records) == 0 {
		return domain.Sheet{}, errors.New("sheet is empty")
	}
	return domain.Sheet{Header: records[0], Rows: records[1:]}, nil
}
