package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/defect-triage/internal/common"
	"github.com/Veraticus/defect-triage/internal/model"
	"github.com/Veraticus/defect-triage/internal/service"
)

// Writer publishes categorization results to a Google Sheets spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	now     func() time.Time
	config  Config
}

var _ service.ReportWriter = (*Writer)(nil)

// NewWriter authenticates with the configured credentials and returns a writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ts, err := tokenSource(ctx, config)
	if err != nil {
		return nil, err
	}
	srv, err := sheets.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return newWriter(srv, config, logger), nil
}

func newWriter(srv *sheets.Service, config Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.SheetTitle == "" {
		config.SheetTitle = DefaultSheetTitle
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	return &Writer{
		service: srv,
		config:  config,
		logger:  logger,
		now:     time.Now,
	}
}

// tokenSource prefers a service account key and falls back to the stored
// OAuth2 refresh token.
func tokenSource(ctx context.Context, config Config) (oauth2.TokenSource, error) {
	if config.ServiceAccountPath != "" {
		key, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}
		jwt, err := google.JWTConfigFromJSON(key, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		return jwt.TokenSource(ctx), nil
	}

	oauthConfig := OAuth2Config{ClientID: config.ClientID, ClientSecret: config.ClientSecret}.oauth()
	return oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: config.RefreshToken, TokenType: "Bearer"}), nil
}

// Write replaces the sheet contents with the summary block and annotated rows
// of result. Formatting failures are logged and do not fail the export.
func (w *Writer) Write(ctx context.Context, result *model.Result) error {
	if result == nil {
		return common.ErrNoResult
	}

	w.logger.Info("starting sheet export",
		"records", result.Summary.Total,
		"accuracy", result.Summary.Accuracy)

	spreadsheetID, sheetID, err := w.spreadsheet(ctx)
	if err != nil {
		return err
	}

	err = w.retry(ctx, func() error {
		_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:ZZ", &sheets.ClearValuesRequest{}).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	values, layout := prepareReportData(result, w.now())
	if err := w.writeRows(ctx, spreadsheetID, values); err != nil {
		return err
	}

	if w.config.EnableFormatting {
		err := w.retry(ctx, func() error {
			return w.applyFormatting(ctx, spreadsheetID, sheetID, layout)
		})
		if err != nil {
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("sheet export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))
	return nil
}

// spreadsheet opens the configured spreadsheet or creates a new one, and
// returns its id with the id of its first sheet.
func (w *Writer) spreadsheet(ctx context.Context) (string, int64, error) {
	var s *sheets.Spreadsheet

	if id := w.config.SpreadsheetID; id != "" {
		err := w.retry(ctx, func() (err error) {
			s, err = w.service.Spreadsheets.Get(id).Context(ctx).Do()
			return err
		})
		if err != nil {
			return "", 0, fmt.Errorf("unable to access spreadsheet %s: %w", id, err)
		}
		return id, firstSheetID(s), nil
	}

	req := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{{Properties: &sheets.SheetProperties{Title: w.config.SheetTitle}}},
	}
	err := w.retry(ctx, func() (err error) {
		s, err = w.service.Spreadsheets.Create(req).Context(ctx).Do()
		return err
	})
	if err != nil {
		return "", 0, fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet", "id", s.SpreadsheetId, "url", s.SpreadsheetUrl)
	return s.SpreadsheetId, firstSheetID(s), nil
}

func firstSheetID(s *sheets.Spreadsheet) int64 {
	if s == nil || len(s.Sheets) == 0 || s.Sheets[0].Properties == nil {
		return 0
	}
	return s.Sheets[0].Properties.SheetId
}

// writeRows uploads values in batches of BatchSize rows. Each batch is
// retried on its own.
func (w *Writer) writeRows(ctx context.Context, spreadsheetID string, values [][]any) error {
	row := 1
	for batch := range slices.Chunk(values, w.config.BatchSize) {
		cell := fmt.Sprintf("A%d", row)
		err := w.retry(ctx, func() error {
			_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, cell, &sheets.ValueRange{Values: batch}).
				ValueInputOption("RAW").
				Context(ctx).
				Do()
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to write rows starting at %s: %w", cell, err)
		}
		w.logger.Debug("wrote batch", "start_row", row, "rows", len(batch))
		row += len(batch)
	}
	return nil
}

func (w *Writer) retry(ctx context.Context, call func() error) error {
	return common.WithRetry(ctx, func() error {
		return classifyAPIError(call())
	}, service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	})
}

// classifyAPIError maps Sheets API failures onto retry decisions: 429 backs
// off, other client errors are permanent, server errors are retried.
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code >= 400 && apiErr.Code < 500:
		return common.Permanent(err)
	default:
		return err
	}
}
