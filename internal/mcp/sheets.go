package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/honeycarbs/review-search/internal/mcp/tools"
	sheetsclient "github.com/honeycarbs/review-search/pkg/sheets"
)

var sheetHeader = []interface{}{"kind", "title", "subtitle", "location", "rating", "detail"}

// sheetWriter is the part of the Sheets client the export needs
type sheetWriter interface {
	AppendValues(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) (int, error)
	UpdateValues(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) (int, error)
	ClearValues(ctx context.Context, spreadsheetID, range_ string) error
}

var _ sheetWriter = (*sheetsclient.Client)(nil)

type sheetsClientAdapter struct {
	client sheetWriter
	now    func() time.Time
}

func newSheetsClientAdapter(client sheetWriter) *sheetsClientAdapter {
	return &sheetsClientAdapter{client: client, now: time.Now}
}

// Export appends rows to the tab, or replaces its contents under a header
// row when ClearTab is set
func (a *sheetsClientAdapter) Export(ctx context.Context, params tools.SheetsExportParams) (tools.SheetsExportResult, error) {
	result := tools.SheetsExportResult{
		SpreadsheetID: params.Sheet.SpreadsheetID,
		Tab:           params.Sheet.Tab,
		Mode:          "append",
	}
	if result.Tab == "" {
		result.Tab = sheetsclient.DefaultTab
	}
	if a.client == nil {
		return result, fmt.Errorf("sheets: client not configured")
	}

	if params.ClearTab {
		result.Mode = "replace"
		if err := a.client.ClearValues(ctx, params.Sheet.SpreadsheetID, sheetsclient.A1(result.Tab, "A:Z")); err != nil {
			return result, fmt.Errorf("sheets: failed to clear tab: %w", err)
		}
	}

	values := convertRowsToValues(params.Rows)
	if len(values) == 0 && !params.ClearTab {
		result.CompletedAt = a.now().UTC()
		result.Message = "no rows to export"
		return result, nil
	}

	var err error
	if params.ClearTab {
		values = append([][]interface{}{sheetHeader}, values...)
		_, err = a.client.UpdateValues(ctx, params.Sheet.SpreadsheetID, buildRange(params, result.Tab), values)
	} else {
		_, err = a.client.AppendValues(ctx, params.Sheet.SpreadsheetID, buildRange(params, result.Tab), values)
	}
	if err != nil {
		return result, fmt.Errorf("sheets: failed to write rows: %w", err)
	}

	result.WrittenRows = len(params.Rows)
	result.CompletedAt = a.now().UTC()
	result.Message = fmt.Sprintf("successfully exported %d row(s)", result.WrittenRows)
	return result, nil
}

func buildRange(params tools.SheetsExportParams, tab string) string {
	if params.Sheet.Range != "" {
		return params.Sheet.Range
	}
	return sheetsclient.A1(tab, "A1")
}

func convertRowsToValues(rows []tools.SheetRow) [][]interface{} {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = []interface{}{
			row.Kind,
			row.Title,
			row.Subtitle,
			row.Location,
			row.Rating,
			row.Detail,
		}
	}
	return values
}
