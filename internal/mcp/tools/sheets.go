package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/review-search/internal/domain"
)

// SheetRow is one exported card
type SheetRow struct {
	Kind     string
	Title    string
	Subtitle string
	Location string
	Rating   float64
	Detail   string
}

// SheetsExportParams defines the arguments for the search_export tool
type SheetsExportParams struct {
	ClearTab bool `json:"clear_tab,omitempty" jsonschema:"If true, clears the tab and writes a header row first"`
	Sheet    struct {
		SpreadsheetID string `json:"spreadsheet_id" jsonschema:"Google Sheets document ID"`
		Tab           string `json:"tab,omitempty" jsonschema:"Tab name to write to"`
		Range         string `json:"range,omitempty" jsonschema:"Optional A1 range override"`
	} `json:"sheet" jsonschema:"Destination sheet information"`

	// Rows are filled from the session, never from the client
	Rows []SheetRow `json:"-"`
}

// SheetsExportResult describes the summary returned after export
type SheetsExportResult struct {
	SpreadsheetID string    `json:"spreadsheet_id" jsonschema:"Target spreadsheet ID"`
	Tab           string    `json:"tab,omitempty" jsonschema:"Target tab name"`
	WrittenRows   int       `json:"written_rows" jsonschema:"How many rows were written"`
	Mode          string    `json:"mode" jsonschema:"append or replace"`
	CompletedAt   time.Time `json:"completed_at" jsonschema:"Timestamp when export finished"`
	Message       string    `json:"message,omitempty" jsonschema:"Optional status message"`
}

// SheetsClient writes rows to a spreadsheet
type SheetsClient interface {
	Export(ctx context.Context, params SheetsExportParams) (SheetsExportResult, error)
}

// WithSheetsExport registers the search_export tool. Nothing is registered
// when client is nil.
func WithSheetsExport(client SheetsClient) Option {
	return func(reg *registry) {
		if client == nil {
			reg.logger.Warn("sheets client not configured, skipping search_export")
			return
		}

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "search_export",
			Description: "Export the loaded results of the current search to Google Sheets, one row per card",
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params SheetsExportParams) (*sdkmcp.CallToolResult, any, error) {
			return reg.sheetsExport(ctx, req, client, params)
		})
	}
}

func (r *registry) sheetsExport(ctx context.Context, req *sdkmcp.CallToolRequest, client SheetsClient, params SheetsExportParams) (*sdkmcp.CallToolResult, any, error) {
	if params.Sheet.SpreadsheetID == "" {
		return nil, nil, fmt.Errorf("sheet.spreadsheet_id is required")
	}

	c, err := r.sessions.get(ctx, sessionID(req))
	if err != nil {
		return nil, nil, err
	}

	params.Rows = RowsOf(c.engine.Snapshot().Items)
	result, err := client.Export(ctx, params)
	if err != nil {
		return nil, nil, err
	}

	msg := fmt.Sprintf("[search_export] mode=%s rows=%d spreadsheet_id=%q tab=%q", result.Mode, result.WrittenRows, result.SpreadsheetID, result.Tab)
	return textResult(msg), result, nil
}

// RowsOf flattens cards into sheet rows, preserving order
func RowsOf(items []domain.CardItem) []SheetRow {
	rows := make([]SheetRow, 0, len(items))
	for _, it := range items {
		row := SheetRow{Kind: it.Kind().String(), Location: it.Location()}
		switch c := it.(type) {
		case *domain.CompanyCard:
			row.Title = c.Name
			row.Subtitle = strconv.Itoa(c.NumRatings) + " ratings"
			row.Location = strings.Join(c.JobLocations, ", ")
			row.Rating = c.AvgRating
			row.Detail = c.Description
		case *domain.JobCard:
			row.Title = c.Name
			row.Subtitle = c.CompanyName
			row.Rating = c.AvgRating
			row.Detail = salaryText(c)
		case *domain.ReviewJobCard:
			row.Title = c.JobName
			row.Subtitle = c.CompanyName
			row.Rating = c.Rating
			row.Detail = c.Body
		case *domain.ReviewUserCard:
			row.Title = c.Author
			row.Subtitle = c.CreatedAt
			row.Rating = c.Rating
			row.Detail = c.Body
		}
		rows = append(rows, row)
	}
	return rows
}

func salaryText(c *domain.JobCard) string {
	lo := strconv.FormatFloat(c.HourlySalaryMin, 'f', -1, 64)
	hi := strconv.FormatFloat(c.HourlySalaryMax, 'f', -1, 64)
	text := lo + "-" + hi
	if c.SalaryCurrency != "" {
		text += " " + c.SalaryCurrency
	}
	return text + "/h"
}
