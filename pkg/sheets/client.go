package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// DefaultTab is used when no tab name is given
const DefaultTab = "Sheet1"

type Client struct {
	service *sheets.Service
}

type Config struct {
	CredentialsPath string
	CredentialsJSON []byte
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}

	switch {
	case cfg.CredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	case len(cfg.CredentialsJSON) > 0:
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	default:
		return nil, fmt.Errorf("sheets: credentials path or JSON is required")
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to create service: %w", err)
	}

	return &Client{
		service: service,
	}, nil
}

// A1 builds an A1 range for tab, quoting the tab name as Sheets requires
// for names with spaces or punctuation
func A1(tab, cells string) string {
	if tab == "" {
		tab = DefaultTab
	}
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'!" + cells
}

// AppendValues appends rows after the last row of the table found in range_
func (c *Client) AppendValues(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) (int, error) {
	if c.service == nil {
		return 0, fmt.Errorf("sheets: service is nil")
	}

	resp, err := c.service.Spreadsheets.Values.Append(spreadsheetID, range_, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("sheets: append %s: %w", range_, err)
	}
	if resp.Updates == nil {
		return len(values), nil
	}
	return int(resp.Updates.UpdatedRows), nil
}

// UpdateValues overwrites the cells starting at range_
func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) (int, error) {
	if c.service == nil {
		return 0, fmt.Errorf("sheets: service is nil")
	}

	resp, err := c.service.Spreadsheets.Values.Update(spreadsheetID, range_, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("sheets: update %s: %w", range_, err)
	}
	return int(resp.UpdatedRows), nil
}

// ClearValues empties range_ keeping formatting
func (c *Client) ClearValues(ctx context.Context, spreadsheetID, range_ string) error {
	if c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	if _, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, range_, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets: clear %s: %w", range_, err)
	}
	return nil
}
