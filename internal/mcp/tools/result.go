package tools

import (
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/review-search/internal/domain/search"
)

// textResult returns a text-only ToolResult
func textResult(msg string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: msg},
		},
	}
}

// viewResult summarizes v for clients that only read text content
func viewResult(tool string, v search.View) *sdkmcp.CallToolResult {
	msg := fmt.Sprintf("[%s] state=%s items=%d total=%d has_more=%t", tool, v.State, len(v.Items), v.Total, v.HasMore)
	if v.Params != "" {
		msg += " params=" + v.Params
	}
	if v.Error != "" {
		msg += fmt.Sprintf(" error=%q", v.Error)
	}
	return textResult(msg)
}
