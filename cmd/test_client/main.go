package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	endpoint := flag.String("endpoint", "http://localhost:8080/mcp/stream", "MCP streamable HTTP endpoint")
	text := flag.String("q", "intern", "text to search for")
	searchType := flag.String("type", "JOBS", "COMPANIES, JOBS or REVIEWS")
	flag.Parse()

	ctx := context.Background()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "review-search-test-client",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint: *endpoint,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	log.Printf("Connected to server (session ID: %s)\n", session.ID())

	testListTools(ctx, session)
	testStartAndMore(ctx, session, *text, *searchType)
	testDebouncedInput(ctx, session, *text)
	testShareAndResume(ctx, session)

	fmt.Println("\nAll tests completed")
}

func testListTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: list tools")

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Printf("list tools failed: %v", err)
		return
	}
	for _, t := range tools.Tools {
		fmt.Printf("  %s: %s\n", t.Name, t.Description)
	}
}

func testStartAndMore(ctx context.Context, session *mcp.ClientSession, text, searchType string) {
	fmt.Println("\nTEST: search_start + search_more")

	if !call(ctx, session, "search_start", map[string]any{
		"query": map[string]any{"text": text, "type": searchType},
	}) {
		return
	}

	// Keep paging until the server reports nothing left to fetch
	for i := 0; i < 3; i++ {
		if !call(ctx, session, "search_more", map[string]any{}) {
			return
		}
	}
	fmt.Println("search_start + search_more passed")
}

func testDebouncedInput(ctx context.Context, session *mcp.ClientSession, text string) {
	fmt.Println("\nTEST: search_input (debounced)")

	for i := 1; i <= len(text); i++ {
		if !call(ctx, session, "search_input", map[string]any{"text": text[:i]}) {
			return
		}
	}

	// Default quiet period is 1.5s
	time.Sleep(2 * time.Second)
	call(ctx, session, "search_state", map[string]any{})
	fmt.Println("search_input passed")
}

func testShareAndResume(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: search_share + search_resume")

	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "search_share", Arguments: map[string]any{}})
	if err != nil || res.IsError {
		log.Printf("search_share failed: %v", err)
		return
	}
	printResult(res)

	shared, ok := res.StructuredContent.(map[string]any)
	if !ok {
		log.Printf("search_share returned no structured content")
		return
	}
	call(ctx, session, "search_resume", map[string]any{"id": shared["id"]})
	fmt.Println("search_share + search_resume passed")
}

func call(ctx context.Context, session *mcp.ClientSession, name string, args map[string]any) bool {
	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		log.Printf("%s failed: %v", name, err)
		return false
	}
	printResult(res)
	if res.IsError {
		log.Printf("%s returned a tool error", name)
		return false
	}
	return true
}

func printResult(res *mcp.CallToolResult) {
	for _, c := range res.Content {
		if txt, ok := c.(*mcp.TextContent); ok {
			fmt.Println(txt.Text)
		}
	}
}
