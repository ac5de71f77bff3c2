package graphql

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/review-search/internal/domain"
	"github.com/honeycarbs/review-search/internal/domain/search"
	"github.com/honeycarbs/review-search/pkg/graphql"
)

type capturedRequest struct {
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

func newTestProvider(t *testing.T, body string, captured *capturedRequest) *Provider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if captured != nil {
			_ = json.Unmarshal(raw, captured)
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client, err := graphql.NewClient(graphql.Config{Endpoint: srv.URL})
	require.NoError(t, err)
	p, err := NewProvider(client)
	require.NoError(t, err)
	return p
}

func TestFetchJobsPage(t *testing.T) {
	var req capturedRequest
	p := newTestProvider(t, `{"data":{"jobs":{
		"count": 2,
		"lastCursor": "Y3Vyc29yOjI=",
		"hasMore": true,
		"items": [
			{"__typename":"Job","id":"j1","name":"Intern","location":"Toronto, ON","hourlySalaryMax":22,"company":{"name":"Acme"},"reviews":{"count":4}},
			{"__typename":"Job","id":"j2","name":"Intern II","location":"Ottawa, ON"}
		]
	}}}`, &req)

	q := domain.Query{Text: "intern", Type: domain.SearchJobs, Salary: domain.NewRange(15, 30)}
	vars, err := search.ComposeVariables(q)
	require.NoError(t, err)
	cur := "Y3Vyc29yOjA="
	vars = vars.WithAfter(&cur)
	vars.Limit = 20

	page, err := p.Fetch(context.Background(), vars)
	require.NoError(t, err)
	require.Equal(t, 2, page.Count)
	require.True(t, page.HasMore)
	require.Equal(t, "Y3Vyc29yOjI=", *page.Cursor)
	require.Len(t, page.Items, 2)
	require.Equal(t, "Job", page.Items[0].Typename)
	require.Equal(t, "Acme", page.Items[0].Job.Company.Name)
	require.Equal(t, 4, page.Items[0].Job.Reviews.Count)
	require.Nil(t, page.Items[1].Job.Company)

	require.Equal(t, "SearchJobs", req.OperationName)
	require.Equal(t, "Y3Vyc29yOjA=", req.Variables["after"])
	require.Equal(t, float64(20), req.Variables["limit"])
	searchVars := req.Variables["search"].(map[string]any)
	require.Equal(t, "intern", searchVars["query"])
	require.Equal(t, float64(15), searchVars["filterSalaryHourlyAmountGt"])
	require.Equal(t, float64(30), searchVars["filterSalaryHourlyAmountLt"])
	require.NotContains(t, searchVars, "filterSalaryAmountGt")
	require.NotContains(t, req.Variables, "Type")
}

func TestFetchReviewsWithoutHasMore(t *testing.T) {
	p := newTestProvider(t, `{"data":{"reviews":{
		"count": 1,
		"lastCursor": "",
		"items": [{"id":"r1","body":"fine","tags":"a,b","author":"sam","overallRating":4}]
	}}}`, nil)

	page, err := p.Fetch(context.Background(), domain.Variables{Type: domain.SearchReviews})
	require.NoError(t, err)
	require.Nil(t, page.Cursor)
	require.False(t, page.HasMore)

	items, err := search.Transform(domain.SearchReviews, page.Items)
	require.NoError(t, err)
	require.Equal(t, domain.KindReviewByUser, items[0].Kind())
}

func TestFetchCompaniesFeedsTransform(t *testing.T) {
	p := newTestProvider(t, `{"data":{"companies":{
		"count": 1,
		"lastCursor": "c1",
		"items": [{"id":"c1","slug":"acme","name":"Acme","scoreAverages":{"overall":4.5},"reviews":{"count":12},"jobLocations":["Toronto, ON"]}]
	}}}`, nil)

	page, err := p.Fetch(context.Background(), domain.Variables{Type: domain.SearchCompanies})
	require.NoError(t, err)
	require.True(t, page.HasMore)

	items, err := search.Transform(domain.SearchCompanies, page.Items)
	require.NoError(t, err)
	card := items[0].(*domain.CompanyCard)
	require.Equal(t, 4.5, card.AvgRating)
	require.Equal(t, 12, card.NumRatings)
}

func TestFetchMissingField(t *testing.T) {
	p := newTestProvider(t, `{"data":{"companies":{"count":0,"items":[]}}}`, nil)

	_, err := p.Fetch(context.Background(), domain.Variables{Type: domain.SearchJobs})
	require.Error(t, err)
	require.Contains(t, err.Error(), `"jobs"`)
}

func TestFetchUnknownType(t *testing.T) {
	p := newTestProvider(t, `{"data":{}}`, nil)
	_, err := p.Fetch(context.Background(), domain.Variables{})
	require.Error(t, err)
}

func TestNewProviderRequiresClient(t *testing.T) {
	_, err := NewProvider(nil)
	require.Error(t, err)
}
