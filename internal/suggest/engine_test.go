package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataviz-ai/chart-insights/internal/config"
	"github.com/dataviz-ai/chart-insights/internal/models"
	"github.com/dataviz-ai/chart-insights/internal/tabular"
)

func regionSalesRecords(t *testing.T) ([]tabular.Column, []*tabular.Record) {
	t.Helper()
	east := tabular.NewRecord()
	east.Set("Region", tabular.StringCell("East"))
	east.Set("Sales", tabular.NumberCell(10))
	west := tabular.NewRecord()
	west.Set("Region", tabular.StringCell("West"))
	west.Set("Sales", tabular.NumberCell(20))

	schema := []tabular.Column{
		{Name: "Region", Type: tabular.TypeString},
		{Name: "Sales", Type: tabular.TypeNumber},
	}
	return schema, []*tabular.Record{east, west}
}

func TestSuggest_FallbackWithoutCredential(t *testing.T) {
	// With no model credential the engine must return exactly one
	// deterministic bar chart
	schema, records := regionSalesRecords(t)
	engine := NewEngine(config.OpenAIConfig{})

	specs := engine.Suggest(context.Background(), "sales by region", schema, records)

	require.Len(t, specs, 1)
	spec := specs[0]
	assert.Equal(t, "chart_1", spec.ID)
	assert.Equal(t, "bar", spec.Type)
	assert.Equal(t, "sales by region", spec.Title)
	assert.Equal(t, []string{"East", "West"}, spec.Labels)
	require.Len(t, spec.Datasets, 1)
	assert.Equal(t, "Sales", spec.Datasets[0].Label)
	assert.Equal(t, []float64{10, 20}, spec.Datasets[0].Data)
}

func TestFallback_EmptyPromptGetsDefaultTitle(t *testing.T) {
	schema, records := regionSalesRecords(t)

	spec := Fallback("", schema, records)
	assert.Equal(t, "Generated Chart", spec.Title)
}

func TestFallback_NoStringColumnUsesFirstByPosition(t *testing.T) {
	// All-numeric schema: labels come from column 0, values from the first
	// number column
	rec := tabular.NewRecord()
	rec.Set("Year", tabular.NumberCell(2024))
	rec.Set("Total", tabular.NumberCell(99))
	schema := []tabular.Column{
		{Name: "Year", Type: tabular.TypeNumber},
		{Name: "Total", Type: tabular.TypeNumber},
	}

	spec := Fallback("", schema, []*tabular.Record{rec})
	assert.Equal(t, []string{"2024"}, spec.Labels)
	assert.Equal(t, "Year", spec.Datasets[0].Label)
	assert.Equal(t, []float64{2024}, spec.Datasets[0].Data)
}

func TestFallback_NoNumberColumnUsesSecondByPosition(t *testing.T) {
	// All-string schema: values come from column 1, cast to 0 when not numeric
	rec := tabular.NewRecord()
	rec.Set("Name", tabular.StringCell("Ada"))
	rec.Set("Team", tabular.StringCell("Blue"))
	schema := []tabular.Column{
		{Name: "Name", Type: tabular.TypeString},
		{Name: "Team", Type: tabular.TypeString},
	}

	spec := Fallback("", schema, []*tabular.Record{rec})
	assert.Equal(t, []string{"Ada"}, spec.Labels)
	assert.Equal(t, "Team", spec.Datasets[0].Label)
	assert.Equal(t, []float64{0}, spec.Datasets[0].Data)
}

func TestFallback_SingleColumnSchema(t *testing.T) {
	// One string column: there is no value column, dataset is zeros with a
	// generic label
	rec := tabular.NewRecord()
	rec.Set("Name", tabular.StringCell("Ada"))
	schema := []tabular.Column{{Name: "Name", Type: tabular.TypeString}}

	spec := Fallback("", schema, []*tabular.Record{rec})
	assert.Equal(t, []string{"Ada"}, spec.Labels)
	assert.Equal(t, "Value", spec.Datasets[0].Label)
	assert.Equal(t, []float64{0}, spec.Datasets[0].Data)
}

func TestFallback_JSONRoundTrip(t *testing.T) {
	// A fallback spec survives serialization without loss
	schema, records := regionSalesRecords(t)
	spec := Fallback("sales", schema, records)

	data, err := json.Marshal(spec)
	require.NoError(t, err)

	var back models.ChartSpec
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, spec.ID, back.ID)
	assert.Equal(t, spec.Labels, back.Labels)
	assert.Equal(t, spec.Datasets[0].Data, back.Datasets[0].Data)
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare array", `[{"id":"a"}]`, `[{"id":"a"}]`},
		{"fenced", "```json\n[{\"id\":\"a\"}]\n```", `[{"id":"a"}]`},
		{"fenced no array", "```\nnothing here\n```", "[]"},
		{"empty", "", "[]"},
		{"whitespace", "  \n ", "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSONArray(tt.in))
		})
	}
}

func fakeModelServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func testEngine(serverURL string) *Engine {
	return NewEngine(config.OpenAIConfig{
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		BaseURL: serverURL,
		Timeout: 5 * time.Second,
	})
}

func TestSuggest_ModelPath(t *testing.T) {
	// Test that a well-formed fenced model response is parsed into specs
	content := "```json\n[{\"id\":\"c1\",\"type\":\"line\",\"title\":\"Trend\",\"labels\":[\"a\",\"b\"],\"datasets\":[{\"label\":\"v\",\"data\":[1,2]}]}]\n```"
	srv := fakeModelServer(t, content, http.StatusOK)
	defer srv.Close()

	schema, records := regionSalesRecords(t)
	specs := testEngine(srv.URL).Suggest(context.Background(), "trend", schema, records)

	require.Len(t, specs, 1)
	assert.Equal(t, "c1", specs[0].ID)
	assert.Equal(t, "line", specs[0].Type)
	assert.Equal(t, []string{"a", "b"}, specs[0].Labels)
}

func TestSuggest_ModelOutputTruncatedToThree(t *testing.T) {
	var entries string
	for i := 0; i < 5; i++ {
		if i > 0 {
			entries += ","
		}
		entries += fmt.Sprintf(`{"id":"c%d","type":"bar","title":"t","labels":["a"],"datasets":[{"label":"v","data":[1]}]}`, i+1)
	}
	srv := fakeModelServer(t, "["+entries+"]", http.StatusOK)
	defer srv.Close()

	schema, records := regionSalesRecords(t)
	specs := testEngine(srv.URL).Suggest(context.Background(), "", schema, records)
	assert.Len(t, specs, 3)
}

func TestSuggest_ModelErrorFallsBack(t *testing.T) {
	// A 500 from the model API must degrade silently to the heuristic
	srv := fakeModelServer(t, "", http.StatusInternalServerError)
	defer srv.Close()

	schema, records := regionSalesRecords(t)
	specs := testEngine(srv.URL).Suggest(context.Background(), "sales", schema, records)

	require.Len(t, specs, 1)
	assert.Equal(t, "bar", specs[0].Type)
	assert.Equal(t, []string{"East", "West"}, specs[0].Labels)
}

func TestSuggest_MalformedModelOutputFallsBack(t *testing.T) {
	srv := fakeModelServer(t, "sorry, I cannot produce charts today", http.StatusOK)
	defer srv.Close()

	schema, records := regionSalesRecords(t)
	specs := testEngine(srv.URL).Suggest(context.Background(), "sales", schema, records)

	require.Len(t, specs, 1)
	assert.Equal(t, []float64{10, 20}, specs[0].Datasets[0].Data)
}

func TestSuggest_UnreachableModelFallsBack(t *testing.T) {
	// A dead endpoint (network error) must not surface to the caller
	schema, records := regionSalesRecords(t)
	engine := NewEngine(config.OpenAIConfig{
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		BaseURL: "http://127.0.0.1:1",
		Timeout: time.Second,
	})

	specs := engine.Suggest(context.Background(), "sales", schema, records)
	require.Len(t, specs, 1)
	assert.Equal(t, "chart_1", specs[0].ID)
}

func TestSuggest_SampleBoundedAtTwenty(t *testing.T) {
	// The model request must carry at most 20 rows regardless of input size
	var gotSample int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)

		var payload struct {
			Sample []json.RawMessage `json:"sample"`
		}
		require.NoError(t, json.Unmarshal([]byte(req.Messages[1].Content), &payload))
		gotSample = len(payload.Sample)

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "[]"}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	records := make([]*tabular.Record, 50)
	for i := range records {
		rec := tabular.NewRecord()
		rec.Set("n", tabular.NumberCell(float64(i)))
		records[i] = rec
	}
	schema := []tabular.Column{{Name: "n", Type: tabular.TypeNumber}}

	specs := testEngine(srv.URL).Suggest(context.Background(), "", schema, records)
	assert.Equal(t, 20, gotSample)
	assert.Empty(t, specs, "an empty model array is a valid outcome")
}
