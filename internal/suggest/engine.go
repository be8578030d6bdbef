package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dataviz-ai/chart-insights/internal/config"
	"github.com/dataviz-ai/chart-insights/internal/models"
	"github.com/dataviz-ai/chart-insights/internal/tabular"
)

const systemInstruction = `You are a data viz assistant. Given a table schema and a natural language instruction, output 1-3 Chart.js-ready specs.
Respond strictly as JSON array of objects with fields: id, type in [bar,line,pie], title, labels (string[]), datasets ({label,data:number[]}[]).`

// At most this many records are forwarded to the model to bound request size.
const modelSampleRows = 20

// maxSpecs bounds the number of chart specs returned per request.
const maxSpecs = 3

var chartColors = []string{"#7C5CFA", "#00D1B2", "#A6A6B3", "#F59E0B", "#EF4444", "#10B981"}

// Engine produces chart specifications from an inferred schema, a row sample,
// and a free-text prompt. It tries the generative model first and falls back
// to a deterministic heuristic on any failure, so it never fails outward.
type Engine struct {
	client *ModelClient // nil when no credential is configured
}

// NewEngine creates a suggestion engine. A missing API key is the designed
// trigger for the heuristic path, not an error.
func NewEngine(cfg config.OpenAIConfig) *Engine {
	if cfg.APIKey == "" {
		return &Engine{}
	}
	return &Engine{client: NewModelClient(cfg)}
}

// Suggest returns 0-3 raw chart specs, pre-validation. Model failures are
// logged and absorbed here: the worst case is the single-chart heuristic.
func (e *Engine) Suggest(ctx context.Context, prompt string, schema []tabular.Column, records []*tabular.Record) []models.ChartSpec {
	if e.client != nil {
		specs, err := e.suggestWithModel(ctx, prompt, schema, records)
		if err == nil {
			return specs
		}
		slog.Warn("model suggestion failed, using heuristic fallback", "error", err)
	}
	return []models.ChartSpec{Fallback(prompt, schema, records)}
}

type modelPayload struct {
	Prompt string            `json:"prompt"`
	Schema payloadSchema     `json:"schema"`
	Sample []*tabular.Record `json:"sample"`
}

type payloadSchema struct {
	Columns []tabular.Column `json:"columns"`
}

func (e *Engine) suggestWithModel(ctx context.Context, prompt string, schema []tabular.Column, records []*tabular.Record) ([]models.ChartSpec, error) {
	sample := records
	if len(sample) > modelSampleRows {
		sample = sample[:modelSampleRows]
	}

	userPayload, err := json.Marshal(modelPayload{
		Prompt: prompt,
		Schema: payloadSchema{Columns: schema},
		Sample: sample,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	text, err := e.client.Complete(ctx, systemInstruction, string(userPayload))
	if err != nil {
		return nil, err
	}

	var specs []models.ChartSpec
	if err := json.Unmarshal([]byte(extractJSONArray(text)), &specs); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}
	if len(specs) > maxSpecs {
		specs = specs[:maxSpecs]
	}
	return specs, nil
}

// extractJSONArray strips surrounding code-fence markers by locating the
// first '[' and last ']' of the response text.
func extractJSONArray(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "[]"
	}
	if strings.HasPrefix(text, "```") {
		first := strings.Index(text, "[")
		last := strings.LastIndex(text, "]")
		if first >= 0 && last >= first {
			return text[first : last+1]
		}
		return "[]"
	}
	return text
}

// Fallback builds exactly one bar chart deterministically: the first
// string-typed column supplies the labels (first column by position when no
// column is string-typed) and the first number-typed column supplies the
// values (second column by position when none is number-typed, with
// missing or non-numeric cells cast to 0).
func Fallback(prompt string, schema []tabular.Column, records []*tabular.Record) models.ChartSpec {
	labelCol, valueCol := "", ""
	for _, col := range schema {
		if labelCol == "" && col.Type == tabular.TypeString {
			labelCol = col.Name
		}
		if valueCol == "" && col.Type == tabular.TypeNumber {
			valueCol = col.Name
		}
	}
	if labelCol == "" && len(schema) > 0 {
		labelCol = schema[0].Name
	}
	if valueCol == "" && len(schema) > 1 {
		valueCol = schema[1].Name
	}

	labels := make([]string, len(records))
	data := make([]float64, len(records))
	for i, rec := range records {
		if cell, ok := rec.Get(labelCol); ok {
			labels[i] = cell.AsString()
		}
		if cell, ok := rec.Get(valueCol); ok {
			data[i] = cell.AsFloat()
		}
	}

	datasetLabel := valueCol
	if datasetLabel == "" {
		datasetLabel = "Value"
	}
	title := prompt
	if title == "" {
		title = "Generated Chart"
	}

	return models.ChartSpec{
		ID:     "chart_1",
		Type:   "bar",
		Title:  title,
		Labels: labels,
		Datasets: []models.ChartDataset{
			{Label: datasetLabel, Data: data, BackgroundColor: chartColors[0]},
		},
	}
}
