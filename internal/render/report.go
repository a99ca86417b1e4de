package render

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/gati-ai/gati/internal/graph"
	"github.com/gati-ai/gati/internal/trace"
)

// reportTemplate is the markdown run report. The mermaid block embeds the
// same flowchart `gati graph --format mermaid` produces.
const reportTemplate = `# Run Report: {{ .Manifest.RunID }}

{{ if .Manifest.AgentName }}**Agent:** {{ .Manifest.AgentName }}
{{ end }}**Status:** {{ .Manifest.Status }}
**Started:** {{ .Manifest.StartTime.Format "2006-01-02 15:04:05 MST" }}
**Duration:** {{ printf "%.2fs" .Manifest.Duration }}
**Events:** {{ .Manifest.EventCount }}
{{- if gt .Manifest.LLMCalls 0 }}
**LLM calls:** {{ .Manifest.LLMCalls }} ({{ .Manifest.TotalTokens }} tokens, ${{ printf "%.4f" .Manifest.EstimatedCost }})
{{- end }}

## Execution Graph

{{ .Diagram }}

## Timeline

| # | Event | Type | Latency |
|---|-------|------|---------|
{{- range .Rows }}
| {{ .Index }} | {{ .Name }}{{ if .Parallel }} ∥{{ end }} | {{ .Type }} | {{ .Latency }} |
{{- end }}
{{- if .Warnings }}

## Warnings

{{- range .Warnings }}
- {{ . }}
{{- end }}
{{- end }}
`

type reportRow struct {
	Index    string
	Name     string
	Type     string
	Latency  string
	Parallel bool
}

type reportData struct {
	Manifest trace.RunManifest
	Diagram  string
	Rows     []reportRow
	Warnings []string
}

// Report renders a markdown summary of one reconstructed run.
func Report(manifest trace.RunManifest, result *graph.Result) (string, error) {
	tmpl, err := template.New("report").Funcs(sprig.TxtFuncMap()).Parse(reportTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse report template: %w", err)
	}

	data := reportData{
		Manifest: manifest,
		Diagram:  Mermaid(result, MermaidOptions{MarkdownFence: true}),
		Warnings: result.Warnings,
	}
	for _, dn := range result.Nodes {
		row := reportRow{
			Index:    "-",
			Name:     dn.DisplayName,
			Type:     string(dn.Event.EventType),
			Latency:  "-",
			Parallel: dn.IsParallel,
		}
		if dn.SequenceIndex >= 0 {
			row.Index = fmt.Sprintf("%d", dn.SequenceIndex+1)
		}
		if dn.Event.LatencyMs != nil {
			row.Latency = fmt.Sprintf("%.0fms", *dn.Event.LatencyMs)
		}
		data.Rows = append(data.Rows, row)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}
