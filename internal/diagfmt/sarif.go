package diagfmt

import (
	"encoding/json"
	"io"
	"slices"

	"seqgen/internal/diag"
	"seqgen/internal/source"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

// SarifRunMeta describes the tool that produced a SARIF run.
type SarifRunMeta struct {
	ToolName    string
	ToolVersion string
}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        int             `json:"ruleIndex"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
}

type sarifLocation struct {
	ID               *int                  `json:"id,omitempty"`
	Message          *sarifMessage         `json:"message,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	}
	return "note"
}

// Sarif пишет диагностики одним SARIF-прогоном. Правила (rules) - по одному
// на каждый встреченный код, в порядке возрастания кода. URI файлов берутся
// относительно fs.BaseDir.
func Sarif(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, meta SarifRunMeta) error {
	var codes []diag.Code
	for i := range diags {
		if !slices.Contains(codes, diags[i].Code) {
			codes = append(codes, diags[i].Code)
		}
	}
	slices.Sort(codes)

	drv := sarifDriver{Name: meta.ToolName, Version: meta.ToolVersion, Rules: make([]sarifRule, 0, len(codes))}
	for _, c := range codes {
		drv.Rules = append(drv.Rules, sarifRule{ID: c.ID(), ShortDescription: sarifMessage{Text: c.Title()}})
	}

	base := fs.BaseDir()
	locate := func(sp source.Span) sarifPhysicalLocation {
		var uri string
		if f := fs.Get(sp.File); f != nil {
			uri = f.FormatPath("relative", base)
		}
		start, end := fs.Resolve(sp)
		return sarifPhysicalLocation{
			ArtifactLocation: sarifArtifact{URI: uri},
			Region: sarifRegion{
				StartLine: start.Line, StartColumn: start.Col,
				EndLine: end.Line, EndColumn: end.Col,
			},
		}
	}

	run := sarifRun{Tool: sarifTool{Driver: drv}, Results: make([]sarifResult, 0, len(diags))}
	for i := range diags {
		d := &diags[i]
		idx, _ := slices.BinarySearch(codes, d.Code)
		res := sarifResult{
			RuleID:    d.Code.ID(),
			RuleIndex: idx,
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{PhysicalLocation: locate(d.Primary)}},
		}
		for j, n := range d.Notes {
			id := j + 1
			res.RelatedLocations = append(res.RelatedLocations, sarifLocation{
				ID:               &id,
				Message:          &sarifMessage{Text: n.Msg},
				PhysicalLocation: locate(n.Span),
			})
		}
		run.Results = append(run.Results, res)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}})
}
