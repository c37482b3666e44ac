package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"seqgen/internal/diag"
	"seqgen/internal/source"
)

func TestSarif(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/work")
	id := fs.Add("/work/tpl/a.seq", []byte("N 0..1 {\n  ( }\n"), 0)

	diags := []diag.Diagnostic{
		diag.NewError(diag.SynUnexpectedToken, source.Span{File: id, Start: 13, End: 14}, "unexpected closing delimiter '}'").
			WithNote(source.Span{File: id, Start: 11, End: 12}, "unclosed '(' opened here"),
		diag.New(diag.SevWarning, diag.SynHeaderMissingIn, source.Span{File: id, Start: 2, End: 3}, "expected `in`"),
	}

	var buf bytes.Buffer
	if err := Sarif(&buf, diags, fs, SarifRunMeta{ToolName: "seqgen", ToolVersion: "1.2.3"}); err != nil {
		t.Fatal(err)
	}

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				RuleIndex int    `json:"ruleIndex"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine   uint32 `json:"startLine"`
							StartColumn uint32 `json:"startColumn"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
				RelatedLocations []struct {
					ID int `json:"id"`
				} `json:"relatedLocations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v\n%s", err, buf.String())
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("log = %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "seqgen" || len(run.Tool.Driver.Rules) != 2 || run.Tool.Driver.Rules[0].ID != "SYN2001" {
		t.Errorf("driver = %+v", run.Tool.Driver)
	}
	if len(run.Results) != 2 {
		t.Fatalf("results = %+v", run.Results)
	}
	first := run.Results[0]
	loc := first.Locations[0].PhysicalLocation
	if first.Level != "error" || first.RuleIndex != 0 || loc.ArtifactLocation.URI != "tpl/a.seq" ||
		loc.Region.StartLine != 2 || loc.Region.StartColumn != 5 {
		t.Errorf("first result = %+v", first)
	}
	if len(first.RelatedLocations) != 1 || first.RelatedLocations[0].ID != 1 {
		t.Errorf("related = %+v", first.RelatedLocations)
	}
	if second := run.Results[1]; second.Level != "warning" || second.RuleIndex != 1 {
		t.Errorf("second result = %+v", second)
	}
}
