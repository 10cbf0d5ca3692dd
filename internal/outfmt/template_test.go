package outfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

const conversationRecords = `{
  "_metadata": {"count": 2},
  "records": [
    {"info": {"conversationId": "c-1", "startTime": 1714521600000, "duration": 90, "latestSkillName": "billing"}},
    {"info": {"conversationId": "c-2", "startTime": "1714525200000", "duration": 3725, "latestSkillName": ""}}
  ]
}`

func renderTemplate(t *testing.T, body, tmpl string) string {
	t.Helper()
	data, err := ApplyQuery(json.RawMessage(body), "")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteTemplate(&buf, data, tmpl); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return buf.String()
}

func TestTemplateContext(t *testing.T) {
	if GetTemplate(context.Background()) != "" {
		t.Error("GetTemplate should return empty string by default")
	}
	ctx := WithTemplate(context.Background(), "{{.records}}")
	if GetTemplate(ctx) != "{{.records}}" {
		t.Error("GetTemplate should return the template set with WithTemplate")
	}
}

func TestWriteTemplate_Records(t *testing.T) {
	got := renderTemplate(t, conversationRecords,
		`{{range .records}}{{.info.conversationId}} {{epoch .info.startTime}} {{secs .info.duration}} {{dash .info.latestSkillName}}
{{end}}`)
	want := "c-1 2024-05-01T00:00:00Z 1m30s billing\n" +
		"c-2 2024-05-01T01:00:00Z 1h2m5s -\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteTemplate_Metadata(t *testing.T) {
	got := renderTemplate(t, conversationRecords, `{{._metadata.count}} conversations`)
	if got != "2 conversations" {
		t.Errorf("got %q", got)
	}
}

func TestWriteTemplate_JoinSkillIDs(t *testing.T) {
	got := renderTemplate(t, `{"agentStatusRecords":[{"agentId":"7","skillIds":[12,34]}]}`,
		`{{range .agentStatusRecords}}{{.agentId}}: {{join .skillIds ","}}{{end}}`)
	if got != "7: 12,34" {
		t.Errorf("got %q", got)
	}
}

func TestWriteTemplate_JSONFunc(t *testing.T) {
	got := renderTemplate(t, `{"interactionHistoryRecords":[{"info":{"engagementId":"e-1"}}]}`,
		`{{json (index .interactionHistoryRecords 0).info}}`)
	if !strings.Contains(got, `"engagementId": "e-1"`) {
		t.Errorf("expected indented JSON, got: %s", got)
	}
	if strings.HasSuffix(got, "\n") {
		t.Errorf("json should not add a trailing newline: %q", got)
	}
}

func TestWriteTemplate_MissingKeysRenderDash(t *testing.T) {
	got := renderTemplate(t, `{"records":[]}`, `[{{dash .missing}}][{{epoch .missing}}][{{secs .missing}}]`)
	if got != "[-][-][-]" {
		t.Errorf("got %q", got)
	}
}

func TestWriteTemplate_Errors(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTemplate(&buf, map[string]any{}, "{{.records")
	if err == nil || !strings.Contains(err.Error(), "invalid template") {
		t.Fatalf("expected invalid template error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Errorf("error should carry the location, got: %v", err)
	}

	err = WriteTemplate(&buf, map[string]any{"records": "x"}, `{{index .records 5}}`)
	if err == nil || !strings.Contains(err.Error(), "template execution error") {
		t.Fatalf("expected execution error, got: %v", err)
	}
}

func TestEpochMillis(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{float64(1714521600000), "2024-05-01T00:00:00Z"},
		{"1714521600000", "2024-05-01T00:00:00Z"},
		{json.Number("1714521600000"), "2024-05-01T00:00:00Z"},
		{float64(0), "-"},
		{"soon", "-"},
		{nil, "-"},
	}
	for _, tt := range tests {
		if got := epochMillis(tt.in); got != tt.want {
			t.Errorf("epochMillis(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
