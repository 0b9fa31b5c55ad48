package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfigJSON = `{
  "programs": {
    "prog-housing": {"id": "prog-housing", "name": "Housing Assistance", "description": "Rental support"}
  },
  "forms": {
    "form-apply": {
      "id": "form-apply",
      "program_id": "prog-housing",
      "title": "Housing Application",
      "trigger_phrases": ["apply for housing"],
      "fields": [
        {"id": "name", "type": "name", "label": "Full name", "required": true}
      ]
    }
  },
  "ctas": {
    "cta-apply": {"id": "cta-apply", "label": "Apply for housing", "action": "start_form", "form_id": "form-apply"}
  },
  "conversation_branches": {
    "branch-housing": {
      "id": "branch-housing",
      "detection_keywords": ["housing", "rent"],
      "available_ctas": {"primary": "cta-apply"}
    }
  }
}`

const invalidConfigJSON = `{
  "ctas": {
    "cta-broken": {"id": "cta-broken", "label": "Check eligibility", "action": "send_query"}
  }
}`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidateCommand_ValidConfig(t *testing.T) {
	path := writeConfigFile(t, validConfigJSON)

	out, err := execute(t, "validate", path)
	if err != nil {
		t.Fatalf("validate: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Configuration is valid.") {
		t.Errorf("output = %q, want valid message", out)
	}
}

func TestValidateCommand_InvalidConfig(t *testing.T) {
	path := writeConfigFile(t, invalidConfigJSON)

	out, err := execute(t, "validate", path)
	if err == nil {
		t.Fatalf("validate succeeded, want error\noutput: %s", out)
	}
	if !strings.Contains(out, "cta-broken") {
		t.Errorf("output = %q, want issue listing for cta-broken", out)
	}
}

func TestValidateCommand_JSONOutput(t *testing.T) {
	path := writeConfigFile(t, validConfigJSON)

	out, err := execute(t, "validate", "--json", path)
	if err != nil {
		t.Fatalf("validate --json: %v", err)
	}
	if !strings.Contains(out, `"valid": true`) {
		t.Errorf("output = %q, want JSON with valid:true", out)
	}

	// Reset the flag for other tests sharing rootCmd.
	validateJSONOutput = false
}

func TestValidateCommand_MissingFile(t *testing.T) {
	if _, err := execute(t, "validate", filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("validate succeeded on missing file, want error")
	}
}

func TestChecklistCommand_Ready(t *testing.T) {
	path := writeConfigFile(t, validConfigJSON)

	out, err := execute(t, "checklist", path)
	if err != nil {
		t.Fatalf("checklist: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "ready to deploy") {
		t.Errorf("output = %q, want ready message", out)
	}
	if !strings.Contains(out, "Programs: 1") {
		t.Errorf("output = %q, want contents section", out)
	}
}

func TestChecklistCommand_Blocked(t *testing.T) {
	path := writeConfigFile(t, invalidConfigJSON)

	out, err := execute(t, "checklist", path)
	if err == nil {
		t.Fatalf("checklist succeeded, want error\noutput: %s", out)
	}
	if !strings.Contains(out, "not ready to deploy") {
		t.Errorf("output = %q, want blocked message", out)
	}
}
