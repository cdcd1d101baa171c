package registry

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Agent", "agent"},
		{"two words", "AI Agent", "ai-agent"},
		{"already lower", "runbook", "runbook"},
		{"punctuation", "C2 (Command & Control)", "c2-command-control"},
		{"multiple spaces", "Remote  Monitoring", "remote-monitoring"},
		{"slash", "Backup/Restore", "backup-restore"},
		{"leading and trailing junk", "  (Agent)  ", "agent"},
		{"empty", "", "unknown"},
		{"whitespace only", "   ", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatID(t *testing.T) {
	if got := FormatID(25); got != "CAT-MIP-000000025" {
		t.Errorf("FormatID(25) = %q", got)
	}
	if got := FormatID(1); got != "CAT-MIP-000000001" {
		t.Errorf("FormatID(1) = %q", got)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"CAT-MIP-000000025", 25, true},
		{"CAT-MIP-000000001", 1, true},
		{" CAT-MIP-000000003 ", 3, true},
		{"CAT-MIP-25", 25, true},
		{"cat-mip-000000025", 0, false},
		{"CAT-MIP-", 0, false},
		{"MIP-000000025", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseID(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseID(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTitleFromStem(t *testing.T) {
	if got := titleFromStem("ai-agent"); got != "Ai Agent" {
		t.Errorf("titleFromStem(ai-agent) = %q", got)
	}
	if got := titleFromStem("runbook"); got != "Runbook" {
		t.Errorf("titleFromStem(runbook) = %q", got)
	}
}
