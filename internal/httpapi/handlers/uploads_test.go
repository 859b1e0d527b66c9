package handlers

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "report.docx", "report.docx"},
		{"spaces", "my report.docx", "my_report.docx"},
		{"unicode", "résumé.pdf", "r_sum_.pdf"},
		{"path stripped", "/tmp/evil/report.docx", "report.docx"},
		{"windows path stripped", `C:\Users\me\report.docx`, "report.docx"},
		{"traversal collapsed", "../../etc/passwd", "passwd"},
		{"dotfile trimmed", ".env", "env"},
		{"whitespace only", "   ", "file"},
		{"all symbols", "???", "___"},
		{"keeps separators", "a_b-c.d", "a_b-c.d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeFilename(tt.in); got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
