package generator

import "testing"

func TestAttachmentFilename(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", "fallback.zip"},
		{"quoted", `attachment; filename="batch-7.zip"`, "batch-7.zip"},
		{"unquoted", `attachment; filename=batch-7.zip`, "batch-7.zip"},
		{"unquoted with spaces", `attachment; filename=Spring run.zip`, "Spring run.zip"},
		{"single quoted", `attachment; filename='codes.zip'`, "codes.zip"},
		{"extended", `attachment; filename*=UTF-8''%E4%BA%8C%E7%BB%B4%E7%A0%81.zip`, "二维码.zip"},
		{"path stripped", `attachment; filename="../../etc/codes.zip"`, "codes.zip"},
		{"no filename", `attachment`, "fallback.zip"},
		{"empty filename", `attachment; filename=""`, "fallback.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AttachmentFilename(tt.header, "fallback.zip"); got != tt.want {
				t.Errorf("AttachmentFilename(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
