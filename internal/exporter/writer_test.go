package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cposada23/BDDPlaywrightFramework/internal/allure"
)

func TestWriter_WriteReport(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "allure-results")
	var console bytes.Buffer

	tests := []allure.Test{
		{
			UUID:   "11111111-1111-1111-1111-111111111111",
			Name:   "Checkout",
			Status: allure.StatusFail,
			StatusDetails: &allure.StatusDetails{
				Message: "Timeout 30000ms exceeded",
				Trace:   "Timeout 30000ms exceeded\nstack",
			},
			Stage: allure.StageFinished,
		},
		{
			UUID:   "22222222-2222-2222-2222-222222222222",
			Name:   "Login",
			Status: allure.StatusPass,
			Stage:  allure.StageFinished,
		},
	}

	w := NewWriter(WriteToFile(dir), WriteReportTo(&console))
	if err := w.WriteReport(context.Background(), tests); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	for _, tc := range tests {
		data, err := os.ReadFile(filepath.Join(dir, tc.UUID+"-result.json"))
		if err != nil {
			t.Fatalf("os.ReadFile: %v", err)
		}

		var got allure.Test
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("json.Unmarshal: %v", err)
		}

		if diff := cmp.Diff(tc, got); diff != "" {
			t.Errorf("mismatch (-want, +got):\n%s", diff)
		}
	}

	if n := bytes.Count(console.Bytes(), []byte("\n")); n != len(tests) {
		t.Errorf("console got %d lines, want %d", n, len(tests))
	}
}

func TestWriter_WriteAttachments(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "checkout-submit-button-1699999999999.png")
	if err := os.WriteFile(src, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "out")
	attachments := []Attachment{
		{Name: "screenshot", Mime: allure.MimePNG, Source: "a-attachment.png", Path: src},
		{Name: "log", Mime: "text/plain", Source: "b-attachment.txt", Body: []byte("log")},
	}

	if err := NewWriter(WriteToFile(dir)).WriteAttachments(context.Background(), attachments); err != nil {
		t.Fatalf("WriteAttachments: %v", err)
	}

	testCases := []struct {
		name     string
		source   string
		expected string
	}{
		{name: "test_copied_from_path", source: "a-attachment.png", expected: "png-bytes"},
		{name: "test_written_from_body", source: "b-attachment.txt", expected: "log"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()

				data, err := os.ReadFile(filepath.Join(dir, tc.source))
				if err != nil {
					t.Fatalf("os.ReadFile: %v", err)
				}
				if string(data) != tc.expected {
					t.Errorf("got %q, want %q", data, tc.expected)
				}
			},
		)
	}
}

func TestWriter_WriteAttachmentsMissingSource(t *testing.T) {
	t.Parallel()

	w := NewWriter(WriteToFile(t.TempDir()))
	err := w.WriteAttachments(
		context.Background(), []Attachment{
			{Source: "x.png", Path: filepath.Join(t.TempDir(), "gone.png")},
		},
	)
	if err == nil {
		t.Fatal("expected error for missing source file")
	}
}

func TestWriter_NoOutputPath(t *testing.T) {
	t.Parallel()

	w := NewWriter()
	if err := w.WriteAttachments(context.Background(), []Attachment{{Source: "x.png", Path: "missing"}}); err != nil {
		t.Fatalf("WriteAttachments: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.WriteReport(ctx, nil); err == nil {
		t.Fatal("expected context error")
	}
}
