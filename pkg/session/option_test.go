package session

import (
	"errors"
	"strings"
	"testing"
)

func TestParseOption(t *testing.T) {
	tests := []struct {
		name    string
		kind    OptionKind
		raw     string
		want    string
		wantErr bool
	}{
		{name: "level digit", kind: OptionCompressionLevel, raw: "1", want: "low"},
		{name: "level word", kind: OptionCompressionLevel, raw: " High ", want: "high"},
		{name: "level out of range", kind: OptionCompressionLevel, raw: "4", wantErr: true},
		{name: "angle", kind: OptionAngle, raw: "270", want: "270"},
		{name: "angle with degree sign", kind: OptionAngle, raw: "90°", want: "90"},
		{name: "angle not quarter turn", kind: OptionAngle, raw: "45", wantErr: true},
		{name: "pages", kind: OptionPageSpec, raw: "1, 3-4", want: "1, 3-4"},
		{name: "pages all", kind: OptionPageSpec, raw: "All", want: "all"},
		{name: "pages invalid", kind: OptionPageSpec, raw: "x", wantErr: true},
		{name: "split every", kind: OptionSplitMode, raw: "Every 3", want: "every 3"},
		{name: "split invalid", kind: OptionSplitMode, raw: "every", wantErr: true},
		{name: "unlock password", kind: OptionPassword, raw: "abc", want: "abc"},
		{name: "unlock empty", kind: OptionPassword, raw: "  ", wantErr: true},
		{name: "new password ok", kind: OptionNewPassword, raw: "secret1", want: "secret1"},
		{name: "new password short", kind: OptionNewPassword, raw: "12345", wantErr: true},
		{name: "new password long", kind: OptionNewPassword, raw: strings.Repeat("a", MaxPasswordLength+1), wantErr: true},
		{name: "no option", kind: OptionNone, raw: "1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOption(tt.kind, tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOption) {
					t.Fatalf("ParseOption(%q) err = %v, want ErrInvalidOption", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOption(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseOption(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name string
		mime string
		want InputKind
	}{
		{name: "Report.PDF", want: KindPDF},
		{name: "scan.jpeg", want: KindImage},
		{name: "deck.pptx", want: KindPresentation},
		{name: "sheet.xlsx", want: KindSpreadsheet},
		{name: "letter.docx", want: KindDocument},
		{name: "page.htm", want: KindHTML},
		{name: "noext", mime: "application/pdf", want: KindPDF},
		{name: "noext", mime: "image/heic", want: KindImage},
		{name: "archive.zip", mime: "application/zip", want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.mime, func(t *testing.T) {
			if got := DetectKind(tt.name, tt.mime); got != tt.want {
				t.Errorf("DetectKind(%q, %q) = %s, want %s", tt.name, tt.mime, got, tt.want)
			}
		})
	}
}

func TestFeatureTable(t *testing.T) {
	seen := map[Feature]bool{}
	for _, c := range Categories() {
		for _, f := range FeaturesIn(c) {
			seen[f] = true
		}
	}
	for _, f := range Features() {
		spec, ok := LookupSpec(f)
		if !ok {
			t.Fatalf("no spec for %s", f)
		}
		if !seen[f] {
			t.Errorf("%s is not in any menu category", f)
		}
		if spec.MinInputs < 1 || spec.MaxInputs < spec.MinInputs {
			t.Errorf("%s has bad bounds %d..%d", f, spec.MinInputs, spec.MaxInputs)
		}
		if spec.Option != OptionNone && !spec.AutoFinalize() {
			t.Errorf("%s needs an option but collects a variable number of inputs", f)
		}
	}
	if _, ok := ParseFeature("crop"); ok {
		t.Error("ParseFeature(crop) should be unknown")
	}
}
