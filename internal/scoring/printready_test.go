package scoring

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dotcommander/preflight/internal/artwork"
	"github.com/dotcommander/preflight/internal/specs"
	"github.com/dotcommander/preflight/internal/types"
)

func TestCalculatePrintReadyScore(t *testing.T) {
	tests := []struct {
		name string
		fs   artwork.FileSpecs
		want int
	}{
		{
			name: "everything in place",
			fs:   artwork.FileSpecs{Format: artwork.FormatPDF, DPI: 300, ColorMode: artwork.ColorCMYK, HasBleed: true, HasSafeZone: true},
			want: 100,
		},
		{
			name: "bleed without safe zone",
			fs:   artwork.FileSpecs{Format: artwork.FormatPDF, DPI: 300, ColorMode: artwork.ColorCMYK, HasBleed: true},
			want: 95,
		},
		{
			// 10 + 10 + 10 + 0 + 15 + 8
			name: "low-res RGB PNG with alpha",
			fs:   artwork.FileSpecs{Format: artwork.FormatPNG, DPI: 150, ColorMode: artwork.ColorRGB, HasTransparency: true},
			want: 53,
		},
		{
			// 12 + 8 + 6 + 0 + 5 + 0
			name: "unknown JPG with text and alpha",
			fs:   artwork.FileSpecs{Format: artwork.FormatJPG, ColorMode: artwork.ColorUnknown, HasFonts: true, FontCount: 2, HasTransparency: true},
			want: 31,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePrintReadyScore(tt.fs)
			if got.Score != tt.want {
				t.Errorf("Score = %d, want %d (factors %+v)", got.Score, tt.want, got.Factors)
			}
			if len(got.Factors) != 6 {
				t.Errorf("Factors = %d, want 6", len(got.Factors))
			}
		})
	}
}

func TestCalculatePrintReadyScore_MaxPointsSumTo100(t *testing.T) {
	got := CalculatePrintReadyScore(artwork.FileSpecs{})
	total := 0
	for _, f := range got.Factors {
		total += f.MaxScore
		if f.Score > f.MaxScore {
			t.Errorf("factor %s: %d > max %d", f.Name, f.Score, f.MaxScore)
		}
	}
	if total != 100 {
		t.Errorf("max points sum to %d, want 100", total)
	}
}

func TestFontPoints_RasterPenalty(t *testing.T) {
	vector := CalculatePrintReadyScore(artwork.FileSpecs{Format: artwork.FormatPDF, HasFonts: true, FontCount: 1})
	raster := CalculatePrintReadyScore(artwork.FileSpecs{Format: artwork.FormatPNG, HasFonts: true, FontCount: 1})
	if vector.Points(FactorFonts) <= raster.Points(FactorFonts) {
		t.Errorf("vector fonts %d should outscore raster fonts %d", vector.Points(FactorFonts), raster.Points(FactorFonts))
	}
	if raster.Points(FactorFonts) != 5 {
		t.Errorf("raster fonts = %d, want 5", raster.Points(FactorFonts))
	}
}

func TestGeneratePreFlightChecks(t *testing.T) {
	fs := artwork.FileSpecs{Format: artwork.FormatJPG, DPI: 100, ColorMode: artwork.ColorRGB, HasTransparency: true, HasFonts: true, FontCount: 1}
	checks := GeneratePreFlightChecks(fs)

	want := map[string]types.Severity{
		"resolution":   types.SeverityBlocking,
		"color-mode":   types.SeverityAdvisory,
		"file-format":  types.SeverityAdvisory,
		"bleed":        types.SeverityAdvisory,
		"safe-zone":    types.SeverityAdvisory,
		"fonts":        types.SeverityAdvisory,
		"transparency": types.SeverityBlocking,
		"file-size":    types.SeverityPassed,
	}
	if len(checks) != len(want) {
		t.Fatalf("checks = %d, want %d", len(checks), len(want))
	}
	for _, c := range checks {
		status, ok := want[c.ID]
		if !ok {
			t.Errorf("unexpected check %s", c.ID)
			continue
		}
		if c.Status != status {
			t.Errorf("%s: status = %v, want %v", c.ID, c.Status, status)
		}
		if c.Blocking != status.IsBlocking() {
			t.Errorf("%s: Blocking = %v", c.ID, c.Blocking)
		}
		if c.Name == "" || c.Category == "" || c.Message == "" {
			t.Errorf("%s: incomplete check %+v", c.ID, c)
		}
	}
}

func TestGeneratePreFlightChecks_UnsupportedFormat(t *testing.T) {
	checks := GeneratePreFlightChecks(artwork.FileSpecs{Format: "gif", DPI: 300})
	for _, c := range checks {
		if c.ID == "file-format" && !c.Blocking {
			t.Error("gif should block")
		}
	}
}

func TestPreFlightCheck_MarshalJSON(t *testing.T) {
	c := newCheck("resolution", "Resolution", CategoryQuality, types.SeverityBlocking, "too low")
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"status":"error"`, `"isBlocking":true`, `"category":"quality"`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s missing %s", s, want)
		}
	}
}

func TestGeneratePreFlightResult(t *testing.T) {
	tests := []struct {
		name       string
		fs         artwork.FileSpecs
		wantStatus Status
		wantProc   bool
	}{
		{
			name:       "ready",
			fs:         artwork.FileSpecs{Format: artwork.FormatPDF, DPI: 300, ColorMode: artwork.ColorCMYK, HasBleed: true, HasSafeZone: true},
			wantStatus: StatusReady,
			wantProc:   true,
		},
		{
			name:       "blocking",
			fs:         artwork.FileSpecs{Format: artwork.FormatPDF, DPI: 72, ColorMode: artwork.ColorCMYK, HasBleed: true, HasSafeZone: true},
			wantStatus: StatusNotReady,
			wantProc:   false,
		},
		{
			// 25 + 10 + 10 + 0 + 15 + 10 = 70
			name:       "needs work",
			fs:         artwork.FileSpecs{Format: artwork.FormatPNG, DPI: 300, ColorMode: artwork.ColorRGB},
			wantStatus: StatusNeedsWork,
			wantProc:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GeneratePreFlightResult(tt.fs)
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s (score %d)", got.Status, tt.wantStatus, got.Score.Score)
			}
			if got.CanProceed != tt.wantProc {
				t.Errorf("CanProceed = %v, want %v", got.CanProceed, tt.wantProc)
			}
			if got.CanProceed != (got.BlockingCount == 0) {
				t.Errorf("CanProceed disagrees with BlockingCount %d", got.BlockingCount)
			}
		})
	}
}

func TestPrintReadyStrategy_Assess(t *testing.T) {
	a := NewPrintReadyStrategy().Assess(cleanSticker(), specs.Get("label"))
	if a.Strategy != StrategyPrintReady {
		t.Errorf("Strategy = %q", a.Strategy)
	}
	// No safe zone flag: 25 + 20 + 15 + 10 + 15 + 10.
	if a.Score != 95 {
		t.Errorf("Score = %d, want 95", a.Score)
	}
	if !a.ReadyToPrint {
		t.Error("ReadyToPrint = false, want true")
	}
	if got := issueIDs(a.Issues); len(got) != 1 || got[0] != "safe-zone" {
		t.Errorf("Issues = %v, want [safe-zone]", got)
	}
	if len(a.Passed) != 7 {
		t.Errorf("Passed = %d, want 7", len(a.Passed))
	}
}
