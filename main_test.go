package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var updateSnapshots = flag.Bool("update", false, "rewrite testdata/*.expected.svg from the current output")

// TestSVGGeneration performs SVG comparison testing against snapshots in testdata.
func TestSVGGeneration(t *testing.T) {
	testDataDir := "testdata"

	// Find all test parameter files
	paramFiles, err := filepath.Glob(filepath.Join(testDataDir, "*.params.json"))
	if err != nil {
		t.Fatalf("Error finding parameter files: %v", err)
	}
	if len(paramFiles) == 0 {
		t.Fatalf("No parameter files found in %s", testDataDir)
	}

	for _, paramFile := range paramFiles {
		baseName := strings.TrimSuffix(filepath.Base(paramFile), ".params.json")
		t.Run(baseName, func(t *testing.T) {
			expectedSVGFile := filepath.Join(testDataDir, baseName+".expected.svg")

			// --- Load Parameters ---
			paramBytes, err := os.ReadFile(paramFile)
			if err != nil {
				t.Fatalf("Error reading parameter file %s: %v", paramFile, err)
			}
			var override ParametersOverride
			if err := json.Unmarshal(paramBytes, &override); err != nil {
				t.Fatalf("Error unmarshalling parameters %s: %v", paramFile, err)
			}

			// --- Generate SVG ---
			generatedSVG, err := GenerateSVG(Resolve(DefaultParameters(), &override))
			if err != nil {
				t.Fatalf("Error generating SVG for %s: %v", baseName, err)
			}

			if *updateSnapshots {
				if err := os.WriteFile(expectedSVGFile, []byte(generatedSVG), 0644); err != nil {
					t.Fatalf("Failed to write expected SVG %s: %v", expectedSVGFile, err)
				}
				t.Logf("Updated %s", expectedSVGFile)
				return
			}

			// --- Load Expected SVG ---
			expectedSVGBytes, err := os.ReadFile(expectedSVGFile)
			if err != nil {
				if os.IsNotExist(err) {
					t.Fatalf("Expected SVG file %s not found; run go test -run TestSVGGeneration -update to create it", expectedSVGFile)
				}
				t.Fatalf("Error reading expected SVG file %s: %v", expectedSVGFile, err)
			}
			expectedSVG := string(expectedSVGBytes)

			// --- Compare SVG ---
			normalizedGenerated := strings.ReplaceAll(generatedSVG, "\r\n", "\n")
			normalizedExpected := strings.ReplaceAll(expectedSVG, "\r\n", "\n")

			if normalizedGenerated != normalizedExpected {
				diff := findFirstDifference(normalizedGenerated, normalizedExpected)
				t.Errorf("Generated SVG for %s does not match %s.\nFirst difference near character %d:\nEXPECTED:\n...%s...\nGOT:\n...%s...",
					baseName, expectedSVGFile,
					diff.Index, diff.ExpectedContext, diff.GotContext)
				failedFile := filepath.Join(testDataDir, baseName+".failed.svg")
				os.WriteFile(failedFile, []byte(generatedSVG), 0644)
				t.Logf("Wrote differing output to %s", failedFile)
			}
		})
	}
}

// diffResult helps show context around the first difference.
type diffResult struct {
	Index           int
	ExpectedContext string
	GotContext      string
}

// findFirstDifference finds the first differing character and provides context.
func findFirstDifference(s1, s2 string) diffResult {
	limit := min(len(s1), len(s2))
	idx := -1
	for i := 0; i < limit; i++ {
		if s1[i] != s2[i] {
			idx = i
			break
		}
	}
	// Handle case where one string is a prefix of the other
	if idx == -1 && len(s1) != len(s2) {
		idx = limit
	}
	if idx == -1 {
		return diffResult{Index: 0, ExpectedContext: "(Strings are identical)", GotContext: "(Strings are identical)"}
	}

	contextSize := 20 // Characters before and after the difference
	start := max(idx-contextSize, 0)
	endS1 := min(idx+contextSize, len(s1))
	endS2 := min(idx+contextSize, len(s2))

	return diffResult{
		Index:           idx,
		ExpectedContext: s1[start:endS1],
		GotContext:      s2[start:endS2],
	}
}

func TestFindFirstDifference(t *testing.T) {
	d := findFirstDifference("abcdef", "abcxef")
	if d.Index != 3 {
		t.Errorf("Index = %d, want 3", d.Index)
	}
	d = findFirstDifference("abc", "abcdef")
	if d.Index != 3 {
		t.Errorf("prefix Index = %d, want 3", d.Index)
	}
	d = findFirstDifference("same", "same")
	if d.ExpectedContext != "(Strings are identical)" {
		t.Errorf("identical strings reported a difference: %+v", d)
	}
}

func TestWarnAmbiguousCrossings(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	geom, err := BuildGeometry(DefaultParameters())
	if err != nil {
		t.Fatalf("BuildGeometry: %v", err)
	}
	warnAmbiguousCrossings(geom)
	if logs.Len() != 0 {
		t.Errorf("default parameters produced warnings: %s", logs.String())
	}

	p := DefaultParameters()
	p.LineWidth = 500
	if geom, err = BuildGeometry(p); err != nil {
		t.Fatalf("BuildGeometry: %v", err)
	}
	warnAmbiguousCrossings(geom)
	if got := strings.Count(logs.String(), "does not meet the circle"); got != 2 {
		t.Errorf("want a warning per wave, got %d:\n%s", got, logs.String())
	}
}
