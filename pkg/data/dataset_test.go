package data

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadSamples(t *testing.T) {
	in := `# x1, x2, x3, y
0.1, 0.2, 0.3, 1

1,2,3,-1
`
	samples, err := ReadSamples(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadSamples: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if got := samples[0].Inputs; len(got) != 3 || got[2] != 0.3 {
		t.Errorf("unexpected inputs %v", got)
	}
	if samples[1].Target != -1 {
		t.Errorf("expected target -1, got %v", samples[1].Target)
	}
}

func TestReadSamplesErrors(t *testing.T) {
	for name, in := range map[string]string{
		"one column":  "1\n",
		"not a float": "1,abc\n",
		"ragged":      "1,2,3\n1,2\n",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadSamples(strings.NewReader(in)); err == nil {
				t.Errorf("expected error for %q", in)
			}
		})
	}
}

func TestLoadSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.csv")
	if err := os.WriteFile(path, []byte("1,2,3\n4,5,6\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	samples, err := LoadSamples(path)
	if err != nil {
		t.Fatalf("LoadSamples: %v", err)
	}
	if len(samples) != 2 || samples[1].Target != 6 {
		t.Errorf("unexpected samples %+v", samples)
	}

	if _, err := LoadSamples(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDownloadIfNotExists(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, "1,2\n")
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "d.csv")
	for i := 0; i < 2; i++ {
		if err := DownloadIfNotExists(srv.URL, path); err != nil {
			t.Fatalf("DownloadIfNotExists: %v", err)
		}
	}
	if hits != 1 {
		t.Errorf("expected one download, got %d", hits)
	}

	b, err := os.ReadFile(path)
	if err != nil || string(b) != "1,2\n" {
		t.Errorf("unexpected file contents %q (%v)", b, err)
	}
}

func TestShuffleDeterministic(t *testing.T) {
	mk := func() []Sample {
		s := make([]Sample, 20)
		for i := range s {
			s[i].Target = float64(i)
		}
		return s
	}
	a, b := mk(), mk()
	Shuffle(a, 42)
	Shuffle(b, 42)
	for i := range a {
		if a[i].Target != b[i].Target {
			t.Fatalf("same seed produced different order at %d", i)
		}
	}
}
