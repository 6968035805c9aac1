package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEvalLogWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "optimize_log.csv")
	l, err := createEvalLog(path)
	if err != nil {
		t.Fatalf("createEvalLog: %v", err)
	}

	pv := NewParamVector()
	values := pv.DefaultVector()
	for i := 1; i <= 3; i++ {
		if err := l.Write(newEvalRecord(i, -0.5, 0.5, 2, values)); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows:\n%s", len(lines), data)
	}
	header := lines[0]
	if !strings.HasPrefix(header, "eval,fitness,survival,generation_mean") {
		t.Errorf("header = %q", header)
	}
	for _, p := range pv.Specs {
		if !strings.Contains(header, p.Name) {
			t.Errorf("header missing %s column", p.Name)
		}
	}
	if !strings.HasPrefix(lines[3], "3,") {
		t.Errorf("last row = %q, want eval 3", lines[3])
	}
}

func TestSearchKeepsBestSample(t *testing.T) {
	var s search
	s.observe(-0.2, []float64{1})
	s.observe(-0.6, []float64{2})
	s.observe(-0.4, []float64{3})

	if s.evals != 3 {
		t.Errorf("evals = %d, want 3", s.evals)
	}
	if s.bestFitness != -0.6 || s.best[0] != 2 {
		t.Errorf("best = %v at %v, want -0.6 at [2]", s.bestFitness, s.best)
	}
}
