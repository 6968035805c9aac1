package main

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// EvalRecord is one row of optimize_log.csv. Parameter columns hold the
// clamped values the simulations actually ran with.
type EvalRecord struct {
	Eval              int     `csv:"eval"`
	Fitness           float64 `csv:"fitness"`
	Survival          float64 `csv:"survival"`
	GenerationMean    float64 `csv:"generation_mean"`
	MutationChance    float64 `csv:"mutation_chance"`
	MutationMagnitude float64 `csv:"mutation_magnitude"`
	InvertedRate      float64 `csv:"inverted_rate"`
	Synapses          int     `csv:"synapses"`
	OffspringFraction float64 `csv:"offspring_fraction"`
}

// newEvalRecord maps a clamped parameter vector, in ParamVector order, onto
// a record.
func newEvalRecord(eval int, fitness, survival, depth float64, values []float64) EvalRecord {
	return EvalRecord{
		Eval:              eval,
		Fitness:           fitness,
		Survival:          survival,
		GenerationMean:    depth,
		MutationChance:    values[0],
		MutationMagnitude: values[1],
		InvertedRate:      values[2],
		Synapses:          int(values[3]),
		OffspringFraction: values[4],
	}
}

// evalLog appends evaluation records to a CSV file, writing the header with
// the first record.
type evalLog struct {
	f             *os.File
	headerWritten bool
}

func createEvalLog(path string) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating eval log: %w", err)
	}
	return &evalLog{f: f}, nil
}

func (l *evalLog) Write(rec EvalRecord) error {
	records := []EvalRecord{rec}
	if !l.headerWritten {
		if err := gocsv.Marshal(records, l.f); err != nil {
			return err
		}
		l.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, l.f)
}

func (l *evalLog) Close() error {
	return l.f.Close()
}
