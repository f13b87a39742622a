package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/klauspost/compress/zstd"

	"github.com/pthm-cable/canefield/config"
)

// OutputManager handles the run directory: config snapshot, CSV series, perf log, summary.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir            string
	compressAgents bool

	perfFile          *os.File
	perfHeaderWritten bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string, compressAgents bool) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}

	return &OutputManager{dir: dir, compressAgents: compressAgents, perfFile: f}, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WritePerf appends a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}

	records := []PerfStatsCSV{stats.ToCSV(windowEnd)}

	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
	}

	return nil
}

// WriteSeries writes model.csv and agents.csv (or agents.csv.zst) from the recorder.
func (om *OutputManager) WriteSeries(rec *Recorder) error {
	if om == nil {
		return nil
	}

	if err := writeCSVFile(filepath.Join(om.dir, "model.csv"), rec.ModelSeries()); err != nil {
		return fmt.Errorf("writing model series: %w", err)
	}

	agents := rec.AgentSeries()
	if om.compressAgents {
		if err := writeZstdCSVFile(filepath.Join(om.dir, "agents.csv.zst"), agents); err != nil {
			return fmt.Errorf("writing agent series: %w", err)
		}
		return nil
	}
	if err := writeCSVFile(filepath.Join(om.dir, "agents.csv"), agents); err != nil {
		return fmt.Errorf("writing agent series: %w", err)
	}
	return nil
}

// WriteSummary saves the run summary as JSON.
func (om *OutputManager) WriteSummary(s RunSummary) error {
	if om == nil {
		return nil
	}

	data, err := s.MarshalIndent()
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(om.dir, "summary.json"), data, 0644); err != nil {
		return fmt.Errorf("writing summary.json: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes the perf log.
func (om *OutputManager) Close() error {
	if om == nil || om.perfFile == nil {
		return nil
	}
	return om.perfFile.Close()
}

func writeCSVFile(path string, records any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(records, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeZstdCSVFile(path string, records any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return err
	}
	if err := gocsv.Marshal(records, enc); err != nil {
		enc.Close()
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadAgentSeries reads an agents.csv or agents.csv.zst file back into rows.
func ReadAgentSeries(path string) ([]AgentRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if filepath.Ext(path) == ".zst" {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	var rows []AgentRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parsing agent series: %w", err)
	}
	return rows, nil
}
