// Command onnxrt-run loads a checkpoint saved by the modelio package and
// runs it once against a CSV-encoded input tensor, printing the output
// tensor's values as CSV.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/zerfoo/onnxrt/dims"
	"github.com/zerfoo/onnxrt/modelio"
	"github.com/zerfoo/onnxrt/runtime"
	"github.com/zerfoo/onnxrt/tensor"
)

// runConfig represents command-line configuration for a single inference run.
type runConfig struct {
	ModelPath  string
	InputPath  string
	InputShape string
	OutputPath string
	Threads    int
	Profile    bool
	Verbose    bool
}

func main() {
	config := parseRunFlags()

	if config.Verbose {
		log.Printf("starting run with config: %+v", config)
	}

	start := time.Now()

	if err := run(config); err != nil {
		log.Fatalf("run failed: %v", err)
	}

	if config.Verbose {
		log.Printf("run completed in %v", time.Since(start))
	}
}

func parseRunFlags() *runConfig {
	config := &runConfig{}

	flag.StringVar(&config.ModelPath, "model", "", "Path to a .zmf checkpoint (required)")
	flag.StringVar(&config.InputPath, "input", "", "Path to a single-row CSV file of input values (required)")
	flag.StringVar(&config.InputShape, "input-shape", "", "Comma-separated input tensor dims, e.g. 1,1,28,28 (required)")
	flag.StringVar(&config.OutputPath, "output", "", "Output path for predictions (default: stdout)")
	flag.IntVar(&config.Threads, "threads", 1, "Intra-op worker pool size")
	flag.BoolVar(&config.Profile, "profile", false, "Log per-node timings after the run")
	flag.BoolVar(&config.Verbose, "verbose", false, "Verbose output")

	flag.Parse()

	if config.ModelPath == "" {
		log.Fatal("model path is required (-model)")
	}

	if config.InputPath == "" {
		log.Fatal("input path is required (-input)")
	}

	if config.InputShape == "" {
		log.Fatal("input shape is required (-input-shape)")
	}

	return config
}

func run(config *runConfig) error {
	shape, err := parseShape(config.InputShape)
	if err != nil {
		return fmt.Errorf("parsing -input-shape: %w", err)
	}

	if config.Verbose {
		log.Printf("loading model from %s", config.ModelPath)
	}

	model, err := modelio.Load(config.ModelPath)
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}

	if len(model.Inputs) != 1 {
		return fmt.Errorf("model declares %d inputs; this CLI only drives single-input models", len(model.Inputs))
	}

	input, err := readInputCSV(config.InputPath, shape)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	session, err := runtime.New(model).
		WithIntraOpNumThreads(config.Threads).
		WithProfilingEnabled(config.Profile).
		WithInputShape(model.Inputs[0], tensor.TypedShape{Dims: shape, ElemTy: tensor.F32}).
		Build()
	if err != nil {
		return fmt.Errorf("building session: %w", err)
	}
	defer session.Close()

	outputs, err := session.Run([]runtime.Feed{{Input: model.Inputs[0], Data: input}})
	if err != nil {
		return fmt.Errorf("running model: %w", err)
	}

	if config.Profile {
		for _, t := range session.Timings() {
			log.Printf("node=%s op=%s duration=%v", t.Node, t.Op, t.Duration)
		}
	}

	return writeOutputCSV(config.OutputPath, outputs)
}

func parseShape(s string) (dims.Dimensions, error) {
	parts := strings.Split(s, ",")
	out := make(dims.Dimensions, len(parts))

	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("dimension %d (%q): %w", i, p, err)
		}

		out[i] = v
	}

	return out, nil
}

func readInputCSV(path string, shape dims.Dimensions) (*tensor.Tensor, error) {
	f, err := os.Open(path) //nolint:gosec // path is caller-supplied and validated by them
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	values := make([]float32, 0, shape.TotalElems())

	for _, row := range records {
		for _, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 32)
			if err != nil {
				return nil, fmt.Errorf("parsing value %q: %w", cell, err)
			}

			values = append(values, float32(v))
		}
	}

	if len(values) != shape.TotalElems() {
		return nil, fmt.Errorf("input file has %d values, shape %v wants %d", len(values), shape, shape.TotalElems())
	}

	return tensor.NewFromFloat32(shape, values)
}

func writeOutputCSV(path string, outputs []*tensor.Tensor) error {
	out := os.Stdout

	if path != "" {
		f, err := os.Create(path) //nolint:gosec // path is caller-supplied and validated by them
		if err != nil {
			return err
		}
		defer f.Close()

		out = f
	}

	w := csv.NewWriter(out)
	defer w.Flush()

	for _, t := range outputs {
		row := make([]string, 0, t.Size())

		for _, v := range t.Float32() {
			row = append(row, strconv.FormatFloat(float64(v), 'f', 6, 32))
		}

		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}
