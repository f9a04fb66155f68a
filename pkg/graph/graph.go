package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/ontomask/pkg/onto"
)

// MarshalGraph converts a DAG and depth table to JSON bytes.
// Output is deterministic (nodes sorted by ID).
func MarshalGraph(d *onto.DAG, depth map[string]int) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(d, depth, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a DAG to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(d *onto.DAG, depth map[string]int, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(d, depth, f)
}

// WriteGraph writes a DAG as JSON to an io.Writer.
func WriteGraph(d *onto.DAG, depth map[string]int, w io.Writer) error {
	return writeGraphTo(d, depth, w)
}

// ReadGraphFile reads a JSON file and returns the decoded DAG and depth table.
func ReadGraphFile(path string) (*onto.DAG, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes a JSON graph from an io.Reader into a DAG and depth table.
func ReadGraph(r io.Reader) (*onto.DAG, map[string]int, error) {
	return readGraphFrom(r)
}

func writeGraphTo(d *onto.DAG, depth map[string]int, w io.Writer) error {
	out := FromDAG(d, depth)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (*onto.DAG, map[string]int, error) {
	var data Graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}
	return ToDAG(data)
}
