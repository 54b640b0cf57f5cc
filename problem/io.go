// Package problem implements the problem's I/O surface: loading
// matrix.in/vector.in, writing result.out, the residual check, and the
// synthetic problem generator used for stress-testing the pipeline.
/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package problem

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// LoadMatrix reads n*n whitespace-separated decimal doubles, row-major, from
// dir/matrix.in.
func LoadMatrix(dir string, n int) ([]float64, error) {
	vals, err := readDoubles(filepath.Join(dir, "matrix.in"), n*n)
	if err != nil {
		return nil, errors.Wrap(err, "problem: load matrix.in")
	}
	return vals, nil
}

// LoadVector reads n whitespace-separated decimal doubles from dir/vector.in.
func LoadVector(dir string, n int) ([]float64, error) {
	vals, err := readDoubles(filepath.Join(dir, "vector.in"), n)
	if err != nil {
		return nil, errors.Wrap(err, "problem: load vector.in")
	}
	return vals, nil
}

func readDoubles(path string, want int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %q", path)
	}
	defer f.Close()

	vals := make([]float64, 0, want)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %q as a decimal double", sc.Text())
		}
		vals = append(vals, v)
	}
	if err := sc.Err(); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "scan %q", path)
	}
	if len(vals) != want {
		return nil, errors.Errorf("%q: expected %d values, found %d", path, want, len(vals))
	}
	return vals, nil
}

// WriteResult writes x as n lines, each printed with six fractional digits
// decimal, to dir/result.out.
func WriteResult(dir string, x []float64) error {
	f, err := os.Create(filepath.Join(dir, "result.out"))
	if err != nil {
		return errors.Wrap(err, "problem: create result.out")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, v := range x {
		if _, err := fmt.Fprintf(w, "%.6f\n", v); err != nil {
			return errors.Wrap(err, "problem: write result.out")
		}
	}
	return errors.Wrap(w.Flush(), "problem: flush result.out")
}
