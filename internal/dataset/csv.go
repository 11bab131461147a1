package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNoData indicates that a source held no examples.
	ErrNoData = errors.New("dataset: no examples")
	// ErrLabel indicates a target that is not a class index.
	ErrLabel = errors.New("dataset: invalid label")
)

// MaxClasses bounds the class count derived from labels.
const MaxClasses = 1024

// Dataset is a table of examples: features in X, one per row, and the
// target of each row in Y.
type Dataset struct {
	X *mat.Dense
	Y *mat.VecDense
}

// Load reads a CSV file, or every CSV part beneath a directory, where each
// record holds the features followed by the target. A first record that
// does not parse as numbers is taken as a header.
func Load(path string) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	files := []string{path}
	if info.IsDir() {
		if files, err = Discover(path); err != nil {
			return nil, err
		}
	}

	var rows [][]float64
	for _, file := range files {
		part, err := readCSV(file)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 && len(part) > 0 && len(part[0]) != len(rows[0]) {
			return nil, fmt.Errorf("%s: %d columns, previous parts have %d", file, len(part[0]), len(rows[0]))
		}
		log.Debug().Str("path", file).Int("rows", len(part)).Msg("loaded dataset part")
		rows = append(rows, part...)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoData)
	}
	return fromRows(rows), nil
}

func fromRows(rows [][]float64) *Dataset {
	m, n := len(rows), len(rows[0])-1
	X := mat.NewDense(m, n, nil)
	Y := mat.NewVecDense(m, nil)
	for i, row := range rows {
		X.SetRow(i, row[:n])
		Y.SetVec(i, row[n])
	}
	return &Dataset{X: X, Y: Y}
}

func readCSV(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open part: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.Comment = '#'
	r.TrimLeadingSpace = true

	var rows [][]float64
	for first := true; ; first = false {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		line, _ := r.FieldPos(0)
		if len(rec) < 2 {
			return nil, fmt.Errorf("%s:%d: need at least one feature and a target", path, line)
		}
		row, err := parseRecord(rec)
		if err != nil {
			if first {
				continue
			}
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRecord(rec []string) ([]float64, error) {
	row := make([]float64, len(rec))
	for j, field := range rec {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", j+1, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("column %d: non-finite value %q", j+1, field)
		}
		row[j] = v
	}
	return row, nil
}

// Len is the number of examples.
func (d *Dataset) Len() int {
	return d.Y.Len()
}

// Features is the number of columns of X.
func (d *Dataset) Features() int {
	_, n := d.X.Dims()
	return n
}

// Targets returns Y as an m×1 matrix.
func (d *Dataset) Targets() *mat.Dense {
	t := mat.NewDense(d.Len(), 1, nil)
	t.SetCol(0, d.Y.RawVector().Data)
	return t
}

// Labels returns Y as class indices together with the class count, which is
// one more than the largest label. Labels must lie in [0, MaxClasses).
func (d *Dataset) Labels() ([]int, int, error) {
	labels := make([]int, d.Len())
	k := 0
	for i := range labels {
		v := d.Y.AtVec(i)
		if v < 0 || v != math.Trunc(v) || v >= MaxClasses {
			return nil, 0, fmt.Errorf("row %d: %v: %w", i+1, v, ErrLabel)
		}
		labels[i] = int(v)
		if labels[i]+1 > k {
			k = labels[i] + 1
		}
	}
	return labels, k, nil
}

// OneHot encodes labels as an m×k matrix with a single 1 per row.
func OneHot(labels []int, k int) (*mat.Dense, error) {
	if len(labels) == 0 || k <= 0 {
		return nil, ErrNoData
	}
	Y := mat.NewDense(len(labels), k, nil)
	for i, l := range labels {
		if l < 0 || l >= k {
			return nil, fmt.Errorf("row %d: %d not in [0, %d): %w", i+1, l, k, ErrLabel)
		}
		Y.Set(i, l, 1)
	}
	return Y, nil
}
