package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xor.csv")
	writeFile(t, path, `x1,x2,label
# comment
0, 0, 0
0, 1, 1
1, 0, 1
1, 1, 0
`)

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, 2, ds.Features())
	assert.True(t, mat.Equal(mat.NewDense(4, 2, []float64{0, 0, 0, 1, 1, 0, 1, 1}), ds.X))

	labels, k, err := ds.Labels()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1, 0}, labels)
	assert.Equal(t, 2, k)

	targets := ds.Targets()
	r, c := targets.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 1, c)
	assert.Equal(t, 1.0, targets.At(1, 0))
}

func TestLoadDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "part-000001.csv"), "3,4,1\n")
	writeFile(t, filepath.Join(root, "part-000000.csv"), "1,2,0\n")
	writeFile(t, filepath.Join(root, "nested", "part-000002.csv"), "5,6,2\n")
	writeFile(t, filepath.Join(root, "README.md"), "not data")

	parts, err := Discover(root)
	require.NoError(t, err)
	assert.Len(t, parts, 3)

	ds, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	// Parts are read in full path order, so nested/ comes before part-*.
	assert.Equal(t, []float64{2, 0, 1}, ds.Y.RawVector().Data)
}

func TestLoadErrors(t *testing.T) {
	type test struct {
		files map[string]string
		err   error
	}

	tests := map[string]test{
		"bad number": {
			files: map[string]string{"a.csv": "1,2,0\n1,x,1\n"},
		},
		"ragged row": {
			files: map[string]string{"a.csv": "1,2,0\n1,1\n"},
		},
		"single column": {
			files: map[string]string{"a.csv": "1\n2\n"},
		},
		"empty": {
			files: map[string]string{"a.csv": ""},
			err:   ErrNoData,
		},
		"header only": {
			files: map[string]string{"a.csv": "a,b,label\n"},
			err:   ErrNoData,
		},
		"mismatched parts": {
			files: map[string]string{"a.csv": "1,2,0\n", "b.csv": "1,2,3,0\n"},
		},
		"non finite": {
			files: map[string]string{"a.csv": "1,2,0\n1,NaN,0\n"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			for file, content := range tt.files {
				writeFile(t, filepath.Join(root, file), content)
			}
			_, err := Load(root)
			require.Error(t, err)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "got %v", err)
			}
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestLabels(t *testing.T) {
	ds := &Dataset{X: mat.NewDense(3, 1, nil), Y: mat.NewVecDense(3, []float64{0, 1.5, 2})}
	_, _, err := ds.Labels()
	assert.True(t, errors.Is(err, ErrLabel))

	ds.Y.SetVec(1, -1)
	_, _, err = ds.Labels()
	assert.True(t, errors.Is(err, ErrLabel))

	ds.Y.SetVec(1, 1e9)
	_, _, err = ds.Labels()
	assert.True(t, errors.Is(err, ErrLabel))

	ds.Y.SetVec(1, MaxClasses-1)
	labels, k, err := ds.Labels()
	require.NoError(t, err)
	assert.Equal(t, []int{0, MaxClasses - 1, 2}, labels)
	assert.Equal(t, MaxClasses, k)
}

func TestOneHot(t *testing.T) {
	Y, err := OneHot([]int{2, 0, 1, 2}, 3)
	require.NoError(t, err)
	assert.True(t, mat.Equal(mat.NewDense(4, 3, []float64{
		0, 0, 1,
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}), Y))
	for i := 0; i < 4; i++ {
		assert.Equal(t, 1.0, mat.Sum(Y.RowView(i)))
	}

	_, err = OneHot([]int{0, 3}, 3)
	assert.True(t, errors.Is(err, ErrLabel))
	_, err = OneHot(nil, 3)
	assert.True(t, errors.Is(err, ErrNoData))
}
