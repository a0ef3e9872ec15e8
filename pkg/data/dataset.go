package data

import (
	"encoding/csv"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Sample is one training example: input features and a target.
type Sample struct {
	Inputs []float64
	Target float64
}

// LoadSamples reads a CSV file where every column but the last is an input
// and the last column is the target.
func LoadSamples(path string) ([]Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening dataset")
	}
	defer file.Close()

	samples, err := ReadSamples(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return samples, nil
}

// ReadSamples parses CSV records from r. Blank lines and lines starting with
// '#' are skipped. All rows must have the same number of columns.
func ReadSamples(r io.Reader) ([]Sample, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parsing csv")
	}

	samples := make([]Sample, 0, len(records))
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, errors.Errorf("row %d: need at least one input and a target, got %d columns", i+1, len(rec))
		}

		vals := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d column %d", i+1, j+1)
			}
			vals[j] = v
		}

		samples = append(samples, Sample{
			Inputs: vals[:len(vals)-1],
			Target: vals[len(vals)-1],
		})
	}
	return samples, nil
}

// DownloadIfNotExists downloads a URL to path if path doesn't exist
func DownloadIfNotExists(url, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // File already exists
	}

	resp, err := http.Get(url)
	if err != nil {
		return errors.Wrapf(err, "downloading %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("downloading %s: unexpected status %s", url, resp.Status)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating dataset file")
	}
	defer file.Close()

	_, err = io.Copy(file, resp.Body)
	return errors.Wrap(err, "writing dataset file")
}

// Shuffle randomly shuffles samples in place with a seed
func Shuffle(samples []Sample, seed uint64) {
	rng := rand.New(rand.NewPCG(seed, 0))
	rng.Shuffle(len(samples), func(i, j int) {
		samples[i], samples[j] = samples[j], samples[i]
	})
}
