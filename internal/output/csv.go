package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/atikulmunna/loglens/internal/report"
)

// Section labels and column headers of the CSV report. Downstream consumers match on them.
const (
	LabelRequests     = "Requests per IP:"
	LabelMostAccessed = "Most Accessed Endpoint:"
	LabelSuspicious   = "Suspicious Activity:"
)

var (
	headerRequests     = []string{"IP Address", "Request Count"}
	headerMostAccessed = []string{"Endpoint", "Access Count"}
	headerSuspicious   = []string{"IP Address", "Failed Login Count"}
)

// OutputWriteError reports a report destination that could not be written.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("write report %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error { return e.Err }

// WriteCSV writes the sectioned CSV report to w.
func WriteCSV(w io.Writer, rep report.Report) error {
	cw := csv.NewWriter(w)

	rows := [][]string{{LabelRequests}, headerRequests}
	for _, e := range rep.Requests {
		rows = append(rows, []string{e.Key, strconv.Itoa(e.Count)})
	}

	rows = append(rows, []string{}, []string{LabelMostAccessed}, headerMostAccessed)
	if rep.HasMostAccessed {
		rows = append(rows, []string{rep.MostAccessed.Key, strconv.Itoa(rep.MostAccessed.Count)})
	}

	rows = append(rows, []string{}, []string{LabelSuspicious}, headerSuspicious)
	for _, e := range rep.Suspicious {
		rows = append(rows, []string{e.Key, strconv.Itoa(e.Count)})
	}

	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// SaveCSV writes the CSV report to path, replacing any existing file.
func SaveCSV(path string, rep report.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &OutputWriteError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &OutputWriteError{Path: path, Err: cerr}
		}
	}()

	if err := WriteCSV(f, rep); err != nil {
		return &OutputWriteError{Path: path, Err: err}
	}
	return nil
}
