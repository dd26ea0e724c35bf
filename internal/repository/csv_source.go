package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"SentiCast/internal/domain/models"
	domrepo "SentiCast/internal/domain/repository"
	applogger "SentiCast/pkg/logger"
	"SentiCast/pkg/util"
)

// Required CSV columns. Lookup is case-insensitive; order and extra columns
// do not matter.
const (
	ColRunID     = "run_id"
	ColDate      = "date"
	ColActual    = "actual"
	ColPredicted = "predicted"
)

var requiredColumns = []string{ColRunID, ColDate, ColActual, ColPredicted}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// CSVSource loads observations from a CSV file with a header row.
type CSVSource struct {
	path string
	l    *applogger.Logger
}

func NewCSVSource(path string, l *applogger.Logger) *CSVSource {
	return &CSVSource{path: path, l: l}
}

func (s *CSVSource) Name() string { return "csv:" + s.path }

// Path returns the file the source reads.
func (s *CSVSource) Path() string { return s.path }

// Fingerprint is derived from file size and modification time.
func (s *CSVSource) Fingerprint(ctx context.Context) (string, error) {
	fi, err := os.Stat(s.path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", s.path, err)
	}
	return fmt.Sprintf("%d-%d", fi.Size(), fi.ModTime().UnixNano()), nil
}

func (s *CSVSource) Load(ctx context.Context) ([]models.RawObservation, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	rows, skipped, err := ParseObservations(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if skipped > 0 {
		s.l.Warn("csv rows skipped",
			applogger.String("path", s.path),
			applogger.Int("skipped", skipped),
		)
	}
	s.l.Debug("csv loaded",
		applogger.String("path", s.path),
		applogger.Int("rows", len(rows)),
	)
	return rows, nil
}

// ParseObservations reads a header row followed by data rows. Rows whose
// values cannot be parsed are skipped and counted; a header without the
// required columns fails the whole parse.
func ParseObservations(ctx context.Context, r io.Reader) ([]models.RawObservation, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, 0, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, 0, err
	}

	var (
		out     []models.RawObservation
		skipped int
		line    int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				skipped++
				continue
			}
			return nil, 0, fmt.Errorf("read row: %w", err)
		}
		if blank(rec) {
			continue
		}

		obs, ok := parseRecord(rec, idx)
		if !ok {
			skipped++
			continue
		}
		out = append(out, obs)
	}
	return out, skipped, nil
}

type columns struct {
	runID, date, actual, predicted int
}

func columnIndex(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	for _, name := range requiredColumns {
		if _, ok := pos[name]; !ok {
			return columns{}, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return columns{
		runID:     pos[ColRunID],
		date:      pos[ColDate],
		actual:    pos[ColActual],
		predicted: pos[ColPredicted],
	}, nil
}

func parseRecord(rec []string, c columns) (models.RawObservation, bool) {
	field := func(i int) (string, bool) {
		if i >= len(rec) {
			return "", false
		}
		return strings.TrimSpace(rec[i]), true
	}

	runID, ok1 := field(c.runID)
	date, ok2 := field(c.date)
	actualS, ok3 := field(c.actual)
	predS, ok4 := field(c.predicted)
	if !ok1 || !ok2 || !ok3 || !ok4 || runID == "" || date == "" {
		return models.RawObservation{}, false
	}

	actual, ok1 := parseValue(actualS)
	pred, ok2 := parseValue(predS)
	if !ok1 || !ok2 || (actualS == "" && predS == "") {
		return models.RawObservation{}, false
	}

	return models.RawObservation{
		RunID:     runID,
		Date:      util.NormalizeDate(date),
		Actual:    actual,
		Predicted: pred,
	}, true
}

// parseValue reads a numeric cell. An empty cell is NaN; text that is not a
// number fails.
func parseValue(s string) (float64, bool) {
	if s == "" {
		return math.NaN(), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

var _ domrepo.ObservationSource = (*CSVSource)(nil)
