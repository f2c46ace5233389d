// Package emaillog loads the classified email log from a delimited file.
package emaillog

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
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"github.com/verte-zerg/maildash/internal/model"
)

// DefaultPath is the log file name used when nothing else is configured.
const DefaultPath = "email_log.csv"

const ctxCheckEvery = 1024

// Reader loads the email log from disk. A Reader holds no snapshot: every
// Load reads the file again.
type Reader struct {
	path      string
	delimiter rune
	enc       encoding.Encoding
	checkUTF8 bool
	policy    model.MalformedPolicy
	logger    *zap.Logger
}

// NewReader validates cfg and returns a Reader for it.
func NewReader(cfg model.LogConfig, logger *zap.Logger) (*Reader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	delim := cfg.Delimiter
	if delim == 0 {
		delim = ','
	}
	if delim == '"' || delim == '\r' || delim == '\n' || delim == utf8.RuneError {
		return nil, fmt.Errorf("invalid delimiter %q", delim)
	}
	enc, checkUTF8, err := resolveEncoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	policy := cfg.OnMalformed
	switch policy {
	case "":
		policy = model.MalformedFail
	case model.MalformedFail, model.MalformedSkip:
	default:
		return nil, fmt.Errorf("invalid malformed-row policy %q (use fail or skip)", policy)
	}
	return &Reader{
		path:      path,
		delimiter: delim,
		enc:       enc,
		checkUTF8: checkUTF8,
		policy:    policy,
		logger:    logger.With(zap.String("log_path", path)),
	}, nil
}

// Path returns the file the reader loads.
func (r *Reader) Path() string {
	return r.path
}

// Load reads the whole log. A missing file yields the empty log.
func (r *Reader) Load(ctx context.Context) (model.EmailLog, error) {
	if err := ctx.Err(); err != nil {
		return model.EmailLog{}, err
	}
	file, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.logger.Debug("log file not found, using empty log")
			return model.EmptyLog(), nil
		}
		return model.EmailLog{}, fmt.Errorf("failed to open log: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only log.
			_ = cerr
		}
	}()
	return r.parse(ctx, file)
}

type columnIndex struct {
	subject int
	sender  int
	folder  int
	score   int
	width   int
}

func (r *Reader) parse(ctx context.Context, src io.Reader) (model.EmailLog, error) {
	cr := csv.NewReader(decodingReader(src, r.enc))
	cr.Comma = r.delimiter
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return model.EmptyLog(), nil
		}
		return model.EmailLog{}, r.wrapCSVError(err)
	}
	idx, err := r.indexHeader(header)
	if err != nil {
		return model.EmailLog{}, err
	}

	out := model.EmptyLog()
	for n := 0; ; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return model.EmailLog{}, err
			}
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.EmailLog{}, r.wrapCSVError(err)
		}
		line, _ := cr.FieldPos(0)
		rec, perr := r.record(row, idx, line)
		if perr != nil {
			if r.policy == model.MalformedSkip {
				out.Skipped++
				r.logger.Warn("skipping malformed row", zap.Int("line", line), zap.Error(perr))
				continue
			}
			return model.EmailLog{}, perr
		}
		out.Records = append(out.Records, rec)
	}
	return out, nil
}

func (r *Reader) indexHeader(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}
	idx := columnIndex{}
	targets := []struct {
		name string
		dst  *int
	}{
		{model.ColumnSubject, &idx.subject},
		{model.ColumnSender, &idx.sender},
		{model.ColumnFolder, &idx.folder},
		{model.ColumnScore, &idx.score},
	}
	for _, t := range targets {
		pos, ok := positions[t.name]
		if !ok {
			return columnIndex{}, &ParseError{Path: r.path, Line: 1, Column: t.name, Err: ErrMissingColumn}
		}
		*t.dst = pos
		if pos+1 > idx.width {
			idx.width = pos + 1
		}
	}
	return idx, nil
}

func (r *Reader) record(row []string, idx columnIndex, line int) (model.EmailRecord, error) {
	if len(row) < idx.width {
		return model.EmailRecord{}, &ParseError{
			Path: r.path,
			Line: line,
			Err:  fmt.Errorf("%w: expected at least %d fields, got %d", ErrMalformed, idx.width, len(row)),
		}
	}
	if r.checkUTF8 {
		fields := []struct {
			name string
			col  int
		}{
			{model.ColumnSubject, idx.subject},
			{model.ColumnSender, idx.sender},
			{model.ColumnFolder, idx.folder},
			{model.ColumnScore, idx.score},
		}
		for _, f := range fields {
			if !utf8.ValidString(row[f.col]) {
				return model.EmailRecord{}, &ParseError{
					Path:   r.path,
					Line:   line,
					Column: f.name,
					Err:    fmt.Errorf("%w: invalid UTF-8", ErrMalformed),
				}
			}
		}
	}
	score, err := parseScore(row[idx.score])
	if err != nil {
		return model.EmailRecord{}, &ParseError{Path: r.path, Line: line, Column: model.ColumnScore, Err: err}
	}
	return model.EmailRecord{
		Subject: row[idx.subject],
		Sender:  row[idx.sender],
		Folder:  row[idx.folder],
		Score:   score,
	}, nil
}

func parseScore(raw string) (float64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, fmt.Errorf("%w: score is empty", ErrMalformed)
	}
	score, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: score %q is not a number", ErrMalformed, raw)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("%w: score %q is not finite", ErrMalformed, raw)
	}
	return score, nil
}

func (r *Reader) wrapCSVError(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Path: r.path, Line: csvErr.Line, Err: fmt.Errorf("%w: %v", ErrMalformed, csvErr.Err)}
	}
	return fmt.Errorf("failed to read log: %w", err)
}
