package emaillog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/verte-zerg/maildash/internal/model"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "email_log.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func newTestReader(t *testing.T, cfg model.LogConfig) *Reader {
	t.Helper()
	r, err := NewReader(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	return r
}

func TestLoadMissingFileReturnsEmptyLog(t *testing.T) {
	r := newTestReader(t, model.LogConfig{Path: filepath.Join(t.TempDir(), "absent.csv")})
	log, err := r.Load(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !reflect.DeepEqual(log.Columns, []string{"Subject", "Sender", "Folder", "Score"}) {
		t.Fatalf("unexpected columns: %v", log.Columns)
	}
	if log.Len() != 0 {
		t.Fatalf("expected 0 rows, got %d", log.Len())
	}
}

func TestLoadPreservesFileOrder(t *testing.T) {
	path := writeLog(t, "Subject,Sender,Folder,Score\nA,x,Inbox,5\nB,y,Spam,9\nC,z,Inbox,9\n")
	r := newTestReader(t, model.LogConfig{Path: path})
	log, err := r.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []model.EmailRecord{
		{Subject: "A", Sender: "x", Folder: "Inbox", Score: 5},
		{Subject: "B", Sender: "y", Folder: "Spam", Score: 9},
		{Subject: "C", Sender: "z", Folder: "Inbox", Score: 9},
	}
	if !reflect.DeepEqual(log.Records, want) {
		t.Fatalf("unexpected records: %+v", log.Records)
	}
}

func TestLoadHeaderOrderAndExtraColumns(t *testing.T) {
	path := writeLog(t, "\ufeffScore, Folder ,Timestamp,Sender,Subject\n0.75,Work,2024-01-01,boss@example.com,\"Q3, plan\"\n")
	r := newTestReader(t, model.LogConfig{Path: path})
	log, err := r.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if log.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", log.Len())
	}
	got := log.Records[0]
	if got.Subject != "Q3, plan" || got.Sender != "boss@example.com" || got.Folder != "Work" || got.Score != 0.75 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeLog(t, "")
	r := newTestReader(t, model.LogConfig{Path: path})
	log, err := r.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if log.Len() != 0 || len(log.Columns) != 4 {
		t.Fatalf("expected empty log with columns, got %+v", log)
	}
}

func TestLoadMissingColumn(t *testing.T) {
	path := writeLog(t, "Subject,Sender,Score\nA,x,5\n")
	r := newTestReader(t, model.LogConfig{Path: path})
	_, err := r.Load(context.Background())
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Column != "Folder" {
		t.Fatalf("expected parse error for Folder, got %v", err)
	}
}

func TestLoadMalformedScoreFails(t *testing.T) {
	cases := map[string]string{
		"text":  "Subject,Sender,Folder,Score\nA,x,Inbox,5\nB,y,Spam,high\n",
		"empty": "Subject,Sender,Folder,Score\nA,x,Inbox,\n",
		"nan":   "Subject,Sender,Folder,Score\nA,x,Inbox,NaN\n",
		"short": "Subject,Sender,Folder,Score\nA,x\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			r := newTestReader(t, model.LogConfig{Path: writeLog(t, content)})
			_, err := r.Load(context.Background())
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestLoadMalformedReportsLine(t *testing.T) {
	path := writeLog(t, "Subject,Sender,Folder,Score\nA,x,Inbox,5\nB,y,Spam,high\n")
	r := newTestReader(t, model.LogConfig{Path: path})
	_, err := r.Load(context.Background())
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Line != 3 || perr.Column != "Score" {
		t.Fatalf("unexpected location: line=%d column=%s", perr.Line, perr.Column)
	}
}

func TestLoadSkipPolicyDropsBadRows(t *testing.T) {
	path := writeLog(t, "Subject,Sender,Folder,Score\nA,x,Inbox,5\nB,y,Spam,high\nC,z,Inbox,7\n")
	r := newTestReader(t, model.LogConfig{Path: path, OnMalformed: model.MalformedSkip})
	log, err := r.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if log.Len() != 2 || log.Skipped != 1 {
		t.Fatalf("expected 2 rows and 1 skipped, got %d and %d", log.Len(), log.Skipped)
	}
}

func TestLoadInvalidUTF8Fails(t *testing.T) {
	path := writeLog(t, "Subject,Sender,Folder,Score\n\xff\xfe\xfd,x,Inbox,5\n")
	r := newTestReader(t, model.LogConfig{Path: path})
	_, err := r.Load(context.Background())
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestLoadLatin1Encoding(t *testing.T) {
	path := writeLog(t, "Subject,Sender,Folder,Score\nR\xe9sum\xe9,x,Inbox,5\n")
	r := newTestReader(t, model.LogConfig{Path: path, Encoding: "ISO-8859-1"})
	log, err := r.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if log.Records[0].Subject != "Résumé" {
		t.Fatalf("unexpected subject: %q", log.Records[0].Subject)
	}
}

func TestLoadSemicolonDelimiter(t *testing.T) {
	path := writeLog(t, "Subject;Sender;Folder;Score\nA;x;Inbox;1.5\n")
	r := newTestReader(t, model.LogConfig{Path: path, Delimiter: ';'})
	log, err := r.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if log.Records[0].Score != 1.5 {
		t.Fatalf("unexpected score: %v", log.Records[0].Score)
	}
}

func TestNewReaderRejectsBadConfig(t *testing.T) {
	if _, err := NewReader(model.LogConfig{Encoding: "no-such-charset"}, nil); err == nil {
		t.Fatalf("expected error for unknown encoding")
	}
	if _, err := NewReader(model.LogConfig{OnMalformed: "coerce"}, nil); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
	if _, err := NewReader(model.LogConfig{Delimiter: '"'}, nil); err == nil {
		t.Fatalf("expected error for quote delimiter")
	}
}

func TestLoadCanceledContext(t *testing.T) {
	r := newTestReader(t, model.LogConfig{Path: writeLog(t, "Subject,Sender,Folder,Score\n")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCachedReaderReloadsOnChange(t *testing.T) {
	path := writeLog(t, "Subject,Sender,Folder,Score\nA,x,Inbox,5\n")
	cached := NewCachedReader(newTestReader(t, model.LogConfig{Path: path}))
	ctx := context.Background()

	first, err := cached.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	first.Records[0].Subject = "mutated"
	second, err := cached.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if second.Records[0].Subject != "A" {
		t.Fatalf("cached snapshot was mutated through a returned copy")
	}

	if err := os.WriteFile(path, []byte("Subject,Sender,Folder,Score\nA,x,Inbox,5\nB,y,Spam,9\n"), 0o644); err != nil {
		t.Fatalf("rewrite log: %v", err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	third, err := cached.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if third.Len() != 2 {
		t.Fatalf("expected reload with 2 rows, got %d", third.Len())
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	gone, err := cached.Load(ctx)
	if err != nil {
		t.Fatalf("load after remove: %v", err)
	}
	if gone.Len() != 0 {
		t.Fatalf("expected empty log after removal, got %d rows", gone.Len())
	}
}
