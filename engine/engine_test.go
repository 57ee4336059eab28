package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tsawler/asyncpdf/bytestream"
	"github.com/tsawler/asyncpdf/model"
	"github.com/tsawler/asyncpdf/text"
	"github.com/tsawler/asyncpdf/worker"
)

// fakeRuns is a runExtractor double with optional rendezvous channels so
// a test can set the cancellation flag while the "parse" is in flight.
type fakeRuns struct {
	pages []model.PageRuns
	err   error

	calls   int
	started chan struct{} // closed on entry when non-nil
	release chan struct{} // blocks the return when non-nil
}

func (f *fakeRuns) extractRuns(s bytestream.Stream) ([]model.PageRuns, error) {
	f.calls++
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.pages, f.err
}

type fakeDocs struct {
	info  *documentInfo
	err   error
	calls int
}

func (f *fakeDocs) parseDocument(s bytestream.Stream) (*documentInfo, error) {
	f.calls++
	return f.info, f.err
}

func newTestEngine(runs runExtractor, docs docParser) *Engine {
	e := New()
	if runs != nil {
		e.runs = runs
	}
	if docs != nil {
		e.docs = docs
	}
	return e
}

func run(s string, x, y, w, h float64) model.TextRun {
	return model.TextRun{Text: s, Box: model.NewBBox(x, y, w, h), Matrix: model.Identity()}
}

// leftAlignedPage builds a page whose lines share a left edge and have
// ragged right edges, which the classifier reads as LTR.
func leftAlignedPage(lines int) model.PageRuns {
	var page model.PageRuns
	for i := 0; i < lines; i++ {
		width := 100.0 + 40.0*float64(i%3)
		page = append(page, run("alpha beta", 20, 700-20*float64(i), width, 12))
	}
	return page
}

func TestExtractTextAutoDirection(t *testing.T) {
	fake := &fakeRuns{pages: []model.PageRuns{leftAlignedPage(5)}}
	e := newTestEngine(fake, nil)

	result, err := e.ExtractText(bytestream.NewBuffer([]byte("x")), DirectionAuto, nil)
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if result.Cancelled {
		t.Error("result unexpectedly cancelled")
	}
	if result.Direction != text.LTR {
		t.Errorf("Direction = %v, want LTR", result.Direction)
	}
	if result.PageCount != 1 {
		t.Errorf("PageCount = %d, want 1", result.PageCount)
	}
	if result.Text == "" {
		t.Error("Text is empty")
	}
}

func TestExtractTextForcedDirection(t *testing.T) {
	// A single run with Latin text: the classifier would say LTR, so a
	// RTL verdict proves the forced mode bypassed it.
	fake := &fakeRuns{pages: []model.PageRuns{{run("abc", 20, 700, 30, 12)}}}
	e := newTestEngine(fake, nil)

	result, err := e.ExtractText(bytestream.NewBuffer([]byte("x")), DirectionRTL, nil)
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if result.Direction != text.RTL {
		t.Errorf("Direction = %v, want RTL", result.Direction)
	}
}

func TestExtractTextCancelledBeforeParse(t *testing.T) {
	fake := &fakeRuns{pages: []model.PageRuns{leftAlignedPage(3)}}
	e := newTestEngine(fake, nil)

	flag := &worker.Flag{}
	flag.Set()

	result, err := e.ExtractText(bytestream.NewBuffer([]byte("x")), DirectionAuto, flag)
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if !result.Cancelled {
		t.Error("result.Cancelled = false, want true")
	}
	if result.Text != "" {
		t.Errorf("Text = %q, want empty", result.Text)
	}
	if fake.calls != 0 {
		t.Errorf("extractRuns called %d times after pre-cancellation", fake.calls)
	}
}

func TestExtractTextCancelledDuringParse(t *testing.T) {
	fake := &fakeRuns{
		pages:   []model.PageRuns{leftAlignedPage(3)},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	e := newTestEngine(fake, nil)
	flag := &worker.Flag{}

	type outcome struct {
		result TextResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := e.ExtractText(bytestream.NewBuffer([]byte("x")), DirectionAuto, flag)
		done <- outcome{r, err}
	}()

	<-fake.started
	flag.Set()
	close(fake.release)

	got := <-done
	if got.err != nil {
		t.Fatalf("ExtractText() error = %v", got.err)
	}
	if !got.result.Cancelled {
		t.Error("result.Cancelled = false, want true")
	}
}

func TestExtractTextCancellationWinsOverParseError(t *testing.T) {
	// A cancelled operation reports cancellation even when the library
	// call it interrupted also failed.
	fake := &fakeRuns{err: errors.New("truncated xref")}
	e := newTestEngine(fake, nil)

	flag := &worker.Flag{}
	flag.Set()

	result, err := e.ExtractText(bytestream.NewBuffer([]byte("x")), DirectionAuto, flag)
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if !result.Cancelled {
		t.Error("result.Cancelled = false, want true")
	}
}

func TestExtractTextParseError(t *testing.T) {
	fake := &fakeRuns{err: errors.New("truncated xref")}
	e := newTestEngine(fake, nil)

	_, err := e.ExtractText(bytestream.NewBuffer([]byte("x")), DirectionAuto, nil)
	if !errors.Is(err, ErrParse) {
		t.Errorf("error = %v, want ErrParse", err)
	}
}

func TestExtractTextFileMissing(t *testing.T) {
	e := newTestEngine(&fakeRuns{}, nil)

	_, err := e.ExtractTextFile("testdata/does-not-exist.pdf", DirectionAuto, nil)
	if !errors.Is(err, ErrOpen) {
		t.Errorf("error = %v, want ErrOpen", err)
	}
}

func TestExtractMetadataFields(t *testing.T) {
	title := "Quarterly Report"
	producer := "pdfgen 2.1"
	fake := &fakeDocs{info: &documentInfo{
		pageCount: 7,
		version:   "1.6",
		title:     &title,
		producer:  &producer,
	}}
	e := newTestEngine(nil, fake)

	result, err := e.ExtractMetadata(bytestream.NewBuffer([]byte("x")), nil)
	if err != nil {
		t.Fatalf("ExtractMetadata() error = %v", err)
	}
	if result.PageCount != 7 {
		t.Errorf("PageCount = %d, want 7", result.PageCount)
	}
	if result.Version != "1.6" {
		t.Errorf("Version = %q, want 1.6", result.Version)
	}
	if result.Title == nil || *result.Title != title {
		t.Errorf("Title = %v, want %q", result.Title, title)
	}
	if result.Producer == nil || *result.Producer != producer {
		t.Errorf("Producer = %v, want %q", result.Producer, producer)
	}
	if result.Author != nil {
		t.Errorf("Author = %q, want nil for an absent entry", *result.Author)
	}
	if result.Cancelled {
		t.Error("result unexpectedly cancelled")
	}
}

func TestExtractMetadataCancelled(t *testing.T) {
	fake := &fakeDocs{info: &documentInfo{pageCount: 1}}
	e := newTestEngine(nil, fake)

	flag := &worker.Flag{}
	flag.Set()

	result, err := e.ExtractMetadata(bytestream.NewBuffer([]byte("x")), flag)
	if err != nil {
		t.Fatalf("ExtractMetadata() error = %v", err)
	}
	if !result.Cancelled {
		t.Error("result.Cancelled = false, want true")
	}
	if fake.calls != 0 {
		t.Errorf("parseDocument called %d times after pre-cancellation", fake.calls)
	}
}

func TestExtractMetadataParseError(t *testing.T) {
	fake := &fakeDocs{err: errors.New("bad trailer")}
	e := newTestEngine(nil, fake)

	_, err := e.ExtractMetadata(bytestream.NewBuffer([]byte("x")), nil)
	if !errors.Is(err, ErrParse) {
		t.Errorf("error = %v, want ErrParse", err)
	}
}

func TestExtractMetadataFileMissing(t *testing.T) {
	e := newTestEngine(nil, &fakeDocs{})

	_, err := e.ExtractMetadataFile("testdata/does-not-exist.pdf", nil)
	if !errors.Is(err, ErrOpen) {
		t.Errorf("error = %v, want ErrOpen", err)
	}
}

func TestDirectionModeResolved(t *testing.T) {
	tests := []struct {
		mode DirectionMode
		dir  text.Direction
		auto bool
	}{
		{DirectionAuto, text.LTR, true},
		{DirectionLTR, text.LTR, false},
		{DirectionRTL, text.RTL, false},
	}
	for _, tt := range tests {
		dir, auto := tt.mode.resolved()
		if dir != tt.dir || auto != tt.auto {
			t.Errorf("%v.resolved() = (%v, %v), want (%v, %v)", tt.mode, dir, auto, tt.dir, tt.auto)
		}
	}
}

func TestDirectionModeString(t *testing.T) {
	tests := []struct {
		mode DirectionMode
		want string
	}{
		{DirectionAuto, "auto"},
		{DirectionLTR, "ltr"},
		{DirectionRTL, "rtl"},
		{DirectionMode(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func ExampleEngine_ExtractText() {
	e := New()
	result, err := e.ExtractTextBuffer([]byte("not a pdf"), DirectionAuto, nil)
	if err != nil {
		fmt.Println("parse failed:", errors.Is(err, ErrParse))
		return
	}
	fmt.Println(result.PageCount)
	// Output: parse failed: true
}
