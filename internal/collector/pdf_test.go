package collector

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/docoutline/internal/pdftest"
)

func openBytes(t *testing.T, data []byte, opts Options) *Document {
	t.Helper()
	d, err := OpenReader(bytes.NewReader(data), int64(len(data)), "test.pdf", opts)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return d
}

func TestDocument_Page(t *testing.T) {
	stream := pdftest.Text("F2", 24, 156, 700, "Annual Report") +
		pdftest.Text("F1", 10, 72, 600, "Revenue grew in every") +
		pdftest.Text("F1", 10, 72, 588, "region this year.")
	d := openBytes(t, pdftest.Build(stream), DefaultOptions())

	if d.NumPages() != 1 {
		t.Fatalf("expected 1 page, got %d", d.NumPages())
	}
	p, err := d.Page(1)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if p.Width != 612 || p.Height != 792 {
		t.Errorf("expected inherited 612x792, got %vx%v", p.Width, p.Height)
	}
	if len(p.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %+v", len(p.Blocks), p.Blocks)
	}

	title := p.Blocks[0]
	if title.Text != "Annual Report" || !title.Bold || title.FontSize != 24 {
		t.Errorf("unexpected title block %+v", title)
	}
	if title.BBox.Y0 < 60 || title.BBox.Y0 > 80 {
		t.Errorf("expected title near the top, got y0=%v", title.BBox.Y0)
	}

	body := p.Blocks[1]
	if body.Text != "Revenue grew in every region this year." || body.Bold || body.Lines != 2 {
		t.Errorf("unexpected body block %+v", body)
	}
}

func TestDocument_MaxPages(t *testing.T) {
	page := pdftest.Text("F1", 12, 72, 700, "Hello")
	opts := DefaultOptions()
	opts.MaxPages = 2
	d := openBytes(t, pdftest.Build(page, page, page), opts)
	if d.NumPages() != 2 {
		t.Errorf("expected 2 pages, got %d", d.NumPages())
	}
	if _, err := d.Page(3); err == nil {
		t.Error("expected out of range error")
	}
}

func TestDocument_EmptyPage(t *testing.T) {
	d := openBytes(t, pdftest.Build(""), DefaultOptions())
	p, err := d.Page(1)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(p.Blocks) != 0 {
		t.Errorf("expected no blocks, got %+v", p.Blocks)
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, pdftest.Build(pdftest.Text("F1", 12, 72, 700, "Hello")), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()
	if d.NumPages() != 1 {
		t.Errorf("expected 1 page, got %d", d.NumPages())
	}
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.pdf"), DefaultOptions())
	var re *DocumentReadError
	if !errors.As(err, &re) || re.Reason != ReasonOpen {
		t.Errorf("expected open error, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped ErrNotExist, got %v", err)
	}

	junk := []byte("this is not a pdf")
	_, err = OpenReader(bytes.NewReader(junk), int64(len(junk)), "junk.pdf", DefaultOptions())
	if !errors.As(err, &re) || re.Reason != ReasonDecode {
		t.Errorf("expected decode error, got %v", err)
	}

	opts := DefaultOptions()
	opts.Preflight = true
	_, err = OpenReader(bytes.NewReader(junk), int64(len(junk)), "junk.pdf", opts)
	if !errors.As(err, &re) || re.Reason != ReasonPreflight {
		t.Errorf("expected preflight error, got %v", err)
	}
	if !IsReadError(err) {
		t.Error("expected IsReadError")
	}
}

func TestDocumentReadError_Message(t *testing.T) {
	err := &DocumentReadError{Path: "a.pdf", Reason: ReasonDecode, Page: 3, Err: errors.New("bad stream")}
	if got := err.Error(); got != "read a.pdf: decode page 3: bad stream" {
		t.Errorf("unexpected message %q", got)
	}
	err.Page = 0
	if got := err.Error(); got != "read a.pdf: decode: bad stream" {
		t.Errorf("unexpected message %q", got)
	}
}
