package termgrid

import "testing"

func rowText(g *Grid, y, width int) string {
	var last LastCell
	return StringCells(g, 0, y, width, &last, StringCellsOptions{Trim: true})
}

// S3 - reflow narrow->wide.
func TestScenarioReflowNarrowToWide(t *testing.T) {
	g := Create(4, 2, 0)
	defer Destroy(g)

	g.SetCells(0, 0, asciiCell(0), []byte("ab"))
	if l := g.PeekLine(0); l != nil {
		l.setWrapped(true)
	}
	g.SetCells(0, 1, asciiCell(0), []byte("cd"))

	g.Reflow(8, nil)

	if got := rowText(g, 0, 8); got != "abcd" {
		t.Fatalf("reflowed row = %q, want %q", got, "abcd")
	}
	if l := g.PeekLine(0); l == nil || l.isWrapped() {
		t.Fatal("expected the joined line to not be wrapped")
	}
}

// S4 - reflow wide->narrow.
func TestScenarioReflowWideToNarrow(t *testing.T) {
	g := Create(6, 1, 0)
	defer Destroy(g)

	g.SetCells(0, 0, asciiCell(0), []byte("abcdef"))
	cursor := 0 // cursor was at column 5, row 0 before reflow

	g.Reflow(3, &cursor)

	if got := rowText(g, 0, 3); got != "abc" {
		t.Fatalf("row 0 = %q, want %q", got, "abc")
	}
	if l := g.PeekLine(0); l == nil || !l.isWrapped() {
		t.Fatal("expected row 0 to be wrapped")
	}
	if got := rowText(g, 1, 3); got != "def" {
		t.Fatalf("row 1 = %q, want %q", got, "def")
	}
	if l := g.PeekLine(1); l == nil || l.isWrapped() {
		t.Fatal("expected row 1 to not be wrapped")
	}
	if cursor != 1 {
		t.Fatalf("cursor row = %d, want 1", cursor)
	}
}

func TestReflowWidthIdentity(t *testing.T) {
	g := Create(5, 2, 0)
	defer Destroy(g)

	g.SetCells(0, 0, asciiCell(0), []byte("hello"))
	before := rowText(g, 0, 5)

	cursor := 1
	g.Reflow(5, &cursor)

	if rowText(g, 0, 5) != before {
		t.Fatal("reflowing to the same width changed row content")
	}
	if cursor != 1 {
		t.Fatal("reflowing to the same width changed the cursor")
	}
}

func TestSplitExactWidthResidual(t *testing.T) {
	g := Create(4, 1, 0)
	defer Destroy(g)

	// "abcd" at width 4 fits exactly; reflowing to width 2 must split
	// into two full rows with no dangling empty third row, per the
	// Open Question decision: a row never gets "un-wrapped" just
	// because it lands flush with the new width.
	g.SetCells(0, 0, asciiCell(0), []byte("abcd"))
	g.Reflow(2, nil)

	if got := rowText(g, 0, 2); got != "ab" {
		t.Fatalf("row 0 = %q, want %q", got, "ab")
	}
	if got := rowText(g, 1, 2); got != "cd" {
		t.Fatalf("row 1 = %q, want %q", got, "cd")
	}
	if l := g.PeekLine(0); l == nil || !l.isWrapped() {
		t.Fatal("expected row 0 wrapped")
	}
}

func TestReflowParagraphPreservation(t *testing.T) {
	g := Create(4, 1, 0)
	defer Destroy(g)

	g.SetCells(0, 0, asciiCell(0), []byte("abcd"))

	g.Reflow(2, nil)
	g.Reflow(4, nil)

	if got := rowText(g, 0, 4); got != "abcd" {
		t.Fatalf("round-tripped paragraph = %q, want %q", got, "abcd")
	}
}
