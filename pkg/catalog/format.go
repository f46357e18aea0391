package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Line file format, version 1:
//
//	# photoplate lines v1
//	Plate Resolution: 94.488 px/mm
//	Plate Offset: 0.0000 mm
//	 Position | Intensity | Comment
//	  10.0000     123.456  blended pair
//	  20.0000      45.000
//
// Positions carry 4 decimals (mm), intensities 3. The comment is the
// remainder of the record line after the two numeric columns, trimmed of
// surrounding whitespace; a record without a comment omits the field.
// Records appear in catalog insertion order. Any deviation from this
// layout is rejected with a ParseError naming the offending line.
const (
	versionLine = "# photoplate lines v1"
	columnsLine = " Position | Intensity | Comment"
)

// ParseError describes a malformed line file.
type ParseError struct {
	// Line is the 1-based line number of the offending input line
	Line int

	// Msg describes what was wrong with it
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Write serializes the catalog to w in the version 1 line file format.
func (c *Catalog) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, versionLine)
	fmt.Fprintf(bw, "Plate Resolution: %.3f px/mm\n", c.Resolution)
	fmt.Fprintf(bw, "Plate Offset: %.4f mm\n", c.Offset)
	fmt.Fprintln(bw, columnsLine)

	for _, rec := range c.records {
		fmt.Fprintf(bw, "%9.4f %11.3f", rec.Position, rec.Intensity)
		if rec.Comment != "" {
			fmt.Fprintf(bw, "  %s", rec.Comment)
		}
		fmt.Fprintln(bw)
	}

	return bw.Flush()
}

// WriteFile saves the catalog to the given path.
func (c *Catalog) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating line file: %w", err)
	}
	defer f.Close()

	if err := c.Write(f); err != nil {
		return fmt.Errorf("writing line file %s: %w", path, err)
	}
	return nil
}

// Read parses a line file from r and returns a fully populated catalog.
// On any parse failure it returns a *ParseError and no catalog, so a
// caller's existing catalog is never replaced by a partial load.
func Read(r io.Reader) (*Catalog, error) {
	scanner := bufio.NewScanner(r)
	lineNo := 0

	next := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		lineNo++
		return scanner.Text(), true
	}

	line, ok := next()
	if !ok || line != versionLine {
		return nil, &ParseError{Line: 1, Msg: fmt.Sprintf("expected header %q", versionLine)}
	}

	c := &Catalog{}

	line, ok = next()
	if !ok {
		return nil, &ParseError{Line: lineNo + 1, Msg: "missing resolution header"}
	}
	res, err := parseHeaderValue(line, "Plate Resolution:", "px/mm")
	if err != nil {
		return nil, &ParseError{Line: lineNo, Msg: err.Error()}
	}
	c.Resolution = res

	line, ok = next()
	if !ok {
		return nil, &ParseError{Line: lineNo + 1, Msg: "missing offset header"}
	}
	off, err := parseHeaderValue(line, "Plate Offset:", "mm")
	if err != nil {
		return nil, &ParseError{Line: lineNo, Msg: err.Error()}
	}
	c.Offset = off

	line, ok = next()
	if !ok || line != columnsLine {
		return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("expected column header %q", columnsLine)}
	}

	for {
		line, ok = next()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			// A blank trailing line is tolerated; blank lines between
			// records are not part of the format.
			continue
		}

		rec, err := parseRecord(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: err.Error()}
		}
		c.records = append(c.records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading line file: %w", err)
	}

	return c, nil
}

// ReadFile loads a catalog from the given path.
func ReadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening line file: %w", err)
	}
	defer f.Close()

	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parsing line file %s: %w", path, err)
	}
	return c, nil
}

// parseHeaderValue extracts the numeric value from a header line of the
// form "<prefix> <value> <unit>".
func parseHeaderValue(line, prefix, unit string) (float64, error) {
	if !strings.HasPrefix(line, prefix) {
		return 0, fmt.Errorf("expected header %q, got %q", prefix, line)
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, prefix))
	if !strings.HasSuffix(rest, unit) {
		return 0, fmt.Errorf("header %q missing unit %q", prefix, unit)
	}
	numStr := strings.TrimSpace(strings.TrimSuffix(rest, unit))
	v, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, fmt.Errorf("header %q: non-numeric value %q", prefix, numStr)
	}
	return v, nil
}

// parseRecord parses one record row: two numeric columns followed by an
// optional free-text comment.
func parseRecord(line string) (Record, error) {
	posStr, rest := cutField(line)
	intStr, rest := cutField(rest)

	if posStr == "" || intStr == "" {
		return Record{}, fmt.Errorf("expected position and intensity columns, got %q", line)
	}

	pos, err := strconv.ParseFloat(posStr, 64)
	if err != nil {
		return Record{}, fmt.Errorf("non-numeric position %q", posStr)
	}

	intensity, err := strconv.ParseFloat(intStr, 64)
	if err != nil {
		return Record{}, fmt.Errorf("non-numeric intensity %q", intStr)
	}

	return Record{Position: pos, Intensity: intensity, Comment: strings.TrimSpace(rest)}, nil
}

// cutField splits off the first whitespace-delimited field of s.
func cutField(s string) (field, rest string) {
	s = strings.TrimLeft(s, " \t")
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}
