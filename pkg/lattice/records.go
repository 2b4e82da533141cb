package lattice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrMalformedRecord is returned for an empty record set or a record with
// fewer than three coordinates or a non-numeric field.
var ErrMalformedRecord = errors.New("lattice: malformed record")

// Record is an attachment record: a position followed by optional values
// (loads, displacements) a downstream solver applies at the nearest node.
type Record struct {
	Pos    v3.Vec
	Values []float64
}

// ParseRecord parses one "x,y,z[,v...]" line.
func ParseRecord(line string) (Record, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 3 {
		return Record{}, fmt.Errorf("%w: %q has %d fields, need at least 3", ErrMalformedRecord, line, len(fields))
	}
	nums := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Record{}, fmt.Errorf("%w: field %d of %q: %v", ErrMalformedRecord, i+1, line, err)
		}
		nums[i] = v
	}
	return Record{Pos: v3.Vec{X: nums[0], Y: nums[1], Z: nums[2]}, Values: nums[3:]}, nil
}

// ParseRecords parses newline-separated records. Blank lines and lines
// starting with '#' are skipped, but input with no records at all is
// malformed.
func ParseRecords(text string) ([]Record, error) {
	var out []Record
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		r, err := ParseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no records", ErrMalformedRecord)
	}
	return out, nil
}

// Attachment is a record resolved to a 1-based node number. Node is zero
// when no node lies within the finder's tolerance.
type Attachment struct {
	Record
	Node int
}

// Attach resolves every record against f.
func Attach(f *NodeFinder, recs []Record) []Attachment {
	out := make([]Attachment, len(recs))
	for i, r := range recs {
		n, _ := f.Find(r.Pos)
		out[i] = Attachment{Record: r, Node: n}
	}
	return out
}
