// Reports.
//
// A Report is the serialisable view of a decoded Region: header fields,
// health, per-slot outcome and what recovery found. Documents themselves
// are not included; use Segment.Raw or ExtJSON for those.
package region

import (
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format selects the report encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatCBOR:
		return f, nil
	}
	return "", fmt.Errorf("unknown report format %q (want json, yaml or cbor)", s)
}

var cborMode cbor.EncMode

func init() {
	opts := cbor.CoreDetEncOptions()
	// Kind and State go out by name, as in the text formats.
	opts.TextMarshaler = cbor.TextMarshalerTextString
	var err error
	cborMode, err = opts.EncMode()
	if err != nil {
		panic("region: CBOR encoder initialization failed: " + err.Error())
	}
}

// Encode writes v to w in format f.
func Encode(w io.Writer, v any, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatCBOR:
		return cborMode.NewEncoder(w).Encode(v)
	}
	return fmt.Errorf("unknown report format %q", f)
}

// ReportOptions controls how much of a Region goes into its Report.
type ReportOptions struct {
	Empty bool // Include slots with blob index 0
	Spans bool // Include the byte space partition
}

// Report describes one region file.
type Report struct {
	Name        string            `json:"name" yaml:"name" cbor:"name"`
	Position    *Position         `json:"position,omitempty" yaml:"position,omitempty" cbor:"position,omitempty"`
	Size        int64             `json:"size" yaml:"size" cbor:"size"`
	Header      Header            `json:"header" yaml:"header" cbor:"header"`
	SegmentBase uint64            `json:"segment_base" yaml:"segment_base" cbor:"segment_base"`
	Health      Health            `json:"health" yaml:"health" cbor:"health"`
	Slots       []SlotReport      `json:"slots" yaml:"slots" cbor:"slots"`
	Recovered   []RecoveredReport `json:"recovered,omitempty" yaml:"recovered,omitempty" cbor:"recovered,omitempty"`
	Spans       []ByteSpace       `json:"spans,omitempty" yaml:"spans,omitempty" cbor:"spans,omitempty"`
}

// SlotReport is the outcome of one index table entry.
type SlotReport struct {
	Slot             int       `json:"slot" yaml:"slot" cbor:"slot"`
	Index            uint32    `json:"index" yaml:"index" cbor:"index"`
	State            State     `json:"state" yaml:"state" cbor:"state"`
	Chunk            *Position `json:"chunk,omitempty" yaml:"chunk,omitempty" cbor:"chunk,omitempty"`
	Offset           int64     `json:"offset,omitempty" yaml:"offset,omitempty" cbor:"offset,omitempty"`
	SourceLength     uint32    `json:"source_length,omitempty" yaml:"source_length,omitempty" cbor:"source_length,omitempty"`
	CompressedLength uint32    `json:"compressed_length,omitempty" yaml:"compressed_length,omitempty" cbor:"compressed_length,omitempty"`
	Digest           string    `json:"digest,omitempty" yaml:"digest,omitempty" cbor:"digest,omitempty"`
	Error            string    `json:"error,omitempty" yaml:"error,omitempty" cbor:"error,omitempty"`
}

// RecoveredReport is one segment found by recovery.
type RecoveredReport struct {
	Index            uint32 `json:"index" yaml:"index" cbor:"index"`
	Offset           int64  `json:"offset" yaml:"offset" cbor:"offset"`
	SourceLength     uint32 `json:"source_length" yaml:"source_length" cbor:"source_length"`
	CompressedLength uint32 `json:"compressed_length" yaml:"compressed_length" cbor:"compressed_length"`
	Digest           string `json:"digest" yaml:"digest" cbor:"digest"`
	Slot             *int   `json:"slot,omitempty" yaml:"slot,omitempty" cbor:"slot,omitempty"`
	Stale            bool   `json:"stale,omitempty" yaml:"stale,omitempty" cbor:"stale,omitempty"`
}

// Report builds the serialisable view of reg.
func (reg *Region) Report(opts ReportOptions) Report {
	rep := Report{
		Name:        reg.Name,
		Size:        reg.Size,
		Header:      reg.Header,
		SegmentBase: reg.SegmentBase(),
		Health:      reg.health,
		Slots:       make([]SlotReport, 0, len(reg.slots)),
	}
	pos, named := reg.Position()
	if named {
		rep.Position = &pos
	}

	for _, slot := range reg.slots {
		if slot.State == StateEmpty && !opts.Empty {
			continue
		}
		sr := SlotReport{Slot: slot.Slot, Index: slot.Index, State: slot.State}
		if named {
			chunk := pos.Chunk(slot.Slot)
			sr.Chunk = &chunk
		}
		if seg := slot.Segment(); seg != nil && !seg.Empty {
			sr.Offset = seg.Offset
			sr.SourceLength = seg.SourceLength
			sr.CompressedLength = seg.CompressedLength
			sr.Digest = seg.Digest
		}
		if slot.Err != nil {
			sr.Error = slot.Err.Error()
		}
		rep.Slots = append(rep.Slots, sr)
	}

	for _, rec := range reg.recovered {
		rr := RecoveredReport{
			Index:            rec.Index,
			Offset:           rec.Segment.Offset,
			SourceLength:     rec.Segment.SourceLength,
			CompressedLength: rec.Segment.CompressedLength,
			Digest:           rec.Segment.Digest,
			Stale:            rec.Stale,
		}
		if rec.Attributed {
			s := rec.Slot
			rr.Slot = &s
		}
		rep.Recovered = append(rep.Recovered, rr)
	}

	if opts.Spans {
		rep.Spans = reg.Spans()
	}
	return rep
}
