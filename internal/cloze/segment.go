package cloze

import "fmt"

type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentBlank
	SegmentHighlight
	SegmentMedia
)

var segmentKindNames = [...]string{"text", "blank", "highlight", "media"}

func (k SegmentKind) String() string {
	if int(k) < len(segmentKindNames) {
		return segmentKindNames[k]
	}
	return fmt.Sprintf("SegmentKind(%d)", int(k))
}

func (k SegmentKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *SegmentKind) UnmarshalText(b []byte) error {
	for i, n := range segmentKindNames {
		if n == string(b) {
			*k = SegmentKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown segment kind %q", string(b))
}

// Segment is one piece of the passage in reading order. Text holds the
// literal text of a SegmentText; Ref holds the blank id, highlight id or
// media key of the other kinds.
type Segment struct {
	Kind SegmentKind `json:"kind"`
	Text string      `json:"text,omitempty"`
	Ref  string      `json:"ref,omitempty"`
}

func TextSegment(s string) Segment       { return Segment{Kind: SegmentText, Text: s} }
func BlankSegment(id string) Segment     { return Segment{Kind: SegmentBlank, Ref: id} }
func HighlightSegment(id string) Segment { return Segment{Kind: SegmentHighlight, Ref: id} }
func MediaSegment(key string) Segment    { return Segment{Kind: SegmentMedia, Ref: key} }
