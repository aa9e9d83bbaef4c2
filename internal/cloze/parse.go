package cloze

import (
	"strconv"
	"strings"

	"github.com/mind-engage/mindengage-cloze/internal/grading"
)

const (
	openDelim       = "[["
	closeDelim      = "]]"
	blankKeyword    = "blank"
	highlightMarker = "|highlight:"
	mediaPrefix     = "media:"
)

// Option configures Parse.
type Option func(*parseConfig)

type parseConfig struct {
	matcher grading.Matcher
}

// WithMatcher sets the matcher every blank of the cloze evaluates with.
func WithMatcher(m grading.Matcher) Option { return func(c *parseConfig) { c.matcher = m } }

// Parse splits an already snippet-resolved passage into segments.
//
// Markup is delimited by [[ and ]]:
//
//	[[blank]]                   a blank, takes the next unused definition
//	[[text|highlight:tooltip]]  a highlighted span
//	[[media:key]]               a media reference resolved against media
//
// Definitions are consumed in passage order; unused trailing definitions
// are ignored. A shortfall, an unterminated delimiter, unknown markup or an
// unknown media key yields a *MalformedClozeError.
func Parse(text string, defs []BlankDefinition, media map[string]string, opts ...Option) (*Cloze, error) {
	cfg := parseConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.matcher == nil {
		cfg.matcher = grading.NewMatcher()
	}

	c := &Cloze{
		media:        make(map[string]string, len(media)),
		blankIdx:     map[string]int{},
		highlightIdx: map[string]int{},
	}
	for k, v := range media {
		c.media[k] = v
	}

	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			c.segments = append(c.segments, TextSegment(buf.String()))
			buf.Reset()
		}
	}

	pos := 0
	for pos < len(text) {
		open := strings.Index(text[pos:], openDelim)
		if open < 0 {
			buf.WriteString(text[pos:])
			break
		}
		open += pos
		buf.WriteString(text[pos:open])

		end := strings.Index(text[open+len(openDelim):], closeDelim)
		if end < 0 {
			return nil, &MalformedClozeError{Reason: "unterminated " + openDelim, Offset: open}
		}
		end += open + len(openDelim)
		inner := text[open+len(openDelim) : end]
		pos = end + len(closeDelim)

		seg, err := c.markup(inner, open, defs, cfg.matcher)
		if err != nil {
			return nil, err
		}
		flush()
		c.segments = append(c.segments, seg)
	}
	flush()
	return c, nil
}

// markup turns the content between delimiters into a segment, registering
// the blank or highlight it introduces.
func (c *Cloze) markup(inner string, offset int, defs []BlankDefinition, m grading.Matcher) (Segment, error) {
	trimmed := strings.TrimSpace(inner)
	switch {
	case strings.EqualFold(trimmed, blankKeyword):
		n := len(c.blanks)
		if n >= len(defs) {
			return Segment{}, &MalformedClozeError{
				Reason: "blank " + strconv.Itoa(n+1) + " has no definition (" + strconv.Itoa(len(defs)) + " supplied)",
				Offset: offset,
			}
		}
		id := "b" + strconv.Itoa(n+1)
		b, err := NewBlank(id, defs[n], m)
		if err != nil {
			return Segment{}, err
		}
		c.blankIdx[id] = n
		c.blanks = append(c.blanks, b)
		return BlankSegment(id), nil

	case strings.HasPrefix(trimmed, mediaPrefix):
		key := strings.TrimSpace(strings.TrimPrefix(trimmed, mediaPrefix))
		if key == "" {
			return Segment{}, &MalformedClozeError{Reason: "empty media key", Offset: offset}
		}
		if _, ok := c.media[key]; !ok {
			return Segment{}, &MalformedClozeError{Reason: "unknown media key " + strconv.Quote(key), Offset: offset}
		}
		return MediaSegment(key), nil

	case strings.Contains(inner, highlightMarker):
		i := strings.Index(inner, highlightMarker)
		spanText := inner[:i]
		if strings.TrimSpace(spanText) == "" {
			return Segment{}, &MalformedClozeError{Reason: "highlight without text", Offset: offset}
		}
		id := "h" + strconv.Itoa(len(c.highlights)+1)
		c.highlightIdx[id] = len(c.highlights)
		c.highlights = append(c.highlights, &Highlight{
			ID:      id,
			Text:    spanText,
			Tooltip: strings.TrimSpace(inner[i+len(highlightMarker):]),
		})
		return HighlightSegment(id), nil
	}
	return Segment{}, &MalformedClozeError{Reason: "unknown markup " + strconv.Quote(inner), Offset: offset}
}
