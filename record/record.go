// Package record defines a study session record and its on-disk document form.
//
// A document is a front-matter header of quoted key/value fields followed by
// three Markdown sections:
//
//	---
//	date: "2026-10-18 14:03:05"
//	topic: "Graphs"
//	duration: "25"
//	id: "6f1c..."
//	---
//
//	## Acquisition
//
//	BFS
//
//	## Debt
//
//	## Next Action
//
//	practice
//
// Section content is stored verbatim, so indentation and trailing newlines
// survive a save. A content line that is itself one of the three headings
// ("## Debt") starts a new section when the document is read back.
//
// Parse never fails. Missing or malformed fields come back as zero values so
// that old or truncated files can always be listed.
package record

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Extension is the file extension of every record document.
const Extension = ".md"

// DateLayout is the layout of the date header field.
const DateLayout = "2006-01-02 15:04:05"

// Section headings, in document order.
const (
	HeadingAcquisition = "Acquisition"
	HeadingDebt        = "Debt"
	HeadingNextAction  = "Next Action"
)

// ErrInvalid is returned by Validate for records that cannot be saved.
var ErrInvalid = errors.New("invalid session record")

// SessionRecord is one study session.
type SessionRecord struct {
	ID              string
	Topic           string
	StartedAt       time.Time
	DurationMinutes int
	Acquisition     string
	Debt            string
	NextAction      string
}

// Validate checks the fields a saved record must have.
func (r SessionRecord) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalid)
	}
	if r.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalid, r.DurationMinutes)
	}
	return nil
}

// CommitMessage is the message the record is committed under.
func (r SessionRecord) CommitMessage() string {
	return fmt.Sprintf("[Study] %s (%dmin)", r.Topic, r.DurationMinutes)
}

// Render produces the document for r. Output is deterministic.
func Render(r SessionRecord) string {
	var b strings.Builder

	b.WriteString("---\n")
	writeField(&b, "date", formatDate(r.StartedAt))
	writeField(&b, "topic", r.Topic)
	writeField(&b, "duration", strconv.Itoa(r.DurationMinutes))
	writeField(&b, "id", r.ID)
	b.WriteString("---\n")

	writeSection(&b, HeadingAcquisition, r.Acquisition)
	writeSection(&b, HeadingDebt, r.Debt)
	writeSection(&b, HeadingNextAction, r.NextAction)

	return b.String()
}

func writeField(b *strings.Builder, key, value string) {
	fmt.Fprintf(b, "%s: %s\n", key, strconv.Quote(value))
}

func writeSection(b *strings.Builder, heading, content string) {
	fmt.Fprintf(b, "\n## %s\n", heading)
	if content != "" {
		fmt.Fprintf(b, "\n%s\n", content)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

var (
	headingRe = regexp.MustCompile(`(?m)^##[ \t]+(` +
		regexp.QuoteMeta(HeadingAcquisition) + `|` +
		regexp.QuoteMeta(HeadingDebt) + `|` +
		regexp.QuoteMeta(HeadingNextAction) + `)[ \t]*\r?$`)
	frontMatterRe = regexp.MustCompile(`(?s)\A\s*---[ \t]*\r?\n(.*?)\n---[ \t]*\r?(?:\n|\z)`)
	fieldRes      = map[string]*regexp.Regexp{}
)

func init() {
	for _, key := range []string{"date", "topic", "duration", "id"} {
		fieldRes[key] = regexp.MustCompile(`(?m)^` + key + `:[ \t]*(.*?)[ \t]*\r?$`)
	}
}

// Parse extracts a record from a document. Each field is matched on its own;
// anything absent or unreadable is left at its zero value.
func Parse(doc string) SessionRecord {
	header, body := splitHeader(doc)

	var r SessionRecord
	r.ID = field(header, "id")
	r.Topic = field(header, "topic")
	r.StartedAt = parseDate(field(header, "date"))
	r.DurationMinutes = parseDuration(field(header, "duration"))

	sections := parseSections(body)
	r.Acquisition = sections[HeadingAcquisition]
	r.Debt = sections[HeadingDebt]
	r.NextAction = sections[HeadingNextAction]

	return r
}

// splitHeader separates the front-matter block from the body. Without a
// well-formed block, everything before the first section heading is treated
// as header text.
func splitHeader(doc string) (header, body string) {
	if m := frontMatterRe.FindStringSubmatchIndex(doc); m != nil {
		return doc[m[2]:m[3]], doc[m[1]:]
	}
	if loc := headingRe.FindStringIndex(doc); loc != nil {
		return doc[:loc[0]], doc[loc[0]:]
	}
	return doc, ""
}

func field(header, key string) string {
	m := fieldRes[key].FindStringSubmatch(header)
	if m == nil {
		return ""
	}
	return unquote(m[1])
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		if s, err := strconv.Unquote(v); err == nil {
			return s
		}
		return v[1 : len(v)-1]
	}
	return v
}

func parseDate(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{DateLayout, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseDuration reads the leading digits of v, so "25" and "25min" both give 25.
func parseDuration(v string) int {
	end := 0
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0
	}
	return n
}

// parseSections captures each recognized heading's text up to the next
// recognized heading or the end of the document.
func parseSections(body string) map[string]string {
	sections := make(map[string]string, 3)
	matches := headingRe.FindAllStringSubmatchIndex(body, -1)
	for i, m := range matches {
		name := body[m[2]:m[3]]
		end := len(body)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if _, seen := sections[name]; seen {
			continue
		}
		sections[name] = sectionText(body[m[1]:end], i+1 == len(matches))
	}
	return sections
}

// sectionText strips the framing Render puts around section content: the
// heading's line break and blank line before it, the content's line break
// after it, and the blank line ahead of the next heading.
func sectionText(raw string, last bool) string {
	raw = trimLeadingNewline(trimLeadingNewline(raw))
	if !last {
		raw = trimTrailingNewline(raw)
	}
	return trimTrailingNewline(raw)
}

func trimLeadingNewline(s string) string {
	if strings.HasPrefix(s, "\r\n") {
		return s[2:]
	}
	return strings.TrimPrefix(s, "\n")
}

func trimTrailingNewline(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	}
	return strings.TrimSuffix(s, "\n")
}

// HistorySummary is the listing view of a stored record. ID is the document
// path relative to the journal root.
type HistorySummary struct {
	ID              string    `json:"id"`
	Date            time.Time `json:"date"`
	Topic           string    `json:"topic"`
	DurationMinutes int       `json:"durationMinutes"`
	Acquisition     string    `json:"acquisition"`
}

// Summary returns the listing view of r stored under id.
func (r SessionRecord) Summary(id string) HistorySummary {
	return HistorySummary{
		ID:              id,
		Date:            r.StartedAt,
		Topic:           r.Topic,
		DurationMinutes: r.DurationMinutes,
		Acquisition:     r.Acquisition,
	}
}
