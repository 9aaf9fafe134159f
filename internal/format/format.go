// Package format renders archived messages into display text or a structured
// forward-message envelope.
package format

import (
	"fmt"
	"strings"

	"github.com/hayasedb/chatarchive/internal/database"
	"github.com/hayasedb/chatarchive/internal/segment"
)

const (
	longTimeLayout  = "2006-01-02 15:04:05"
	shortTimeLayout = "01-02 15:04"
)

// Forward is a forwarded-message envelope wrapping one or more sub-messages.
type Forward struct {
	Nodes []Node
}

// Node is one sub-message of a forward envelope, attributed to its original
// sender.
type Node struct {
	SenderID   string
	SenderName string
	Segments   []segment.Segment
}

// FormatOne renders a single record as plain text.
func FormatOne(record *database.ArchivedMessage) string {
	return fmt.Sprintf("[%s] %s:\n%s",
		record.Timestamp.Format(longTimeLayout), record.SenderName, record.Content)
}

// BuildForward renders a single record as a forward envelope with one node:
// the timestamped header line followed by the content parsed into its display
// segments.
func BuildForward(record *database.ArchivedMessage) *Forward {
	header := segment.Segment{
		Kind: segment.KindText,
		Text: fmt.Sprintf("[%s] %s:\n", record.Timestamp.Format(longTimeLayout), record.SenderName),
	}

	return &Forward{
		Nodes: []Node{{
			SenderID:   record.SenderID,
			SenderName: record.SenderName,
			Segments:   append([]segment.Segment{header}, segment.Parse(record.Content)...),
		}},
	}
}

// String flattens the forward envelope to plain text, rendering image
// segments back into their markup form.
func (f *Forward) String() string {
	var b strings.Builder
	for i, node := range f.Nodes {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, seg := range node.Segments {
			switch seg.Kind {
			case segment.KindText:
				b.WriteString(seg.Text)
			case segment.KindImage:
				b.WriteString(segment.Image(seg.Src, seg.File))
			}
		}
	}
	return b.String()
}

// FormatMany renders one page of records: a page header followed by one block
// per record, in the order given (callers pass already-sorted records).
func FormatMany(records []database.ArchivedMessage, page, totalPages, totalCount int) string {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, fmt.Sprintf("第 %d/%d 页, 共%d条记录", page, totalPages, totalCount))

	for _, record := range records {
		lines = append(lines, fmt.Sprintf("#%d [%s] %s: \n%s\n",
			record.ID, record.Timestamp.Format(shortTimeLayout), record.SenderName, record.Content))
	}

	return strings.Join(lines, "\n")
}
