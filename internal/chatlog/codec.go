// Package chatlog implements the line-oriented text format used for
// persisted conversation logs:
//
//	<role> | <timestamp> | <first line of content>
//	<continuation line>
//	...
//
// Multi-line content is written as a header line followed by the remaining
// lines verbatim; the next header line (or end of input) terminates it.
// The format carries no escaping, so content lines that themselves begin
// with "user | " or "bot | " are indistinguishable from turn headers.
package chatlog

import (
	"strings"

	"github.com/h0ng79/Botcare/internal/models"
)

const sep = " | "

// Encode renders the conversation in transcript order.
func Encode(conv models.Conversation) string {
	var b strings.Builder
	for _, t := range conv {
		b.WriteString(t.Role)
		b.WriteString(sep)
		b.WriteString(t.Timestamp)
		b.WriteString(sep)
		b.WriteString(t.Content)
		b.WriteByte('\n')
	}
	return b.String()
}

// Decode parses text back into a conversation. Parsing is tolerant: lines
// that do not open a turn are appended to the content of the currently open
// turn, and lines before the first header are dropped. Empty or malformed
// input yields an empty conversation, never an error.
func Decode(text string) models.Conversation {
	conv := models.Conversation{}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	var (
		open    bool
		current models.Turn
		content []string
	)
	flush := func() {
		if !open {
			return
		}
		current.Content = strings.Join(content, "\n")
		conv = append(conv, current)
	}

	for _, line := range lines {
		role, timestamp, first, ok := splitHeader(line)
		if ok {
			flush()
			current = models.Turn{Role: role, Timestamp: timestamp}
			content = []string{first}
			open = true
			continue
		}
		if open {
			content = append(content, line)
		}
	}
	flush()
	return conv
}

// splitHeader reports whether line opens a new turn: it must start with
// "user | " or "bot | " and split into exactly role, timestamp and first
// content line.
func splitHeader(line string) (role, timestamp, first string, ok bool) {
	if !strings.HasPrefix(line, models.RoleUser+sep) && !strings.HasPrefix(line, models.RoleBot+sep) {
		return "", "", "", false
	}
	parts := strings.SplitN(line, sep, 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}
