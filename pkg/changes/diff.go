package changes

import (
	"bytes"
	"context"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is how many unchanged lines are kept around each change
const contextLines = 3

// Diff renders a line diff of a drifted file, store copy to home copy
func (d *Detector) Diff(ctx context.Context, rec Record) (string, error) {
	storeContent, homeContent, _, err := d.read(rec.Path)
	if err != nil {
		return "", err
	}
	return renderDiff(rec.Path, storeContent, homeContent), nil
}

func renderDiff(rel string, storeContent, homeContent []byte) string {
	var b strings.Builder
	b.WriteString("--- store/" + rel + "\n")
	b.WriteString("+++ ~/" + rel + "\n")

	if isBinary(storeContent) || isBinary(homeContent) {
		b.WriteString("Binary files differ\n")
		return b.String()
	}

	dmp := diffmatchpatch.New()
	a, bb, lines := dmp.DiffLinesToChars(string(storeContent), string(homeContent))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, bb, false), lines)

	for i, diff := range diffs {
		chunk := splitLines(diff.Text)
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			writeLines(&b, "-", chunk)
		case diffmatchpatch.DiffInsert:
			writeLines(&b, "+", chunk)
		case diffmatchpatch.DiffEqual:
			writeContext(&b, chunk, i == 0, i == len(diffs)-1)
		}
	}
	return b.String()
}

// writeContext trims an unchanged run down to the lines next to changes
func writeContext(b *strings.Builder, chunk []string, first, last bool) {
	head, tail := contextLines, contextLines
	if first {
		head = 0
	}
	if last {
		tail = 0
	}
	if len(chunk) <= head+tail {
		writeLines(b, " ", chunk)
		return
	}
	writeLines(b, " ", chunk[:head])
	b.WriteString("...\n")
	writeLines(b, " ", chunk[len(chunk)-tail:])
}

func writeLines(b *strings.Builder, prefix string, lines []string) {
	for _, line := range lines {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteString("\n")
	}
}

// splitLines splits text into lines without their terminators. A missing
// final newline does not produce an empty trailing line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func isBinary(content []byte) bool {
	return bytes.IndexByte(content, 0) >= 0
}
