// Package diffutil renders line diffs of config file revisions for reload
// logging.
package diffutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Unified renders a +/- prefixed line diff between two texts. Unchanged
// lines are kept as context with a leading space. Returns "" when the
// texts are identical.
func Unified(before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 5 * time.Second

	// Line-mode diff: lines are mapped to runes, diffed, then mapped back.
	chars1, chars2, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lineArray)

	var b strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range splitKeepingLines(d.Text) {
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Summary counts inserted and deleted lines between two texts.
func Summary(before, after string) string {
	if before == after {
		return "no changes"
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 5 * time.Second
	chars1, chars2, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lineArray)

	inserted, deleted := 0, 0
	for _, d := range diffs {
		n := len(splitKeepingLines(d.Text))
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += n
		case diffmatchpatch.DiffDelete:
			deleted += n
		}
	}
	return fmt.Sprintf("%d line(s) added, %d line(s) removed", inserted, deleted)
}

// splitKeepingLines splits text into lines without trailing newlines,
// dropping a final empty fragment from a trailing newline.
func splitKeepingLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
