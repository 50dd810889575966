// Package catalog parses the plain-text matto list uploaded by the admin.
// Each line is "<name>,<points>"; bad lines are skipped, never fatal.
package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"fantamatto_bot/internal/model"
	"fantamatto_bot/pkg/logger"

	"go.uber.org/zap"
)

const maxLineSize = 64 * 1024

// MaxNameLen bounds a matto name in runes so that buttons and broadcasts
// built from it stay well under Telegram's message limit.
const MaxNameLen = 100

const (
	ReasonNoComma       = "missing comma"
	ReasonEmptyName     = "empty name"
	ReasonNameTooLong   = "name too long"
	ReasonBadPoints     = "points not an integer"
	ReasonNonPositive   = "points not positive"
	ReasonDuplicateName = "duplicate name"
)

type SkippedLine struct {
	Line   int
	Text   string
	Reason string
}

type Result struct {
	Entries []model.CatalogEntry
	Skipped []SkippedLine
}

// Parse reads the whole catalog from r. Only a read error is returned as an
// error; malformed lines end up in Result.Skipped.
func Parse(r io.Reader) (*Result, error) {
	log := logger.Logger()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	res := &Result{}
	seen := make(map[string]struct{})
	lineNo := 0

	skip := func(text, reason string) {
		log.Warn("skipping catalog line",
			zap.Int("line", lineNo),
			zap.String("text", text),
			zap.String("reason", reason),
		)
		res.Skipped = append(res.Skipped, SkippedLine{Line: lineNo, Text: text, Reason: reason})
	}

	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		if lineNo == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		name, rawPoints, ok := strings.Cut(text, ",")
		if !ok {
			skip(text, ReasonNoComma)
			continue
		}

		name = strings.TrimSpace(name)
		if name == "" {
			skip(text, ReasonEmptyName)
			continue
		}
		if utf8.RuneCountInString(name) > MaxNameLen {
			skip(text, ReasonNameTooLong)
			continue
		}

		points, err := strconv.Atoi(strings.TrimSpace(rawPoints))
		if err != nil {
			skip(text, ReasonBadPoints)
			continue
		}
		if points <= 0 {
			skip(text, ReasonNonPositive)
			continue
		}

		if _, dup := seen[name]; dup {
			skip(text, ReasonDuplicateName)
			continue
		}
		seen[name] = struct{}{}

		res.Entries = append(res.Entries, model.CatalogEntry{Name: name, Points: points})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog at line %d: %w", lineNo+1, err)
	}

	return res, nil
}

func ParseString(s string) (*Result, error) {
	return Parse(strings.NewReader(s))
}
