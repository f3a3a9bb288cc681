package parse

import (
	"strings"

	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/token"
)

// LocEntry is one `key:0 "text"` line from a localization file.
type LocEntry struct {
	Key   token.Token
	Value string
}

// Localization parses the contents of a localization .yml file. The
// first meaningful line must be a language header such as `l_english:`.
func Localization(src string, loc token.Loc, sink report.Sink) []LocEntry {
	src = strings.TrimPrefix(src, "\ufeff")
	var entries []LocEntry
	header := false

	for i, raw := range strings.Split(src, "\n") {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		at := loc
		at.Line = i + 1
		at.Column = len(line) - len(trimmed) + 1

		if !header {
			header = true
			if strings.HasPrefix(trimmed, "l_") && strings.HasSuffix(strings.TrimSpace(trimmed), ":") {
				continue
			}
			report.Warnf(sink, at, report.KeyParse, "missing language header such as `l_english:`")
		}

		colon := strings.IndexByte(trimmed, ':')
		if colon <= 0 {
			report.Warnf(sink, at, report.KeyParse, "could not parse localization line")
			continue
		}
		key := trimmed[:colon]
		rest := strings.TrimLeft(trimmed[colon+1:], "0123456789")
		rest = strings.TrimSpace(rest)
		first := strings.IndexByte(rest, '"')
		last := strings.LastIndexByte(rest, '"')
		if first != 0 || last <= first {
			report.Warnf(sink, at, report.KeyParse, "could not parse localization line")
			continue
		}
		entries = append(entries, LocEntry{
			Key:   token.New(key, at),
			Value: rest[first+1 : last],
		})
	}
	return entries
}
