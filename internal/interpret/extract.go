package interpret

import (
	"encoding/json"
	"regexp"
	"strings"
)

// parser is one independent attempt at pulling a JSON object out of a reply
type parser func(raw string) (map[string]any, bool)

// parsers run in order; the first success wins
var parsers = []parser{
	wholeDocument,
	fencedBlock,
	braceSpan,
}

var fencePattern = regexp.MustCompile("(?is)```\\s*json\\s*\\n?(.*?)```")

func extractObject(raw string) (map[string]any, bool) {
	for _, parse := range parsers {
		if obj, ok := parse(raw); ok {
			return obj, true
		}
	}
	return nil, false
}

// decodeObject accepts only a non-empty JSON object
func decodeObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &obj); err != nil || len(obj) == 0 {
		return nil, false
	}
	return obj, true
}

func wholeDocument(raw string) (map[string]any, bool) {
	return decodeObject(raw)
}

func fencedBlock(raw string) (map[string]any, bool) {
	m := fencePattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, false
	}
	return decodeObject(m[1])
}

// braceSpan tries each '{' in turn and parses the balanced span starting there
func braceSpan(raw string) (map[string]any, bool) {
	for start := strings.IndexByte(raw, '{'); start >= 0; {
		if end, ok := matchBrace(raw, start); ok {
			if obj, ok := decodeObject(raw[start : end+1]); ok {
				return obj, true
			}
		}
		next := strings.IndexByte(raw[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, false
}

// matchBrace returns the index of the '}' closing the '{' at start, skipping string literals
func matchBrace(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
