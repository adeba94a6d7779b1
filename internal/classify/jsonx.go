package classify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON pulls a JSON object out of a model response. Accepted
// shapes, in order: raw JSON, a fenced ```json block, and the first
// {...} substring. Anything else is a permanent protocol failure.
func ExtractJSON(response string) (string, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return "", fmt.Errorf("empty model response")
	}

	if json.Valid([]byte(response)) && strings.HasPrefix(response, "{") {
		return response, nil
	}

	if fenced := extractFenced(response); fenced != "" {
		if json.Valid([]byte(fenced)) {
			return fenced, nil
		}
	}

	if obj := firstObject(response); obj != "" {
		if json.Valid([]byte(obj)) {
			return obj, nil
		}
	}

	return "", fmt.Errorf("no valid JSON object in model response")
}

func extractFenced(s string) string {
	start := strings.Index(s, "```json")
	offset := len("```json")
	if start < 0 {
		start = strings.Index(s, "```")
		offset = len("```")
	}
	if start < 0 {
		return ""
	}

	rest := s[start+offset:]
	end := strings.Index(rest, "```")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

// firstObject scans for the first balanced {...} block, respecting
// string literals so braces inside values do not break the count.
func firstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

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
				return s[start : i+1]
			}
		}
	}
	return ""
}
