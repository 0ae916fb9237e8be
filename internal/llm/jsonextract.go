package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Models frequently wrap the JSON they were asked for in prose or markdown
// fences. ExtractObject walks a fixed strategy chain — strict parse, ```json
// fence, generic fence, outermost brace span — and returns the first
// substring that is a valid JSON object. Each strategy is a pure function so
// it can be tested without a provider.

var (
	jsonFenceRe    = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
	genericFenceRe = regexp.MustCompile("(?s)```\\s*(\\{.*?\\})\\s*```")
)

// ExtractObject returns the JSON object contained in s, if any.
func ExtractObject(s string) (string, bool) {
	for _, strategy := range []func(string) (string, bool){
		strictObject,
		fencedJSONObject,
		fencedObject,
		braceSpanObject,
	} {
		if obj, ok := strategy(s); ok {
			return obj, true
		}
	}
	return "", false
}

func strictObject(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") && json.Valid([]byte(s)) {
		return s, true
	}
	return "", false
}

func fencedJSONObject(s string) (string, bool) {
	m := jsonFenceRe.FindStringSubmatch(s)
	if m == nil || !json.Valid([]byte(m[1])) {
		return "", false
	}
	return m[1], true
}

func fencedObject(s string) (string, bool) {
	m := genericFenceRe.FindStringSubmatch(s)
	if m == nil || !json.Valid([]byte(m[1])) {
		return "", false
	}
	return m[1], true
}

func braceSpanObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	span := s[start : end+1]
	if !json.Valid([]byte(span)) {
		return "", false
	}
	return span, true
}
