package trace

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Format is the encoding of trace events.
type Format uint8

const (
	FormatAuto   Format = iota // по расширению файла трассы
	FormatText                 // one human-readable line per event
	FormatNDJSON               // one JSON object per line
)

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatForPath picks NDJSON for .ndjson and .jsonl files, text otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	}
	return FormatText
}

// epoch: точка отсчёта относительных меток текстового формата.
var epoch = time.Now()

// AppendEvent encodes ev in format and appends it, newline included, to dst.
func AppendEvent(dst []byte, ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return appendNDJSON(dst, ev)
	}
	return appendText(dst, ev)
}

var kindMarks = map[Kind]string{
	KindBegin:     "→ ",
	KindEnd:       "← ",
	KindPoint:     "• ",
	KindHeartbeat: "♡ ",
}

// appendText: "[   12.345ms]     ← lex (tokens=12) mode=whole"
func appendText(dst []byte, ev *Event) []byte {
	ms := max(float64(ev.Time.Sub(epoch))/float64(time.Millisecond), 0)
	dst = append(dst, '[')
	dst = append(dst, fmt.Sprintf("%10.3f", ms)...)
	dst = append(dst, "ms] "...)
	for range int(max(ev.Scope, ScopeDriver) - ScopeDriver) {
		dst = append(dst, "  "...)
	}
	dst = append(dst, kindMarks[ev.Kind]...)
	dst = append(dst, ev.Name...)
	if ev.Detail != "" {
		dst = append(dst, " ("...)
		dst = append(dst, ev.Detail...)
		dst = append(dst, ')')
	}
	for _, a := range ev.Attrs {
		dst = append(dst, ' ')
		dst = append(dst, a.Key...)
		dst = append(dst, '=')
		dst = append(dst, a.Value...)
	}
	return append(dst, '\n')
}

func appendNDJSON(dst []byte, ev *Event) []byte {
	dst = append(dst, `{"time":`...)
	dst = appendJSONString(dst, ev.Time.Format(time.RFC3339Nano))
	dst = append(dst, `,"seq":`...)
	dst = strconv.AppendUint(dst, ev.Seq, 10)
	dst = append(dst, `,"kind":`...)
	dst = appendJSONString(dst, ev.Kind.String())
	dst = append(dst, `,"scope":`...)
	dst = appendJSONString(dst, ev.Scope.String())
	dst = append(dst, `,"id":`...)
	dst = strconv.AppendUint(dst, ev.ID, 10)
	if ev.Parent != 0 {
		dst = append(dst, `,"parent":`...)
		dst = strconv.AppendUint(dst, ev.Parent, 10)
	}
	dst = append(dst, `,"name":`...)
	dst = appendJSONString(dst, ev.Name)
	if ev.Detail != "" {
		dst = append(dst, `,"detail":`...)
		dst = appendJSONString(dst, ev.Detail)
	}
	if len(ev.Attrs) > 0 {
		// порядок атрибутов сохраняется
		dst = append(dst, `,"attrs":{`...)
		for i, a := range ev.Attrs {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendJSONString(dst, a.Key)
			dst = append(dst, ':')
			dst = appendJSONString(dst, a.Value)
		}
		dst = append(dst, '}')
	}
	return append(dst, "}\n"...)
}

func appendJSONString(dst []byte, s string) []byte {
	b, err := json.Marshal(s)
	if err != nil {
		// строка всегда сериализуема
		return append(dst, `""`...)
	}
	return append(dst, b...)
}
