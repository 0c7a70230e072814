package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Tag is a behavioral tag a user attaches to a trade.
type Tag string

const (
	ImpulsiveTrading    Tag = "ImpulsiveTrading"
	StopLossViolation   Tag = "StopLossViolation"
	PanicBuying         Tag = "PanicBuying"
	PanicSelling        Tag = "PanicSelling"
	PositionSizingError Tag = "PositionSizingError"
)

// AllTags is the fixed tag vocabulary in display order.
var AllTags = []Tag{ImpulsiveTrading, StopLossViolation, PanicBuying, PanicSelling, PositionSizingError}

var tagLabels = map[Tag]string{
	ImpulsiveTrading:    "뇌동매매",
	StopLossViolation:   "손절 미준수",
	PanicBuying:         "추격 매수",
	PanicSelling:        "공포 매도",
	PositionSizingError: "비중 조절 실패",
}

var tagByLabel = func() map[string]Tag {
	m := make(map[string]Tag, len(tagLabels))
	for t, l := range tagLabels {
		m[l] = t
	}
	return m
}()

// ParseTag resolves a label or a code.
func ParseTag(s string) (Tag, error) {
	s = strings.TrimSpace(s)
	if t, ok := tagByLabel[s]; ok {
		return t, nil
	}
	if _, ok := tagLabels[Tag(s)]; ok {
		return Tag(s), nil
	}
	return "", fmt.Errorf("unknown tag %q", s)
}

func (t Tag) Label() string { return tagLabels[t] }

func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Label())
}

func (t *Tag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTag(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Tags is stored as a comma separated list of codes.
type Tags []Tag

// Labels joins the display labels, or "없음" when empty.
func (ts Tags) Labels() string {
	if len(ts) == 0 {
		return "없음"
	}
	labels := make([]string, len(ts))
	for i, t := range ts {
		labels[i] = t.Label()
	}
	return strings.Join(labels, ", ")
}

func (ts Tags) Value() (driver.Value, error) {
	codes := make([]string, len(ts))
	for i, t := range ts {
		codes[i] = string(t)
	}
	return strings.Join(codes, ","), nil
}

func (ts *Tags) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*ts = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Tags", src)
	}
	out := Tags{}
	for _, code := range strings.Split(raw, ",") {
		if code = strings.TrimSpace(code); code != "" {
			out = append(out, Tag(code))
		}
	}
	*ts = out
	return nil
}
