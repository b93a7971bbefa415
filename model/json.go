package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp decodes JSON timestamps with or without a UTC offset. Columns
// without a time zone serialize without an offset and are read as UTC.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("timestamp %s: %w", b, err)
	}
	for _, layout := range timestampLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("timestamp %q: unrecognized format", s)
}

// The rows below decode created_at through Timestamp so JSON from REST
// responses, json_agg results and the read cache share one format rule.

func (i *Instructor) UnmarshalJSON(b []byte) error {
	type plain Instructor
	aux := struct {
		*plain
		CreatedAt Timestamp `json:"created_at"`
	}{plain: (*plain)(i)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	i.CreatedAt = aux.CreatedAt.Time
	return nil
}

func (k *Keyword) UnmarshalJSON(b []byte) error {
	type plain Keyword
	aux := struct {
		*plain
		CreatedAt Timestamp `json:"created_at"`
	}{plain: (*plain)(k)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	k.CreatedAt = aux.CreatedAt.Time
	return nil
}

func (bk *Book) UnmarshalJSON(b []byte) error {
	type plain Book
	aux := struct {
		*plain
		CreatedAt Timestamp `json:"created_at"`
	}{plain: (*plain)(bk)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	bk.CreatedAt = aux.CreatedAt.Time
	return nil
}

func (c *Course) UnmarshalJSON(b []byte) error {
	type plain Course
	aux := struct {
		*plain
		CreatedAt Timestamp `json:"created_at"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	c.CreatedAt = aux.CreatedAt.Time
	return nil
}
