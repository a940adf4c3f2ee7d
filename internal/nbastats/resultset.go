package nbastats

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Response is the envelope returned by stats endpoints. Most endpoints use
// resultSets; a few use a single resultSet.
type Response struct {
	Resource   string      `json:"resource"`
	ResultSets []ResultSet `json:"resultSets"`
	ResultSet  *ResultSet  `json:"resultSet"`
}

// Set returns the result set with the given name.
func (r *Response) Set(name string) (*ResultSet, error) {
	for i := range r.ResultSets {
		if r.ResultSets[i].Name == name {
			return &r.ResultSets[i], nil
		}
	}
	if r.ResultSet != nil && r.ResultSet.Name == name {
		return r.ResultSet, nil
	}
	return nil, fmt.Errorf("result set %q not found in %s response", name, r.Resource)
}

// ResultSet is one table of an endpoint response.
type ResultSet struct {
	Name    string            `json:"name"`
	Headers []string          `json:"headers"`
	RowSet  []json.RawMessage `json:"rowSet"`

	index map[string]int
}

// Rows decodes every row of the set.
func (rs *ResultSet) Rows() ([]Row, error) {
	if rs.index == nil {
		rs.index = make(map[string]int, len(rs.Headers))
		for i, h := range rs.Headers {
			rs.index[strings.ToUpper(h)] = i
		}
	}
	rows := make([]Row, 0, len(rs.RowSet))
	for i, raw := range rs.RowSet {
		var values []any
		if err := json.Unmarshal(raw, &values); err != nil {
			return nil, fmt.Errorf("decode %s row %d: %w", rs.Name, i, err)
		}
		rows = append(rows, Row{index: rs.index, values: values})
	}
	return rows, nil
}

// Row is one positional row addressed by header name. Missing columns and
// nulls read as zero values.
type Row struct {
	index  map[string]int
	values []any
}

func (r Row) value(col string) any {
	i, ok := r.index[strings.ToUpper(col)]
	if !ok || i >= len(r.values) {
		return nil
	}
	return r.values[i]
}

// Has reports whether the column exists in the row's set.
func (r Row) Has(col string) bool {
	_, ok := r.index[strings.ToUpper(col)]
	return ok
}

// String reads col as text. Numbers are formatted without a fraction when
// integral.
func (r Row) String(col string) string {
	switch v := r.value(col).(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Float reads col as a number. Numeric strings are parsed.
func (r Row) Float(col string) float64 {
	switch v := r.value(col).(type) {
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

// Int reads col as an integer.
func (r Row) Int(col string) int {
	return int(r.Float(col))
}

// Bool reads flag columns such as SHOT_MADE_FLAG. Non-zero numbers, true and
// "Active"/"Y"/"1" are true.
func (r Row) Bool(col string) bool {
	switch v := r.value(col).(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "y", "yes", "true", "active":
			return true
		}
	}
	return false
}
