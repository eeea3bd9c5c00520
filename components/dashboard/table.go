package dashboard

import (
	"crypto/sha1"
	"encoding/hex"
)

// Row is a single canonical chart row.
type Row struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Series   string  `json:"series,omitempty"`
	Detail   string  `json:"detail,omitempty"`
}

// ValueRange pins the value axis to explicit bounds.
type ValueRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Table is the normalized row set consumed by the presentation adapter.
type Table struct {
	CategoryLabel string      `json:"category_label"`
	ValueLabel    string      `json:"value_label"`
	SeriesLabel   string      `json:"series_label,omitempty"`
	Rows          []Row       `json:"rows"`
	ValueRange    *ValueRange `json:"value_range,omitempty"`
}

// HasSeries reports whether any row is tagged with a series.
func (t Table) HasSeries() bool {
	for _, row := range t.Rows {
		if row.Series != "" {
			return true
		}
	}
	return false
}

// Categories returns distinct categories in first-seen order.
func (t Table) Categories() []string {
	return distinct(t.Rows, func(r Row) string { return r.Category })
}

// SeriesNames returns distinct series in first-seen order.
func (t Table) SeriesNames() []string {
	return distinct(t.Rows, func(r Row) string { return r.Series })
}

func (t Table) hash() string {
	b, err := json.Marshal(t)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

func distinct(rows []Row, key func(Row) string) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// OutcomeKind tags the result of a shaping function.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeEmpty
	OutcomeMalformed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeEmpty:
		return "empty"
	case OutcomeMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Shaped is the tagged outcome of a shaping function. Table is only meaningful
// when Kind is OutcomeOK.
type Shaped struct {
	Kind      OutcomeKind
	Table     Table
	Reason    string
	Anomalies []string
}

// NoData reports whether the caller should take the "no data" rendering path.
func (s Shaped) NoData() bool {
	return s.Kind != OutcomeOK
}

func shapedOK(table Table) Shaped {
	return Shaped{Kind: OutcomeOK, Table: table}
}

func shapedEmpty(reason string) Shaped {
	return Shaped{Kind: OutcomeEmpty, Reason: reason}
}

func shapedMalformed(reason string) Shaped {
	return Shaped{Kind: OutcomeMalformed, Reason: reason}
}
