package dashboard

// WideRow is a record with identifier columns and several numeric value columns.
type WideRow struct {
	IDs    map[string]string
	Values map[string]float64
}

// LongRow is one (identifiers, variable, value) triple produced by Melt.
type LongRow struct {
	IDs      map[string]string
	Variable string
	Value    float64
}

// Melt pivots the given value columns of every wide row into rows tagged by the
// column they came from. Output is column-major: every row of the first value
// column, then every row of the next one. Only idColumns are carried over, and a
// value column missing from a row yields zero.
func Melt(rows []WideRow, idColumns, valueColumns []string) []LongRow {
	out := make([]LongRow, 0, len(rows)*len(valueColumns))
	for _, column := range valueColumns {
		for _, row := range rows {
			ids := make(map[string]string, len(idColumns))
			for _, id := range idColumns {
				ids[id] = row.IDs[id]
			}
			out = append(out, LongRow{
				IDs:      ids,
				Variable: column,
				Value:    row.Values[column],
			})
		}
	}
	return out
}
