package s3

import (
	"bytes"
	"encoding/csv"
	"path"
	"strconv"
	"time"

	"github.com/flexprice/saaskpi/internal/push"
	"github.com/shopspring/decimal"
)

const contentTypeCSV = "text/csv"

// Object is one pushed table serialized for upload.
type Object struct {
	Key         string
	Data        []byte
	ContentType string
}

// NewCSVObject renders ds as a CSV file with a header row under
// prefix/schema/table.csv.
func NewCSVObject(prefix, schema string, ds *push.Dataset) (*Object, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(ds.ColumnNames()); err != nil {
		return nil, err
	}
	record := make([]string, len(ds.Columns))
	for _, row := range ds.Rows {
		for i, cell := range row {
			record[i] = formatCell(cell)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &Object{
		Key:         objectKey(prefix, schema, ds.Name),
		Data:        buf.Bytes(),
		ContentType: contentTypeCSV,
	}, nil
}

func objectKey(prefix, schema, table string) string {
	return path.Join(prefix, schema, table+".csv")
}

func formatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case bool:
		return strconv.FormatBool(c)
	case decimal.Decimal:
		return c.String()
	case time.Time:
		if c.Equal(c.Truncate(24 * time.Hour)) {
			return c.Format(time.DateOnly)
		}
		return c.Format(time.RFC3339)
	}
	return ""
}
