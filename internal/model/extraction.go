package model

// AnalysisResult is the payload produced by the external document-analysis
// service. The engine treats it as already-validated structured input; it
// never sees the source spreadsheet binary.
type AnalysisResult struct {
	Filename      string         `json:"filename"`
	Tables        []Table        `json:"tables"`
	KeyValuePairs []KeyValuePair `json:"key_value_pairs"`
	Content       string         `json:"content,omitempty"`
	Metadata      UpstreamMeta   `json:"metadata,omitempty"`
}

// Table is one extracted table with positional cells.
type Table struct {
	TableID     int         `json:"table_id"`
	SheetName   string      `json:"sheet_name,omitempty"`
	Page        int         `json:"page,omitempty"`
	RowCount    int         `json:"row_count"`
	ColumnCount int         `json:"column_count"`
	Cells       []TableCell `json:"cells"`
}

// TableCell is a single cell with its grid position.
type TableCell struct {
	RowIndex    int    `json:"row_index"`
	ColumnIndex int    `json:"column_index"`
	Content     string `json:"content"`
	IsHeader    bool   `json:"is_header,omitempty"`
}

// KeyValuePair is one extracted key/value association, annotated with the
// upstream service's own confidence in the pairing.
type KeyValuePair struct {
	Key        string  `json:"key"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Page       int     `json:"page,omitempty"`
}

// UpstreamMeta carries extraction-service metadata passed through to the
// report untouched.
type UpstreamMeta struct {
	PageCount         int     `json:"page_count,omitempty"`
	TableCount        int     `json:"table_count,omitempty"`
	AverageConfidence float64 `json:"average_confidence,omitempty"`
}

// SourceKind identifies which part of the payload a field came from.
type SourceKind string

const (
	SourceTable    SourceKind = "table"
	SourceKeyValue SourceKind = "key_value"
	SourceContent  SourceKind = "content"
)

// SourceRef locates a raw field inside the analysis payload. Sequence is the
// field's ordinal in payload order and is the final resolver tie-break.
type SourceRef struct {
	Kind     SourceKind `json:"kind"`
	Sequence int        `json:"sequence"`
	Sheet    string     `json:"sheet,omitempty"`
	Page     int        `json:"page,omitempty"`
	TableID  int        `json:"table_id,omitempty"`
	Row      int        `json:"row,omitempty"`
	Column   int        `json:"column,omitempty"`
	KVIndex  int        `json:"kv_index,omitempty"`
}

// RawField is one label/value unit of source data, immutable once collected.
type RawField struct {
	Label  string    `json:"label"`
	Value  string    `json:"value"`
	Source SourceRef `json:"source"`

	// UpstreamConfidence is the extraction service's confidence for
	// key-value pairs, 1.0 for table and content fields.
	UpstreamConfidence float64 `json:"upstream_confidence"`

	// Damping scales match confidence for lower-trust sources (free-text
	// content scanning). 1.0 means no damping.
	Damping float64 `json:"-"`
}
