package domain

// SourceKind identifies where the input document is loaded from.
type SourceKind string

const (
	SourceHTTP       SourceKind = "http"
	SourceFile       SourceKind = "file"
	SourcePostgres   SourceKind = "postgres"
	SourceClickhouse SourceKind = "clickhouse"
	SourceSQLite     SourceKind = "sqlite"
	SourceMemory     SourceKind = "memory"
)

// String returns the string representation of SourceKind.
func (s SourceKind) String() string {
	return string(s)
}

// IsValid checks if the source kind is a known value.
func (s SourceKind) IsValid() bool {
	switch s {
	case SourceHTTP, SourceFile, SourcePostgres, SourceClickhouse, SourceSQLite, SourceMemory:
		return true
	}
	return false
}
