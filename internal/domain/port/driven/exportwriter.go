package driven

// ExportWriter defines the driven port for writing plaintext export reports.
// Exports are one-way artifacts; nothing ever loads them back.
type ExportWriter interface {
	WriteExport(path string, data []byte) error
}
