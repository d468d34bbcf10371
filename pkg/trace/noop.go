package trace

import "context"

// NoopExporter discards all trace records. Used when tracing is not
// configured.
type NoopExporter struct{}

// NewNoopExporter creates a no-op exporter.
func NewNoopExporter() *NoopExporter {
	return &NoopExporter{}
}

// Export does nothing.
func (n *NoopExporter) Export(ctx context.Context, record *Record) error {
	return nil
}

// Close does nothing.
func (n *NoopExporter) Close() error {
	return nil
}
