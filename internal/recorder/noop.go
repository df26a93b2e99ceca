package recorder

// NoopRecorder is used when no database path is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Record(_ *Record) error                  { return nil }
func (n *NoopRecorder) History(_ string, _ int) ([]Record, error) { return nil, nil }
func (n *NoopRecorder) Close() error                            { return nil }
