package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRanking(_ *RankingSnapshot) error { return nil }
func (n *NoopRecorder) LastRanking(_, _ string) ([]string, bool, error) {
	return nil, false, nil
}
func (n *NoopRecorder) Close() error { return nil }
