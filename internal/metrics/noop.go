package metrics

// NoopMetrics is a no-operation implementation of Recorder used when
// metrics are disabled and in tests.
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordOAuthLogin(provider string, success bool) {}

func (n *NoopMetrics) RecordOAuthCallback(provider string, success bool) {}

func (n *NoopMetrics) RecordLogout() {}

func (n *NoopMetrics) RecordPostCreated(status string) {}

func (n *NoopMetrics) RecordPostDeleted() {}

func (n *NoopMetrics) RecordCommentAdded() {}

func (n *NoopMetrics) RecordDatabaseError(operation string) {}
