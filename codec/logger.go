package codec

import "go.uber.org/zap"

// log defaults to a no-op logger: a decode library must not write to
// stdout/stderr unless its caller opts in via SetLogger.
var log = zap.NewNop().Sugar()

// SetLogger installs the package-wide logger used for non-fatal
// per-frame diagnostics (spec §7: "a frame decoded with a non-fatal
// anomaly... logs a diagnostic but still produces a frame"). Passing
// nil restores the no-op default.
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	log = l
}

// Warnf logs a non-fatal per-frame anomaly. Exported so the dirac and
// vp3 packages can share the single package-level logger without
// importing zap directly.
func Warnf(stage, msg string, args ...interface{}) {
	log.Warnw(msg, append([]interface{}{"stage", stage}, args...)...)
}
