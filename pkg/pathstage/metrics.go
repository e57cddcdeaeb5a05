package pathstage

import (
	"sync/atomic"
	"time"

	"github.com/paulschiretz/pgl-stage/pkg/plog"
	"github.com/paulschiretz/pgl-stage/pkg/util"
)

// StageMetrics holds the counters of one staging run.
type StageMetrics struct {
	FilesCopied  atomic.Int64
	FilesPlanned atomic.Int64
	FilesMissing atomic.Int64
	FilesFailed  atomic.Int64
	BytesWritten atomic.Int64
	DirsCreated  atomic.Int64

	startTime time.Time
}

func newStageMetrics() *StageMetrics {
	return &StageMetrics{startTime: time.Now()}
}

func (m *StageMetrics) AddFilesCopied(n int64)  { m.FilesCopied.Add(n) }
func (m *StageMetrics) AddFilesPlanned(n int64) { m.FilesPlanned.Add(n) }
func (m *StageMetrics) AddFilesMissing(n int64) { m.FilesMissing.Add(n) }
func (m *StageMetrics) AddFilesFailed(n int64)  { m.FilesFailed.Add(n) }
func (m *StageMetrics) AddBytesWritten(n int64) { m.BytesWritten.Add(n) }
func (m *StageMetrics) AddDirsCreated(n int64)  { m.DirsCreated.Add(n) }

// Result is a point-in-time copy of the counters.
type Result struct {
	Copied       int64
	Planned      int64
	Missing      int64
	Failed       int64
	BytesWritten int64
	DirsCreated  int64
}

// Result returns the current counter values.
func (m *StageMetrics) Result() Result {
	return Result{
		Copied:       m.FilesCopied.Load(),
		Planned:      m.FilesPlanned.Load(),
		Missing:      m.FilesMissing.Load(),
		Failed:       m.FilesFailed.Load(),
		BytesWritten: m.BytesWritten.Load(),
		DirsCreated:  m.DirsCreated.Load(),
	}
}

// LogSummary logs all counters as a single line.
func (m *StageMetrics) LogSummary(msg string) {
	duration := time.Duration(0)
	if !m.startTime.IsZero() {
		duration = time.Since(m.startTime)
	}

	plog.Info(msg,
		"files_copied", m.FilesCopied.Load(),
		"files_planned", m.FilesPlanned.Load(),
		"files_missing", m.FilesMissing.Load(),
		"files_failed", m.FilesFailed.Load(),
		"bytes_written", util.ByteCountIEC(m.BytesWritten.Load()),
		"dirs_created", m.DirsCreated.Load(),
		"duration", duration.Round(time.Millisecond),
	)
}
