package bucket

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// progress receives the bytes the SDK has sent through its Progress hook and
// logs every 10% step of the expected total.
type progress struct {
	logger *zap.Logger
	total  int64
	sent   atomic.Int64
	step   atomic.Int64
}

func newProgress(l *zap.Logger, total int64) *progress {
	return &progress{logger: l, total: total}
}

// Read implements io.Reader for minio.PutObjectOptions.Progress. It never
// returns an error, so it cannot fail an upload.
func (p *progress) Read(b []byte) (int, error) {
	sent := p.sent.Add(int64(len(b)))
	if p.total <= 0 {
		return len(b), nil
	}

	step := sent * 10 / p.total
	if step > 10 {
		step = 10
	}
	if prev := p.step.Load(); step > prev && p.step.CompareAndSwap(prev, step) {
		p.logger.Debug("Upload progress",
			zap.Int64("sent", sent),
			zap.Int64("total", p.total),
			zap.Int64("percent", step*10),
		)
	}
	return len(b), nil
}

// Sent returns the number of bytes reported so far.
func (p *progress) Sent() int64 {
	return p.sent.Load()
}
