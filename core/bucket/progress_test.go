package bucket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestProgressLogsEveryTenPercent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := newProgress(zap.New(core), 100)

	for i := 0; i < 20; i++ {
		n, err := p.Read(make([]byte, 5))
		assert.NoError(t, err)
		assert.Equal(t, 5, n)
	}

	assert.Equal(t, int64(100), p.Sent())
	entries := logs.FilterMessage("Upload progress").All()
	assert.Len(t, entries, 10)
	assert.Equal(t, int64(100), entries[len(entries)-1].ContextMap()["percent"])
}

func TestProgressWithoutTotal(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := newProgress(zap.New(core), 0)

	_, err := p.Read(make([]byte, 42))
	assert.NoError(t, err)
	assert.Equal(t, int64(42), p.Sent())
	assert.Equal(t, 0, logs.Len())
}
