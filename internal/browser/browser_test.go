package browser

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ブラウザ起動の試行が終わりませんでした")
	}
}

func TestOpenCallsLauncher(t *testing.T) {
	urls := make(chan string, 1)
	opener := NewWithFunc(func(url string) error {
		urls <- url
		return nil
	}, nil)

	waitDone(t, opener.Open("http://localhost:8000"))

	require.Len(t, urls, 1)
	assert.Equal(t, "http://localhost:8000", <-urls)
}

func TestOpenSwallowsError(t *testing.T) {
	var buf bytes.Buffer
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(&buf),
		zapcore.DebugLevel,
	)

	opener := NewWithFunc(func(string) error {
		return errors.New("no browser available")
	}, zap.New(core))

	waitDone(t, opener.Open("http://localhost:8000"))

	assert.Contains(t, buf.String(), "no browser available")
}

func TestOpenDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	opener := NewWithFunc(func(string) error {
		<-release
		return nil
	}, nil)

	start := time.Now()
	done := opener.Open("http://localhost:8000")
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	close(release)
	waitDone(t, done)
}
