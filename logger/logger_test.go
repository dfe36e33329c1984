package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/sirupsen/logrus"
)

func TestFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Date(2024, 4, 1, 10, 30, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "reconciliation mismatch",
		Data: logrus.Fields{
			"period": "2024-03",
			"client": "acme",
			"check":  "vat calculated",
		},
	}

	out, err := (&Formatter{}).Format(entry)
	assert.NoError(t, err)
	assert.Equal(t, `[2024-04-01 10:30:00] [WARN] reconciliation mismatch check="vat calculated" client=acme period=2024-03`+"\n", string(out))
}

func TestNewWithWriterLevels(t *testing.T) {
	tests := []struct {
		level   string
		want    logrus.Level
		visible bool
	}{
		{"debug", logrus.DebugLevel, true},
		{"info", logrus.InfoLevel, true},
		{"warn", logrus.WarnLevel, false},
		{"nonsense", logrus.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(tt.level, &buf)
			assert.Equal(t, tt.want, log.GetLevel())

			log.WithField("client", "acme").Info("analysis complete")
			assert.Equal(t, tt.visible, bytes.Contains(buf.Bytes(), []byte("analysis complete")))
		})
	}
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mizan.log")

	log, err := New("info", path)
	assert.NoError(t, err)
	log.Info("batch started")

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] batch started")
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error("ignored")
	assert.Equal(t, logrus.PanicLevel, log.GetLevel())
}
