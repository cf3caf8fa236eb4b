package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_Levels(t *testing.T) {
	testCases := []struct {
		level         string
		expectedLevel zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			log := New(Config{Level: tc.level, Output: &bytes.Buffer{}})
			assert.Equal(t, tc.expectedLevel, log.GetLevel())
		})
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Output: &buf})

	log.Debug().Msg("hidden")
	log.Info().Str("class", "STOCK").Msg("Snapshot saved")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"Snapshot saved"`)
	assert.Contains(t, out, `"class":"STOCK"`)
	assert.Contains(t, out, `"service":"wealthlog"`)
}

func TestNew_PrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Pretty: true, Output: &buf})

	log.Info().Msg("Scheduler started")

	assert.Contains(t, buf.String(), "Scheduler started")
	assert.NotContains(t, buf.String(), `"message"`)
}
