package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func TestInit_JSON(t *testing.T) {
	t.Cleanup(func() {
		viper.Reset()
		InitDefault()
	})
	viper.Set(LevelKey, "warn")
	viper.Set(FormatKey, "json")

	var buf bytes.Buffer
	Init(&buf)

	log.Info().Msg("hidden")
	log.Warn().Str("k", "v").Msg("shown")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected a single json line, got %q: %v", buf.String(), err)
	}
	if line["message"] != "shown" || line["k"] != "v" {
		t.Errorf("unexpected log line: %v", line)
	}
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("global level = %s, want warn", zerolog.GlobalLevel())
	}
}

func TestInit_InvalidLevelFallsBack(t *testing.T) {
	t.Cleanup(func() {
		viper.Reset()
		InitDefault()
	})
	viper.Set(LevelKey, "chatty")

	var buf bytes.Buffer
	Init(&buf)

	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("global level = %s, want info", zerolog.GlobalLevel())
	}
}
