package logging

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARNING")
	require.NoError(t, err)
	require.Equal(t, zerolog.WarnLevel, level)

	_, err = ParseLevel("loud")
	require.Error(t, err)
	require.False(t, ValidLevel("loud"))
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.InfoLevel, true)

	logger.Debug().Msg("hidden")
	logger.Info().Str("dep", "fmt").Msg("cloning")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "cloning")
	require.Contains(t, out, "dep=fmt")
}

func TestNew_LeavesStackMarshalerAlone(t *testing.T) {
	require.NotNil(t, zerolog.ErrorStackMarshaler)

	original := zerolog.ErrorStackMarshaler
	defer func() { zerolog.ErrorStackMarshaler = original }()

	custom := func(err error) interface{} { return "custom" }
	zerolog.ErrorStackMarshaler = custom

	_ = New(&bytes.Buffer{}, zerolog.InfoLevel, true)
	_ = New(&bytes.Buffer{}, zerolog.DebugLevel, false)

	require.Equal(t, reflect.ValueOf(custom).Pointer(), reflect.ValueOf(zerolog.ErrorStackMarshaler).Pointer())
}
