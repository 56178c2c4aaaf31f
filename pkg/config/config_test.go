package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single", in: "kafka:9092", want: []string{"kafka:9092"}},
		{name: "trims and skips blanks", in: " a:1 , ,b:2,", want: []string{"a:1", "b:2"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CSV(tt.in))
		})
	}
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("CAPSHOP_TEST_STR", "value")
	t.Setenv("CAPSHOP_TEST_INT", "42")
	t.Setenv("CAPSHOP_TEST_BAD_INT", "forty")
	t.Setenv("CAPSHOP_TEST_BOOL", "true")

	assert.Equal(t, "value", EnvDefault("CAPSHOP_TEST_STR", "def"))
	assert.Equal(t, "def", EnvDefault("CAPSHOP_TEST_MISSING", "def"))
	assert.Equal(t, 42, EnvIntDefault("CAPSHOP_TEST_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("CAPSHOP_TEST_BAD_INT", 1))
	assert.True(t, EnvBoolDefault("CAPSHOP_TEST_BOOL", false))
	assert.False(t, EnvBoolDefault("CAPSHOP_TEST_MISSING", false))
}

func TestEnvDurationDefault(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{raw: "", want: time.Hour},
		{raw: "15m", want: 15 * time.Minute},
		{raw: "30d", want: 30 * 24 * time.Hour},
		{raw: "xd", want: time.Hour},
		{raw: "-5s", want: time.Hour},
		{raw: "soon", want: time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Setenv("CAPSHOP_TEST_DUR", tt.raw)
			assert.Equal(t, tt.want, EnvDurationDefault("CAPSHOP_TEST_DUR", time.Hour))
		})
	}
}

func TestMissing(t *testing.T) {
	t.Parallel()

	got := Missing(
		NonEmpty("DATABASE_URL", "postgres://x"),
		NonEmpty("SERVICE_NAME", "   "),
		NonEmptyBytes("JWT_SECRET", nil),
	)
	assert.Equal(t, []string{"SERVICE_NAME", "JWT_SECRET"}, got)
	assert.Empty(t, Missing(NonEmpty("A", "a")))
}
