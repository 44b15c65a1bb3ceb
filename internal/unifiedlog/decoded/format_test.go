package decoded

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/aul2madb/internal/unifiedlog"
)

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name   string
		format string
		args   []string
		want   string
	}{
		{"plain", "no specifiers", nil, "no specifiers"},
		{"single", "hello %s", []string{"world"}, "hello world"},
		{"annotated", "pid %{public}d exited", []string{"12"}, "pid 12 exited"},
		{"private", "user %{private}@", []string{"<private>"}, "user <private>"},
		{"width and length", "%08llx|%-5.2f", []string{"ff", "1.5"}, "ff|1.5"},
		{"percent literal", "100%% done", nil, "100% done"},
		{"missing argument", "%s and %s", []string{"one"}, "one and <decode: missing data>"},
		{"extra arguments", "%s", []string{"a", "b"}, "a"},
		{"dangling", "trailing %", nil, "trailing %"},
		{"unterminated annotation", "bad %{public", []string{"x"}, "bad %{public"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMessage(tt.format, tt.args))
		})
	}
}

func TestWallTime_NoBoot(t *testing.T) {
	got := wallTime(nil, 1500)
	assert.Equal(t, time.Unix(0, 1500).UTC(), got)
}

func TestWallTime_ClosestPrecedingRecord(t *testing.T) {
	boot := &unifiedlog.TimesyncBoot{
		TimebaseNumerator:   125,
		TimebaseDenominator: 3,
		Records: []unifiedlog.TimesyncRecord{
			{ContinuousTime: 0, WallTime: 1_000_000_000},
			{ContinuousTime: 3000, WallTime: 5_000_000_000},
		},
	}

	// 300 ticks after the first record: 300 * 125 / 3 = 12500ns.
	assert.Equal(t, time.Unix(0, 1_000_012_500).UTC(), wallTime(boot, 300))
	// At and after the second record the second one is used.
	assert.Equal(t, time.Unix(0, 5_000_000_000).UTC(), wallTime(boot, 3000))
	assert.Equal(t, time.Unix(0, 5_000_000_125).UTC(), wallTime(boot, 3003))
}

func TestWallTime_BeforeFirstRecord(t *testing.T) {
	boot := &unifiedlog.TimesyncBoot{
		TimebaseNumerator:   1,
		TimebaseDenominator: 1,
		Records:             []unifiedlog.TimesyncRecord{{ContinuousTime: 100, WallTime: 1_000}},
	}
	assert.Equal(t, time.Unix(0, 950).UTC(), wallTime(boot, 50))
}

func TestWallTime_ZeroTimebase(t *testing.T) {
	boot := &unifiedlog.TimesyncBoot{
		Records: []unifiedlog.TimesyncRecord{{ContinuousTime: 0, WallTime: 0}},
	}
	assert.Equal(t, time.Unix(0, 77).UTC(), wallTime(boot, 77))
}
