package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_AddDays(t *testing.T) {
	tests := []struct {
		name string
		from Date
		days int
		want Date
	}{
		{"zero", NewDate(2026, 10, 15), 0, NewDate(2026, 10, 15)},
		{"month rollover", NewDate(2026, 1, 31), 1, NewDate(2026, 2, 1)},
		{"leap day", NewDate(2024, 2, 28), 1, NewDate(2024, 2, 29)},
		{"year rollover", NewDate(2025, 12, 2), 30, NewDate(2026, 1, 1)},
		{"negative", NewDate(2026, 3, 1), -1, NewDate(2026, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.AddDays(tt.days))
		})
	}
}

func TestDate_DaysUntil(t *testing.T) {
	today := NewDate(2026, 10, 15)
	assert.Equal(t, 0, today.DaysUntil(today))
	assert.Equal(t, 30, today.DaysUntil(today.AddDays(30)))
	assert.Equal(t, -3, today.DaysUntil(today.AddDays(-3)))
}

func TestToday_UsesConfiguredZone(t *testing.T) {
	// 23:30 UTC on the 15th is already the 16th in Zagreb.
	now := time.Date(2026, 10, 15, 23, 30, 0, 0, time.UTC)
	zagreb, err := time.LoadLocation("Europe/Zagreb")
	require.NoError(t, err)

	assert.Equal(t, NewDate(2026, 10, 15), Today(now, time.UTC))
	assert.Equal(t, NewDate(2026, 10, 16), Today(now, zagreb))
	assert.Equal(t, NewDate(2026, 10, 15), Today(now, nil))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, 1, 1), d)
	assert.Equal(t, "2024-01-01", d.String())

	_, err = ParseDate("01/01/2024")
	assert.Error(t, err)
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		D Date `json:"d"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2026-01-01"}`), &p))
	assert.Equal(t, NewDate(2026, 1, 1), p.D)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2026-01-01"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"d":"tomorrow"}`), &p))
}

func TestDate_Scan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, NewDate(2026, 1, 1), d)

	require.NoError(t, d.Scan("2024-02-29"))
	assert.Equal(t, NewDate(2024, 2, 29), d)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}
