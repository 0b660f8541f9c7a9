package trl

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func day(s string) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAchievedAt(t *testing.T) {
	full := Milestones{TRL3: ptr("2024-01-01"), TRL6: ptr("2024-06-01"), TRL9: ptr("2025-01-01")}

	tests := []struct {
		name       string
		milestones Milestones
		at         string
		expected   Level
	}{
		{name: "before any milestone", milestones: full, at: "2023-01-01", expected: NotStarted},
		{name: "between trl3 and trl6", milestones: full, at: "2024-03-01", expected: TRL3},
		{name: "trl6 boundary is inclusive", milestones: full, at: "2024-06-01", expected: TRL6},
		{name: "after trl9", milestones: full, at: "2025-06-01", expected: TRL9},
		{name: "trl3 boundary", milestones: full, at: "2024-01-01", expected: TRL3},
		{name: "no milestones", milestones: Milestones{}, at: "2030-01-01", expected: NotStarted},
		{name: "empty strings are absent", milestones: Milestones{TRL3: ptr(""), TRL6: ptr("  ")}, at: "2030-01-01", expected: NotStarted},
		{name: "only trl6 set", milestones: Milestones{TRL6: ptr("2024-06-01")}, at: "2024-07-01", expected: TRL6},
		{
			name:       "out of order dates evaluate highest first",
			milestones: Milestones{TRL3: ptr("2024-09-01"), TRL6: ptr("2024-02-01")},
			at:         "2024-03-01",
			expected:   TRL6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := AchievedAt(tt.milestones, day(tt.at))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}

	t.Run("time of day is ignored", func(t *testing.T) {
		at := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
		level, err := AchievedAt(full, at)
		require.NoError(t, err)
		assert.Equal(t, TRL6, level)
	})

	t.Run("missing query date", func(t *testing.T) {
		_, err := AchievedAt(full, time.Time{})
		assert.ErrorIs(t, err, ErrMissingQueryDate)
	})

	t.Run("malformed milestone is treated as absent", func(t *testing.T) {
		m := Milestones{TRL3: ptr("2024-01-01"), TRL6: ptr("June 2024"), TRL9: ptr("2025-01-01")}
		level, err := AchievedAt(m, day("2024-07-01"))

		assert.Equal(t, TRL3, level)
		var milestoneErr *MilestoneError
		require.True(t, errors.As(err, &milestoneErr))
		assert.Equal(t, map[Level]string{TRL6: "June 2024"}, milestoneErr.Invalid)
		assert.Contains(t, err.Error(), "TRL 6")
	})
}

func TestDateFor(t *testing.T) {
	m := Milestones{TRL3: ptr("2024-01-01"), TRL6: ptr("2024-06-01")}

	date, ok, err := DateFor(m, TRL6)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2024-06-01", date)

	_, ok, err = DateFor(m, TRL9)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = DateFor(m, NotStarted)
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestParseLevel(t *testing.T) {
	for input, expected := range map[string]Level{
		"TRL 3": TRL3,
		"TRL6":  TRL6,
		"trl-9": TRL9,
		" 6 ":   TRL6,
	} {
		level, err := ParseLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, level, input)
	}

	for _, input := range []string{"", "TRL 4", "Not Started", "nine"} {
		_, err := ParseLevel(input)
		assert.ErrorIs(t, err, ErrInvalidLevel, input)
	}
}

func TestLevelText(t *testing.T) {
	assert.Equal(t, "Not Started", NotStarted.String())
	assert.Equal(t, "TRL 9", TRL9.String())

	var level Level
	require.NoError(t, level.UnmarshalText([]byte("Not Started")))
	assert.Equal(t, NotStarted, level)
	require.NoError(t, level.UnmarshalText([]byte("TRL 6")))
	assert.Equal(t, TRL6, level)
	assert.Error(t, level.UnmarshalText([]byte("TRL 7")))
}

func TestCheckOrder(t *testing.T) {
	assert.Empty(t, CheckOrder(Milestones{TRL3: ptr("2024-01-01"), TRL6: ptr("2024-06-01"), TRL9: ptr("2025-01-01")}))
	assert.Empty(t, CheckOrder(Milestones{TRL3: ptr("2024-01-01"), TRL6: ptr("bad")}))

	warnings := CheckOrder(Milestones{TRL3: ptr("2024-06-01"), TRL6: ptr("2024-01-01")})
	require.Len(t, warnings, 1)
	assert.Equal(t, "TRL 6 date 2024-01-01 is before TRL 3 date 2024-06-01", warnings[0])
}

func TestValid(t *testing.T) {
	dated := Valid(Milestones{TRL3: ptr("2024-01-01"), TRL6: ptr("soon"), TRL9: ptr("2025-01-01")})
	require.Len(t, dated, 2)
	assert.Equal(t, TRL3, dated[0].Level)
	assert.Equal(t, TRL9, dated[1].Level)
}
