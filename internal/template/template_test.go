package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	require.NoError(t, err)
	return parsed
}

func TestExpand_WeeklyOccurrences(t *testing.T) {
	t.Parallel()

	// March 2026: Tuesdays fall on the 3rd, 10th, 17th, 24th and 31st.
	dates, err := Expand(time.Tuesday, date(t, "2026-03-01"), date(t, "2026-03-31"))
	require.NoError(t, err)
	require.Len(t, dates, 5)
	assert.Equal(t, "2026-03-03", dates[0].Format("2006-01-02"))
	assert.Equal(t, "2026-03-31", dates[4].Format("2006-01-02"))
	for _, d := range dates {
		assert.Equal(t, time.Tuesday, d.Weekday())
	}
}

func TestExpand_InclusiveBounds(t *testing.T) {
	t.Parallel()

	day := date(t, "2026-03-03") // a Tuesday
	dates, err := Expand(time.Tuesday, day, day)
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, day, dates[0])
}

func TestExpand_NoOccurrenceInWindow(t *testing.T) {
	t.Parallel()

	// Wednesday through Friday contains no Tuesday.
	dates, err := Expand(time.Tuesday, date(t, "2026-03-04"), date(t, "2026-03-06"))
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestExpand_InvertedRange(t *testing.T) {
	t.Parallel()

	_, err := Expand(time.Monday, date(t, "2026-03-10"), date(t, "2026-03-01"))
	assert.ErrorIs(t, err, ErrInvalidRange)
}
