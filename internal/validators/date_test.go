package validators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsDate(t *testing.T) {
	assert.True(t, IsDate("2025-07-01"))
	assert.True(t, IsDate("2000-01-01"))

	assert.False(t, IsDate(""))
	assert.False(t, IsDate("01-07-2025"))
	assert.False(t, IsDate("2025/07/01"))
	assert.False(t, IsDate("2025-7-1"))
	assert.False(t, IsDate("2025-13-01"))
	assert.False(t, IsDate("2025-02-30"))
	assert.False(t, IsDate("2025-07-01T10:00:00Z"))
}

func TestParseDateIn(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Seoul")
	assert.NoError(t, err)

	d, err := ParseDateIn("2025-07-01", loc)
	assert.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.July, d.Month())
	assert.Equal(t, 1, d.Day())
	assert.Equal(t, loc, d.Location())
}
