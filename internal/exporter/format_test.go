package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "13.40", formatFloat(13.4))
	assert.Equal(t, "0.00", formatFloat(0))
	assert.Equal(t, "66.67", formatFloat(66.666666), "rounds to two decimals")
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "0", formatInt(0))
	assert.Equal(t, "-3", formatInt(-3))
	assert.Equal(t, "41234", formatInt(41234))
}

func TestFormatBool(t *testing.T) {
	assert.Equal(t, "true", formatBool(true))
	assert.Equal(t, "false", formatBool(false))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "", formatDate(time.Time{}))
	assert.Equal(t, "2024-03-10", formatDate(time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)))
}
