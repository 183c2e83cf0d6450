package utils

import (
	"testing"
	"time"

	"thinkboard/model"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	assert.Equal(t, 90*time.Second, GetEnvAsDuration("TEST_DURATION", time.Second))

	t.Setenv("TEST_DURATION", "60")
	assert.Equal(t, time.Minute, GetEnvAsDuration("TEST_DURATION", time.Second))

	t.Setenv("TEST_DURATION", "soon")
	assert.Equal(t, time.Second, GetEnvAsDuration("TEST_DURATION", time.Second))
}

func TestBlankValuesUseDefault(t *testing.T) {
	t.Setenv("TEST_VALUE", "  ")
	assert.Equal(t, "fallback", GetEnvAsString("TEST_VALUE", "fallback"))
	assert.Equal(t, 7, GetEnvAsInt("TEST_VALUE", 7))
	assert.True(t, GetEnvAsBool("TEST_VALUE", true))
}

func TestValidateNote(t *testing.T) {
	assert.NoError(t, ValidateNote(&model.Note{Title: "t", Content: " "}))

	err := ValidateNote(&model.Note{})
	assert.EqualError(t, err, "note validation failed: title, content is required")
}
