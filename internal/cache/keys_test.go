package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	assert.Equal(t,
		"placementquiz:quiz:questions:web-development",
		GenerateCacheKey("quiz", "questions", "web-development"))

	assert.Equal(t,
		"placementquiz:quiz:questions:algorithms:v1_full",
		GenerateCacheKey("quiz", "questions", "algorithms", "v1", "full"))
}
