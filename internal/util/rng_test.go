package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_SameSeedSameStream(t *testing.T) {
	a, b := New(12345), New(12345)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Int63(), b.Int63())
	}
}

func TestResolveSeed(t *testing.T) {
	assert.EqualValues(t, 7, ResolveSeed(7))
	assert.NotZero(t, ResolveSeed(0))
}
