package orders

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNumberGenerator_Format(t *testing.T) {
	g := &NumberGenerator{
		Now:  func() time.Time { return time.Date(2025, 3, 7, 9, 5, 59, 0, time.UTC) },
		Intn: func(int) int { return 0 },
	}
	assert.Equal(t, "ORD202503070905100", g.Next())

	g.Intn = func(n int) int { return n - 1 }
	assert.Equal(t, "ORD202503070905999", g.Next())
}

func TestNumberGenerator_Default(t *testing.T) {
	re := regexp.MustCompile(`^ORD\d{12}[1-9]\d{2}$`)
	g := NewNumberGenerator()
	for range 50 {
		assert.Regexp(t, re, g.Next())
	}
}
