package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_EmptyTextIsUnknown(t *testing.T) {
	assert.Equal(t, Unknown, Classify(""))
}

func TestClassify_EnglishText(t *testing.T) {
	tag := Classify("The quick brown fox jumps over the lazy dog near the river bank.")
	assert.NotEqual(t, Unknown, tag)
}

func TestClassify_NeverPanics(t *testing.T) {
	assert.NotPanics(t, func() {
		Classify("\x00\x01\xff garbage bytes \xfe")
	})
}
