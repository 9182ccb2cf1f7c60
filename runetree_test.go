package timex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuneTreeContains(t *testing.T) {
	tree := NewRuneTree()
	for _, word := range []string{"tomorrow", "to", "today", "明天"} {
		tree.Insert(word)
	}
	assert.True(t, tree.Contains("to"))
	assert.True(t, tree.Contains("today"))
	assert.True(t, tree.Contains("明天"))
	assert.False(t, tree.Contains("tom"))
	assert.False(t, tree.Contains("明"))
	assert.False(t, tree.Contains("tomorrows"))
	assert.False(t, tree.Contains(""))
}

func TestRuneTreeManyChildren(t *testing.T) {
	tree := NewRuneTree()
	letters := "abcdefghijklmnop"
	for _, r := range letters {
		tree.Insert("x" + string(r))
	}
	for _, r := range letters {
		assert.True(t, tree.Contains("x"+string(r)))
	}
	assert.False(t, tree.Contains("xz"))
}

func TestRuneTreeRewrite(t *testing.T) {
	tree := NewRuneTree()
	tree.InsertReplacements(map[string]string{
		"a.m":  "am",
		"a.m.": "am",
		"n't":  " not",
	})
	assert.Equal(t, "9 am today", tree.Rewrite("9 a.m. today"))
	assert.Equal(t, "9 am", tree.Rewrite("9 a.m"))
	assert.Equal(t, "do not", tree.Rewrite("don't"))
	assert.Equal(t, "a.b", tree.Rewrite("a.b"))
}

func TestRuneTreeString(t *testing.T) {
	tree := NewRuneTree()
	tree.Insert("ab")
	tree.Insert("ac")
	s := tree.String()
	assert.Contains(t, s, "b")
	assert.Contains(t, s, "c")
}
