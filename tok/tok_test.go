package tok

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOpts() Options {
	return Options{
		Whitespace: map[byte]bool{' ': true, '\n': true, '\t': true},
		Delimiters: []string{":", ",", "=", "->", "*", "[", "]", "(", ")"},
		Reserved:   map[string]bool{"$ret": true, "$jump": true},
	}
}

func TestBasicSplitting(t *testing.T) {
	tk := New("x:int = $ret 0", testOpts())

	assert.Equal(t, "x", tk.ConsumeToken())
	tk.Consume(":")
	assert.Equal(t, "int", tk.ConsumeToken())
	tk.Consume("=")
	assert.True(t, tk.IsNextReserved())
	assert.Equal(t, "$ret", tk.ConsumeRaw())
	assert.Equal(t, "0", tk.ConsumeRaw())
	assert.True(t, tk.EndOfInput())
}

func TestLongestDelimiterWins(t *testing.T) {
	tk := New("a->b", testOpts())
	assert.Equal(t, "a", tk.ConsumeToken())
	tk.Consume("->")
	assert.Equal(t, "b", tk.ConsumeToken())
}

func TestConsumeTokenRejectsReservedAndDelimiters(t *testing.T) {
	tk := New("$ret", testOpts())
	assert.Panics(t, func() { tk.ConsumeToken() })

	tk2 := New(":", testOpts())
	assert.Panics(t, func() { tk2.ConsumeToken() })
}

func TestConsumeMismatchPanics(t *testing.T) {
	tk := New("a", testOpts())
	assert.Panics(t, func() { tk.Consume("b") })
}

func TestPeekAheadSkipsInvisibleNewlines(t *testing.T) {
	tk := New("a\n\nb", testOpts())
	assert.Equal(t, "a", tk.PeekAhead(0))
	assert.Equal(t, "b", tk.PeekAhead(1))
}

func TestLineTracking(t *testing.T) {
	tk := New("a\nb\nc", testOpts())
	assert.Equal(t, "a", tk.ConsumeToken())
	assert.Equal(t, "b", tk.ConsumeToken())
	assert.Equal(t, 3, tk.Line())
	assert.Equal(t, "c", tk.ConsumeToken())
}

func TestRawRegion(t *testing.T) {
	opts := testOpts()
	opts.RawLeft = "<<"
	opts.RawRight = ">>"

	tk := New("a << raw text here >> b", opts)
	assert.Equal(t, "a", tk.ConsumeToken())
	tk.Consume("<<")
	assert.Equal(t, " raw text here ", tk.ConsumeRaw())
	tk.Consume(">>")
	assert.Equal(t, "b", tk.ConsumeToken())
}

func TestUnmatchedRawDelimiterPanics(t *testing.T) {
	opts := testOpts()
	opts.RawLeft = "<<"
	opts.RawRight = ">>"

	require.Panics(t, func() { New("a << unterminated", opts) })
}

func TestPutBack(t *testing.T) {
	tk := New("a b", testOpts())
	first := tk.ConsumeToken()
	tk.PutBack(first)
	assert.Equal(t, "a", tk.ConsumeToken())
	assert.Equal(t, "b", tk.ConsumeToken())
}

func TestConsumeChar(t *testing.T) {
	tk := New("abc", testOpts())
	assert.Equal(t, byte('a'), tk.ConsumeChar())
	assert.Equal(t, byte('b'), tk.ConsumeChar())
	assert.Equal(t, byte('c'), tk.ConsumeChar())
	assert.True(t, tk.EndOfInput())
}

func TestSyntaxErrorMessage(t *testing.T) {
	tk := New("a", testOpts())
	defer func() {
		r := recover()
		require.NotNil(t, r)
		se, ok := r.(*SyntaxError)
		require.True(t, ok)
		assert.Equal(t, 1, se.Line)
		assert.Contains(t, se.Error(), "Syntax error on line 1")
	}()
	tk.Consume("nope")
}
