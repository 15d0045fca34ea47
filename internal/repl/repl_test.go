package repl

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanye-lang/impl/internal/evaluator"
)

// script feeds canned lines and records prompts and history.
type script struct {
	lines   []string
	prompts []string
	history []string
}

func (s *script) Prompt(p string) (string, error) {
	s.prompts = append(s.prompts, p)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	if line == "^C" {
		return "", liner.ErrPromptAborted
	}
	return line, nil
}

func (s *script) AppendHistory(item string) { s.history = append(s.history, item) }

func runScript(lines []string, opts ...evaluator.Option) (*script, string, string) {
	in := &script{lines: lines}
	var out, errOut bytes.Buffer
	New(in, &out, &errOut, opts...).Run()
	return in, out.String(), errOut.String()
}

func TestStatePersistsBetweenInputs(t *testing.T) {
	_, out, errOut := runScript([]string{
		`bleached x be 2;`,
		`flex sq(v) { bounce v * v; }`,
		`spit sq(x + 1);`,
	})
	assert.Equal(t, "9\n\n", out)
	assert.Empty(t, errOut)
}

func TestContinuationLines(t *testing.T) {
	in, out, _ := runScript([]string{
		`flex add(a, b) {`,
		`  bounce a + b;`,
		`}`,
		`spit add(1,`,
		`2);`,
	})
	assert.Equal(t, "3\n\n", out)
	assert.Equal(t, []string{PromptMain, PromptCont, PromptCont, PromptMain, PromptCont, PromptMain}, in.prompts)
	assert.Equal(t, []string{"flex add(a, b) {   bounce a + b; }", "spit add(1, 2);"}, in.history)
}

func TestMultilineString(t *testing.T) {
	_, out, _ := runScript([]string{`spit "a`, `b";`})
	assert.Equal(t, "a\nb\n\n", out)
}

func TestErrorsDoNotEndSession(t *testing.T) {
	_, out, errOut := runScript([]string{
		`spit 1 / 0;`,
		`spit @;`,
		`spit 1 }`,
		`spit "still here";`,
	})
	assert.Equal(t, "still here\n\n", out)
	assert.Contains(t, errOut, "💥 Error: division by zero: 1 / 0")
	assert.Contains(t, errOut, "💥 Error: unexpected character at position 5: '@'")
	assert.Contains(t, errOut, "💥 Error: expected ';'")
}

func TestStrictOption(t *testing.T) {
	_, _, errOut := runScript([]string{`spit ghost;`}, evaluator.WithStrict(true))
	assert.Contains(t, errOut, "undefined variable in strict mode: ghost")
}

func TestQuit(t *testing.T) {
	in, out, _ := runScript([]string{`spit 1;`, `:quit`, `spit 2;`})
	assert.Equal(t, "1\n", out)
	assert.Equal(t, []string{"spit 2;"}, in.lines)
}

func TestUnknownCommandAndBlankInput(t *testing.T) {
	_, out, errOut := runScript([]string{``, `   `, `:help`})
	assert.Equal(t, "\n", out)
	assert.Contains(t, errOut, "unknown command")
}

func TestAbortDiscardsPendingInput(t *testing.T) {
	_, out, errOut := runScript([]string{`flex f() {`, `^C`, `spit "fresh";`})
	assert.Equal(t, "fresh\n\n", out)
	assert.Empty(t, errOut)
}

// entries keeps history lines in memory, one per line on disk.
type entries struct{ lines []string }

func (e *entries) ReadHistory(r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		e.lines = append(e.lines, sc.Text())
		n++
	}
	return n, sc.Err()
}

func (e *entries) WriteHistory(w io.Writer) (int, error) {
	for i, l := range e.lines {
		if _, err := io.WriteString(w, l+"\n"); err != nil {
			return i, err
		}
	}
	return len(e.lines), nil
}

func TestHistoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".kanye_history")

	n, err := SaveHistory(&entries{lines: []string{"spit 1;", "bleached x be 2;"}}, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "spit 1;\nbleached x be 2;\n", string(data))

	loaded := &entries{}
	n, err = LoadHistory(loaded, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"spit 1;", "bleached x be 2;"}, loaded.lines)
}

func TestSaveHistoryReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	require.NoError(t, os.WriteFile(path, []byte("old\nlines\nhere\n"), 0o600))

	_, err := SaveHistory(&entries{lines: []string{"new"}}, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))
}

func TestLoadHistoryMissingFile(t *testing.T) {
	loaded := &entries{}
	n, err := LoadHistory(loaded, filepath.Join(t.TempDir(), "none"))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, loaded.lines)
}

func TestHistoryErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := SaveHistory(&entries{}, filepath.Join(dir, "no", "such", "dir", "history"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history")

	_, err = LoadHistory(&entries{}, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history: read")
}
