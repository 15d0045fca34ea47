package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestGreeting(t *testing.T) {
	code, out, errOut := runCLI()
	assert.Equal(t, 0, code)
	assert.Equal(t, "Helo kaney v1.0.0 👋\n", out)
	assert.Empty(t, errOut)
}

func TestRunFile(t *testing.T) {
	path := writeFile(t, "loop.kl", `yeezy {
    repeat 3 times be i { spit i; }
}
`)
	code, out, _ := runCLI(path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestEvalAndStrict(t *testing.T) {
	code, out, _ := runCLI("--eval", `yeezy { spit ghost; }`)
	assert.Equal(t, 0, code)
	assert.Equal(t, "null\n", out)

	code, _, errOut := runCLI("--strict", "--eval", `yeezy { spit ghost; }`)
	assert.Equal(t, 1, code)
	assert.Equal(t, "💥 Error: undefined variable in strict mode: ghost\n", errOut)
}

func TestConfigFile(t *testing.T) {
	cfg := writeFile(t, "kanye.yaml", "strict: true\n")
	code, _, errOut := runCLI("--config", cfg, "--eval", `yeezy { spit ghost; }`)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "undefined variable in strict mode")

	bad := writeFile(t, "bad.yaml", "loud: true\n")
	code, _, errOut = runCLI("--config", bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "field loud not found")
}

func TestErrorsCarryLineAndColumn(t *testing.T) {
	path := writeFile(t, "bad.kl", "yeezy {\n  spit @;\n}\n")
	code, out, errOut := runCLI(path)
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Equal(t, "💥 Error: unexpected character at position 15: '@' (line 2, column 8)\n", errOut)
}

func TestRuntimeErrorKeepsEarlierOutput(t *testing.T) {
	code, out, errOut := runCLI("--eval", `yeezy { spit 1; spit 1 / 0; }`)
	assert.Equal(t, 1, code)
	assert.Equal(t, "1\n", out)
	assert.Equal(t, "💥 Error: division by zero: 1 / 0\n", errOut)
}

func TestTokens(t *testing.T) {
	path := writeFile(t, "t.kl", `yeezy { spit "<hi>"; }`)
	code, out, _ := runCLI("tokens", path)
	require.Equal(t, 0, code)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, `{"type":"KEYWORD","value":"yeezy","pos":0}`, lines[0])
	assert.Equal(t, `{"type":"STRING","value":"<hi>","pos":13}`, lines[3])
	assert.Equal(t, `{"type":"EOF","value":"","pos":22}`, lines[6])
}

func TestAST(t *testing.T) {
	path := writeFile(t, "a.kl", `yeezy { bleached x be 1; }`)
	code, out, _ := runCLI("ast", path)
	require.Equal(t, 0, code)

	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	assert.Equal(t, "Program", tree["type"])
	assert.Contains(t, out, "\n  ")
}

func TestFmt(t *testing.T) {
	path := writeFile(t, "f.kl", `yeezy{spit   1+2;}`)
	code, out, _ := runCLI("fmt", path)
	require.Equal(t, 0, code)
	assert.Equal(t, "yeezy {\n    spit 1 + 2;\n}\n", out)
}

func TestArgumentErrors(t *testing.T) {
	cases := [][]string{
		{"--eval"},
		{"--nope"},
		{"tokens"},
		{"a.kl", "b.kl"},
	}
	for _, args := range cases {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			code, _, errOut := runCLI(args...)
			assert.Equal(t, 1, code)
			assert.True(t, strings.HasPrefix(errOut, "💥 Error: "))
			assert.Contains(t, errOut, "Usage: kanye")
		})
	}

	code, _, errOut := runCLI(filepath.Join(t.TempDir(), "missing.kl"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "read ")
}

func TestHelpAndVersion(t *testing.T) {
	code, out, _ := runCLI("--version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "v1.0.0\n", out)

	code, out, _ = runCLI("--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "kanye repl")
}

func TestDebugLogsCarryRunID(t *testing.T) {
	code, _, errOut := runCLI("--debug", "--eval", `yeezy { flex f() { bounce 1; } spit f(); }`)
	assert.Equal(t, 0, code)
	assert.Contains(t, errOut, "\tkanye\tcall\t")
	assert.Regexp(t, `"run": ?"[0-9a-f-]{36}"`, errOut)
	assert.Contains(t, errOut, `"function": "f"`)
}

func TestNoLogsWithoutDebug(t *testing.T) {
	code, _, errOut := runCLI("--eval", `yeezy { flex f() { bounce 1; } spit f(); }`)
	assert.Equal(t, 0, code)
	assert.Empty(t, errOut)
}

func TestEvalUnquoting(t *testing.T) {
	cases := []struct {
		name string
		code string
		want string
	}{
		{"escaped double quotes", `yeezy { spit \"hi\"; }`, "hi\n"},
		{"wrapping single quotes", `'yeezy { spit 2; }'`, "2\n"},
		{"both", `'yeezy { spit \"a\" + 1; }'`, "a1\n"},
		{"inner quote kept", `yeezy { spit "it's"; }`, "it's\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, out, errOut := runCLI("--eval", tc.code)
			require.Equal(t, 0, code, errOut)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestDumpFlagsThenRun(t *testing.T) {
	code, out, _ := runCLI("--tokens", "--eval", `yeezy { spit 7; }`)
	require.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, `{"type":"KEYWORD","value":"yeezy","pos":0}`, lines[0])
	assert.Equal(t, `{"type":"EOF","value":"","pos":17}`, lines[6])
	assert.Equal(t, "7", lines[7])

	code, out, _ = runCLI("--ast", "--eval", `yeezy { spit 7; }`)
	require.Equal(t, 0, code)
	require.True(t, strings.HasSuffix(out, "}\n7\n"))
	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSuffix(out, "7\n")), &tree))
	assert.Equal(t, "Program", tree["type"])
}
