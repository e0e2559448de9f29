package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const settingsYAML = `
pointcuts:
  - name: getters
    names: ['Get*']
    advice: trace
  - name: shop
    patterns: ['github\.com/acme/shop\..*']
    excludes: ['.*\.Health']
    advice: audit
  - name: slow
    expression: 'Method.HasContext && Method.ReturnsError'
    advice: timeout
  - name: vip
    expression: 'Args[1] == "vip"'
    dynamic: true
    advice: trace
`

func writeSettings(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"xaopctl"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestValidate(t *testing.T) {
	path := writeSettings(t, "aop.yaml", settingsYAML)
	code, out, _ := runCLI("validate", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "ok (4 pointcuts)")

	bad := writeSettings(t, "bad.yaml", "pointcuts:\n  - name: x\n")
	code, _, errOut := runCLI("validate", bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid settings")

	code, _, errOut = runCLI("validate")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "参数错误")

	code, _, _ = runCLI("validate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, 1, code)
}

func TestMatch(t *testing.T) {
	path := writeSettings(t, "aop.yaml", settingsYAML)

	code, out, _ := runCLI("match", "-c", path, "-t", "github.com/acme/shop.OrderService", "-m", "GetOrder",
		"--context", "--error", "--num-in", "2", "--num-out", "2")
	assert.Equal(t, 0, code)
	assert.Regexp(t, `getters\s+trace\s+yes`, out)
	assert.Regexp(t, `shop\s+audit\s+yes`, out)
	assert.Regexp(t, `slow\s+timeout\s+yes`, out)
	assert.Regexp(t, `vip\s+trace\s+at call time`, out)

	code, out, _ = runCLI("match", "-c", path, "-t", "github.com/acme/shop.OrderService", "-m", "Health")
	assert.Equal(t, 0, code)
	assert.Regexp(t, `shop\s+audit\s+no`, out)
	assert.Regexp(t, `slow\s+timeout\s+no`, out)
}

func TestMatch_NoHit(t *testing.T) {
	path := writeSettings(t, "aop.json", `{"pointcuts":[{"name":"getters","names":["Get*"],"advice":"trace"}]}`)
	code, out, _ := runCLI("match", "--config", path, "--type", "example.com/inv.Stock", "--method", "Reserve")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "no pointcut matches example.com/inv.Stock.Reserve")
}

func TestMatch_UsageErrors(t *testing.T) {
	code, _, errOut := runCLI("match", "--type", "x.T")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "--config")

	code, _, _ = runCLI("match", "--bogus")
	assert.Equal(t, 2, code)
}

func TestSplitTypeName(t *testing.T) {
	tests := []struct {
		in, pkg, name string
	}{
		{"github.com/acme/shop.OrderService", "github.com/acme/shop", "OrderService"},
		{"*github.com/acme/shop.OrderService", "github.com/acme/shop", "OrderService"},
		{"main.Server", "main", "Server"},
		{"Server", "", "Server"},
		{"gopkg.in/yaml.v3/x", "", "gopkg.in/yaml.v3/x"},
	}
	for _, tt := range tests {
		pkg, name := splitTypeName(tt.in)
		assert.Equal(t, tt.pkg, pkg, tt.in)
		assert.Equal(t, tt.name, name, tt.in)
	}
}
