package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romdo/go-dom"
)

const page = `<html><head></head><body>` +
	`<ul id="menu">` +
	`<li class="item" data-id="1">Home</li>` +
	`<li class="item active" style="color: red">About</li>` +
	`</ul>` +
	`</body></html>`

func writePage(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0o600))

	return path
}

// run executes domq with args and stdin, and returns what it printed.
func run(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	verbose = false
	configPath = ""

	var out bytes.Buffer
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return out.String(), err
}

func TestQueries(t *testing.T) {
	path := writePage(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "find",
			args: []string{"find", path, "li.active"},
			want: `<li class="item active" style="color: red">About</li>` + "\n",
		},
		{
			name: "text",
			args: []string{"text", path, "#menu li"},
			want: "Home\nAbout\n",
		},
		{
			name: "attr skips elements without it",
			args: []string{"attr", path, "li", "data-id"},
			want: "1\n",
		},
		{
			name: "style",
			args: []string{"style", path, "li", "color"},
			want: "rgb(0, 0, 0)\nred\n",
		},
		{
			name: "no match",
			args: []string{"find", path, "table"},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, nil, tt.args...)
			require.NoError(t, err)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueries_stdin(t *testing.T) {
	got, err := run(t, strings.NewReader(page), "text", "-", ".active")
	require.NoError(t, err)

	assert.Equal(t, "About\n", got)
}

func TestEdits(t *testing.T) {
	path := writePage(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "set-attr",
			args: []string{"set-attr", path, "#menu", "role", "menu"},
			want: `<ul id="menu" role="menu">`,
		},
		{
			name: "add-class",
			args: []string{"add-class", path, "li", "entry"},
			want: `<li class="item entry" data-id="1">Home</li>` +
				`<li class="item active entry" style="color: red">About</li>`,
		},
		{
			name: "remove-class",
			args: []string{"remove-class", path, "li", "item"},
			want: `<li class="" data-id="1">Home</li><li class="active" style="color: red">About</li>`,
		},
		{
			name: "insert",
			args: []string{"insert", path, "#menu", "beforeend", "<li>Contact</li>"},
			want: `About</li><li>Contact</li></ul>`,
		},
		{
			name: "remove",
			args: []string{"remove", path, ".active"},
			want: `<ul id="menu"><li class="item" data-id="1">Home</li></ul>`,
		},
		{
			name: "no match prints the document unchanged",
			args: []string{"add-class", path, "table", "x"},
			want: page + "\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, nil, tt.args...)
			require.NoError(t, err)

			assert.Contains(t, got, tt.want)
		})
	}

	// Edits are printed, never written back.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, page, string(data))
}

func TestErrors(t *testing.T) {
	path := writePage(t)

	t.Run("invalid selector", func(t *testing.T) {
		_, err := run(t, nil, "find", path, "li[")
		assert.ErrorIs(t, err, dom.ErrSyntax)
	})

	t.Run("invalid position", func(t *testing.T) {
		_, err := run(t, nil, "insert", path, "li", "inside", "<b></b>")
		assert.ErrorIs(t, err, dom.ErrSyntax)
	})

	t.Run("invalid class name", func(t *testing.T) {
		_, err := run(t, nil, "add-class", path, "li", "a b")
		assert.ErrorIs(t, err, dom.ErrSyntax)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, nil, "find", filepath.Join(t.TempDir(), "none.html"), "li")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("wrong arguments", func(t *testing.T) {
		_, err := run(t, nil, "attr", path, "li")
		assert.Error(t, err)
	})
}

func TestConfigFlag(t *testing.T) {
	path := writePage(t)
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.yaml")
	require.NoError(t, os.WriteFile(valid, []byte("url: https://example.com/\nwidth: 640\n"), 0o600))
	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("width: -1\n"), 0o600))

	got, err := run(t, nil, "--config", valid, "text", path, ".active")
	require.NoError(t, err)
	assert.Equal(t, "About\n", got)

	_, err = run(t, nil, "--config", invalid, "text", path, ".active")
	assert.ErrorIs(t, err, dom.ErrInvalidConfig)

	_, err = run(t, nil, "--config", filepath.Join(dir, "none.yaml"), "text", path, ".active")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestWatch(t *testing.T) {
	path := writePage(t)
	verbose = false
	configPath = ""

	var out syncBuffer
	rootCmd.SetIn(nil)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"watch", "--debounce", "20ms", path, ".active"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- rootCmd.ExecuteContext(ctx) }()

	assert.Eventually(t, func() bool {
		return out.String() == "About\n"
	}, 2*time.Second, 10*time.Millisecond)

	// Markup changes which leave the text alone print nothing.
	unchanged := strings.Replace(page, `style="color: red"`, `style="color: blue"`, 1)
	require.NoError(t, os.WriteFile(path, []byte(unchanged), 0o600))
	time.Sleep(100 * time.Millisecond)

	changed := strings.Replace(page, "About", "Team", 1)
	require.NoError(t, os.WriteFile(path, []byte(changed), 0o600))

	assert.Eventually(t, func() bool {
		return out.String() == "About\nTeam\n"
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_stdin(t *testing.T) {
	_, err := run(t, strings.NewReader(page), "watch", "-", "li")

	assert.Error(t, err)
}
