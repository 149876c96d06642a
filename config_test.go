package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name       string
		yaml       string
		wantURL    string
		wantWidth  int
		wantHeight int
	}{
		{
			name:       "empty",
			yaml:       "",
			wantURL:    "about:blank",
			wantWidth:  1024,
			wantHeight: 768,
		},
		{
			name:       "partial",
			yaml:       "width: 375\n",
			wantURL:    "about:blank",
			wantWidth:  375,
			wantHeight: 768,
		},
		{
			name:       "full",
			yaml:       "url: https://example.com/app\nwidth: 1280\nheight: 720\n",
			wantURL:    "https://example.com/app",
			wantWidth:  1280,
			wantHeight: 720,
		},
		{
			name:       "zero size",
			yaml:       "width: 0\nheight: 0\n",
			wantURL:    "about:blank",
			wantWidth:  0,
			wantHeight: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadConfig([]byte(tt.yaml))
			require.NoError(t, err)

			assert.Equal(t, tt.wantURL, *c.URL)
			assert.Equal(t, tt.wantWidth, *c.Width)
			assert.Equal(t, tt.wantHeight, *c.Height)
		})
	}
}

func TestLoadConfig_invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "not yaml", yaml: "url: [unclosed"},
		{name: "not a map", yaml: "- a\n- b\n"},
		{name: "wrong type", yaml: "width: wide\n"},
		{name: "negative width", yaml: "width: -1\n"},
		{name: "negative height", yaml: "height: -20\n"},
		{name: "relative url", yaml: "url: /relative/path\n"},
		{name: "bad url", yaml: "url: \"http://[::1\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadConfig([]byte(tt.yaml))

			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Nil(t, c)
		})
	}
}

func TestWithConfig(t *testing.T) {
	c, err := LoadConfig([]byte("url: https://example.com/start\nheight: 900\n"))
	require.NoError(t, err)

	doc := New(WithConfig(c))
	w := doc.Window()

	assert.Equal(t, "https://example.com/start", GetURL(w, false))
	assert.Equal(t, []string{"https://example.com/start"}, w.History())
	assert.Equal(t, 1024, GetWindowWidth(w))
	assert.Equal(t, 900, GetWindowHeight(w))
}

func TestDefaultConfig(t *testing.T) {
	w := New().Window()

	assert.Equal(t, "about:blank", GetURL(w, false))
	assert.Equal(t, 1024, GetWindowWidth(w))
	assert.Equal(t, 768, GetWindowHeight(w))
	assert.NoError(t, DefaultConfig().Validate())
}
