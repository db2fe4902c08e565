package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page":
			fmt.Fprint(w, `<html><head><style>body{color:red}</style></head>
<body><script>alert(1)</script><h1>Title</h1><p>Hello world</p></body></html>`)
		case "/empty":
			fmt.Fprint(w, `<html><body><script>only()</script></body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	ctx := context.Background()

	t.Run("extracts text", func(t *testing.T) {
		text, err := WebFetch(ctx, server.URL+"/page")
		require.NoError(t, err)
		assert.Contains(t, text, "Title")
		assert.Contains(t, text, "Hello world")
		assert.NotContains(t, text, "alert")
		assert.NotContains(t, text, "color:red")
	})

	t.Run("error status", func(t *testing.T) {
		_, err := WebFetch(ctx, server.URL+"/missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status code 404")
	})

	t.Run("no text", func(t *testing.T) {
		_, err := WebFetch(ctx, server.URL+"/empty")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no text content found")
	})
}
