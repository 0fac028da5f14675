package report

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// CONVERT
// ============================================================================

func TestClient_ConvertHTML_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forms/chromium/convert/html", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(10<<20))

		file, header, err := r.FormFile("files")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "index.html", header.Filename)
		html, _ := io.ReadAll(file)
		assert.Contains(t, string(html), "Rental Contract")

		assert.Equal(t, "8.27", r.FormValue("paperWidth"))
		assert.Equal(t, "11.69", r.FormValue("paperHeight"))
		assert.Equal(t, "0.79", r.FormValue("marginTop"))
		assert.Equal(t, "0.79", r.FormValue("marginLeft"))
		assert.Equal(t, "true", r.FormValue("printBackground"))
		assert.Equal(t, "200ms", r.FormValue("waitDelay"))

		_, _ = w.Write([]byte("%PDF-1.7 mock"))
	}))
	defer srv.Close()

	client := NewClientWithHTTP(srv.URL+"/", srv.Client())
	pdf, err := client.ConvertHTML(context.Background(), "<h1>Rental Contract</h1>", PageOptions{
		PaperWidth: 8.27, PaperHeight: 11.69,
		MarginTop: 0.79, MarginBottom: 0.79, MarginLeft: 0.79, MarginRight: 0.79,
		PrintBackground: true,
		WaitDelay:       200 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 mock", string(pdf))
}

func TestClient_ConvertHTML_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("chromium busy"))
	}))
	defer srv.Close()

	_, err := NewClientWithHTTP(srv.URL, srv.Client()).ConvertHTML(context.Background(), "<p>x</p>", PageOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gotenberg response 503")
	assert.Contains(t, err.Error(), "chromium busy")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.False(t, statusErr.ClientError())
}

func TestClient_NotConfigured(t *testing.T) {
	_, err := NewClient("").ConvertHTML(context.Background(), "<p>x</p>", PageOptions{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	var nilClient *Client
	_, err = nilClient.ConvertHTML(context.Background(), "<p>x</p>", PageOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

// ============================================================================
// MERGE
// ============================================================================

func TestClient_Merge_OrdersFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forms/pdfengines/merge", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(10<<20))
		var names []string
		for _, fh := range r.MultipartForm.File["files"] {
			names = append(names, fh.Filename)
		}
		sorted := append([]string(nil), names...)
		sort.Strings(sorted)
		assert.Equal(t, []string{"001-contract.pdf", "002-attachment.pdf"}, sorted)
		_, _ = w.Write([]byte("%PDF-merged"))
	}))
	defer srv.Close()

	client := NewClientWithHTTP(srv.URL, srv.Client())
	out, err := client.Merge(context.Background(),
		File{Name: "contract.pdf", Data: []byte("%PDF-a")},
		File{Name: "attachment.pdf", Data: []byte("%PDF-b")},
	)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-merged", string(out))
}

func TestClient_Merge_RejectedInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("invalid pdf"))
	}))
	defer srv.Close()

	_, err := NewClientWithHTTP(srv.URL, srv.Client()).Merge(context.Background(),
		File{Name: "a.pdf", Data: []byte("%PDF-a")},
		File{Name: "b.pdf", Data: []byte("junk")},
	)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.True(t, statusErr.ClientError())
}

func TestClient_Merge_NeedsTwoFiles(t *testing.T) {
	_, err := NewClient("http://gotenberg").Merge(context.Background(), File{Name: "a.pdf"})
	assert.Error(t, err)
}

// ============================================================================
// PING
// ============================================================================

func TestClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"status":"up"}`))
	}))
	defer srv.Close()

	assert.NoError(t, NewClientWithHTTP(srv.URL, srv.Client()).Ping(context.Background()))
}
