package api

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartUpload(t *testing.T, client *http.Client, target, filename string) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("file contents"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, target, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestUpload(t *testing.T) {
	store := &fakeUploadStore{}
	ts := newTestServer(t, store)

	client := newClient(t)
	signup(t, client, ts.URL, "uploader@example.com")

	t.Run("anonymous upload is rejected", func(t *testing.T) {
		status, _ := multipartUpload(t, newClient(t), ts.URL+"/upload", "shot.png")
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("stored file comes back as a url with a sanitized key", func(t *testing.T) {
		status, body := multipartUpload(t, client, ts.URL+"/upload", "demo shot.png")
		require.Equal(t, http.StatusOK, status, "upload failed: %s", body)

		url, _ := decodeMap(t, body)["url"].(string)
		assert.Contains(t, url, "demo-shot.png")
		assert.Contains(t, store.lastKey, "demo-shot.png")
		assert.NotContains(t, store.lastKey, " ")
		assert.NotContains(t, store.lastKey, "/")
	})

	t.Run("missing file part is a bad request", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/upload", bytes.NewReader(nil))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "multipart/form-data; boundary=empty")

		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUploadStoreFailure(t *testing.T) {
	store := &fakeUploadStore{fail: true}
	ts := newTestServer(t, store)

	client := newClient(t)
	signup(t, client, ts.URL, "uploader@example.com")

	status, body := multipartUpload(t, client, ts.URL+"/upload", "shot.png")
	assert.Equal(t, http.StatusInternalServerError, status)

	// the storage cause stays in the log, never in the response
	assert.NotContains(t, string(body), "store offline")
	assert.Contains(t, string(body), "Internal Server Error")
}

func TestUploadWithoutStore(t *testing.T) {
	ts := newTestServer(t, nil)

	client := newClient(t)
	signup(t, client, ts.URL, "uploader@example.com")

	status, _ := multipartUpload(t, client, ts.URL+"/upload", "shot.png")
	assert.Equal(t, http.StatusInternalServerError, status)
}
