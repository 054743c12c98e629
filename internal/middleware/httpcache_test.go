package middleware

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCacheExemptPath(t *testing.T) {
	patterns := []string{"/api/v1/feed", "/api/v1/owner/*", ""}

	assert.True(t, cacheExemptPath("/api/v1/feed", patterns))
	assert.True(t, cacheExemptPath("/api/v1/owner/comments", patterns))
	assert.True(t, cacheExemptPath("/api/v1/owner/", patterns))
	assert.False(t, cacheExemptPath("/api/v1/feed/extra", patterns))
	assert.False(t, cacheExemptPath("/api/v1/comments", patterns))
	assert.False(t, cacheExemptPath("/api/v1/comments", nil))
}

func TestBodyRecorderCapsOversizedBodies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(resp)
	rec := &bodyRecorder{ResponseWriter: c.Writer}

	n, err := rec.Write([]byte("hello "))
	assert.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "hello ", rec.buf.String())

	// An oversized chunk still reaches the client but empties the
	// buffer so the response is never cached truncated.
	big := bytes.Repeat([]byte("x"), httpCacheBodyLimit)
	_, err = rec.Write(big)
	assert.NoError(t, err)
	assert.Zero(t, rec.buf.Len())
	assert.Equal(t, 6+len(big), resp.Body.Len())
}
