package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/processhub-backend/internal/platform/apierr"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
)

func run(t *testing.T, err error) (int, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	RespondAPIError(c, logger.Nop(), err)

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestRespondAPIError(t *testing.T) {
	code, env := run(t, apierr.InvalidInput("Invalid JSON input"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid JSON input", env.Error.Message)
	assert.Equal(t, apierr.CodeInvalidInput, env.Error.Code)

	code, env = run(t, apierr.NotFound())
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, apierr.CodeNotFound, env.Error.Code)

	code, env = run(t, errors.New("pq: connection refused to 10.0.0.3"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", env.Error.Message)
	assert.Equal(t, apierr.CodeInternal, env.Error.Code)
}
