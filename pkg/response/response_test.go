package response

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/sweetshop/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreated(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Created(c, "Order created successfully", map[string]string{"id": "ORD001"})

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Order created successfully", resp.Message)
	assert.Equal(t, map[string]interface{}{"id": "ORD001"}, resp.Data)
}

func TestError_BusinessError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, apperrors.New(apperrors.ErrCodeTokenConflict, "Token already in use"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Token already in use", resp.Message)
	assert.Nil(t, resp.Data)
	assert.Empty(t, c.Errors)
}

func TestError_InternalCauseIsHidden(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, stderrors.New("dial tcp 10.0.0.1:3306: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "Internal server error", resp.Message)
	assert.NotContains(t, w.Body.String(), "3306")
	assert.NotEmpty(t, c.Errors)
}
