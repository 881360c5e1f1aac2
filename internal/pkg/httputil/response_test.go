package httputil

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_RenderSuccess(t *testing.T) {
	rec := httptest.NewRecorder()

	Success(http.StatusCreated, map[string]any{"id": 1}).Render(rec)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "{\"id\":1}\n", rec.Body.String())
}

func TestResult_RenderFailure(t *testing.T) {
	rec := httptest.NewRecorder()

	res := Failure[string](http.StatusNotFound, ErrorBody{
		Error:            "not_found",
		ErrorDescription: "the email isn't registered in the newsletter",
	})
	assert.False(t, res.OK())
	assert.Equal(t, http.StatusNotFound, res.Status())
	res.Render(rec)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not_found","error_description":"the email isn't registered in the newsletter"}`, rec.Body.String())
	assert.True(t, strings.HasSuffix(rec.Body.String(), "}\n"))
	assert.False(t, strings.HasSuffix(rec.Body.String(), "\n\n"))
}

func TestResult_EmptyObject(t *testing.T) {
	rec := httptest.NewRecorder()

	OK(rec, struct{}{})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "{}\n", rec.Body.String())
}

func TestResult_UnserializableBodyIsBare500(t *testing.T) {
	rec := httptest.NewRecorder()

	Success(http.StatusOK, math.Inf(1)).Render(rec)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDecode(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x.com","extra":1}`))

		var dst struct {
			Email string `json:"email"`
		}
		require.True(t, Decode(rec, req, &dst))
		assert.Equal(t, "a@x.com", dst.Email)
	})

	t.Run("malformed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))

		var dst struct{}
		assert.False(t, Decode(rec, req, &dst))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"invalid_request","error_description":"the request body is not valid JSON"}`, rec.Body.String())
	})
}
