package recipes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func doJSON(handler httprouter.Handle, body string, ps httprouter.Params) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req, ps)
	return rec
}

func TestRejectRecipeValidation(t *testing.T) {
	ps := httprouter.Params{{Key: "id", Value: "64b0c0ffee64b0c0ffee64b0"}}

	t.Run("blank reason is rejected before any lookup", func(t *testing.T) {
		rec := doJSON(RejectRecipe, `{"reason":"   "}`, ps)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"validation_error"`)
		assert.Contains(t, rec.Body.String(), "rejection reason is required")
	})

	t.Run("missing reason is rejected", func(t *testing.T) {
		rec := doJSON(RejectRecipe, `{}`, ps)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		rec := doJSON(RejectRecipe, `not json`, ps)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed id reads as not found", func(t *testing.T) {
		bad := httprouter.Params{{Key: "id", Value: "not-a-hex-id"}}
		rec := doJSON(RejectRecipe, `{"reason":"too much sugar"}`, bad)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"not_found"`)
	})
}

func TestAddCommentValidation(t *testing.T) {
	ps := httprouter.Params{{Key: "id", Value: "64b0c0ffee64b0c0ffee64b0"}}

	t.Run("blank text is rejected", func(t *testing.T) {
		rec := doJSON(AddComment, `{"text":"  ","rating":3}`, ps)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "comment text is required")
	})

	t.Run("rating above five is rejected", func(t *testing.T) {
		rec := doJSON(AddComment, `{"text":"great","rating":7}`, ps)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "rating must be an integer between 0 and 5")
	})

	t.Run("negative rating is rejected", func(t *testing.T) {
		rec := doJSON(AddComment, `{"text":"great","rating":-1}`, ps)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed id reads as not found", func(t *testing.T) {
		bad := httprouter.Params{{Key: "id", Value: "nope"}}
		rec := doJSON(AddComment, `{"text":"great","rating":4}`, bad)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestApproveRecipeMalformedID(t *testing.T) {
	ps := httprouter.Params{{Key: "id", Value: "zz"}}
	rec := doJSON(ApproveRecipe, ``, ps)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"not_found"`)
}

func TestParseIngredients(t *testing.T) {
	t.Run("json array", func(t *testing.T) {
		got := parseIngredients(`["farine de riz", "oeufs"]`)
		assert.Equal(t, []string{"farine de riz", "oeufs"}, got)
	})

	t.Run("comma separated fallback", func(t *testing.T) {
		got := parseIngredients("farine de riz, oeufs ,sucre")
		assert.Equal(t, []string{"farine de riz", "oeufs", "sucre"}, got)
	})

	t.Run("blank entries are dropped", func(t *testing.T) {
		got := parseIngredients("farine,, ,sucre")
		assert.Equal(t, []string{"farine", "sucre"}, got)
	})
}
