package recipes

import (
	"encoding/json"
	"net/http"
	"strings"

	"sansgluten/db"
	"sansgluten/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddComment upserts the caller's comment on a recipe. A user gets one
// comment per recipe; posting again overwrites it in place. The derived
// rating fields come back recomputed.
func AddComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Text   string `json:"text"`
		Rating int    `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "comment text is required")
		return
	}
	if req.Rating < 0 || req.Rating > 5 {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "rating must be an integer between 0 and 5")
		return
	}

	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "recipe not found")
		return
	}

	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	recipe, err := findRecipe(ctx, id)
	if err == errNotFound {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "recipe not found")
		return
	}
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	authorID := utils.GetUserIDFromContext(r.Context())
	authorEmail := utils.GetEmailFromContext(r.Context())

	_, created, err := recipe.UpsertComment(authorID, authorEmail, req.Text, req.Rating)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, err.Error())
		return
	}
	if !persist(ctx, w, recipe) {
		return
	}

	invalidateListing(ctx)
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	utils.RespondWithJSON(w, status, utils.M{
		"comments":     recipe.Comments,
		"ratingsAvg":   recipe.RatingsAvg,
		"ratingsCount": recipe.RatingsCount,
	})
}

// DeleteComment removes a comment; only its author or an admin may do so.
func DeleteComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "recipe not found")
		return
	}

	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	recipe, err := findRecipe(ctx, id)
	if err == errNotFound {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "recipe not found")
		return
	}
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	commentID := ps.ByName("commentId")
	comment, err := recipe.FindComment(commentID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "comment not found")
		return
	}

	userID := utils.GetUserIDFromContext(r.Context())
	role := utils.GetRoleFromContext(r.Context())
	if !comment.CanBeDeletedBy(userID, role) {
		utils.RespondWithError(w, http.StatusForbidden, utils.KindForbidden, "not authorized to delete this comment")
		return
	}

	if _, err := recipe.DeleteComment(commentID); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "comment not found")
		return
	}
	if !persist(ctx, w, recipe) {
		return
	}

	invalidateListing(ctx)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"comments":     recipe.Comments,
		"ratingsAvg":   recipe.RatingsAvg,
		"ratingsCount": recipe.RatingsCount,
	})
}

// ReportComment appends an advisory report to a comment. Reports never affect
// ratings or moderation state and repeat reports are not deduplicated.
func ReportComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Reason string `json:"reason"`
	}
	// The body is optional; a missing reason is fine.
	_ = json.NewDecoder(r.Body).Decode(&req)

	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "recipe not found")
		return
	}

	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	recipe, err := findRecipe(ctx, id)
	if err == errNotFound {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "recipe not found")
		return
	}
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	reports, err := recipe.ReportComment(ps.ByName("commentId"), utils.GetUserIDFromContext(r.Context()), req.Reason)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "comment not found")
		return
	}
	if !persist(ctx, w, recipe) {
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "comment reported",
		"reports": reports,
	})
}
