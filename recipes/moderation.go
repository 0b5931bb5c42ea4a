package recipes

import (
	"encoding/json"
	"net/http"
	"strings"

	"sansgluten/db"
	"sansgluten/models"
	"sansgluten/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApproveRecipe validates a recipe. Re-approving overwrites the reviewer and
// timestamp, which keeps the transition idempotent.
func ApproveRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	recipe.Approve(utils.GetUserIDFromContext(r.Context()))
	if !persist(ctx, w, recipe) {
		return
	}

	invalidateListing(ctx)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "recipe approved successfully",
		"recipe":  recipe,
	})
}

// RejectRecipe rejects a recipe with a mandatory reason. The reason is
// validated before anything is read, so a blank reason never touches state.
func RejectRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "rejection reason is required")
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

	if err := recipe.Reject(utils.GetUserIDFromContext(r.Context()), req.Reason); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, err.Error())
		return
	}
	if !persist(ctx, w, recipe) {
		return
	}

	invalidateListing(ctx)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "recipe rejected successfully",
		"recipe":  recipe,
	})
}

func listRecipes(w http.ResponseWriter, r *http.Request, query bson.M) {
	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	cursor, err := db.RecipeCollection.Find(ctx, query, db.OptionsLatest(0))
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	defer cursor.Close(ctx)

	recipes := []models.Recipe{}
	if err := cursor.All(ctx, &recipes); err != nil {
		utils.RespondInternal(w, err)
		return
	}
	for i := range recipes {
		recipes[i].Normalize()
	}
	utils.RespondWithJSON(w, http.StatusOK, recipes)
}

// GetPendingRecipes lists the moderation queue.
func GetPendingRecipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	listRecipes(w, r, bson.M{"status": models.StatusPending})
}

// GetValidatedMine lists recipes the calling reviewer validated.
func GetValidatedMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	listRecipes(w, r, bson.M{
		"status":      bson.M{"$in": models.ValidatedStatuses()},
		"validatedBy": utils.GetUserIDFromContext(r.Context()),
	})
}

// GetValidatedAll lists every validated recipe.
func GetValidatedAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	listRecipes(w, r, bson.M{"status": bson.M{"$in": models.ValidatedStatuses()}})
}

// GetRejectedMine lists recipes the calling reviewer rejected.
func GetRejectedMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	listRecipes(w, r, bson.M{
		"status":      models.StatusRejected,
		"validatedBy": utils.GetUserIDFromContext(r.Context()),
	})
}

// GetStats returns moderation counters for the reviewer dashboard.
func GetStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	reviewerID := utils.GetUserIDFromContext(r.Context())

	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	count := func(query bson.M) int64 {
		n, err := db.RecipeCollection.CountDocuments(ctx, query)
		if err != nil {
			return 0
		}
		return n
	}

	validated := bson.M{"$in": models.ValidatedStatuses()}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"pending":        count(bson.M{"status": models.StatusPending}),
		"validated":      count(bson.M{"status": validated, "validatedBy": reviewerID}),
		"rejected":       count(bson.M{"status": models.StatusRejected, "validatedBy": reviewerID}),
		"total":          count(bson.M{}),
		"totalValidated": count(bson.M{"status": validated}),
		"nutritionistId": reviewerID,
	})
}
