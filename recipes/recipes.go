package recipes

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"sansgluten/db"
	"sansgluten/models"
	"sansgluten/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const uploadDir = "./static/uploads/recipes"

// GetRecipes is the public listing: validated recipes only, comment counts
// instead of comment bodies, newest first. Served from the redis cache when
// warm and no filter is applied.
func GetRecipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	category := r.URL.Query().Get("category")

	if category == "" {
		if listing, ok := cachedListing(ctx); ok {
			utils.RespondWithJSON(w, http.StatusOK, listing)
			return
		}
	}

	query := bson.M{"status": bson.M{"$in": models.ValidatedStatuses()}}
	if category != "" {
		canonical, err := models.NormalizeCategory(category)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "unknown category")
			return
		}
		query["category"] = bson.M{"$in": models.CategoryFilterValues(canonical)}
	}

	cursor, err := db.RecipeCollection.Find(ctx, query, db.OptionsLatest(0))
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	defer cursor.Close(ctx)

	var recipes []models.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		utils.RespondInternal(w, err)
		return
	}

	listing := make([]models.RecipeSummary, 0, len(recipes))
	for i := range recipes {
		recipes[i].Normalize()
		listing = append(listing, recipes[i].Summary())
	}

	if category == "" {
		storeListing(ctx, listing)
	}
	utils.RespondWithJSON(w, http.StatusOK, listing)
}

// GetRecipe returns one recipe in full, embedded comments included.
func GetRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	recipe.Normalize()
	utils.RespondWithJSON(w, http.StatusOK, recipe)
}

// GetMyRecipes lists the caller's own recipes regardless of status.
func GetMyRecipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())

	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	cursor, err := db.RecipeCollection.Find(ctx, bson.M{"createdBy": userID}, db.OptionsLatest(0))
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

// parseIngredients accepts either a JSON array or a comma-separated string.
func parseIngredients(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		out := parsed[:0]
		for _, item := range parsed {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// CreateRecipe submits a new recipe; it always starts out pending.
func CreateRecipe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "invalid multipart form")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	instructions := strings.TrimSpace(r.FormValue("instructions"))
	ingredients := parseIngredients(r.FormValue("ingredients"))
	if title == "" || instructions == "" || len(ingredients) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation,
			"title, ingredients and instructions are required")
		return
	}
	category, err := models.NormalizeCategory(r.FormValue("category"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "unknown category")
		return
	}

	recipe := models.Recipe{
		Title:        title,
		Ingredients:  ingredients,
		Instructions: instructions,
		Category:     category,
		CreatedBy:    utils.GetUserIDFromContext(r.Context()),
		Status:       models.StatusPending,
		Comments:     []models.Comment{},
		Revision:     1,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if file, header, err := r.FormFile("coverImage"); err == nil {
		defer file.Close()
		name, err := utils.SaveImage(file, header, uploadDir)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "could not save cover image")
			return
		}
		recipe.CoverImage = name
	}

	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	res, err := db.RecipeCollection.InsertOne(ctx, recipe)
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	recipe.ID = res.InsertedID.(primitive.ObjectID)

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message": "recipe created successfully",
		"recipe":  recipe,
	})
}

// UpdateRecipe edits recipe fields. Owner or reviewer only. Editing does not
// change the moderation status.
func UpdateRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "recipe not found")
		return
	}
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "invalid multipart form")
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

	userID := utils.GetUserIDFromContext(r.Context())
	role := utils.GetRoleFromContext(r.Context())
	if !recipe.CanBeEditedBy(userID, role) {
		utils.RespondWithError(w, http.StatusForbidden, utils.KindForbidden, "not authorized to edit this recipe")
		return
	}

	if title := strings.TrimSpace(r.FormValue("title")); title != "" {
		recipe.Title = title
	}
	if instructions := strings.TrimSpace(r.FormValue("instructions")); instructions != "" {
		recipe.Instructions = instructions
	}
	if ingredients := parseIngredients(r.FormValue("ingredients")); len(ingredients) > 0 {
		recipe.Ingredients = ingredients
	}
	if raw := r.FormValue("category"); raw != "" {
		category, err := models.NormalizeCategory(raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "unknown category")
			return
		}
		recipe.Category = category
	}
	if file, header, err := r.FormFile("coverImage"); err == nil {
		defer file.Close()
		name, err := utils.SaveImage(file, header, uploadDir)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "could not save cover image")
			return
		}
		recipe.CoverImage = name
	}

	if !persist(ctx, w, recipe) {
		return
	}

	invalidateListing(ctx)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "recipe updated successfully",
		"recipe":  recipe,
	})
}

// DeleteRecipe removes a recipe. Owner or reviewer only.
func DeleteRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	userID := utils.GetUserIDFromContext(r.Context())
	role := utils.GetRoleFromContext(r.Context())
	if !recipe.CanBeEditedBy(userID, role) {
		utils.RespondWithError(w, http.StatusForbidden, utils.KindForbidden, "not authorized to delete this recipe")
		return
	}

	if err := deleteRecipe(ctx, id); err != nil && err != errNotFound {
		utils.RespondInternal(w, err)
		return
	}

	invalidateListing(ctx)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "recipe deleted successfully"})
}
