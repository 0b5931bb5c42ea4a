package recipes

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sansgluten/db"
	"sansgluten/models"
	"sansgluten/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	errNotFound = errors.New("recipe not found")
	errConflict = errors.New("recipe was modified concurrently")
)

func findRecipe(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := db.RecipeCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&recipe)
	if err == mongo.ErrNoDocuments {
		return nil, errNotFound
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// saveRecipe persists a mutated recipe with a compare-and-increment on the
// revision counter. A write that matches no document means the recipe was
// either deleted or modified since it was read; the two cases are
// disambiguated so callers can return 404 vs 409.
func saveRecipe(ctx context.Context, recipe *models.Recipe) error {
	readRevision := recipe.Revision
	recipe.Revision++
	recipe.UpdatedAt = time.Now()

	res, err := db.RecipeCollection.ReplaceOne(ctx,
		bson.M{"_id": recipe.ID, "revision": readRevision}, recipe)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if err := db.RecipeCollection.FindOne(ctx, bson.M{"_id": recipe.ID}).Err(); err == mongo.ErrNoDocuments {
			return errNotFound
		}
		return errConflict
	}
	return nil
}

// persist writes the recipe through saveRecipe and translates store errors
// into HTTP responses. Reports whether the save succeeded; on failure the
// response has already been written.
func persist(ctx context.Context, w http.ResponseWriter, recipe *models.Recipe) bool {
	switch err := saveRecipe(ctx, recipe); err {
	case nil:
		return true
	case errNotFound:
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "recipe not found")
	case errConflict:
		utils.RespondWithError(w, http.StatusConflict, utils.KindConflict,
			"recipe was modified concurrently, retry the request")
	default:
		utils.RespondInternal(w, err)
	}
	return false
}

func deleteRecipe(ctx context.Context, id primitive.ObjectID) error {
	res, err := db.RecipeCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errNotFound
	}
	return nil
}
