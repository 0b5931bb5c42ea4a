package profile

import (
	"net/http"
	"time"

	"sansgluten/db"
	"sansgluten/models"
	"sansgluten/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ToggleFavorite adds the recipe to the caller's favorites, or removes it when
// already present. The recipe must exist; its moderation status is not checked.
func ToggleFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	recipeOID, err := primitive.ObjectIDFromHex(ps.ByName("recipeId"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "recipe not found")
		return
	}

	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	if err := db.RecipeCollection.FindOne(ctx, bson.M{"_id": recipeOID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "recipe not found")
			return
		}
		utils.RespondInternal(w, err)
		return
	}

	user, err := currentUser(r)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "user not found")
		return
	}
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	isFavorite := user.ToggleFavorite(recipeOID.Hex())

	_, err = db.UserCollection.UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
		"favorites": user.Favorites,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	message := "recipe removed from favorites"
	if isFavorite {
		message = "recipe added to favorites"
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message":    message,
		"isFavorite": isFavorite,
		"favorites":  user.Favorites,
	})
}

// GetFavorites returns the caller's favorited recipes. References to recipes
// deleted since they were favorited are silently dropped.
func GetFavorites(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user, err := currentUser(r)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "user not found")
		return
	}
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(user.Favorites))
	for _, hex := range user.Favorites {
		if oid, err := primitive.ObjectIDFromHex(hex); err == nil {
			ids = append(ids, oid)
		}
	}

	favorites := []models.RecipeSummary{}
	if len(ids) > 0 {
		ctx, cancel := db.Timeout(r.Context())
		defer cancel()

		cursor, err := db.RecipeCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
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
		for i := range recipes {
			recipes[i].Normalize()
			favorites = append(favorites, recipes[i].Summary())
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"favorites": favorites,
		"count":     len(favorites),
	})
}
