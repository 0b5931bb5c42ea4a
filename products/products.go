package products

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
	"go.mongodb.org/mongo-driver/mongo"
)

// GetProducts lists available market products, with optional category and
// search filters.
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	filter := bson.M{"available": true}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filter["name"] = bson.M{"$regex": primitive.Regex{Pattern: search, Options: "i"}}
	}

	cursor, err := db.ProductCollection.Find(ctx, filter, db.OptionsLatest(0))
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.RespondInternal(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, products)
}

func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "product not found")
		return
	}

	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	var product models.Product
	err = db.ProductCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "product not found")
		return
	}
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "invalid request body")
		return
	}
	if strings.TrimSpace(product.Name) == "" || product.Price < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "name is required and price must not be negative")
		return
	}

	product.Available = true
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	res, err := db.ProductCollection.InsertOne(ctx, product)
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	product.ID = res.InsertedID.(primitive.ObjectID)

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message": "product created successfully",
		"product": product,
	})
}

func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "product not found")
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "invalid request body")
		return
	}
	product.ID = id
	product.UpdatedAt = time.Now()

	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	res, err := db.ProductCollection.ReplaceOne(ctx, bson.M{"_id": id}, product)
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "product not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "product updated successfully",
		"product": product,
	})
}

func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "product not found")
		return
	}

	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	res, err := db.ProductCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "product not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "product deleted successfully"})
}
