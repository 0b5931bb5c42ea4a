package profile

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
	"golang.org/x/crypto/bcrypt"
)

func currentUser(r *http.Request) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(utils.GetUserIDFromContext(r.Context()))
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user, err := currentUser(r)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "user not found")
		return
	}
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"user": user.Public()})
}

func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Username     *string `json:"username"`
		ProfileImage *string `json:"profileImage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "invalid request body")
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

	updates := bson.M{"updatedAt": time.Now()}
	if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
		user.Username = strings.TrimSpace(*req.Username)
		updates["username"] = user.Username
	}
	if req.ProfileImage != nil {
		user.ProfileImage = *req.ProfileImage
		updates["profileImage"] = user.ProfileImage
	}

	ctx, cancel := db.Timeout(r.Context())
	defer cancel()
	if _, err := db.UserCollection.UpdateByID(ctx, user.ID, bson.M{"$set": updates}); err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "profile updated successfully",
		"user":    user.Public(),
	})
}

func ChangePassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "current and new password are required")
		return
	}
	if len(req.NewPassword) < 6 {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "new password must be at least 6 characters long")
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

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, utils.KindUnauthenticated, "current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	ctx, cancel := db.Timeout(r.Context())
	defer cancel()
	_, err = db.UserCollection.UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
		"passwordHash": string(hash),
		"updatedAt":    time.Now(),
	}})
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "password changed successfully"})
}

// GetUsers lists every account; reviewer-only route.
func GetUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	cursor, err := db.UserCollection.Find(ctx, bson.M{}, db.OptionsLatest(0))
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		utils.RespondInternal(w, err)
		return
	}

	public := make([]models.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"users": public, "count": len(public)})
}

// GetNutritionists lists active nutritionist accounts; admin-only route.
func GetNutritionists(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	cursor, err := db.UserCollection.Find(ctx,
		bson.M{"role": models.RoleNutritionist, "isActive": true},
		db.OptionsLatest(0))
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		utils.RespondInternal(w, err)
		return
	}

	public := make([]models.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"nutritionists": public, "count": len(public)})
}
