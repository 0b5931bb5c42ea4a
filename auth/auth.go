package auth

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"sansgluten/db"
	"sansgluten/middleware"
	"sansgluten/models"
	"sansgluten/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 7 * 24 * time.Hour

type registerRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Username       string `json:"username"`
	Role           string `json:"role"`
	NutritionistID string `json:"nutritionistId"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MatriculeAllowed checks the registration allow-list for nutritionist ids,
// configured as a comma-separated NUTRITIONIST_MATRICULES value.
func MatriculeAllowed(matricule string) bool {
	for _, m := range strings.Split(os.Getenv("NUTRITIONIST_MATRICULES"), ",") {
		if strings.TrimSpace(m) == matricule && matricule != "" {
			return true
		}
	}
	return false
}

// IssueToken signs a bearer token for the user.
func IssueToken(u *models.User) (string, error) {
	claims := middleware.Claims{
		UserID:   u.ID.Hex(),
		Email:    u.Email,
		Role:     u.Role,
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(middleware.Secret())
}

func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "email and password are required")
		return
	}
	if len(req.Password) < 6 {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "password must be at least 6 characters long")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if !models.ValidRole(req.Role) {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "invalid role")
		return
	}

	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	if err := db.UserCollection.FindOne(ctx, bson.M{"email": req.Email}).Err(); err == nil {
		utils.RespondWithError(w, http.StatusConflict, utils.KindConflict, "user with this email already exists")
		return
	} else if err != mongo.ErrNoDocuments {
		utils.RespondInternal(w, err)
		return
	}

	if req.Role == models.RoleNutritionist {
		if req.NutritionistID == "" {
			utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "nutritionist id is required for the nutritionist role")
			return
		}
		if !MatriculeAllowed(req.NutritionistID) {
			utils.RespondWithError(w, http.StatusForbidden, utils.KindForbidden, "invalid nutritionist matricule")
			return
		}
		err := db.UserCollection.FindOne(ctx, bson.M{"role": models.RoleNutritionist, "nutritionistId": req.NutritionistID}).Err()
		if err == nil {
			utils.RespondWithError(w, http.StatusConflict, utils.KindConflict, "this nutritionist id is already registered")
			return
		}
		if err != mongo.ErrNoDocuments {
			utils.RespondInternal(w, err)
			return
		}
	} else {
		req.NutritionistID = ""
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = strings.SplitN(req.Email, "@", 2)[0]
	}

	user := models.User{
		Email:          req.Email,
		PasswordHash:   string(hash),
		Username:       username,
		Role:           req.Role,
		NutritionistID: req.NutritionistID,
		Favorites:      []string{},
		IsActive:       true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	res, err := db.UserCollection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, utils.KindConflict, "user with this email already exists")
			return
		}
		utils.RespondInternal(w, err)
		return
	}
	user.ID = res.InsertedID.(primitive.ObjectID)

	token, err := IssueToken(&user)
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message": "user registered successfully",
		"token":   token,
		"user":    user.Public(),
	})
}

func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "email and password are required")
		return
	}

	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusUnauthorized, utils.KindUnauthenticated, "invalid email or password")
		return
	}
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	if !user.IsActive {
		utils.RespondWithError(w, http.StatusForbidden, utils.KindForbidden, "account is deactivated")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, utils.KindUnauthenticated, "invalid email or password")
		return
	}

	now := time.Now()
	user.LastLogin = &now
	_, _ = db.UserCollection.UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{"lastLogin": now}})

	token, err := IssueToken(&user)
	if err != nil {
		utils.RespondInternal(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "login successful",
		"token":   token,
		"user":    user.Public(),
	})
}

// Verify confirms the bearer token is still valid and returns the principal's
// current profile.
func Verify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, utils.KindUnauthenticated, "invalid principal")
		return
	}

	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, utils.KindNotFound, "user not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "token is valid",
		"user":    user.Public(),
	})
}

// CheckMatricule reports whether a nutritionist matricule is both allowed and
// still unregistered.
func CheckMatricule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	matricule := ps.ByName("matricule")
	if !MatriculeAllowed(matricule) {
		utils.RespondWithError(w, http.StatusBadRequest, utils.KindValidation, "invalid nutritionist matricule")
		return
	}

	ctx, cancel := db.Timeout(r.Context())
	defer cancel()

	err := db.UserCollection.FindOne(ctx, bson.M{"role": models.RoleNutritionist, "nutritionistId": matricule}).Err()
	switch err {
	case mongo.ErrNoDocuments:
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"isValid": true, "isAvailable": true})
	case nil:
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"isValid": true, "isAvailable": false})
	default:
		utils.RespondInternal(w, err)
	}
}
