package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser         = "user"
	RoleNutritionist = "nutritionist"
	RoleAdmin        = "admin"
)

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleNutritionist || role == RoleAdmin
}

// IsReviewerRole reports whether the role may moderate recipes.
func IsReviewerRole(role string) bool {
	return role == RoleNutritionist || role == RoleAdmin
}

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email"`
	PasswordHash   string             `bson:"passwordHash" json:"-"`
	Username       string             `bson:"username" json:"username"`
	Role           string             `bson:"role" json:"role"`
	NutritionistID string             `bson:"nutritionistId,omitempty" json:"nutritionistId,omitempty"`
	Favorites      []string           `bson:"favorites" json:"favorites"`
	ProfileImage   string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	LastLogin      *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsReviewer() bool { return IsReviewerRole(u.Role) }
func (u *User) IsAdmin() bool    { return u.Role == RoleAdmin }

func (u *User) IsFavorite(recipeID string) bool {
	for _, id := range u.Favorites {
		if id == recipeID {
			return true
		}
	}
	return false
}

// ToggleFavorite flips the recipe's membership in the favorites set and
// reports the resulting state.
func (u *User) ToggleFavorite(recipeID string) (isFavorite bool) {
	for i, id := range u.Favorites {
		if id == recipeID {
			u.Favorites = append(u.Favorites[:i], u.Favorites[i+1:]...)
			return false
		}
	}
	u.Favorites = append(u.Favorites, recipeID)
	return true
}

// PublicUser is the profile shape returned to clients, without credentials.
type PublicUser struct {
	ID             primitive.ObjectID `json:"id"`
	Email          string             `json:"email"`
	Username       string             `json:"username"`
	Role           string             `json:"role"`
	NutritionistID string             `json:"nutritionistId,omitempty"`
	ProfileImage   string             `json:"profileImage,omitempty"`
	Favorites      []string           `json:"favorites"`
	FavoritesCount int                `json:"favoritesCount"`
	IsActive       bool               `json:"isActive"`
	LastLogin      *time.Time         `json:"lastLogin,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	favorites := u.Favorites
	if favorites == nil {
		favorites = []string{}
	}
	return PublicUser{
		ID:             u.ID,
		Email:          u.Email,
		Username:       u.Username,
		Role:           u.Role,
		NutritionistID: u.NutritionistID,
		ProfileImage:   u.ProfileImage,
		Favorites:      favorites,
		FavoritesCount: len(favorites),
		IsActive:       u.IsActive,
		LastLogin:      u.LastLogin,
		CreatedAt:      u.CreatedAt,
	}
}
