package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a gluten-free grocery listing for the market feature.
type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Brand          string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Description    string             `bson:"description" json:"description"`
	Category       string             `bson:"category,omitempty" json:"category,omitempty"`
	GlutenFree     bool               `bson:"glutenFree" json:"glutenFree"`
	GlutenFreeType string             `bson:"glutenFreeType,omitempty" json:"glutenFreeType,omitempty"`
	GlutenWarning  bool               `bson:"glutenWarning" json:"glutenWarning"`
	Price          float64            `bson:"price" json:"price"`
	Currency       string             `bson:"currency,omitempty" json:"currency,omitempty"`
	Quantity       string             `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Supermarket    []string           `bson:"supermarket,omitempty" json:"supermarket,omitempty"`
	Image          string             `bson:"image,omitempty" json:"image,omitempty"`
	Available      bool               `bson:"available" json:"available"`
	Stock          int                `bson:"stock" json:"stock"`
	Barcode        string             `bson:"barcode,omitempty" json:"barcode,omitempty"`
	Verified       bool               `bson:"verified" json:"verified"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
