package routes

import (
	"net/http"

	"sansgluten/auth"
	"sansgluten/middleware"
	"sansgluten/models"
	"sansgluten/products"
	"sansgluten/profile"
	"sansgluten/ratelim"
	"sansgluten/recipes"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/v1/auth/login", ratelim.RateLimit(auth.Login))
	router.GET("/api/v1/auth/verify", middleware.Authenticate(auth.Verify))
}

func AddRecipeRoutes(router *httprouter.Router) {
	router.GET("/api/v1/recipes", recipes.GetRecipes)
	router.POST("/api/v1/recipes", middleware.Authenticate(recipes.CreateRecipe))
	router.GET("/api/v1/recipes/mine", middleware.Authenticate(recipes.GetMyRecipes))

	// Moderation surface, reviewer only.
	router.GET("/api/v1/recipes/pending", middleware.RequireReviewer(recipes.GetPendingRecipes))
	router.GET("/api/v1/recipes/stats", middleware.RequireReviewer(recipes.GetStats))
	router.GET("/api/v1/recipes/validated/mine", middleware.RequireReviewer(recipes.GetValidatedMine))
	router.GET("/api/v1/recipes/validated/all", middleware.RequireReviewer(recipes.GetValidatedAll))
	router.GET("/api/v1/recipes/rejected/mine", middleware.RequireReviewer(recipes.GetRejectedMine))

	router.GET("/api/v1/recipes/recipe/:id", recipes.GetRecipe)
	router.PUT("/api/v1/recipes/recipe/:id", middleware.Authenticate(recipes.UpdateRecipe))
	router.DELETE("/api/v1/recipes/recipe/:id", middleware.Authenticate(recipes.DeleteRecipe))
	router.PUT("/api/v1/recipes/recipe/:id/approve", middleware.RequireReviewer(recipes.ApproveRecipe))
	router.PUT("/api/v1/recipes/recipe/:id/reject", middleware.RequireReviewer(recipes.RejectRecipe))

	router.POST("/api/v1/recipes/recipe/:id/comment", middleware.Authenticate(recipes.AddComment))
	router.DELETE("/api/v1/recipes/recipe/:id/comment/:commentId", middleware.Authenticate(recipes.DeleteComment))
	router.POST("/api/v1/recipes/recipe/:id/comment/:commentId/report",
		ratelim.RateLimit(middleware.Authenticate(recipes.ReportComment)))
}

func AddProfileRoutes(router *httprouter.Router) {
	router.GET("/api/v1/user/profile", middleware.Authenticate(profile.GetProfile))
	router.PUT("/api/v1/user/profile", middleware.Authenticate(profile.UpdateProfile))
	router.PUT("/api/v1/user/change-password", middleware.Authenticate(profile.ChangePassword))

	router.PUT("/api/v1/user/favorite/:recipeId", middleware.Authenticate(profile.ToggleFavorite))
	router.GET("/api/v1/user/favorites", middleware.Authenticate(profile.GetFavorites))

	router.GET("/api/v1/user/users", middleware.RequireReviewer(profile.GetUsers))
	router.GET("/api/v1/user/nutritionists", middleware.RequireRoles(profile.GetNutritionists, models.RoleAdmin))
	router.GET("/api/v1/user/check-matricule/:matricule", ratelim.RateLimit(auth.CheckMatricule))
}

func AddProductRoutes(router *httprouter.Router) {
	router.GET("/api/v1/products", products.GetProducts)
	router.GET("/api/v1/products/:id", products.GetProduct)
	router.POST("/api/v1/products", middleware.RequireRoles(products.CreateProduct, models.RoleAdmin))
	router.PUT("/api/v1/products/:id", middleware.RequireRoles(products.UpdateProduct, models.RoleAdmin))
	router.DELETE("/api/v1/products/:id", middleware.RequireRoles(products.DeleteProduct, models.RoleAdmin))
}
