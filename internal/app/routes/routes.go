package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/mcamargo/studentcard/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	cardController *controllers.CardController,
	verificationController *controllers.VerificationController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Card routes (administrative surface)
	cards := v1.Group("/cards")
	{
		cards.POST("", cardController.CreateCard)
		cards.GET("", cardController.ListCards)
		cards.GET("/:id", cardController.GetCardByID)
		cards.DELETE("/:id", cardController.DeleteCard)
	}

	// Public verification route
	v1.GET("/verify/:verificationId", verificationController.VerifyCard)
}
