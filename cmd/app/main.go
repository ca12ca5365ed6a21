package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"wayfarer/cmd/fx/db_fx"
	"wayfarer/cmd/fx/directions_fx"
	"wayfarer/cmd/fx/discovery_fx"
	"wayfarer/cmd/fx/planner_fx"
	"wayfarer/cmd/fx/session_fx"
	"wayfarer/internal/api/controllers"
	"wayfarer/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	app := fx.New(
		db_fx.Module,
		planner_fx.Module,
		directions_fx.Module,
		discovery_fx.Module,
		session_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server on :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	tripController *controllers.TripController,
	placesController *controllers.PlacesController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, tripController, placesController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	tripController *controllers.TripController,
	placesController *controllers.PlacesController) {

	api := r.Group("/api")

	tripGroup := api.Group("/trip")
	tripGroup.POST("/start", tripController.StartTrip)
	tripGroup.POST("/:threadId/generate", tripController.GenerateItinerary)
	tripGroup.GET("/:threadId", tripController.GetTripState)

	placesGroup := api.Group("/places")
	placesGroup.GET("/autocomplete", placesController.Autocomplete)
	placesGroup.GET("/details", placesController.Details)
}
