package internal

import (
	"net/http"

	"mulesync/internal/controllers"
	"mulesync/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/reload", http.HandlerFunc(apiController.Reload))
	routers.Post("/cancel", http.HandlerFunc(apiController.Cancel))
	routers.Get("/status", http.HandlerFunc(apiController.GetStatus))
	routers.Get("/snapshot", http.HandlerFunc(apiController.GetSnapshot))
	return routers
}
