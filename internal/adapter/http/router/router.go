package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adboard/adverts-service/internal/adapter/http/handler"
	"github.com/adboard/adverts-service/internal/adapter/http/middleware"
	"github.com/adboard/adverts-service/internal/platform/logger"
)

type Handlers struct {
	Adverts   *handler.AdvertHandler
	Archive   *handler.ArchiveHandler
	Favorites *handler.FavoritesHandler
	Search    *handler.SearchHandler
	Misc      *handler.MiscHandler
}

// New assembles the HTTP routing table. Reads are public; anything that
// writes on behalf of a user sits behind JWT auth.
func New(h Handlers, jwtSecret string, log logger.Logger) *chi.Mux {
	mux := chi.NewRouter()

	mux.Use(chimiddleware.Recoverer)
	mux.Use(middleware.RequestLogger(log))
	mux.Use(middleware.Metrics)

	mux.Get("/health", h.Misc.HandleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	// Public catalog surface.
	mux.Get("/api/{category}/adverts", h.Adverts.HandleList)
	mux.Get("/api/adverts/{id}", h.Adverts.HandleGetByID)
	mux.Get("/api/new", h.Adverts.HandleRecentFeed)
	mux.Get("/api/count_ads", h.Adverts.HandlePublicCount)
	mux.Get("/api/category/cities", h.Adverts.HandleCityDirectory)
	mux.Post("/api/recom/view", h.Adverts.HandleMarkViewed)
	mux.Get("/api/recom/post_recommend", h.Adverts.HandleRecommend)

	mux.Get("/api/search/popular", h.Search.HandlePopular)
	mux.Get("/api/search/preseek", h.Search.HandleSuggest)
	mux.Post("/api/search/seek", h.Search.HandleSeek)

	mux.Get("/api/currency", h.Misc.HandleCurrency)

	// Everything below acts on behalf of a signed-in user.
	mux.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret))

		r.Post("/api/{category}/create", h.Adverts.HandleCreate)
		r.Put("/api/adverts/{id}", h.Adverts.HandleEdit)
		r.Post("/api/adverts/delete/ad", h.Adverts.HandleDelete)
		r.Post("/api/adverts/{id}/photos", h.Adverts.HandleAddPhoto)
		r.Get("/api/my_ads", h.Adverts.HandleOwnerListings)

		r.Get("/api/archive", h.Archive.HandleList)
		r.Post("/api/archive/{id}", h.Archive.HandleMove)
		r.Post("/api/archive/{id}/restore", h.Archive.HandleRestore)
		r.Delete("/api/archive/{id}", h.Archive.HandleDelete)

		r.Get("/api/favorites", h.Favorites.HandleList)
		r.Get("/api/favorites/ids", h.Favorites.HandleListIDs)
		r.Post("/api/favorites", h.Favorites.HandleAdd)
		r.Delete("/api/favorites", h.Favorites.HandleRemove)
	})

	return mux
}
