package routes

import (
	"net/http"

	"github.com/yachtdrop/backend/internal/api/handlers"
	"github.com/yachtdrop/backend/internal/api/middleware"
	"github.com/yachtdrop/backend/internal/infrastructure/observability"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	searchHandler *handlers.SearchHandler

	categoryHandler *handlers.CategoryHandler

	marinaHandler *handlers.MarinaHandler

	chatHandler *handlers.ChatHandler

	bundleHandler *handlers.BundleHandler

	cacheMiddleware *middleware.CacheMiddleware
	searchLimiter   *middleware.RateLimiter
	chatLimiter     *middleware.RateLimiter
	metrics         *observability.Metrics
}

// NewRouter creates a new router

func NewRouter(

	searchHandler *handlers.SearchHandler,

	categoryHandler *handlers.CategoryHandler,

	marinaHandler *handlers.MarinaHandler,

	chatHandler *handlers.ChatHandler,

	bundleHandler *handlers.BundleHandler,

	cacheMiddleware *middleware.CacheMiddleware,
	searchLimiter *middleware.RateLimiter,
	chatLimiter *middleware.RateLimiter,

	metrics *observability.Metrics,

) *Router {

	return &Router{

		mux: http.NewServeMux(),

		searchHandler: searchHandler,

		categoryHandler: categoryHandler,

		marinaHandler: marinaHandler,

		chatHandler: chatHandler,

		bundleHandler: bundleHandler,

		cacheMiddleware: cacheMiddleware,
		searchLimiter:   searchLimiter,
		chatLimiter:     chatLimiter,
		metrics:         metrics,
	}

}

// SetupRoutes configures all application routes

func (r *Router) SetupRoutes() http.Handler {

	// Health check endpoint

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {

		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}

	})

	// Search endpoints

	r.mux.Handle("GET /api/search", r.limitSearch(http.HandlerFunc(r.searchHandler.Search)))

	r.mux.Handle("GET /api/search/combined", r.limitSearch(http.HandlerFunc(r.searchHandler.SearchCombined)))

	r.mux.Handle("GET /api/search/suggest", r.limitSearch(http.HandlerFunc(r.searchHandler.Suggest)))

	// Category endpoints

	r.mux.HandleFunc("GET /api/categories", r.categoryHandler.ListCategories)

	// Bundle endpoints

	r.mux.HandleFunc("GET /api/bundles", r.bundleHandler.ListBundles)

	r.mux.HandleFunc("GET /api/bundles/generate", r.bundleHandler.GenerateBundleDefinitions)

	// Marina directory endpoints

	r.mux.HandleFunc("GET /api/marinas", r.marinaHandler.LookupMarinas)

	r.mux.HandleFunc("POST /api/marinas", r.marinaHandler.CreateMarina)

	// AI shopping assistant endpoint

	r.mux.Handle("POST /api/chat", r.limitChat(http.HandlerFunc(r.chatHandler.Chat)))

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}

func (r *Router) limitSearch(next http.Handler) http.Handler {
	if r.searchLimiter == nil {
		return next
	}
	return r.searchLimiter.Middleware(next)
}

func (r *Router) limitChat(next http.Handler) http.Handler {
	if r.chatLimiter == nil {
		return next
	}
	return r.chatLimiter.Middleware(next)
}
