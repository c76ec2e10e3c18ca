package api

import (
	"net/http"
	"time"

	"github.com/TLEonTestCase37/devbits/internal/api/handler"
	"github.com/TLEonTestCase37/devbits/internal/app/service"
	"github.com/TLEonTestCase37/devbits/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	profileService *service.ProfileService,
	compareService *service.CompareService,
	problemsetService *service.ProblemsetService,
	practiceService *service.PracticeService,
	contestService *service.ContestService,
	friendService *service.FriendService,
	teamService *service.TeamService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the bearer token when present and puts claims in context.
	// Route groups decide whether a valid token is required.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(publicAuth chi.Router) {
			authHandler.RegisterRoutes(publicAuth)
		})

		// Profile routes (authenticated)
		profileHandler := handler.NewProfileHandler(profileService)
		v1.Route("/profile", profileHandler.RegisterRoutes)

		// Head-to-head comparison (public)
		compareHandler := handler.NewCompareHandler(compareService)
		v1.Route("/compare", compareHandler.RegisterRoutes)

		// Problemset catalog (public, personalized when authenticated)
		problemsetHandler := handler.NewProblemsetHandler(problemsetService)
		v1.Route("/problemset", problemsetHandler.RegisterRoutes)

		// Codeforces contest listing (public) plus user-created contests
		contestListHandler := handler.NewContestListHandler(problemsetService)
		contestHandler := handler.NewContestHandler(contestService)
		v1.Route("/contests", func(c chi.Router) {
			contestListHandler.RegisterRoutes(c)
			c.Route("/custom", contestHandler.RegisterRoutes)
		})

		// Practice analytics and suggestions (authenticated)
		practiceHandler := handler.NewPracticeHandler(practiceService)
		v1.Route("/practice", practiceHandler.RegisterRoutes)

		// Friend list (authenticated)
		friendHandler := handler.NewFriendHandler(friendService)
		v1.Route("/friends", friendHandler.RegisterRoutes)

		// Teams (authenticated)
		teamHandler := handler.NewTeamHandler(teamService)
		v1.Route("/teams", teamHandler.RegisterRoutes)
	})

	return r
}
