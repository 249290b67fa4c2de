package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/users", handler.RegisterUser)
	mux.HandleFunc("POST /v1/auth/login", handler.Login)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	authorized := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, h)
	}

	mux.Handle("GET /v1/profile", authorized(handler.GetProfile))
	mux.Handle("PUT /v1/profile", authorized(handler.UpdateProfile))

	mux.Handle("POST /v1/venues", authorized(handler.CreateVenue))
	mux.Handle("GET /v1/venues", authorized(handler.ListVenues))
	mux.Handle("GET /v1/venues/{venueID}", authorized(handler.GetVenue))
	mux.Handle("POST /v1/venues/{venueID}/closures", authorized(handler.SetVenueClosure))
	mux.Handle("GET /v1/venues/{venueID}/closures", authorized(handler.ListVenueClosures))
	mux.Handle("DELETE /v1/venues/{venueID}/closures/{date}", authorized(handler.DeleteVenueClosure))

	mux.Handle("POST /v1/teams", authorized(handler.CreateTeam))
	mux.Handle("GET /v1/teams", authorized(handler.ListTeams))
	mux.Handle("GET /v1/teams/{teamID}", authorized(handler.GetTeam))
	mux.Handle("PUT /v1/teams/{teamID}", authorized(handler.UpdateTeam))
	mux.Handle("DELETE /v1/teams/{teamID}", authorized(handler.DeleteTeam))
	mux.Handle("POST /v1/teams/{teamID}/members", authorized(handler.AddTeamMember))
	mux.Handle("GET /v1/teams/{teamID}/members", authorized(handler.ListTeamMembers))
	mux.Handle("PUT /v1/teams/{teamID}/members/{userID}", authorized(handler.UpdateTeamMember))
	mux.Handle("DELETE /v1/teams/{teamID}/members/{userID}", authorized(handler.RemoveTeamMember))

	mux.Handle("POST /v1/matches", authorized(handler.ScheduleMatch))
	mux.Handle("GET /v1/matches", authorized(handler.ListMatches))
	mux.Handle("GET /v1/matches/{matchID}", authorized(handler.GetMatch))
	mux.Handle("DELETE /v1/matches/{matchID}", authorized(handler.CancelMatch))
	mux.Handle("PUT /v1/matches/{matchID}/presence", authorized(handler.SetPresence))
	mux.Handle("GET /v1/matches/{matchID}/presence", authorized(handler.GetMatchRoster))
}
