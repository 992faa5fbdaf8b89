package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	auth := AuthHandler{Users: deps.Users, Sessions: deps.Sessions, Limiter: deps.AuthLimiter}
	friends := FriendHandler{Friends: deps.Friends, Limiter: deps.InviteLimiter}
	profile := ProfileHandler{Profiles: deps.Profiles, Avatars: deps.Avatars, PublicBaseURL: deps.PublicBaseURL}
	events := StorageEventHandler{Sink: deps.Events}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/api/v1/auth/login", auth.Login)
	mux.HandleFunc("/api/v1/auth/signup", auth.SignUp)
	mux.HandleFunc("/api/v1/auth/refresh", auth.Refresh)
	mux.HandleFunc("/api/v1/auth/logout", auth.Logout)
	mux.HandleFunc("/api/v1/friends", friends.List)
	mux.HandleFunc("/api/v1/friends/invite", friends.Invite)
	mux.HandleFunc("/api/v1/friends/respond", friends.Respond)
	mux.HandleFunc("/api/v1/friends/remove", friends.Remove)
	mux.HandleFunc("/api/v1/profile/update", profile.Update)
	mux.HandleFunc("/api/v1/profile/avatar", profile.UploadAvatar)
	mux.HandleFunc("/internal/storage/events", events.Handle)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users    UserStore
	Sessions SessionService
	Friends  FriendStore
	Profiles ProfileService
	Avatars  AvatarStorage
	Events   EventSink

	PublicBaseURL string

	AuthLimiter   RateLimiter
	InviteLimiter RateLimiter
}
