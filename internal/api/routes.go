package api

// Routes consumed by the client. The journals payloads are pass-through;
// only the auth routes are interpreted by the gateway itself.
const (
	RouteLogin    = "/auth/login"
	RouteRegister = "/auth/register"
	RouteRefresh  = "/auth/refresh"
	RouteProfile  = "/auth/profile"

	RouteJournals      = "/journals"
	RouteJournalCreate = "/journals/create"
)
