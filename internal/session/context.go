// Package session models the caller's session as an explicit value that
// is injected into every consumer, instead of ambient global state.
package session

// Kind discriminates the session variants.
type Kind string

const (
	KindAuthenticated Kind = "authenticated"
	KindDevFallback   Kind = "dev_fallback"
	KindAnonymous     Kind = "anonymous"
)

// Role is the caller's side of the engagement. It decides which
// confirmed status a confirm action produces.
type Role string

const (
	RoleConsultant Role = "consultant"
	RoleClient     Role = "client"
)

// Context is a tagged union: exactly one of the variants applies,
// selected by Kind. The zero value is an anonymous session.
type Context struct {
	Kind     Kind
	Token    string // authenticated only
	UserID   string
	UserName string
	Role     Role
}

// Authenticated builds a session backed by a real API token.
func Authenticated(token, userID, userName string, role Role) Context {
	return Context{Kind: KindAuthenticated, Token: token, UserID: userID, UserName: userName, Role: role}
}

// DevFallback is the local development session: a display name with no
// token. The API treats it as an unauthenticated dev caller.
func DevFallback(userName string) Context {
	return Context{Kind: KindDevFallback, UserName: userName, Role: RoleConsultant}
}

// Anonymous is the unauthenticated variant.
func Anonymous() Context {
	return Context{Kind: KindAnonymous}
}

// IsAuthenticated reports whether the session carries a token.
func (c Context) IsAuthenticated() bool {
	return c.Kind == KindAuthenticated && c.Token != ""
}

// DisplayName returns a human-readable name for commit authorship and
// logging, with a stable fallback for anonymous sessions.
func (c Context) DisplayName() string {
	if c.UserName != "" {
		return c.UserName
	}
	return "anonymous"
}

// EffectiveRole defaults to consultant when the session does not say
// otherwise; the workbench is a consultant-facing tool.
func (c Context) EffectiveRole() Role {
	if c.Role == RoleClient {
		return RoleClient
	}
	return RoleConsultant
}
