package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixSession     CachePrefix = "session:"
	CachePrefixLoginClient CachePrefix = "login:"
	CachePrefixView        CachePrefix = "view:"
)

// Token keys kept in the server-side session. They match the keys the
// backend's login response is persisted under.
const (
	TokenKeyAccess  = "access_token"
	TokenKeyRefresh = "refresh_token"
)

// Cookie names
const (
	CookieSession     = "session_id"
	CookieLoginClient = "login_client"
	CookieTheme       = "theme_preference"
)

// Journal actions and outcomes
const (
	JournalOutcomeOK      = "ok"
	JournalOutcomeFailed  = "failed"
	JournalOutcomePartial = "partial"

	JournalActionPatch   = "patch"
	JournalActionCreate  = "create"
	JournalActionDelete  = "delete"
	JournalActionBooking = "booking"
)
