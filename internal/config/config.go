package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "DoKnotForget/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "DoKnotForget"
	AppID             = "com.github.doknotforget"
	KeyringService    = "com.github.doknotforget"
	KeyringCardDAVKey = "carddav_password"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion     = "version"
	FlagDebug       = "debug"
	FlagDB          = "db"
	FlagPort        = "port"
	FlagDate        = "date"
	FlagImport      = "import"
	FlagPrint       = "print"
	FlagDescVersion = "Show application version and exit"
	FlagDescDebug   = "Enable debug logging to stdout"
	FlagDescDB      = "Path to the SQLite database file"
	FlagDescPort    = "Port for the local feed server"
	FlagDescDate    = "Reference date override (YYYY-MM-DD), defaults to today"
	FlagDescImport  = "Import contacts from a .vcf file or CardDAV URL, then exit"
	FlagDescPrint   = "Print the generated feed as JSON to stdout and exit"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Environment Variables
// -----------------------------------------------------------------------------

const (
	EnvDBPath      = "DOKNOTFORGET_DB"
	EnvServerPort  = "DOKNOTFORGET_PORT"
	EnvCardDAVUser = "DOKNOTFORGET_CARDDAV_USER"
)

// -----------------------------------------------------------------------------
// Defaults & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultPort       = "18080"
	DefaultDBFileName = "doknotforget.db"
	DefaultRefreshMin = 60

	// YearUnknownSentinel marks a moment date whose year segment is not known.
	YearUnknownSentinel = "0000"

	// Horizons (days ahead) for the different suggestion families.
	HorizonDays        = 21
	KidsHorizonDays    = 21
	HolidayHorizonDays = 21
	SchoolHorizonDays  = 60

	// LunarScanDays bounds the day-by-day forward scan used to locate
	// Hebrew/Islamic calendar holidays.
	LunarScanDays = 370

	// Timeline category boundaries (inclusive, days until occurrence).
	TimelineSoonMaxDays     = 7
	TimelineUpcomingMinDays = 8
	TimelineUpcomingMaxDays = 30
	TimelineLaterMinDays    = 31
	TimelineLaterMaxDays    = 90

	// QuestionCooldown is how long an answered/snoozed/seen micro-question
	// keeps further questions for the same person off the feed.
	QuestionCooldown = 7 * 24 * time.Hour
)

// -----------------------------------------------------------------------------
// Suggestion Cues & Action Labels
// -----------------------------------------------------------------------------

const (
	CueMilestone      = "Milestone"
	CueMeaningfulYear = "Meaningful year"
	CueBigOne         = "Big one"

	ActionLabelPlanGift = "Plan a gift"
	ActionLabelSeeIdeas = "See ideas"
	ActionLabelDetails  = "See details"
	ActionLabelSendMsg  = "Send a message"

	FallbackPersonName = "them"
)

// -----------------------------------------------------------------------------
// Data Formats & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts.
	DateFormatISO       = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"
	DateFormatMonthDay  = "January 2"

	// Seed/ID format strings. Suggestion ids are deterministic so that
	// regenerating the feed on the same day yields the same keys.
	FormatTemplateSeed  = "%s|%s|%s|%s"
	FormatSuggestionID  = "%s_%s_%s_%s"
	FormatHolidayID     = "holiday_%s_%s_%s"
	FormatQuestionID    = "question_%s_%s_%s"
	FormatSchoolID      = "school_%s_%s_%s_%s"
	FormatFollowUpID    = "followUp_%s_%s_%s_%s"
	FormatCardID        = "care_%s_%s_%s_%s"
	FormatHolidayCardID = "care_holiday_%s_%s_%s"
	FormatSchoolCardID  = "care_school_%s_%s_%s_%s"

	// File Extensions.
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties.
	ICalVersion   = "2.0"
	ICalProdid    = "-//DoKnotForget//Care Feed//EN"
	ICalCalName   = "Care Suggestions"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "doknotforget"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDescription = "DESCRIPTION"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"
	VCardTEL  = "TEL"

	FormatEventUID = "%s@%s"

	DefaultICalRefresh = 1 * time.Hour

	// StubVCalendar is the minimal valid iCalendar object used when the feed
	// has no dated cards.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 256 * 1024 * 1024 // 256MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteFeedJSON       = "/feed.json"
	RouteFeedICS        = "/feed.ics"
	AddrSeparator       = ":"

	MinPort = 1
	MaxPort = 65535
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrServerStartup  = "server startup failed"
	ErrServerShutdown = "server shutdown failed"
	ErrPortRequired   = "server port is required"
	ErrInvalidURL     = "invalid URL structure"
	ErrProtocol       = "unsupported protocol scheme (http/https only)"
	ErrVCardParse     = "failed to parse vCard stream"
	ErrICalEncode     = "failed to encode iCalendar data"
	ErrDateParse      = "unable to parse date"
	ErrLocalPathEmpty = "import error: local path is empty"
	ErrWebURLEmpty    = "import error: web URL is empty"
	ErrFetcherMissing = "internal error: network fetcher is not initialized"
	ErrSourceUnknown  = "import error: unsupported source"
	ErrLogFile        = "failed to open log file"
	ErrCacheDir       = "could not determine user cache dir"
	ErrCreateDir      = "could not create app directory"
	ErrAppFailed      = "application failed unexpectedly"
	ErrWriteResp      = "failed to write response body"
	ErrStoreOpen      = "failed to open database"
	ErrStoreMigrate   = "failed to run database migrations"
	ErrStoreEncode    = "failed to encode record"
	ErrStoreDecode    = "failed to decode record"
	ErrFeedEncode     = "failed to encode feed"
	ErrKeyringRead    = "keyring read failed (might be empty)"
	ErrRefDateParse   = "invalid reference date override"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Feed initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgNotFound     = "Not Found"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting    = "Starting application"
	MsgAppStop        = "Application stopped gracefully"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Feed cache updated"
	MsgFeedGenerated  = "Care feed generated"
	MsgFeedRefresh    = "Refreshing care feed"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping invalid date format"
	MsgSkippedRow     = "Skipping corrupt record"
	MsgSkippedHoliday = "Skipping holiday, calendar conversion unavailable"
	MsgImportStarted  = "Contact import started"
	MsgImportDone     = "Contact import finished"
	MsgMigrateStart   = "Running database migrations"
	MsgMigrateDone    = "Database migrations completed"
	MsgStoreOpened    = "Database opened"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyPort      = "port"
	LogKeySource    = "source"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyPeople    = "people"
	LogKeyImported  = "imported"
	LogKeySkipped   = "skipped"
	LogKeyQuestions = "questions"
	LogKeyFollowUps = "follow_ups"
	LogKeyHolidays  = "holidays"
	LogKeyPersonID  = "person_id"
	LogKeyHolidayID = "holiday_id"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyRefDate   = "reference_date"
	LogKeyDuration  = "duration_ms"
	LogKeyDB        = "db_path"

	// Startup Info Keys.
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompEngine   = "engine"
	CompHoliday  = "holiday"
	CompStore    = "store"
	CompSuppress = "suppress"
	CompImporter = "importer"
	CompFetcher  = "fetcher"
	CompExport   = "export"
	CompServer   = "server"
	CompWorker   = "worker"
	CompMain     = "main"
)
