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

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go ILR"
	AppID             = "com.github.tartampluch.go-ilr"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"

	// Data files expected inside the data directory.
	ConfigFileName = "config.json"
	TripsFileName  = "trips.json"
	VisaFileName   = "visaPeriods.json"
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
// CLI Flags, Environment & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagDebug   = "debug"
	FlagDataDir = "data"
	FlagAsOf    = "as-of"
	FlagPort    = "port"
	FlagOutput  = "output"
	FlagYear    = "year"
	FlagMonth   = "month"
	FlagDate    = "date"

	FlagDescDebug   = "Enable debug logging"
	FlagDescDataDir = "Directory containing config.json, trips.json and visaPeriods.json"
	FlagDescAsOf    = "Calculation date (DD-MM-YYYY), defaults to today"
	FlagDescPort    = "Local port for the calendar feed"
	FlagDescOutput  = "Output file for the iCalendar export (stdout if empty)"
	FlagDescYear    = "Calendar year"
	FlagDescMonth   = "Calendar month (1-12)"
	FlagDescDate    = "Calendar date (DD-MM-YYYY)"

	FlagVersion     = "version"
	FlagDescVersion = "Print the version"

	EnvDataDir = "GO_ILR_DATA_DIR"
	EnvPort    = "GO_ILR_PORT"
	EnvFile    = ".env"

	DefaultDataDir = "data"
	DefaultPort    = "18081"
)

// -----------------------------------------------------------------------------
// CLI Commands & Human Output
// -----------------------------------------------------------------------------

const (
	AppUsage = "Track residence days towards Indefinite Leave to Remain"

	CmdStats       = "stats"
	CmdMonth       = "month"
	CmdYear        = "year"
	CmdDay         = "day"
	CmdCoverage    = "coverage"
	CmdTransitions = "transitions"
	CmdExport      = "export"
	CmdServe       = "serve"

	CmdUsageStats       = "Show progress towards the residence requirement"
	CmdUsageMonth       = "Show day counts and cumulative progress for one month"
	CmdUsageYear        = "Show day counts and cumulative progress for one year"
	CmdUsageDay         = "Show how a single date is classified"
	CmdUsageCoverage    = "Show visa coverage of the timeline window"
	CmdUsageTransitions = "List visa period changes with salary movement"
	CmdUsageExport      = "Write the timeline as an iCalendar file"
	CmdUsageServe       = "Serve the iCalendar feed and progress summary locally"

	OutRequirement = "Requirement: %d days over %d years (avg %.1f/year, %s)\n"
	OutAsOf        = "As of %s (first entry %s)\n"
	OutCompletion  = "Target completion %s, planning completion %s (%d-year processing buffer)\n"
	OutPeriod      = "%s (%s to %s)\n"
	OutCounts      = "UK residence %d, short trips %d, long trips %d, pre-entry %d, uncovered residence %d\n"
	OutScenario    = "%-6s %s, %s, target %s\n"
	OutDay         = "%s %s: %s\n"
	OutDayTrip     = "  trip %s (%s, %d days, %s to %s)\n"
	OutDayVisa     = "  visa %s %q (day %d of %d)\n"
	OutCoverage    = "Coverage %d / %d days (%.1f%%), %d periods\n"
	OutUncovered   = "  uncovered %s to %s (%d days)\n"
	OutTransition  = "%s: %s -> %s, salary %s"
	OutSalaryDelta = " (%s)"
	OutExportWrote = "Wrote %d events to %s\n"

	ScenarioLabelUK    = "In UK"
	ScenarioLabelTotal = "Total"
)

// -----------------------------------------------------------------------------
// Residency Rules & Defaults
// -----------------------------------------------------------------------------

const (
	// ShortTripMaxDays is the exclusive upper bound for a short trip:
	// a trip of 13 inclusive days is short, 14 or more is long.
	ShortTripMaxDays = 14

	DefaultStartYear      = 2023
	DefaultEndYear        = 2040
	DefaultObjectiveYears = 10

	// DefaultProcessingBufferYears pads the objective for planning, since a
	// decision on the application is not immediate.
	DefaultProcessingBufferYears = 1

	// MaxPercentage caps progress percentages.
	MaxPercentage = 100.0

	TripTypeShort = "short"
	TripTypeLong  = "long"

	CurrencySymbol     = "£"
	CurrencyThousands  = ","
	CurrencyDecimalSep = "."
	PencePerPound      = 100

	RequirementMethod = "Exact calculation accounting for leap years"
)

// -----------------------------------------------------------------------------
// Data Formats
// -----------------------------------------------------------------------------

const (
	// DateFormatInput is the DD-MM-YYYY layout used in the JSON data files.
	DateFormatInput = "02-01-2006"

	// DateFormatISO is used in logs and calendar UIDs.
	DateFormatISO = "2006-01-02"

	FormatRangeFull  = "%d-%d (full timeline)"
	FormatRangeDates = "%s to %s"

	// UID Generation
	UIDSalt         = "go-ilr-v1-"
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s@%s"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go ILR//Timeline//EN"
	ICalCalName = "Residency Timeline"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "goilr"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDescription = "DESCRIPTION"
	PropDTStart     = "DTSTART"
	PropDTEnd       = "DTEND"
	PropDTStamp     = "DTSTAMP"
	PropCategories  = "CATEGORIES"
	PropRefresh     = "REFRESH-INTERVAL"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	CategoryTrip   = "TRIP"
	CategoryVisa   = "VISA"
	CategoryTarget = "TARGET"

	FormatTripSummary   = "%s trip %s (%d days)"
	FormatTripRoute     = "%s → %s"
	FormatVisaSummary   = "Visa: %s"
	FormatVisaSalary    = "Gross salary %s"
	FormatTargetSummary = "Projected completion (%s scenario)"

	DefaultICalRefresh = 24 * time.Hour

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "10"
	AllowedMethods     = "GET, HEAD"
	RouteRoot          = "/{$}"
	RouteCalendar      = "/calendar.ics"
	RouteSummary       = "/summary"
	AddrSeparator      = ":"

	// FeedRefreshInterval is how often the served feeds are recomputed, so that
	// "today" moves forward while the server runs.
	FeedRefreshInterval = time.Hour
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
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeTextPlain       = "text/plain; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages
// -----------------------------------------------------------------------------

const (
	// Core invariants
	ErrTripOverlap        = "date appears in multiple trips"
	ErrPeriodOverlap      = "visa periods overlap"
	ErrPeriodGap          = "gap between visa periods, expected continuous periods"
	ErrDuplicateVisaDate  = "date appears in multiple visa periods"
	ErrInvalidConfig      = "invalid residency configuration"
	ErrMissingClassifier  = "timeline requires both trip and visa classifiers"
	ErrRangeConflict      = "timeline instance exists with a different range"
	ErrUnclassifiedDays   = "timeline validation failed: days remain unknown"
	ErrZeroRequirement    = "required day count is zero"
	ErrTripBeforeEntry    = "trip starts before first entry date"
	ErrPeriodBeforeEntry  = "visa period ends before first entry date"
	ErrEntryNotCovered    = "first entry date is not covered by any visa period"
	ErrInvalidSalary      = "invalid salary amount"
	ErrStartYearMissing   = "start_year is required"
	ErrEndYearMissing     = "end_year is required"
	ErrEndBeforeStart     = "end_year must not be before start_year"
	ErrFirstEntryMissing  = "first_entry_date is required"
	ErrFirstEntryOutside  = "first_entry_date must be inside the timeline window"
	ErrObjectiveNegative  = "objective_years must not be negative"
	ErrBufferNegative     = "processing_buffer_years must not be negative"
	ErrInvalidMonth       = "month must be between 1 and 12"
	ErrUnknownScenario    = "unknown progress scenario"

	// Storage / host
	ErrMissingField   = "missing required field"
	ErrInvalidDate    = "invalid date format, expected DD-MM-YYYY"
	ErrInvalidRecord  = "invalid record"
	ErrReadFile       = "failed to read data file"
	ErrDecodeJSON     = "failed to decode JSON"
	ErrNotArray       = "data file must contain a JSON array"
	ErrBuildTimeline  = "failed to build timeline"
	ErrICalEncode     = "failed to encode iCalendar data"
	ErrPortRequired   = "server port is required"
	ErrServerStartup  = "server startup failed"
	ErrServerShutdown = "server shutdown failed"
	ErrWriteResp      = "failed to write response body"
	ErrWriteOutput    = "failed to write output"
	ErrLogFile        = "failed to open log file"
	ErrCacheDir       = "could not determine user cache dir"
	ErrCreateDir      = "could not create app cache dir"
	ErrAppFailed      = "application failed unexpectedly"
	ErrArgument       = "invalid argument"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Residency feed initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Log Messages & Human Output
// -----------------------------------------------------------------------------

const (
	MsgAppStarting   = "Starting application"
	MsgAppStop       = "Application stopped"
	MsgEnvSkipped    = "Could not load .env file"
	MsgDataLoaded    = "Data files loaded"
	MsgConfigLoaded  = "Configuration loaded"
	MsgTimelineBuilt = "Timeline built"
	MsgExportDone    = "Calendar export generated"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Feed cache updated"
	MsgFeedRefresh   = "Feeds refreshed"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgCoverageGaps  = "Visa coverage has uncovered ranges"
	MsgVisaWarning   = "Visa data warning"
	MsgVersionOutput = "%s %s (%s, built %s) %s/%s\n"

	TextNotAvailable   = "N/A"
	TextInUKComplete   = "In-UK requirement complete!"
	TextTotalComplete  = "Total requirement complete!"
	FormatProgress     = "%d / %d days (%.1f%%)"
	FormatSinceEntry   = "%d days since first entry"
	FormatDaysLeft     = "%d days remaining"
	FormatDataSummary  = "Data Summary:\n• %d trips total (%d short, %d long)\n• %d total trip days\n• %d visa periods"
	FormatDataRange    = "\n• Date range: %s to %s"
	ScenarioInUK       = "in_uk"
	ScenarioTotal      = "total"
	SalaryIncrease     = "increase"
	SalaryDecrease     = "decrease"
	SalaryUnchanged    = "unchanged"
	SalaryUnknown      = "unknown"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyFile      = "file"
	LogKeyPort      = "port"
	LogKeyCount     = "count"
	LogKeyTrips     = "trips"
	LogKeyPeriods   = "visa_periods"
	LogKeyStart     = "start"
	LogKeyEnd       = "end"
	LogKeyDays      = "days"
	LogKeyEvents    = "events"
	LogKeyDataDir   = "data_dir"
	LogKeyCoverage  = "coverage_pct"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyDuration  = "duration_ms"
	LogKeyFeed      = "feed"
	LogKeyAsOf      = "as_of"

	// Startup Info Keys
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
	CompMain    = "main"
	CompStorage = "storage"
	CompExport  = "export"
	CompServer  = "server"
)
