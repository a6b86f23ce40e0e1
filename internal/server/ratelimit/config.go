package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule limits requests whose method and path match Pattern. A rule with a
// zero Limit leaves matching requests unlimited.
type Rule struct {
	Pattern string
	Method  string
	Limit   int
	Window  time.Duration
	Burst   int // bucket capacity, Limit when zero
}

// FromEnv builds the limiter configuration. enabled is the service switch;
// RATE_LIMIT_* variables tune the numbers.
func FromEnv(enabled bool) *Config {
	if !enabled {
		return &Config{}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    env("RATE_LIMIT_DEFAULT_LIMIT", 1000, strconv.Atoi),
		DefaultWindow:   env("RATE_LIMIT_DEFAULT_WINDOW", time.Minute, time.ParseDuration),
		CleanupInterval: env("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute, time.ParseDuration),
		Whitelist:       clientSet(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       clientSet(os.Getenv("RATE_LIMIT_BLACKLIST")),
		Rules:           DefaultRules(env("RATE_LIMIT_EDIT_LIMIT", 60, strconv.Atoi)),
	}
}

// DefaultRules returns the built-in rules. editLimit is the hourly allowance
// for requests that call the model.
func DefaultRules(editLimit int) []Rule {
	const post, get = "POST", "GET"
	return []Rule{
		{Pattern: "/health", Method: get},

		// model calls and browser rendering
		{Pattern: "/resumes/*/sections/*/update", Method: post, Limit: editLimit, Window: time.Hour, Burst: 5},
		{Pattern: "/tools/*", Method: post, Limit: editLimit, Window: time.Hour, Burst: 5},
		{Pattern: "/resumes/*/export.pdf", Method: get, Limit: 30, Window: time.Hour, Burst: 3},
		{Pattern: "/resumes/import", Method: post, Limit: 30, Window: time.Hour, Burst: 3},

		// credential guessing
		{Pattern: "/auth/login", Method: post, Limit: 20, Window: time.Minute, Burst: 5},
		{Pattern: "/auth/register", Method: post, Limit: 10, Window: time.Minute, Burst: 3},
		{Pattern: "/auth/password", Method: "PUT", Limit: 10, Window: time.Minute, Burst: 3},

		// writes
		{Pattern: "/resumes", Method: post, Limit: 100, Window: time.Minute, Burst: 10},
		{Pattern: "/resumes/", Method: post, Limit: 100, Window: time.Minute, Burst: 10},
		{Pattern: "/resumes/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Pattern: "/resumes/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

// env reads key with parse, returning def when unset or malformed.
func env[T any](key string, def T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func clientSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = true
		}
	}
	return set
}
