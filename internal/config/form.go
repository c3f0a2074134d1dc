package config

import "time"

// SubmitLatency is the simulated backend round trip for login and signup.
func SubmitLatency() time.Duration {
	return MustParseDuration("SUBMIT_LATENCY", "2s")
}

// NoticeLifetime is how long a non-blocking notice stays up.
func NoticeLifetime() time.Duration {
	return MustParseDuration("NOTICE_LIFETIME", "3s")
}

// PlaceholderDelay is the pause between a successful login and the
// dashboard placeholder notice.
func PlaceholderDelay() time.Duration {
	return MustParseDuration("PLACEHOLDER_DELAY", "1500ms")
}

// AwaitTimeout caps a single long-poll on a pending submission.
func AwaitTimeout() time.Duration {
	return MustParseDuration("AWAIT_TIMEOUT", "10s")
}

// PageViewTTL is how long an idle page view is kept.
func PageViewTTL() time.Duration {
	return MustParseDuration("PAGE_VIEW_TTL", "30m")
}

// MaxPageViews caps concurrently open page views.
func MaxPageViews() int {
	return parseIntEnv("MAX_PAGE_VIEWS", 1000)
}

// SubmitWorkerCount controls the number of workers running simulated submissions.
func SubmitWorkerCount() int {
	return parseIntEnv("SUBMIT_WORKER_COUNT", 4)
}

// WorkerQueueSize controls the submission queue size.
func WorkerQueueSize() int {
	return parseIntEnv("WORKER_QUEUE_SIZE", 1024)
}

// LoginEntry is where signup sends the user after account creation.
func LoginEntry() string {
	return GetEnv("LOGIN_ENTRY", "/login")
}

// SignupEntry is the signup page the login page links to.
func SignupEntry() string {
	return GetEnv("SIGNUP_ENTRY", "/signup")
}

// StorageWorkerCount controls the workers serving local storage reads and writes.
func StorageWorkerCount() int {
	return parseIntEnv("STORAGE_WORKER_COUNT", 2)
}

// StorageTimeout bounds a single local storage call.
func StorageTimeout() time.Duration {
	return MustParseDuration("STORAGE_TIMEOUT", "2s")
}
