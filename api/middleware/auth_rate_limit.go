package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/portal-harnasi/backend/api/responses"
	pkgerrors "github.com/portal-harnasi/backend/pkg/errors"
	"github.com/portal-harnasi/backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy caps how often the login and register surfaces may be
// hit inside a fixed window. The IP cap slows sweeps from one machine, the
// email cap protects a single member account from a distributed guesser.
type AuthRateLimitPolicy struct {
	surface    string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewAuthRateLimitPolicy builds a policy for one auth surface ("login",
// "register"). A zero window or all-zero limits disable the policy.
func NewAuthRateLimitPolicy(surface string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{
		surface:    strings.ToLower(strings.TrimSpace(surface)),
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

func (p AuthRateLimitPolicy) surfaceName() string {
	if p.surface == "" {
		return "auth"
	}
	return p.surface
}

// counterKey builds the redis key for one (dimension, subject) counter, e.g.
// rl:ip:login:203.0.113.9 or rl:email:login:<sha256>.
func (p AuthRateLimitPolicy) counterKey(dimension, subject string) string {
	if subject == "" {
		return ""
	}
	return fmt.Sprintf("rl:%s:%s:%s", dimension, p.surfaceName(), subject)
}

// AuthRateLimit throttles an auth surface with fixed-window counters. The IP
// dimension is checked first so blocked machines never cost an email lookup;
// the email dimension reads the body and restores it for the handler.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := ClientIP(r)
			if policy.ipLimit > 0 {
				if key := policy.counterKey("ip", ip); key != "" {
					count, err := store.IncrWithTTL(ctx, key, policy.window)
					if err != nil {
						responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if count > int64(policy.ipLimit) {
						writeThrottled(ctx, logg, w, policy, "ip", ip, "", count, policy.ipLimit)
						return
					}
				}
			}

			if policy.emailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				// Counters are keyed by a digest so member addresses never
				// land in redis as plaintext.
				if email := normalizeEmail(emailFromBody(body)); email != "" {
					digest := emailDigest(email)
					key := policy.counterKey("email", digest)
					count, err := store.IncrWithTTL(ctx, key, policy.window)
					if err != nil {
						responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if count > int64(policy.emailLimit) {
						writeThrottled(ctx, logg, w, policy, "email", "", digest, count, policy.emailLimit)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeThrottled(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy AuthRateLimitPolicy, dimension, ip, emailDigest string, count int64, limit int) {
	if logg != nil {
		fields := map[string]any{
			"dimension":      dimension,
			"surface":        policy.surfaceName(),
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.window.Seconds()),
		}
		if ip != "" {
			fields["ip"] = ip
		}
		if emailDigest != "" {
			fields["email_digest"] = emailDigest
		}
		logCtx := logg.WithFields(ctx, fields)
		logg.Warn(logCtx, "auth.rate_limit.blocked")
	}
	err := pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded")
	responses.WriteError(ctx, nil, w, err)
}

// ClientIP resolves the originating address. The portal runs behind a proxy
// in production, so forwarded headers win over RemoteAddr. The activity log
// records the same value.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// emailFromBody pulls the email field out of a login/register payload. A body
// that does not decode is simply not email-limited; validation rejects it
// later anyway.
func emailFromBody(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Email
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func emailDigest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
