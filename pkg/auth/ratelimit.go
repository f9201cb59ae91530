package auth

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/budgetflow/budgetflow/internal/rest"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// LoginLimiter throttles credential endpoints per client IP. Idle entries
// are dropped so the map does not grow with one-off clients.
type LoginLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	perMinute int
	stop      chan struct{}
	stopOnce  sync.Once
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewLoginLimiter(perMinute int) *LoginLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	l := &LoginLimiter{
		clients:   make(map[string]*client),
		perMinute: perMinute,
		stop:      make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Stop ends the background cleanup goroutine. Safe to call more than once.
func (l *LoginLimiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
}

func (l *LoginLimiter) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !l.allow(ip) {
			log.Warnf("rate limit exceeded for %s on %s", ip, r.URL.Path)
			rest.WriteJSON(w, http.StatusTooManyRequests, rest.ErrorResponse{Error: "Too many attempts, try again later"})
			return
		}
		next(w, r)
	}
}

func (l *LoginLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute)}
		l.clients[ip] = c
	}
	c.lastSeen = time.Now()
	return c.limiter.Allow()
}

func (l *LoginLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictIdle()
		case <-l.stop:
			return
		}
	}
}

func (l *LoginLimiter) evictIdle() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, c := range l.clients {
		if time.Since(c.lastSeen) > 10*time.Minute {
			delete(l.clients, ip)
		}
	}
}
