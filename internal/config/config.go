package config

import (
	"log"
	"net"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	PolicyMenu  = "menu"
	PolicyOrder = "order"
)

type Upstream struct {
	WaiterURL string
	Timeout   time.Duration
}

type Kafka struct {
	Brokers     []string
	Topic       string
	Group       string
	Workers     int
	EnsureTopic bool
	Partitions  int
}

type Postgres struct {
	Host     string
	Port     string
	DB       string
	User     string
	Password string
	SSLMode  string
}

type Tables struct {
	Schema string
	Placed string
	Pickup string
}

type Breaker struct {
	Threshold   uint32
	OpenTimeout time.Duration
	MaxHalfOpen uint32
}

type Bulkhead struct {
	MaxConcurrent int
	MaxWait       time.Duration
}

// Policy is a named resilience policy: a bulkhead in front of a circuit breaker.
type Policy struct {
	Name     string
	Breaker  Breaker
	Bulkhead Bulkhead
}

type Retry struct {
	Attempts     int
	Base         time.Duration
	Max          time.Duration
	JitterFactor float64
}

type Tracing struct {
	ServiceName string
	Environment string
	ExporterURL string
	SampleRate  float64
}

type Config struct {
	HTTPAddr   string
	Customer   string
	LogLevel   string
	WaitingCap int

	Upstream Upstream
	Kafka    Kafka
	Pg       Postgres
	Tables   Tables
	Retry    Retry
	Menu     Policy
	Order    Policy
	Tracing  Tracing
}

// Load fatals on error for simplicity in main().
func Load() Config {
	cfg, err := load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	return cfg
}

func load() (Config, error) {
	_ = godotenv.Load("env/.env")

	cfg := Config{
		HTTPAddr:   envDefault("HTTP_ADDR", ":8090"),
		Customer:   strings.TrimSpace(os.Getenv("CUSTOMER_NAME")),
		LogLevel:   strings.ToLower(envDefault("LOG_LEVEL", "info")),
		WaitingCap: envInt("WAITING_CAP", 256),

		Upstream: Upstream{
			WaiterURL: strings.TrimSpace(os.Getenv("WAITER_URL")),
			Timeout:   envDurationMS("UPSTREAM_TIMEOUT", 3*time.Second),
		},

		Kafka: Kafka{
			Brokers:     splitCSV(strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))),
			Topic:       strings.TrimSpace(os.Getenv("KAFKA_TOPIC")),
			Group:       strings.TrimSpace(os.Getenv("KAFKA_GROUP")),
			Workers:     envInt("KAFKA_WORKERS", 4),
			EnsureTopic: envBool("KAFKA_ENSURE_TOPIC", false),
			Partitions:  envInt("KAFKA_PARTITIONS", 1),
		},

		Pg: Postgres{
			Host:     strings.TrimSpace(os.Getenv("PG_HOST")),
			Port:     strings.TrimSpace(envDefault("PG_PORT", "5432")),
			DB:       strings.TrimSpace(os.Getenv("PG_DB")),
			User:     strings.TrimSpace(os.Getenv("PG_USER")),
			Password: strings.TrimSpace(os.Getenv("PG_PASSWORD")),
			SSLMode:  strings.TrimSpace(envDefault("PG_SSLMODE", "disable")),
		},

		Tables: Tables{
			Schema: envDefault("DB_SCHEMA", "customer"),
			Placed: envDefault("TBL_PLACED", "placed_order"),
			Pickup: envDefault("TBL_PICKUP", "pickup"),
		},

		Retry: Retry{
			Attempts:     envInt("RETRY_ATTEMPTS", 3),
			Base:         envDurationMS("RETRY_BASE", 100*time.Millisecond),
			Max:          envDurationMS("RETRY_MAX", 2*time.Second),
			JitterFactor: envFloat64("RETRY_JITTERFACTOR", 0.3),
		},

		Menu:  loadPolicy(PolicyMenu),
		Order: loadPolicy(PolicyOrder),

		Tracing: Tracing{
			ServiceName: envDefault("SERVICE_NAME", "customer-service"),
			Environment: envDefault("DEPLOY_ENV", "local"),
			ExporterURL: strings.TrimSpace(os.Getenv("OTEL_EXPORTER_URL")),
			SampleRate:  envFloat64("OTEL_SAMPLE_RATE", 1),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	return cfg, nil
}

// loadPolicy reads <NAME>_BREAKER_* and <NAME>_BULKHEAD_* keys, falling back
// to the global BREAKER_* and BULKHEAD_* values.
func loadPolicy(name string) Policy {
	p := strings.ToUpper(name) + "_"
	def := Policy{
		Breaker: Breaker{
			Threshold:   envUint32("BREAKER_THRESHOLD", 5),
			OpenTimeout: envDurationMS("BREAKER_OPENTIMEOUT", 10*time.Second),
			MaxHalfOpen: envUint32("BREAKER_MAXHALFOPEN", 3),
		},
		Bulkhead: Bulkhead{
			MaxConcurrent: envInt("BULKHEAD_MAXCONCURRENT", 25),
			MaxWait:       envDurationMS("BULKHEAD_MAXWAIT", 0),
		},
	}
	return Policy{
		Name: name,
		Breaker: Breaker{
			Threshold:   envUint32(p+"BREAKER_THRESHOLD", def.Breaker.Threshold),
			OpenTimeout: envDurationMS(p+"BREAKER_OPENTIMEOUT", def.Breaker.OpenTimeout),
			MaxHalfOpen: envUint32(p+"BREAKER_MAXHALFOPEN", def.Breaker.MaxHalfOpen),
		},
		Bulkhead: Bulkhead{
			MaxConcurrent: envInt(p+"BULKHEAD_MAXCONCURRENT", def.Bulkhead.MaxConcurrent),
			MaxWait:       envDurationMS(p+"BULKHEAD_MAXWAIT", def.Bulkhead.MaxWait),
		},
	}
}

func (c Config) validate() error {
	var missing []string
	req := map[string]string{
		"CUSTOMER_NAME": c.Customer,
		"WAITER_URL":    c.Upstream.WaiterURL,
		"KAFKA_BROKERS": strings.Join(c.Kafka.Brokers, ","),
		"KAFKA_TOPIC":   c.Kafka.Topic,
		"KAFKA_GROUP":   c.Kafka.Group,
	}
	// The journal is optional; once PG_HOST is set the rest of the DSN must be too.
	if c.JournalEnabled() {
		req["PG_DB"] = c.Pg.DB
		req["PG_USER"] = c.Pg.User
		req["PG_PASSWORD"] = c.Pg.Password
	}
	for k, v := range req {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &missingEnvError{Keys: missing}
	}

	u, err := url.Parse(c.Upstream.WaiterURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &invalidEnvError{Key: "WAITER_URL", Value: c.Upstream.WaiterURL}
	}
	return nil
}

func (c *Config) normalize() {
	if c.WaitingCap <= 0 {
		log.Printf("WAITING_CAP is %d, adjusting to 1", c.WaitingCap)
		c.WaitingCap = 1
	}
	if c.Kafka.Workers <= 0 {
		log.Printf("KAFKA_WORKERS is %d, adjusting to 1", c.Kafka.Workers)
		c.Kafka.Workers = 1
	}
	if c.Kafka.Partitions <= 0 {
		c.Kafka.Partitions = 1
	}
	if c.Retry.Attempts < 1 {
		log.Printf("RETRY_ATTEMPTS is %d, adjusting to 1", c.Retry.Attempts)
		c.Retry.Attempts = 1
	}
	if c.Retry.Base <= 0 {
		log.Printf("RETRY_BASE is %v, adjusting to 100ms", c.Retry.Base)
		c.Retry.Base = 100 * time.Millisecond
	}
	if c.Retry.Max < c.Retry.Base {
		log.Printf("RETRY_MAX (%v) < RETRY_BASE (%v), adjusting max to base", c.Retry.Max, c.Retry.Base)
		c.Retry.Max = c.Retry.Base
	}
	c.Menu.normalize()
	c.Order.normalize()
}

func (p *Policy) normalize() {
	if p.Breaker.Threshold == 0 {
		log.Printf("%s breaker threshold is 0, adjusting to 1", p.Name)
		p.Breaker.Threshold = 1
	}
	if p.Breaker.MaxHalfOpen == 0 {
		p.Breaker.MaxHalfOpen = 1
	}
	if p.Bulkhead.MaxConcurrent <= 0 {
		log.Printf("%s bulkhead max concurrent is %d, adjusting to 1", p.Name, p.Bulkhead.MaxConcurrent)
		p.Bulkhead.MaxConcurrent = 1
	}
	if p.Bulkhead.MaxWait < 0 {
		p.Bulkhead.MaxWait = 0
	}
}

func (c Config) JournalEnabled() bool {
	return c.Pg.Host != ""
}

type missingEnvError struct{ Keys []string }

func (e *missingEnvError) Error() string {
	return "missing required envs: " + strings.Join(e.Keys, ", ")
}

type invalidEnvError struct{ Key, Value string }

func (e *invalidEnvError) Error() string {
	return "invalid " + e.Key + "=" + strconv.Quote(e.Value)
}

// DSN builds a proper Postgres URL, safely escaping user/pass and query.
func (c Config) DSN() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Pg.User, c.Pg.Password),
		Host:   net.JoinHostPort(c.Pg.Host, c.Pg.Port),
		Path:   "/" + c.Pg.DB,
	}
	q := url.Values{}
	if c.Pg.SSLMode != "" {
		q.Set("sslmode", c.Pg.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func envDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d: %v", k, v, def, err)
		return def
	}
	return n
}

func envUint32(k string, def uint32) uint32 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	u, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d: %v", k, v, def, err)
		return def
	}
	return uint32(u)
}

func envFloat64(k string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %.3f: %v", k, v, def, err)
		return def
	}
	return f
}

func envBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %t: %v", k, v, def, err)
		return def
	}
	return b
}

// envDurationMS supports either plain integer milliseconds ("1500") or
// Go duration strings ("1.5s", "250ms", "2m").
func envDurationMS(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if strings.IndexFunc(v, func(r rune) bool { return r < '0' || r > '9' }) != -1 {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
			return def
		}
		return d
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
