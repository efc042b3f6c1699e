// internal/store/repository.go
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"carehome-workers/internal/common/logger"
	"carehome-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("NOT_FOUND")

const (
	enrichmentKeyPrefix = "carehome:enrichment:"
	profileKeyPrefix    = "carehome:profile:"
)

// Repository reads facility enrichment and client data from Postgres with a
// Redis read-through cache. A nil cache disables caching.
type Repository struct {
	db     *sql.DB
	cache  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewRepository(db *sql.DB, cache *redis.Client, ttl time.Duration, log logger.Logger) *Repository {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Repository{db: db, cache: cache, ttl: ttl, logger: log}
}

// EnrichmentBundle returns the stored bundle for a facility, or ErrNotFound.
func (r *Repository) EnrichmentBundle(ctx context.Context, facilityID string) (*models.EnrichmentBundle, error) {
	var bundle models.EnrichmentBundle
	key := enrichmentKeyPrefix + facilityID

	if r.fromCache(ctx, key, &bundle) {
		return &bundle, nil
	}
	bundle = models.EnrichmentBundle{}

	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT bundle FROM facility_enrichment WHERE facility_id = $1`, facilityID).Scan(&raw)
	if err != nil {
		return nil, r.queryErr(models.QueryTypeEnrichmentBundle, err)
	}
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return nil, fmt.Errorf("decode enrichment for %s: %w", facilityID, err)
	}

	r.toCache(ctx, key, raw)
	return &bundle, nil
}

// ClientProfile returns the stored profile for a client, or ErrNotFound.
func (r *Repository) ClientProfile(ctx context.Context, clientID string) (*models.ClientProfile, error) {
	var profile models.ClientProfile
	key := profileKeyPrefix + clientID

	if r.fromCache(ctx, key, &profile) {
		return &profile, nil
	}
	profile = models.ClientProfile{}

	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT profile FROM client_profiles WHERE client_id = $1`, clientID).Scan(&raw)
	if err != nil {
		return nil, r.queryErr(models.QueryTypeClientProfile, err)
	}
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("decode profile for %s: %w", clientID, err)
	}
	if profile.ClientID == "" {
		profile.ClientID = clientID
	}

	r.toCache(ctx, key, raw)
	return &profile, nil
}

// ClientContact is never cached.
func (r *Repository) ClientContact(ctx context.Context, clientID string) (*models.ContactDetails, error) {
	var (
		contact      models.ContactDetails
		email, phone sql.NullString
	)

	err := r.db.QueryRowContext(ctx,
		`SELECT name, email, phone FROM client_contacts WHERE client_id = $1`, clientID).
		Scan(&contact.Name, &email, &phone)
	if err != nil {
		return nil, r.queryErr(models.QueryTypeClientContact, err)
	}

	contact.Email = email.String
	contact.Phone = phone.String
	return &contact, nil
}

// SaveShortlist records a selection so advisors can revisit it.
func (r *Repository) SaveShortlist(ctx context.Context, clientID string, result models.SelectionResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode shortlist: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO shortlist_sessions (session_id, client_id, result, created_at) VALUES ($1, $2, $3, NOW())`,
		result.SessionID, clientID, payload)
	if err != nil {
		return r.queryErr(models.QueryTypeShortlistSave, err)
	}
	return nil
}

// IsConnectionError reports whether err means Postgres could not be reached,
// as opposed to a query that ran and failed.
func IsConnectionError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func (r *Repository) queryErr(q models.QueryType, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", q, ErrNotFound)
	}
	return fmt.Errorf("%s query: %w", q, err)
}

func (r *Repository) fromCache(ctx context.Context, key string, dst interface{}) bool {
	if r.cache == nil {
		return false
	}

	val, err := r.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err})
		}
		return false
	}

	if err := json.Unmarshal(val, dst); err != nil {
		r.logger.Warn("cache entry corrupt", map[string]interface{}{"key": key, "error": err})
		return false
	}
	return true
}

func (r *Repository) toCache(ctx context.Context, key string, raw []byte) {
	if r.cache == nil || r.ttl <= 0 {
		return
	}
	if err := r.cache.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		r.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}
