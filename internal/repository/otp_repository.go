package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// OTPRepo stores one-time passcodes in Redis. Each phone number maps
// to a single key holding a bcrypt hash of the current code; the key
// carries the configured TTL so expiry is handled by Redis rather than
// application logic. A successful verification deletes the key, which
// makes every code single-use. Issuing a new code overwrites the
// previous one.
type OTPRepo struct {
	RDB  *redis.Client
	TTL  time.Duration
	Cost int // bcrypt cost for hashing codes at rest
}

func NewOTPRepo(rdb *redis.Client, ttl time.Duration, cost int) *OTPRepo {
	return &OTPRepo{RDB: rdb, TTL: ttl, Cost: cost}
}

func otpKey(phone string) string { return "otp:" + phone }

// Store hashes the code and writes it under the phone's key with the
// configured TTL, replacing any previous code for that phone.
func (r *OTPRepo) Store(ctx context.Context, phone, code string) error {
	if r.RDB == nil {
		return errors.New("otp store unavailable")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), r.Cost)
	if err != nil {
		return err
	}
	return r.RDB.Set(ctx, otpKey(phone), hash, r.TTL).Err()
}

// Verify checks the submitted code against the stored hash and
// consumes it on success. Expired, absent and mismatched codes all
// map to ErrOTPInvalid so callers cannot distinguish them.
func (r *OTPRepo) Verify(ctx context.Context, phone, code string) error {
	if r.RDB == nil {
		return errors.New("otp store unavailable")
	}
	hash, err := r.RDB.Get(ctx, otpKey(phone)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrOTPInvalid
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(code)) != nil {
		return ErrOTPInvalid
	}
	// Consume: a code verifies at most once.
	return r.RDB.Del(ctx, otpKey(phone)).Err()
}
