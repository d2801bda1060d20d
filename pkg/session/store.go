// Package session menyimpan sesi login di redis. Cookie/bearer token hanya membawa id sesi
// yang ditandatangani; logout cukup menghapus kunci di redis.
package session

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("sesi tidak ditemukan atau sudah berakhir")

// MaxLifetime adalah umur mutlak token. TTL redis bergeser setiap request, tetapi token
// tetap harus diperbarui lewat login setelah batas ini.
const MaxLifetime = 7 * 24 * time.Hour

type Session struct {
	ID         string    `json:"id"`
	IDPengguna int       `json:"id_pengguna"`
	Username   string    `json:"username"`
	Nama       string    `json:"nama"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

type Store struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl, prefix: "kasirung:sesi:"}
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Lifetime adalah masa berlaku token yang ditandatangani saat login.
func (s *Store) Lifetime() time.Duration {
	if s.ttl > MaxLifetime {
		return s.ttl
	}
	return MaxLifetime
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

// penggunaKey menyimpan id sesi milik satu pengguna agar semuanya bisa dicabut sekaligus.
func (s *Store) penggunaKey(idPengguna int) string {
	return s.prefix + "pengguna:" + strconv.Itoa(idPengguna)
}

// Create menyimpan sesi baru dengan id acak dan mengembalikannya.
func (s *Store) Create(ctx context.Context, sess Session) (*Session, error) {
	sess.ID = uuid.NewString()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, errors.Wrap(err, "gagal menyusun sesi")
	}
	idx := s.penggunaKey(sess.IDPengguna)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(sess.ID), payload, s.ttl)
		pipe.SAdd(ctx, idx, sess.ID)
		pipe.Expire(ctx, idx, s.Lifetime())
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "gagal menyimpan sesi")
	}
	return &sess, nil
}

// Get mengambil sesi dan memperpanjang masa berlakunya (sliding expiration).
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	payload, err := s.rdb.GetEx(ctx, s.key(id), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal membaca sesi")
	}
	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, errors.Wrap(err, "sesi rusak")
	}
	return &sess, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, s.key(id)).Err()
}

// DeleteByPengguna mencabut semua sesi milik pengguna yang disebut, dipakai saat akun
// atau role dinonaktifkan.
func (s *Store) DeleteByPengguna(ctx context.Context, ids ...int) error {
	for _, id := range ids {
		idx := s.penggunaKey(id)
		sessionIDs, err := s.rdb.SMembers(ctx, idx).Result()
		if err != nil {
			return errors.Wrap(err, "gagal membaca sesi pengguna")
		}
		keys := make([]string, 0, len(sessionIDs)+1)
		for _, sid := range sessionIDs {
			keys = append(keys, s.key(sid))
		}
		keys = append(keys, idx)
		if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
			return errors.Wrap(err, "gagal mencabut sesi pengguna")
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
