package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/c14220110/kasirung-backend/internal/auth/models"
	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/pkg/session"
	"github.com/c14220110/kasirung-backend/pkg/utils"
)

// ErrInvalidCredentials sengaja tidak membedakan username tidak ada dan password salah.
var ErrInvalidCredentials = errors.New("username atau password salah")

type AuthService struct {
	DB       *sql.DB
	Sessions *session.Store
	Secret   string
}

func NewAuthService(db *sql.DB, sessions *session.Store, secret string) *AuthService {
	return &AuthService{DB: db, Sessions: sessions, Secret: secret}
}

const penggunaAktifQuery = `
	SELECT p.id_pengguna, p.nama, p.username, p.password, r.id_role, r.nama_role
	FROM Pengguna p
	JOIN Role r ON r.id_role = p.id_role
	WHERE %s AND p.deleted_at IS NULL AND r.deleted_at IS NULL`

func (s *AuthService) findActive(ctx context.Context, where string, arg interface{}) (*models.Pengguna, string, error) {
	var (
		p    models.Pengguna
		hash string
	)
	query := fmt.Sprintf(penggunaAktifQuery, where)
	err := s.DB.QueryRowContext(ctx, query, arg).
		Scan(&p.IDPengguna, &p.Nama, &p.Username, &hash, &p.IDRole, &p.Role)
	if err != nil {
		return nil, "", err
	}
	return &p, hash, nil
}

// Login memverifikasi kredensial, membuat sesi di redis, lalu menandatangani token
// yang membawa id sesi tersebut.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	p, hash, err := s.findActive(ctx, "p.username = ?", username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil data pengguna")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	sess, err := s.Sessions.Create(ctx, session.Session{
		IDPengguna: p.IDPengguna,
		Username:   p.Username,
		Nama:       p.Nama,
		Role:       p.Role,
	})
	if err != nil {
		return nil, err
	}

	// batas idle diatur TTL redis yang bergeser; exp token hanya batas mutlak
	expiresAt := time.Now().Add(s.Sessions.Lifetime())
	token, err := utils.GenerateJWTToken(s.Secret, utils.Claims{
		SessionID:  sess.ID,
		IDPengguna: p.IDPengguna,
		Username:   p.Username,
		Role:       p.Role,
	}, expiresAt)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{Token: token, ExpiresAt: expiresAt, Pengguna: *p}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.Sessions.Delete(ctx, sessionID)
}

func (s *AuthService) Me(ctx context.Context, idPengguna int) (*models.Pengguna, error) {
	p, _, err := s.findActive(ctx, "p.id_pengguna = ?", idPengguna)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(errs.ErrNotFound, "Pengguna tidak ditemukan")
	}
	if err != nil {
		return nil, errors.Wrap(err, "gagal mengambil data pengguna")
	}
	return p, nil
}

// ChangePassword mewajibkan password lama yang benar sebelum menyimpan hash baru.
func (s *AuthService) ChangePassword(ctx context.Context, idPengguna int, lama, baru string) error {
	_, hash, err := s.findActive(ctx, "p.id_pengguna = ?", idPengguna)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(errs.ErrNotFound, "Pengguna tidak ditemukan")
	}
	if err != nil {
		return errors.Wrap(err, "gagal mengambil data pengguna")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(lama)); err != nil {
		return errors.Wrap(errs.ErrInvalidInput, "Password lama salah")
	}

	newHash, err := HashPassword(baru)
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx,
		"UPDATE Pengguna SET password = ?, updated_at = NOW() WHERE id_pengguna = ?", newHash, idPengguna)
	if err != nil {
		return errors.Wrap(err, "gagal memperbarui password")
	}
	return nil
}

// HashPassword dipakai juga oleh manajemen pengguna dan perintah seed-admin.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "gagal melakukan hash password")
	}
	return string(hash), nil
}
