package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/you/medsync/domain"
)

// pgUndefinedColumn is the SQLSTATE the store reports for a missing
// column; pgUndefinedTable for a missing table.
const (
	pgUndefinedColumn = "42703"
	pgUndefinedTable  = "42P01"
)

// codeColumnProbe remembers, for the process lifetime, whether the
// store has the optional user-code column. Once the store reports the
// column missing, no further lookups are attempted.
type codeColumnProbe struct {
	mu          sync.Mutex
	unsupported bool
}

func (p *codeColumnProbe) markUnsupported() {
	p.mu.Lock()
	p.unsupported = true
	p.mu.Unlock()
}

func (p *codeColumnProbe) isUnsupported() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unsupported
}

// UserRepositoryImpl implements domain.UserRepository using GORM. The
// user-code column is schema-optional and name-configurable, so every
// operation touching it goes through dynamic column expressions instead
// of the model struct.
type UserRepositoryImpl struct {
	db         *gorm.DB
	codeColumn string
	probe      *codeColumnProbe
}

// DBUser represents the database model for User (with GORM tags).
// The user-code column is deliberately absent: it may not exist in the
// underlying schema.
type DBUser struct {
	ID             uint       `gorm:"primaryKey"`
	FullName       string     `gorm:"size:255"`
	Email          string     `gorm:"uniqueIndex;size:255"`
	PasswordHash   string     `gorm:"column:password"`
	Role           string     `gorm:"index;size:64"`
	Department     *string    `gorm:"size:128"`
	OTPHash        *string    `gorm:"column:otp_hash"`
	OTPExpiresAt   *time.Time `gorm:"column:otp_expires_at"`
	OTPPurpose     *string    `gorm:"column:otp_purpose;size:64"`
	OTPLastSentAt  *time.Time `gorm:"column:otp_last_sent_at"`
	OTPResendCount int        `gorm:"column:otp_resend_count;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository. codeColumn is the
// configured name of the optional user-code column.
func NewUserRepository(db *gorm.DB, codeColumn string) domain.UserRepository {
	return &UserRepositoryImpl{
		db:         db,
		codeColumn: codeColumn,
		probe:      &codeColumnProbe{},
	}
}

// Create implements domain.UserRepository. Inserting through a value
// map keeps the code column out of the model so its absence surfaces as
// a store error instead of a mapping failure.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User, includeCode bool) error {
	now := time.Now()
	values := map[string]interface{}{
		"full_name":  user.FullName,
		"email":      user.Email,
		"password":   user.PasswordHash,
		"role":       user.Role,
		"created_at": now,
		"updated_at": now,
	}
	if user.Department != "" {
		values["department"] = user.Department
	}
	if includeCode && user.UserCode != "" {
		values[r.codeColumn] = user.UserCode
	}

	if err := r.db.WithContext(ctx).Model(&DBUser{}).Create(values).Error; err != nil {
		if includeCode && user.UserCode != "" && r.isMissingCodeColumn(err) {
			r.probe.markUnsupported()
			return domain.ErrCodeColumnMissing
		}
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	user := r.dbToDomain(&dbUser)
	user.UserCode = r.fetchCode(ctx, dbUser.ID)
	return user, nil
}

// FindByCode implements domain.UserRepository
func (r *UserRepositoryImpl) FindByCode(ctx context.Context, code string) (*domain.User, error) {
	if r.probe.isUnsupported() {
		return nil, domain.ErrCodeLookupUnsupported
	}
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where(fmt.Sprintf("%s = ?", r.codeColumn), code).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		if r.isMissingCodeColumn(err) {
			r.probe.markUnsupported()
			return nil, domain.ErrCodeLookupUnsupported
		}
		return nil, err
	}
	user := r.dbToDomain(&dbUser)
	user.UserCode = code
	return user, nil
}

// CodeExists implements domain.UserRepository. Errors other than the
// missing-column class resolve to "not in use" so a flaky store never
// blocks registration.
func (r *UserRepositoryImpl) CodeExists(ctx context.Context, code string) (bool, error) {
	if r.probe.isUnsupported() {
		return false, domain.ErrCodeLookupUnsupported
	}
	var id uint
	err := r.db.WithContext(ctx).Model(&DBUser{}).Select("id").
		Where(fmt.Sprintf("%s = ?", r.codeColumn), code).Take(&id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if r.isMissingCodeColumn(err) {
			r.probe.markUnsupported()
			return false, domain.ErrCodeLookupUnsupported
		}
		return false, nil
	}
	return true, nil
}

// SetResetOTP implements domain.UserRepository
func (r *UserRepositoryImpl) SetResetOTP(ctx context.Context, email, otpHash string, expiresAt, sentAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("email = ?", email).Updates(map[string]interface{}{
		"otp_hash":         otpHash,
		"otp_expires_at":   expiresAt,
		"otp_purpose":      domain.OTPPurposeReset,
		"otp_last_sent_at": sentAt,
		"otp_resend_count": gorm.Expr("COALESCE(otp_resend_count, 0) + 1"),
		"updated_at":       time.Now(),
	})
	if res.Error != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ResetPassword implements domain.UserRepository. The password
// overwrite and the OTP field clearing ride one update so partial
// clearing is never observable.
func (r *UserRepositoryImpl) ResetPassword(ctx context.Context, email, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("email = ?", email).Updates(map[string]interface{}{
		"password":       passwordHash,
		"otp_hash":       nil,
		"otp_expires_at": nil,
		"otp_purpose":    nil,
		"updated_at":     time.Now(),
	})
	if res.Error != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// fetchCode reads the user's code, tolerating a missing column.
func (r *UserRepositoryImpl) fetchCode(ctx context.Context, id uint) string {
	if r.probe.isUnsupported() {
		return ""
	}
	var code sql.NullString
	err := r.db.WithContext(ctx).Model(&DBUser{}).Select(r.codeColumn).
		Where("id = ?", id).Scan(&code).Error
	if err != nil {
		if r.isMissingCodeColumn(err) {
			r.probe.markUnsupported()
		}
		return ""
	}
	return code.String
}

// isMissingCodeColumn classifies the store's "missing column/table"
// error class. Postgres reports SQLSTATE 42703/42P01; the message
// fallback covers other drivers (sqlite in tests says "no such column").
func (r *UserRepositoryImpl) isMissingCodeColumn(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedColumn || pgErr.Code == pgUndefinedTable
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "no such column") {
		return true
	}
	return strings.Contains(msg, strings.ToLower(r.codeColumn)) && strings.Contains(msg, "column")
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	user := &domain.User{
		ID:             dbUser.ID,
		FullName:       dbUser.FullName,
		Email:          dbUser.Email,
		Role:           dbUser.Role,
		PasswordHash:   dbUser.PasswordHash,
		OTPExpiresAt:   dbUser.OTPExpiresAt,
		OTPLastSentAt:  dbUser.OTPLastSentAt,
		OTPResendCount: dbUser.OTPResendCount,
		CreatedAt:      dbUser.CreatedAt,
		UpdatedAt:      dbUser.UpdatedAt,
	}
	if dbUser.Department != nil {
		user.Department = *dbUser.Department
	}
	if dbUser.OTPHash != nil {
		user.OTPHash = *dbUser.OTPHash
	}
	if dbUser.OTPPurpose != nil {
		user.OTPPurpose = *dbUser.OTPPurpose
	}
	return user
}
