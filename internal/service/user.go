package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"invoice-generator/internal/models"
	"invoice-generator/internal/util"

	"gorm.io/gorm"
)

// UserInput creates a user.
type UserInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// UserPatch updates a user; nil fields are left as they are. A new password
// is hashed before it is stored.
type UserPatch struct {
	Username *string
	Email    *string
	Password *string
	Role     *string
}

// UserFilter narrows List.
type UserFilter struct {
	ListParams
	Role string
}

const (
	maxFailedLogins = 5
	lockDuration    = 10 * time.Minute
)

type UserService struct {
	db         *gorm.DB
	bcryptCost int
	now        func() time.Time
}

func NewUserService(db *gorm.DB, bcryptCost int) *UserService {
	return &UserService{db: db, bcryptCost: bcryptCost, now: time.Now}
}

func validRole(r string) bool { return r == models.RoleAdmin || r == models.RoleUser }

func (s *UserService) identityTaken(db *gorm.DB, username, email, exceptID string) (bool, error) {
	var n int64
	q := db.Model(&models.User{})
	switch {
	case username != "" && email != "":
		q = q.Where("(LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?))", username, email)
	case username != "":
		q = q.Where("LOWER(username) = LOWER(?)", username)
	case email != "":
		q = q.Where("LOWER(email) = LOWER(?)", email)
	default:
		return false, nil
	}
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// HasAdmin reports whether any admin account exists.
func (s *UserService) HasAdmin(ctx context.Context) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&n).Error; err != nil {
		return false, internal("count admins", err)
	}
	return n > 0, nil
}

// Create adds a user with a bcrypt-hashed password.
func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !validRole(in.Role) {
		return nil, validationf("invalid role %q", in.Role)
	}

	db := s.db.WithContext(ctx)
	taken, err := s.identityTaken(db, in.Username, in.Email, "")
	if err != nil {
		return nil, internal("check user identity", err)
	}
	if taken {
		return nil, conflict("username or email is already in use", nil)
	}

	hash, err := util.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, validationf("%v", err)
	}
	u := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("username or email is already in use", err)
		}
		return nil, internal("create user", err)
	}
	return u, nil
}

// Get loads a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user")
		}
		return nil, internal("load user", err)
	}
	return &u, nil
}

func countOtherAdmins(db *gorm.DB, exceptID string) (int64, error) {
	var n int64
	err := db.Model(&models.User{}).Where("role = ? AND id <> ?", models.RoleAdmin, exceptID).Count(&n).Error
	return n, err
}

// Update applies the non-nil fields of p. Demoting the last admin fails.
func (s *UserService) Update(ctx context.Context, id string, p UserPatch) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	updates := map[string]any{}
	var username, email string
	if p.Username != nil {
		username = strings.TrimSpace(*p.Username)
		updates["username"] = username
	}
	if p.Email != nil {
		email = strings.TrimSpace(*p.Email)
		updates["email"] = email
	}
	taken, err := s.identityTaken(db, username, email, id)
	if err != nil {
		return nil, internal("check user identity", err)
	}
	if taken {
		return nil, conflict("username or email is already in use", nil)
	}
	if p.Role != nil {
		if !validRole(*p.Role) {
			return nil, validationf("invalid role %q", *p.Role)
		}
		if u.IsAdmin() && *p.Role != models.RoleAdmin {
			others, err := countOtherAdmins(db, id)
			if err != nil {
				return nil, internal("count admins", err)
			}
			if others == 0 {
				return nil, ErrLastAdmin
			}
		}
		updates["role"] = *p.Role
	}
	if p.Password != nil {
		hash, err := util.HashPassword(*p.Password, s.bcryptCost)
		if err != nil {
			return nil, validationf("%v", err)
		}
		updates["password_hash"] = hash
	}
	if len(updates) == 0 {
		return u, nil
	}

	if err := db.Model(u).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("username or email is already in use", err)
		}
		return nil, internal("update user", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a user. actorID is the caller: nobody can delete
// themself, and the last admin cannot be deleted.
func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrSelfDelete
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	db := s.db.WithContext(ctx)
	if u.IsAdmin() {
		others, err := countOtherAdmins(db, id)
		if err != nil {
			return internal("count admins", err)
		}
		if others == 0 {
			return ErrLastAdmin
		}
	}
	if err := db.Delete(&models.User{}, "id = ?", id).Error; err != nil {
		return internal("delete user", err)
	}
	return nil
}

// List pages through users, searching username and email.
func (s *UserService) List(ctx context.Context, f UserFilter) (*Page[models.User], error) {
	f.normalize()
	q := s.db.WithContext(ctx).Model(&models.User{})
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("(LOWER(username) LIKE ? OR LOWER(email) LIKE ?)", like, like)
	}
	if f.Role != "" {
		if !validRole(f.Role) {
			return nil, validationf("invalid role %q", f.Role)
		}
		q = q.Where("role = ?", f.Role)
	}
	page, err := paginate[models.User](q, f.ListParams, "created_at DESC")
	if err != nil {
		return nil, internal("list users", err)
	}
	return page, nil
}

// ChangePassword replaces the password of id after verifying the old one.
func (s *UserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !util.CheckPassword(oldPassword, u.PasswordHash) {
		return ErrWrongPassword
	}
	hash, err := util.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return validationf("%v", err)
	}
	if err := s.db.WithContext(ctx).Model(u).Update("password_hash", hash).Error; err != nil {
		return internal("change password", err)
	}
	return nil
}

// Authenticate checks a username and password. Five consecutive failures
// lock the account for ten minutes. Unknown users and wrong passwords
// produce the same error.
func (s *UserService) Authenticate(ctx context.Context, username, password, ip string) (*models.User, error) {
	db := s.db.WithContext(ctx)
	var u models.User
	if err := db.Where("LOWER(username) = LOWER(?)", strings.TrimSpace(username)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, internal("load user", err)
	}

	now := s.now()
	if u.LockedUntil != nil && now.Before(*u.LockedUntil) {
		return nil, ErrAccountLocked
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		attempts := u.FailedLoginAttempts + 1
		updates := map[string]any{"failed_login_attempts": attempts}
		if attempts >= maxFailedLogins {
			until := now.Add(lockDuration)
			updates["locked_until"] = until
			updates["failed_login_attempts"] = 0
		}
		if err := db.Model(&u).Updates(updates).Error; err != nil {
			return nil, internal("record failed login", err)
		}
		return nil, ErrInvalidCredentials
	}

	updates := map[string]any{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_at":         now,
		"last_login_ip":         ip,
	}
	if err := db.Model(&u).Updates(updates).Error; err != nil {
		return nil, internal("record login", err)
	}
	u.LastLoginAt = &now
	return &u, nil
}
