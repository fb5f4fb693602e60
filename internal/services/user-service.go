package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/somang-dev/church_service/internal/domain"
	"github.com/somang-dev/church_service/internal/dto"
	"github.com/somang-dev/church_service/internal/helper"
	"github.com/somang-dev/church_service/internal/interfaces"
	"github.com/somang-dev/church_service/internal/repository"
	"github.com/somang-dev/church_service/pkg/utils"
)

// Bootstrap admin identity, honored only while the user store is empty.
const (
	bootstrapAdminEmail    = "admin@church.com"
	bootstrapAdminPassword = "admin1234"
	bootstrapAdminName     = "Administrator"
)

type UserService interface {
	Register(input dto.RegisterRequest) error
	Login(input dto.LoginRequest) (string, error)
	FindEmail(input dto.FindEmailRequest) (string, error)
	ResetPassword(input dto.ResetPasswordRequest) error
	ChangePassword(session dto.AuthResponse, input dto.ChangePasswordRequest) error

	GetUsers(session dto.AuthResponse) ([]dto.UserResponse, error)
	AddUser(session dto.AuthResponse, input dto.AddUserRequest) error
	DeleteUser(session dto.AuthResponse, userID uint) error
	DeleteUsers(session dto.AuthResponse, userIDs []uint) error
}

type userService struct {
	repo           repository.UserRepository
	auth           helper.Auth
	crypto         helper.Crypto
	limiter        *helper.LoginLimiter
	producer       interfaces.ProducerHandler
	adminSecretKey string
}

func NewUserService(
	repo repository.UserRepository,
	auth helper.Auth,
	crypto helper.Crypto,
	limiter *helper.LoginLimiter,
	producer interfaces.ProducerHandler,
	adminSecretKey string,
) UserService {
	return &userService{
		repo:           repo,
		auth:           auth,
		crypto:         crypto,
		limiter:        limiter,
		producer:       producer,
		adminSecretKey: adminSecretKey,
	}
}

func (s *userService) Register(input dto.RegisterRequest) error {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if name == "" || email == "" || password == "" {
		return errors.New("invalid inputs")
	}

	existing, err := s.repo.FindUserByEmail(email)
	if err == nil && existing != nil && existing.ID != 0 {
		return errors.New("email already in use")
	}

	hashed, err := helper.HashPassword(password)
	if err != nil {
		return err
	}

	role := domain.RoleMember
	if input.SecretCode != "" && input.SecretCode == s.adminSecretKey {
		role = domain.RoleAdmin
	}

	newUser := &domain.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     role,
	}
	if p := strings.TrimSpace(input.Phone); p != "" {
		newUser.Phone = &p
	}
	if addr := joinAddress(input.Address, input.AddressDetail); addr != "" {
		newUser.Address = &addr
	}
	if rid := strings.TrimSpace(input.ResidentID); rid != "" {
		enc := s.crypto.Encrypt(rid)
		newUser.ResidentID = &enc
	}

	if _, err := s.repo.CreateUser(newUser); err != nil {
		return err
	}
	return nil
}

// Login verifies credentials and issues a session token. The throttle
// check runs before any storage lookup; the failure message never says
// whether the email exists.
func (s *userService) Login(input dto.LoginRequest) (string, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := input.Password

	if email == "" || password == "" {
		return "", errors.New("invalid email or password")
	}

	if blocked, minutes := s.limiter.Blocked(email); blocked {
		return "", fmt.Errorf("too many login attempts, retry in %d minutes", minutes)
	}

	s.bootstrapAdminIfEmpty(email, password)

	user, err := s.repo.FindUserByEmail(email)
	valid := false
	if err == nil && user != nil && user.ID != 0 {
		ok, legacy := helper.VerifyPassword(password, user.Password)
		valid = ok
		if ok && legacy {
			// Transparent upgrade: replace the plaintext credential with a
			// hash now that we have the plain value in hand.
			if hashed, hErr := helper.HashPassword(password); hErr == nil {
				user.Password = hashed
				if sErr := s.repo.SaveUser(user); sErr != nil {
					log.Printf("password upgrade failed for user %d: %v", user.ID, sErr)
				}
			}
		}
	}

	if !valid {
		s.limiter.Fail(email)
		return "", errors.New("invalid email or password")
	}

	s.limiter.Reset(email)
	return s.auth.GenerateToken(user.ID, user.Role, user.Name)
}

// bootstrapAdminIfEmpty creates the default admin account on first run.
// It only ever fires when the user store is completely empty and the
// submitted credentials equal the known bootstrap identity.
func (s *userService) bootstrapAdminIfEmpty(email, password string) {
	if email != bootstrapAdminEmail || password != bootstrapAdminPassword {
		return
	}

	count, err := s.repo.CountUsers()
	if err != nil || count != 0 {
		return
	}

	hashed, err := helper.HashPassword(bootstrapAdminPassword)
	if err != nil {
		return
	}
	if _, err := s.repo.CreateUser(&domain.User{
		Name:     bootstrapAdminName,
		Email:    bootstrapAdminEmail,
		Password: hashed,
		Role:     domain.RoleAdmin,
	}); err != nil {
		log.Printf("bootstrap admin creation failed: %v", err)
	}
}

// FindEmail recovers a login email from name + phone. Exact match first,
// then a name-only pass screened by digits-only phone comparison so
// "010-1111-2222" and "01011112222" both work.
func (s *userService) FindEmail(input dto.FindEmailRequest) (string, error) {
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" || phone == "" {
		return "", errors.New("no matching user found")
	}

	user, err := s.repo.FindUserByNamePhone(name, phone)
	if err == nil && user != nil {
		return user.Email, nil
	}

	candidates, err := s.repo.FindUsersByName(name)
	if err != nil {
		return "", errors.New("no matching user found")
	}

	normalized := utils.NormalizePhone(phone)
	for i := range candidates {
		if candidates[i].Phone == nil {
			continue
		}
		if utils.NormalizePhone(*candidates[i].Phone) == normalized {
			return candidates[i].Email, nil
		}
	}

	return "", errors.New("no matching user found")
}

func (s *userService) ResetPassword(input dto.ResetPasswordRequest) error {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	phone := strings.TrimSpace(input.Phone)
	newPassword := strings.TrimSpace(input.NewPassword)

	if name == "" || email == "" || phone == "" || newPassword == "" {
		return errors.New("no matching user found")
	}

	candidates, err := s.repo.FindUsersByNameEmail(name, email)
	if err != nil {
		return errors.New("no matching user found")
	}

	var match *domain.User
	for i := range candidates {
		if candidates[i].Phone != nil && *candidates[i].Phone == phone {
			match = &candidates[i]
			break
		}
	}
	if match == nil {
		normalized := utils.NormalizePhone(phone)
		for i := range candidates {
			if candidates[i].Phone == nil {
				continue
			}
			if utils.NormalizePhone(*candidates[i].Phone) == normalized {
				match = &candidates[i]
				break
			}
		}
	}
	if match == nil {
		return errors.New("no matching user found")
	}

	hashed, err := helper.HashPassword(newPassword)
	if err != nil {
		return err
	}
	match.Password = hashed
	return s.repo.SaveUser(match)
}

func (s *userService) ChangePassword(session dto.AuthResponse, input dto.ChangePasswordRequest) error {
	if session.UserID == 0 {
		return errors.New("login required")
	}
	if input.NewPassword == "" || input.NewPassword != input.ConfirmPassword {
		return errors.New("new passwords do not match")
	}

	user, err := s.repo.FindUserById(session.UserID)
	if err != nil || user == nil {
		return errors.New("user not found")
	}

	ok, _ := helper.VerifyPassword(input.CurrentPassword, user.Password)
	if !ok {
		return errors.New("current password is incorrect")
	}

	hashed, err := helper.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	return s.repo.SaveUser(user)
}

func (s *userService) GetUsers(session dto.AuthResponse) ([]dto.UserResponse, error) {
	if session.UserID == 0 {
		return []dto.UserResponse{}, nil
	}

	var users []domain.User
	if session.Role == domain.RoleAdmin {
		all, err := s.repo.ListUsers()
		if err != nil {
			return nil, err
		}
		users = all
	} else {
		// Members only see themselves. A session whose row is gone (deleted
		// while the token was still live) sees nothing rather than an error.
		self, err := s.repo.FindUserById(session.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return []dto.UserResponse{}, nil
			}
			return nil, err
		}
		users = []domain.User{*self}
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp := dto.UserResponse{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		}
		if u.Phone != nil {
			resp.Phone = *u.Phone
		}
		if u.Address != nil {
			resp.Address = *u.Address
		}
		// Decrypt, then mask. Listings never carry the full value; that
		// is reserved for the legal receipt and the tax export.
		decrypted := ""
		if u.ResidentID != nil {
			decrypted = s.crypto.Decrypt(*u.ResidentID)
		}
		resp.ResidentID = utils.MaskResidentID(decrypted)
		out = append(out, resp)
	}
	return out, nil
}

func (s *userService) AddUser(session dto.AuthResponse, input dto.AddUserRequest) error {
	if err := requireAdmin(session); err != nil {
		return err
	}

	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	phone := strings.TrimSpace(input.Phone)
	role := strings.TrimSpace(strings.ToUpper(input.Role))

	if name == "" || email == "" || strings.TrimSpace(input.Password) == "" || phone == "" {
		return errors.New("invalid inputs")
	}
	if role == "" {
		role = domain.RoleMember
	}
	if role != domain.RoleAdmin && role != domain.RoleMember {
		return errors.New("invalid role")
	}

	existing, err := s.repo.FindUserByEmail(email)
	if err == nil && existing != nil && existing.ID != 0 {
		return errors.New("email already in use")
	}

	// Hash here too, even though this is the admin-enrollment path. Every
	// other credential path stores a hash; legacy plaintext rows are only
	// tolerated on read.
	hashed, err := helper.HashPassword(strings.TrimSpace(input.Password))
	if err != nil {
		return err
	}

	newUser := &domain.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     role,
		Phone:    &phone,
	}
	if addr := strings.TrimSpace(input.Address); addr != "" {
		newUser.Address = &addr
	}
	if rid := strings.TrimSpace(input.ResidentID); rid != "" {
		enc := s.crypto.Encrypt(rid)
		newUser.ResidentID = &enc
	}

	entry := &domain.AuditLog{
		Action:      domain.AuditCreate,
		Entity:      "User",
		EntityID:    domain.AuditEntityNew,
		Details:     fmt.Sprintf("[%s] %s (%s)", role, name, email),
		PerformedBy: performedBy(session),
		CreatedAt:   time.Now(),
	}

	if _, err := s.repo.CreateUserWithAudit(newUser, entry); err != nil {
		return err
	}

	s.invalidateAdmin(domain.AuditCreate)
	return nil
}

func (s *userService) DeleteUser(session dto.AuthResponse, userID uint) error {
	if err := requireAdmin(session); err != nil {
		return err
	}

	user, err := s.repo.FindUserById(userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errors.New("user not found")
		}
		return err
	}

	entry := &domain.AuditLog{
		Action:      domain.AuditDelete,
		Entity:      "User",
		EntityID:    fmt.Sprintf("%d", userID),
		Details:     fmt.Sprintf("[DELETE] %s (%s)", user.Name, user.Email),
		PerformedBy: performedBy(session),
		CreatedAt:   time.Now(),
	}

	if err := s.repo.DeleteUserWithAudit(userID, entry); err != nil {
		return err
	}

	s.invalidateAdmin(domain.AuditDelete)
	return nil
}

func (s *userService) DeleteUsers(session dto.AuthResponse, userIDs []uint) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return errors.New("no users selected")
	}

	entry := &domain.AuditLog{
		Action:      domain.AuditDelete,
		Entity:      "User",
		EntityID:    domain.AuditEntityMultiple,
		Details:     fmt.Sprintf("[DELETE] %d users removed", len(userIDs)),
		PerformedBy: performedBy(session),
		CreatedAt:   time.Now(),
	}

	if err := s.repo.DeleteUsersWithAudit(userIDs, entry); err != nil {
		return err
	}

	s.invalidateAdmin(domain.AuditDelete)
	return nil
}

func joinAddress(address, detail string) string {
	address = strings.TrimSpace(address)
	detail = strings.TrimSpace(detail)
	if address == "" {
		return ""
	}
	if detail == "" {
		return address
	}
	return address + " " + detail
}

func (s *userService) invalidateAdmin(action string) {
	if s.producer == nil {
		return
	}
	payload := fmt.Sprintf(`{"view":"admin","entity":"User","action":"%s","at":"%s"}`,
		action, time.Now().Format(time.RFC3339))
	_ = s.producer.PublishMessage([]byte("admin.invalidate"), []byte(payload))
}
