package user

import (
	"Compliance-Shield/domain"
	"Compliance-Shield/entities"
	"Compliance-Shield/pkg/jwt"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// OTPModePermissive accepts any well-formed code for a pending challenge.
	OTPModePermissive = "permissive"
	// OTPModeStrict requires the code that was sent.
	OTPModeStrict = "strict"

	DefaultOTPTTL = 5 * time.Minute
	otpLength     = 6
)

type (
	UserService interface {
		RequestOTP(ctx context.Context, req domain.RequestOTPRequest) (domain.RequestOTPResponse, error)
		VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (domain.VerifyOTPResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
	}

	// OTPSender delivers a verification code to a phone number.
	OTPSender interface {
		SendOTP(ctx context.Context, phone string, code string) error
	}

	OTPConfig struct {
		Mode string
		TTL  time.Duration
	}

	otpChallenge struct {
		hash      []byte
		expiresAt time.Time
	}

	logOTPSender struct{}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		sender         OTPSender
		challenges     *cache.Cache
		config         OTPConfig
	}
)

// NewLogOTPSender returns a development sender. The code itself is only
// written at debug level; production deployments in strict mode plug in an
// SMS gateway through OTPSender instead.
func NewLogOTPSender() OTPSender {
	return logOTPSender{}
}

func (logOTPSender) SendOTP(_ context.Context, phone string, code string) error {
	log.Infow("verification code issued", "phone", maskPhone(phone))
	log.Debugw("verification code", "phone", maskPhone(phone), "code", code)
	return nil
}

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, sender OTPSender, config OTPConfig) UserService {
	if config.TTL <= 0 {
		config.TTL = DefaultOTPTTL
	}
	if config.Mode != OTPModeStrict {
		config.Mode = OTPModePermissive
	}
	if sender == nil {
		sender = NewLogOTPSender()
	}
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		sender:         sender,
		challenges:     cache.New(config.TTL, 2*config.TTL),
		config:         config,
	}
}

func (s *userService) RequestOTP(ctx context.Context, req domain.RequestOTPRequest) (domain.RequestOTPResponse, error) {
	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return domain.RequestOTPResponse{}, err
	}

	code, err := generateCode()
	if err != nil {
		return domain.RequestOTPResponse{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return domain.RequestOTPResponse{}, err
	}

	expiresAt := time.Now().Add(s.config.TTL)
	s.challenges.Set(phone, otpChallenge{hash: hash, expiresAt: expiresAt}, s.config.TTL)

	if err := s.sender.SendOTP(ctx, phone, code); err != nil {
		s.challenges.Delete(phone)
		return domain.RequestOTPResponse{}, fmt.Errorf("sending verification code: %w", err)
	}

	return domain.RequestOTPResponse{Phone: phone, ExpiresAt: expiresAt}, nil
}

// VerifyOTP consumes the pending challenge for the phone and signs the user
// in, creating the account on first use.
func (s *userService) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (domain.VerifyOTPResponse, error) {
	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return domain.VerifyOTPResponse{}, err
	}
	if !isCode(req.Code) {
		return domain.VerifyOTPResponse{}, domain.ErrInvalidOTP
	}

	cached, ok := s.challenges.Get(phone)
	if !ok {
		return domain.VerifyOTPResponse{}, domain.ErrOTPNotRequested
	}
	challenge := cached.(otpChallenge)

	if s.config.Mode == OTPModeStrict {
		if err := bcrypt.CompareHashAndPassword(challenge.hash, []byte(req.Code)); err != nil {
			return domain.VerifyOTPResponse{}, domain.ErrInvalidOTP
		}
	}
	s.challenges.Delete(phone)

	user, err := s.userRepository.FirstOrCreateByPhone(ctx, &entities.User{
		ID:    uuid.New(),
		Phone: phone,
		Name:  displayName(phone),
	})
	if err != nil {
		return domain.VerifyOTPResponse{}, err
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID.String(), domain.RoleUser)
	if err != nil {
		return domain.VerifyOTPResponse{}, err
	}
	log.Infow("user signed in", "user_id", user.ID.String())

	return domain.VerifyOTPResponse{
		Token: token,
		User:  toUserResponse(user),
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func toUserResponse(user *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Phone: user.Phone,
	}
}

// normalizePhone strips formatting. At least ten digits are required and a
// leading plus is kept.
func normalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for i, r := range raw {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return "", domain.ErrInvalidPhone
		}
	}
	phone := b.String()
	if len(strings.TrimPrefix(phone, "+")) < 10 {
		return "", domain.ErrInvalidPhone
	}
	return phone, nil
}

func displayName(phone string) string {
	return "User " + phone[len(phone)-4:]
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

func isCode(code string) bool {
	if len(code) != otpLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
