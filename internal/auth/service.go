package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/justmahmoud31/Ryo-Server/internal/users"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("old password incorrect")
	ErrBadOTP             = errors.New("invalid or expired OTP")
)

type UserStore interface {
	Create(ctx context.Context, u *users.User) error
	GetByEmail(ctx context.Context, email string) (*users.User, error)
	GetByID(ctx context.Context, id string) (*users.User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
}

type Mailer interface {
	SendPasswordReset(to, code string) error
}

type Service struct {
	Users  UserStore
	Codes  CodeStore
	Mail   Mailer
	Tokens *Tokens
	Log    *zap.Logger
}

type RegisterInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*users.User, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &users.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PhoneNumber:  in.PhoneNumber,
		Role:         users.RoleUser,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.Log.Info("user registered", zap.String("user_id", u.ID))
	return u, nil
}

// Login returns a signed bearer token plus the user's role.
func (s *Service) Login(ctx context.Context, email, password string) (token string, role users.Role, err error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.Tokens.Issue(u)
	if err != nil {
		return "", "", err
	}
	return token, u.Role, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !CheckPassword(u.PasswordHash, oldPassword) {
		return ErrWrongPassword
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, u.ID, hash)
}

// SendResetOTP stores a fresh code for the email and mails it. Unknown
// emails surface users.ErrNotFound so the handler can 404 like the rest of
// the API.
func (s *Service) SendResetOTP(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	code := NewOTP()
	if err := s.Codes.Save(ctx, u.Email, code); err != nil {
		return err
	}
	if err := s.Mail.SendPasswordReset(u.Email, code); err != nil {
		return err
	}
	s.Log.Info("reset OTP sent", zap.String("user_id", u.ID))
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	stored, err := s.Codes.Get(ctx, u.Email)
	if err != nil || stored != otp {
		return ErrBadOTP
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}
	return s.Codes.Clear(ctx, u.Email)
}
