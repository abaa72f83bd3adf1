package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
	"github.com/Senshu-NEst/NEst-backend/pkg/apperror"
	"github.com/Senshu-NEst/NEst-backend/pkg/oauth"
	"github.com/Senshu-NEst/NEst-backend/pkg/utils"
)

// AuthService issues and refreshes tokens for staff and customers.
type AuthService struct {
	reg        *repository.Registry
	jwtManager *utils.JWTManager
	googleAuth *oauth.GoogleOAuthService
}

// NewAuthService creates a new auth service
func NewAuthService(reg *repository.Registry, jwtManager *utils.JWTManager, googleAuth *oauth.GoogleOAuthService) *AuthService {
	return &AuthService{
		reg:        reg,
		jwtManager: jwtManager,
		googleAuth: googleAuth,
	}
}

// TokenPair holds an access/refresh token pair
type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// StaffLogin authenticates a register operator by staff code and password
func (s *AuthService) StaffLogin(ctx context.Context, staffCode, password string) (*TokenPair, error) {
	staff, err := s.reg.Staffs.GetByStaffCode(ctx, staffCode)
	if err != nil {
		return nil, err
	}
	if staff == nil || !staff.User.IsActive {
		return nil, apperror.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.User.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	perms := PermissionsFromRole(&staff.Permission)
	access, err := s.jwtManager.GenerateAccessToken(staff.UserID, staff.StaffCode, staff.AffiliateStore, perms.Names())
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(staff.UserID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a refresh token for a fresh pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.reg.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.ErrInvalidToken
	}

	// Staff tokens carry the staff claims again; customer tokens stay bare.
	var staffCode, storeCode string
	var permNames []string
	if staff, err := s.reg.Staffs.GetByUserID(ctx, userID); err != nil {
		return nil, err
	} else if staff != nil {
		staffCode = staff.StaffCode
		storeCode = staff.AffiliateStore
		permNames = PermissionsFromRole(&staff.Permission).Names()
	}

	access, err := s.jwtManager.GenerateAccessToken(userID, staffCode, storeCode, permNames)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// GoogleAuthURL returns the consent URL for customer sign-in
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if !s.googleAuth.IsConfigured() {
		return "", apperror.NewBadRequestError("Google sign-in is not configured")
	}
	return s.googleAuth.GetAuthURL(state), nil
}

// GoogleSignIn completes the OAuth code exchange and issues tokens for
// the customer, creating the account and its wallet on first sign-in.
func (s *AuthService) GoogleSignIn(ctx context.Context, code string) (*TokenPair, error) {
	if !s.googleAuth.IsConfigured() {
		return nil, apperror.NewBadRequestError("Google sign-in is not configured")
	}

	token, err := s.googleAuth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	info, err := s.googleAuth.GetUserInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	if !info.VerifiedEmail {
		return nil, apperror.NewBadRequestError("Google account email is not verified")
	}

	user, err := s.reg.Users.GetByEmail(ctx, info.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &entity.User{Email: info.Email, Name: info.Name, IsActive: true}
		if err := s.reg.Users.Create(ctx, user); err != nil {
			return nil, err
		}
		customer := &entity.Customer{UserID: user.ID}
		if err := s.reg.Customers.Create(ctx, customer); err != nil {
			return nil, err
		}
		if err := s.reg.Wallets.Create(ctx, &entity.Wallet{CustomerID: customer.ID}); err != nil {
			return nil, err
		}
	}

	access, err := s.jwtManager.GenerateAccessToken(user.ID, "", "", nil)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Profile is what a verified token resolves to
type Profile struct {
	UserID      uuid.UUID  `json:"user_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	StaffCode   string     `json:"staff_code,omitempty"`
	StoreCode   string     `json:"store_code,omitempty"`
	Permissions []string   `json:"permissions,omitempty"`
	CustomerID  *uuid.UUID `json:"customer_id,omitempty"`
}

// Verify resolves an access token into the caller's profile
func (s *AuthService) Verify(ctx context.Context, accessToken string) (*Profile, error) {
	claims, err := s.jwtManager.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.reg.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.ErrInvalidToken
	}

	profile := &Profile{
		UserID:      user.ID,
		Name:        user.Name,
		Email:       user.Email,
		StaffCode:   claims.StaffCode,
		StoreCode:   claims.StoreCode,
		Permissions: claims.Permissions,
	}
	if customer, err := s.reg.Customers.GetByUserID(ctx, user.ID); err != nil {
		return nil, err
	} else if customer != nil {
		profile.CustomerID = &customer.ID
	}
	return profile, nil
}
