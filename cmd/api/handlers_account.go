package main

import (
	"errors"
	"net/http"
	"net/mail"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/storeapp/ecommerce-api/internal/account"
	"github.com/storeapp/ecommerce-api/internal/httpx"
)

// registerHandler godoc
// @Summary Register a user
// @Param body body account.RegisterRequest true "credentials"
// @Success 201 {object} account.User
// @Router /auth/register [post]
func registerHandler(users account.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req account.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, "invalid json")
			return
		}
		if req.Username == "" || req.Email == "" || req.Password == "" {
			abortError(c, http.StatusBadRequest, "username, email and password are required")
			return
		}
		if _, err := mail.ParseAddress(req.Email); err != nil {
			abortError(c, http.StatusBadRequest, "invalid email")
			return
		}
		if len(req.Password) < 6 {
			abortError(c, http.StatusBadRequest, "password must be at least 6 characters long")
			return
		}
		hash, err := account.HashPassword(req.Password)
		if err != nil {
			abortError(c, http.StatusInternalServerError, "hash error")
			return
		}
		u := &account.User{
			ID:           uuid.NewString(),
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
		}
		if err := users.Create(c.Request.Context(), u); err != nil {
			if errors.Is(err, account.ErrAlreadyExist) {
				abortError(c, http.StatusConflict, "user exists (username/email)")
				return
			}
			abortError(c, http.StatusInternalServerError, "create user failed")
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

// loginHandler godoc
// @Summary Issue a bearer token
// @Param body body account.LoginRequest true "credentials"
// @Success 200 {object} object
// @Failure 401 {object} catalog.HTTPError
// @Router /auth/login [post]
func loginHandler(users account.UserRepository, codec *account.TokenCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req account.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
			abortError(c, http.StatusBadRequest, "email and password are required")
			return
		}
		u, err := users.GetByEmail(c.Request.Context(), req.Email)
		if err != nil || !account.CheckPassword(u.PasswordHash, req.Password) {
			abortError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": codec.MintSession(u.ID, u.IsStaff), "user_id": u.ID})
	}
}

func getProfileHandler(repo account.ProfileRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := httpx.CallerIdentity(c)
		p, err := repo.GetProfile(c.Request.Context(), id.UserID)
		if err != nil {
			abortError(c, http.StatusNotFound, "profile not found")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// upsertProfileHandler godoc
// @Summary Create or replace the caller's profile
// @Success 200 {object} account.Profile
// @Router /profile [post]
func upsertProfileHandler(repo account.ProfileRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := httpx.CallerIdentity(c)
		var req struct {
			Name    string `json:"name"`
			Bio     string `json:"bio"`
			Picture string `json:"picture"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			abortError(c, http.StatusBadRequest, "name is required")
			return
		}
		p := &account.Profile{
			ID:      uuid.NewString(),
			UserID:  id.UserID,
			Name:    req.Name,
			Bio:     req.Bio,
			Picture: req.Picture,
		}
		if err := repo.UpsertProfile(c.Request.Context(), p); err != nil {
			abortError(c, http.StatusInternalServerError, "save profile failed")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func listAddressesHandler(repo account.AddressRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := httpx.CallerIdentity(c)
		addrs, err := repo.ListAddresses(c.Request.Context(), id.UserID)
		if err != nil {
			abortError(c, http.StatusInternalServerError, "list addresses failed")
			return
		}
		if addrs == nil {
			addrs = []account.Address{}
		}
		c.JSON(http.StatusOK, addrs)
	}
}

func getAddressHandler(repo account.AddressRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := httpx.CallerIdentity(c)
		a, err := repo.GetAddress(c.Request.Context(), id.UserID, c.Param("id"))
		if err != nil {
			abortError(c, http.StatusNotFound, "address not found")
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

func createAddressHandler(repo account.AddressRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := httpx.CallerIdentity(c)
		var a account.Address
		if err := c.ShouldBindJSON(&a); err != nil {
			abortError(c, http.StatusBadRequest, "invalid json")
			return
		}
		if a.StreetAddress == "" || a.City == "" || a.Country == "" {
			abortError(c, http.StatusBadRequest, "street_address, city and country are required")
			return
		}
		a.ID = uuid.NewString()
		a.UserID = id.UserID
		if err := repo.CreateAddress(c.Request.Context(), &a); err != nil {
			abortError(c, http.StatusInternalServerError, "create address failed")
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}

func updateAddressHandler(repo account.AddressRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := httpx.CallerIdentity(c)
		var a account.Address
		if err := c.ShouldBindJSON(&a); err != nil {
			abortError(c, http.StatusBadRequest, "invalid json")
			return
		}
		a.ID = c.Param("id")
		a.UserID = id.UserID
		if err := repo.UpdateAddress(c.Request.Context(), &a); err != nil {
			if errors.Is(err, account.ErrAddressNotFound) {
				abortError(c, http.StatusNotFound, "address not found")
				return
			}
			abortError(c, http.StatusInternalServerError, "update address failed")
			return
		}
		out, err := repo.GetAddress(c.Request.Context(), id.UserID, a.ID)
		if err != nil {
			abortError(c, http.StatusInternalServerError, "refetch failed")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func deleteAddressHandler(repo account.AddressRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := httpx.CallerIdentity(c)
		ok, err := repo.DeleteAddress(c.Request.Context(), id.UserID, c.Param("id"))
		if err != nil {
			abortError(c, http.StatusInternalServerError, "delete address failed")
			return
		}
		if !ok {
			abortError(c, http.StatusNotFound, "address not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// requestResetHandler godoc
// @Summary Request a password-reset link
// @Description Always answers 200 so callers cannot probe which emails exist.
// @Param body body account.ResetRequest true "email"
// @Success 200 {object} object
// @Router /password/reset [post]
func requestResetHandler(svc *account.ResetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req account.ResetRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
			abortError(c, http.StatusBadRequest, "email is required")
			return
		}
		if err := svc.Request(c.Request.Context(), req.Email); err != nil {
			abortError(c, http.StatusInternalServerError, "failed to send password reset email")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password reset link sent to email"})
	}
}

func confirmResetHandler(svc *account.ResetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req account.ResetConfirmRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.UID == "" || req.Token == "" {
			abortError(c, http.StatusBadRequest, "uid and token are required")
			return
		}
		if err := svc.Confirm(c.Request.Context(), req.UID, req.Token, req.Password); err != nil {
			switch {
			case errors.Is(err, account.ErrWeakPassword):
				abortError(c, http.StatusBadRequest, "password must be at least 6 characters long")
			case errors.Is(err, account.ErrInvalidToken):
				abortError(c, http.StatusBadRequest, "invalid or expired token")
			default:
				abortError(c, http.StatusInternalServerError, "password reset failed")
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password successfully reset"})
	}
}
