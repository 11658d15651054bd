package school

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
)

// RegistrationPayload is the body of POST /auth/registration.
type RegistrationPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks everything except password strength, which has its own
// status code and message.
func (r RegistrationPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(5, 25)),
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// LoginPayload is the body of POST /auth/login. Either username or email
// identifies the account.
type LoginPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Identifier returns the submitted account identifier, preferring username.
func (l LoginPayload) Identifier() string {
	if l.Username != "" {
		return l.Username
	}
	return l.Email
}

// ForgotPasswordPayload is the body of POST /auth/forget-password.
type ForgotPasswordPayload struct {
	Email string `json:"email"`
}

// ResetPasswordPayload is the body of POST /auth/reset-password.
type ResetPasswordPayload struct {
	Password string `json:"password"`
}

// AuthController serves the account lifecycle routes.
type AuthController struct {
	Logger        Logger
	repo          RepositoryManager
	tokens        *TokenService
	register      *RegisterUserHandler
	verify        *VerifyAccountHandler
	resetInit     *InitializePasswordResetHandler
	resetFinalize *FinalizePasswordResetHandler
}

func NewAuthController(repo RepositoryManager, tokens *TokenService, mailer Mailer, config Config, logger Logger) *AuthController {
	if logger == nil {
		logger = defLogger{}
	}
	return &AuthController{
		Logger:        logger,
		repo:          repo,
		tokens:        tokens,
		register:      NewRegisterUserHandler(repo, mailer, config, logger),
		verify:        NewVerifyAccountHandler(repo),
		resetInit:     NewInitializePasswordResetHandler(repo, tokens, mailer, config, logger),
		resetFinalize: NewFinalizePasswordResetHandler(repo, tokens),
	}
}

// Index is the unauthenticated landing route.
func (c *AuthController) Index(ctx router.Context) error {
	return ctx.JSON(router.StatusOK, map[string]string{
		"message": "Welcome to the School Management API!",
	})
}

// Register creates an account with the regular role and emails the
// verification link.
func (c *AuthController) Register(ctx router.Context) error {
	payload := RegistrationPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	if !SecretIsStrong(payload.Password) {
		return ctx.JSON(router.StatusForbidden, map[string]string{
			"message": ErrWeakSecret.Message,
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	var created *User
	err := c.register.Execute(ctx.Context(), RegisterUserMessage{
		Username:  payload.Username,
		Email:     payload.Email,
		Password:  payload.Password,
		UseHashid: true,
		OnResponse: func(resp *RegisterUserResponse) {
			created = resp.User
		},
	})

	if err != nil {
		if IsDuplicate(err) {
			return c.respondError(ctx, err)
		}

		// the account persists even when the verification email bounces
		c.Logger.Error("registration failed: %v", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{
			"message": "Registration failed!",
		})
	}

	return ctx.JSON(router.StatusCreated, map[string]any{
		"user":    created.Public(),
		"message": "Registration successful! Please, check your email: " + created.Email + " and verify your account!",
	})
}

// Login verifies credentials and sets the session cookie pair.
func (c *AuthController) Login(ctx router.Context) error {
	payload := LoginPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	user, err := c.repo.Users().GetByIdentifier(ctx.Context(), payload.Identifier())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return c.respondError(ctx, ErrUserNotFound)
		}
		c.Logger.Error("login lookup failed: %v", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{
			"message": "An error occurred! Login failed!",
		})
	}

	if err := ComparePasswordAndHash(payload.Password, user.PasswordHash); err != nil {
		return c.respondError(ctx, ErrPasswordMismatch)
	}

	claims := NewSessionClaims(user)
	pair, err := c.tokens.MintSessionPair(claims, LoginAccessTokenTTL, RefreshTokenTTL)
	if err != nil {
		c.Logger.Error("login failed to mint session pair: %v", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{
			"message": "An error occurred! Login failed!",
		})
	}

	SetSessionCookies(ctx, pair)

	return ctx.JSON(router.StatusOK, map[string]any{
		"user":    claims,
		"message": "Successfully Logged In!",
	})
}

// Logout expires both session cookies. It never fails, even without a
// session.
func (c *AuthController) Logout(ctx router.Context) error {
	ClearSessionCookies(ctx)

	return ctx.JSON(router.StatusOK, map[string]string{
		"message": "User Logged Out!",
	})
}

// VerifyEmail consumes the emailed verification link. Responses are plain
// text, matching what a mail client opens in a browser.
func (c *AuthController) VerifyEmail(ctx router.Context) error {
	token := ctx.Query("token")
	if token == "" {
		return ctx.Status(router.StatusNotFound).SendString("Invalid verification token!")
	}

	err := c.verify.Execute(ctx.Context(), VerifyAccountMessage{Token: token})
	if err != nil {
		if errTextCode(err) == TextCodeVerificationToken {
			return ctx.Status(router.StatusNotFound).SendString("Invalid verification token!")
		}
		c.Logger.Error("email verification failed: %v", err)
		return ctx.Status(router.StatusInternalServerError).SendString("Verification Failed!")
	}

	return ctx.Status(router.StatusOK).SendString("Email verified successfully!")
}

// ForgotPassword emails a fifteen minute reset link.
func (c *AuthController) ForgotPassword(ctx router.Context) error {
	payload := ForgotPasswordPayload{}
	if err := ctx.Bind(&payload); err != nil || payload.Email == "" {
		return ctx.JSON(router.StatusForbidden, map[string]string{
			"message": "Invalid Email Address!",
		})
	}

	err := c.resetInit.Execute(ctx.Context(), InitializePasswordResetMessage{Email: payload.Email})
	if err != nil {
		if errTextCode(err) == TextCodeMailDelivery {
			return ctx.JSON(router.StatusInternalServerError, map[string]string{
				"message": "Failed to sent reset link!",
			})
		}
		return c.respondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"message": "Reset password link sent to your email address!",
	})
}

// ResetPassword finalizes a reset using the token from the emailed link.
func (c *AuthController) ResetPassword(ctx router.Context) error {
	token := ctx.Query("token")
	if token == "" {
		return ctx.JSON(router.StatusForbidden, map[string]string{
			"message": "Invalid or Empty Token!",
		})
	}

	payload := ResetPasswordPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return ctx.JSON(router.StatusForbidden, map[string]string{
			"message": ErrWeakSecret.Message,
		})
	}

	err := c.resetFinalize.Execute(ctx.Context(), FinalizePasswordResetMessage{
		Token:    token,
		Password: payload.Password,
	})
	if err != nil {
		return c.respondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"message": "Your password has been reset successfully!",
	})
}

func (c *AuthController) respondError(ctx router.Context, err error) error {
	var rich *errors.Error
	if errors.As(err, &rich) && len(rich.Metadata) > 0 {
		c.Logger.Debug("request failed: %s", print.MaybePrettyJSON(rich.Metadata))
	}
	return ctx.JSON(StatusCode(err), map[string]string{
		"message": UserMessage(err),
	})
}
