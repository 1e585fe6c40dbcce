package server

import (
	"net/http"
	"strings"
	"time"

	"cinefile/internal"
	"cinefile/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

func (s *Service) handleGetLogin(w http.ResponseWriter, r *http.Request) {
	if !s.config.AuthEnabled() {
		http.Redirect(w, r, "/movies", http.StatusSeeOther)
		return
	}

	_, err := r.Cookie(internal.COOKIE_ACCESS_TOKEN_NAME)
	if err == nil {
		s.logger.Info("user is already logged in, redirecting to movies")
		http.Redirect(w, r, "/movies", http.StatusSeeOther)
		return
	}

	data := &types.LoginPageData{
		BasePageData: types.BasePageData{Title: "Sign In"},
	}

	err = s.renderTemplate(w, r, "page.login", data)
	if err != nil {
		s.logger.WithError(err).Error("failed to render login page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	if !s.config.AuthEnabled() {
		http.Redirect(w, r, "/movies", http.StatusSeeOther)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	data := &types.LoginPageData{
		BasePageData: types.BasePageData{Title: "Sign In"},
		Email:        email,
	}

	input := &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: ctypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(s.config.CognitoClientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	}

	resp, err := s.authClient.InitiateAuth(r.Context(), input)
	if err != nil || resp.AuthenticationResult == nil || resp.AuthenticationResult.AccessToken == nil {
		// NotAuthorizedException, UserNotConfirmedException, etc.
		s.logger.WithError(err).WithField("email", email).Info("login failed")

		data.Error = "Invalid email or password."
		w.WriteHeader(http.StatusUnauthorized)
		if renderErr := s.renderTemplate(w, r, "page.login", data); renderErr != nil {
			s.logger.WithError(renderErr).Error("failed to render login page")
		}
		return
	}

	accessToken := aws.ToString(resp.AuthenticationResult.AccessToken)
	expiresIn := int(resp.AuthenticationResult.ExpiresIn)

	encryptedToken, err := s.cookie.Encode(internal.COOKIE_ACCESS_TOKEN_NAME, accessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt access token")
		s.internalServerError(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    encryptedToken,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   expiresIn,
		Path:     "/",
	})

	// Check to see if this login attempt was the result of an unauthed redirect
	redirectCookie, err := r.Cookie(internal.COOKIE_REDIRECT_NAME)
	if err == nil && strings.HasPrefix(redirectCookie.Value, "/") {
		s.clearRedirectCookie(w)
		http.Redirect(w, r, redirectCookie.Value, http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/movies", http.StatusSeeOther)
}

func (s *Service) handlePostLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Service) setRedirectCookie(w http.ResponseWriter, path string, age time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_REDIRECT_NAME,
		Value:    path,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(age.Seconds()),
	})
}

func (s *Service) clearRedirectCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_REDIRECT_NAME,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
