package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"scicomp-hub/internal/domain"
	"scicomp-hub/internal/service"
	httpez "scicomp-hub/internal/transport/http/ez"
)

type userOut struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Organization string `json:"organization,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Role         string `json:"role"`
	IsActive     bool   `json:"is_active"`
}

func toUserOut(u *domain.User) userOut {
	return userOut{
		ID: u.ID, Email: u.Email, Name: u.Name,
		Organization: u.Organization, Phone: u.Phone,
		Role: string(u.Role), IsActive: u.IsActive,
	}
}

func mountAuthActions(api, authed *gin.RouterGroup, d Deps) {
	ezPublic := httpez.New(api)
	ezAuth := httpez.New(authed)

	type signupIn struct {
		Email        string `json:"email"    binding:"required,email"`
		Password     string `json:"password" binding:"required"`
		Name         string `json:"name"     binding:"omitempty,max=64"`
		Organization string `json:"organization" binding:"omitempty,max=128"`
		Phone        string `json:"phone"    binding:"omitempty,max=32"`
	}
	type tokenOut struct {
		Token string  `json:"token"`
		User  userOut `json:"user"`
	}
	httpez.Register(ezPublic, httpez.Action[signupIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/auth/signup",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *signupIn) (tokenOut, error) {
			u, tok, err := d.Auth.Signup(c.Request.Context(), service.SignupInput{
				Email: in.Email, Password: in.Password, Name: in.Name,
				Organization: in.Organization, Phone: in.Phone,
			})
			if err != nil {
				return tokenOut{}, err
			}
			return tokenOut{Token: tok, User: toUserOut(u)}, nil
		},
	})

	type loginIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	httpez.Register(ezPublic, httpez.Action[loginIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (tokenOut, error) {
			u, tok, err := d.Auth.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return tokenOut{}, err
			}
			return tokenOut{Token: tok, User: toUserOut(u)}, nil
		},
	})

	httpez.Register(ezAuth, httpez.Action[struct{}, userOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (userOut, error) {
			u, err := httpez.MustActor(c)
			if err != nil {
				return userOut{}, err
			}
			return toUserOut(u), nil
		},
	})

	type profileIn struct {
		Name         *string `json:"name"`
		Organization *string `json:"organization"`
		Phone        *string `json:"phone"`
	}
	httpez.Register(ezAuth, httpez.Action[profileIn, userOut]{
		Method: http.MethodPut,
		Path:   "/me",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *profileIn) (userOut, error) {
			u, err := httpez.MustActor(c)
			if err != nil {
				return userOut{}, err
			}
			u, err = d.Auth.UpdateProfile(c.Request.Context(), u, service.ProfilePatch{
				Name: in.Name, Organization: in.Organization, Phone: in.Phone,
			})
			if err != nil {
				return userOut{}, err
			}
			return toUserOut(u), nil
		},
	})

	type passwordIn struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	httpez.Register(ezAuth, httpez.Action[passwordIn, gin.H]{
		Method: http.MethodPut,
		Path:   "/me/password",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *passwordIn) (gin.H, error) {
			u, err := httpez.MustActor(c)
			if err != nil {
				return nil, err
			}
			if err := d.Auth.ChangePassword(c.Request.Context(), u, in.OldPassword, in.NewPassword); err != nil {
				return nil, err
			}
			return gin.H{"changed": true}, nil
		},
	})
}
