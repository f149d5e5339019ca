package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scicomp-hub/internal/domain"
	"scicomp-hub/internal/service"
	httpez "scicomp-hub/internal/transport/http/ez"
	mdw "scicomp-hub/internal/transport/http/middleware"
)

// NewAdminEngine builds the moderation plane served by cmd/admin. The whole
// /admin/v1 group requires a live admin account; the role is re-checked per
// request against the user row, not the token.
func NewAdminEngine(d Deps) *gin.Engine {
	r := baseEngine(d.Log)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := r.Group("/admin/v1")
	admin.Use(mdw.Auth(d.Guard), mdw.RequireRole(domain.RoleAdmin))

	mountModerationActions(admin, d)
	mountUserAdminActions(admin, d)

	return r
}

func mountModerationActions(admin *gin.RouterGroup, d Deps) {
	ez := httpez.New(admin)

	httpez.Register(ez, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/competitions",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			actor, err := httpez.MustActor(c)
			if err != nil {
				return listOut{}, err
			}
			f, s, page, err := in.filter()
			if err != nil {
				return listOut{}, err
			}
			items, total, err := d.Listing.ListAll(c.Request.Context(), actor, f, s, page)
			if err != nil {
				return listOut{}, err
			}
			return listOut{Total: total, Items: items}, nil
		},
	})

	type pageQ struct {
		Offset int `form:"offset,default=0"`
		Limit  int `form:"limit,default=20"`
	}
	httpez.Register(ez, httpez.Action[pageQ, listOut]{
		Method: http.MethodGet,
		Path:   "/competitions/pending",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *pageQ) (listOut, error) {
			actor, err := httpez.MustActor(c)
			if err != nil {
				return listOut{}, err
			}
			items, total, err := d.Listing.ListPending(c.Request.Context(), actor, domain.Page{Offset: in.Offset, Limit: in.Limit})
			if err != nil {
				return listOut{}, err
			}
			return listOut{Total: total, Items: items}, nil
		},
	})

	transition := func(path string, fn func(c *gin.Context, actor *domain.User, id string) (*domain.Competition, error)) {
		httpez.Register(ez, httpez.Action[struct{}, *domain.Competition]{
			Method: http.MethodPost,
			Path:   "/competitions/:id/" + path,
			Binder: httpez.BindNone,
			Handler: func(c *gin.Context, _ *struct{}) (*domain.Competition, error) {
				actor, err := httpez.MustActor(c)
				if err != nil {
					return nil, err
				}
				return fn(c, actor, c.Param("id"))
			},
		})
	}

	transition("approve", func(c *gin.Context, actor *domain.User, id string) (*domain.Competition, error) {
		return d.Mod.Approve(c.Request.Context(), actor, id)
	})
	transition("feature", func(c *gin.Context, actor *domain.User, id string) (*domain.Competition, error) {
		return d.Mod.Feature(c.Request.Context(), actor, id)
	})
	transition("unfeature", func(c *gin.Context, actor *domain.User, id string) (*domain.Competition, error) {
		return d.Mod.Unfeature(c.Request.Context(), actor, id)
	})
	transition("activate", func(c *gin.Context, actor *domain.User, id string) (*domain.Competition, error) {
		return d.Mod.Activate(c.Request.Context(), actor, id)
	})
	transition("deactivate", func(c *gin.Context, actor *domain.User, id string) (*domain.Competition, error) {
		return d.Mod.Deactivate(c.Request.Context(), actor, id)
	})

	type rejectIn struct {
		Reason string `json:"reason"`
	}
	httpez.Register(ez, httpez.Action[rejectIn, *domain.Competition]{
		Method: http.MethodPost,
		Path:   "/competitions/:id/reject",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *rejectIn) (*domain.Competition, error) {
			actor, err := httpez.MustActor(c)
			if err != nil {
				return nil, err
			}
			return d.Mod.Reject(c.Request.Context(), actor, c.Param("id"), in.Reason)
		},
	})
}

func mountUserAdminActions(admin *gin.RouterGroup, d Deps) {
	ez := httpez.New(admin)

	type usersQ struct {
		Offset int    `form:"offset,default=0"`
		Limit  int    `form:"limit,default=20"`
		Q      string `form:"q"` // substring over email/name
	}
	type usersOut struct {
		Total int64     `json:"total"`
		Items []userOut `json:"items"`
	}
	httpez.Register(ez, httpez.Action[usersQ, usersOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *usersQ) (usersOut, error) {
			actor, err := httpez.MustActor(c)
			if err != nil {
				return usersOut{}, err
			}
			users, total, err := d.Users.List(c.Request.Context(), actor, in.Q, domain.Page{Offset: in.Offset, Limit: in.Limit})
			if err != nil {
				return usersOut{}, err
			}
			out := usersOut{Total: total, Items: make([]userOut, 0, len(users))}
			for i := range users {
				out.Items = append(out.Items, toUserOut(&users[i]))
			}
			return out, nil
		},
	})

	type provisionIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name"     binding:"omitempty,max=64"`
		Role     string `json:"role"     binding:"required"`
	}
	httpez.Register(ez, httpez.Action[provisionIn, userOut]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *provisionIn) (userOut, error) {
			actor, err := httpez.MustActor(c)
			if err != nil {
				return userOut{}, err
			}
			u, err := d.Users.Provision(c.Request.Context(), actor, service.ProvisionInput{
				Email: in.Email, Password: in.Password, Name: in.Name,
				Role: domain.Role(in.Role),
			})
			if err != nil {
				return userOut{}, err
			}
			return toUserOut(u), nil
		},
	})

	type roleIn struct {
		Role string `json:"role" binding:"required"`
	}
	httpez.Register(ez, httpez.Action[roleIn, userOut]{
		Method: http.MethodPut,
		Path:   "/users/:id/role",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *roleIn) (userOut, error) {
			actor, err := httpez.MustActor(c)
			if err != nil {
				return userOut{}, err
			}
			u, err := d.Users.ChangeRole(c.Request.Context(), actor, c.Param("id"), domain.Role(in.Role))
			if err != nil {
				return userOut{}, err
			}
			return toUserOut(u), nil
		},
	})

	setActive := func(path string, active bool) {
		httpez.Register(ez, httpez.Action[struct{}, userOut]{
			Method: http.MethodPost,
			Path:   "/users/:id/" + path,
			Binder: httpez.BindNone,
			Handler: func(c *gin.Context, _ *struct{}) (userOut, error) {
				actor, err := httpez.MustActor(c)
				if err != nil {
					return userOut{}, err
				}
				u, err := d.Users.SetActive(c.Request.Context(), actor, c.Param("id"), active)
				if err != nil {
					return userOut{}, err
				}
				return toUserOut(u), nil
			},
		})
	}
	setActive("activate", true)
	setActive("deactivate", false)

	httpez.Register(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			actor, err := httpez.MustActor(c)
			if err != nil {
				return nil, err
			}
			if err := d.Users.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
				return nil, err
			}
			return gin.H{"id": c.Param("id")}, nil
		},
	})
}
