// Package ez registers every route as an explicit Action with one bind step
// and one error-mapping step. There is intentionally no generic CRUD here:
// each mutation of a competition is its own action, which is what keeps the
// moderation flags unreachable from the content-update path.
package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"scicomp-hub/internal/domain"
	resp "scicomp-hub/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none" // read c.Param / form yourself
)

// Action declares one endpoint: I is the bound input, O the payload wrapped
// into the response envelope.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Handler func(c *gin.Context, in *I) (O, error)
}

// Actor returns the authenticated user placed in the context by the auth
// middleware, or nil for anonymous requests.
func Actor(c *gin.Context) *domain.User {
	if v, ok := c.Get("actor"); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

// MustActor is for routes behind the auth middleware.
func MustActor(c *gin.Context) (*domain.User, error) {
	u := Actor(c)
	if u == nil {
		return nil, domain.Unauthenticated("unauthenticated")
	}
	return u, nil
}

func Register[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			c.JSON(http.StatusOK, resp.FromError(err))
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}
