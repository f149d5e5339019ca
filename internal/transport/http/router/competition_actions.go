package router

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"scicomp-hub/internal/domain"
	"scicomp-hub/internal/service"
	httpez "scicomp-hub/internal/transport/http/ez"
	resp "scicomp-hub/internal/transport/http/response"
)

type listOut struct {
	Total int64                `json:"total"`
	Items []domain.Competition `json:"items"`
}

// listQ is the public listing query string. Deadlines are RFC3339.
type listQ struct {
	Format       string `form:"format"`
	Scale        string `form:"scale"`
	Location     string `form:"location"`
	Q            string `form:"q"`
	DeadlineFrom string `form:"deadline_from"`
	DeadlineTo   string `form:"deadline_to"`
	Sort         string `form:"sort,default=created_at"`
	Order        string `form:"order,default=desc"`
	Offset       int    `form:"offset,default=0"`
	Limit        int    `form:"limit,default=20"`
}

func (q *listQ) filter() (domain.CompetitionFilter, domain.Sort, domain.Page, error) {
	f := domain.CompetitionFilter{
		Format:   domain.Format(q.Format),
		Scale:    domain.Scale(q.Scale),
		Location: q.Location,
		Search:   q.Q,
	}
	if q.Format != "" && !f.Format.Valid() {
		return f, domain.Sort{}, domain.Page{}, domain.Validation("format", "unknown format")
	}
	if q.Scale != "" && !f.Scale.Valid() {
		return f, domain.Sort{}, domain.Page{}, domain.Validation("scale", "unknown scale")
	}
	if q.DeadlineFrom != "" {
		t, err := time.Parse(time.RFC3339, q.DeadlineFrom)
		if err != nil {
			return f, domain.Sort{}, domain.Page{}, domain.Validation("deadline_from", "must be RFC3339")
		}
		f.DeadlineFrom = &t
	}
	if q.DeadlineTo != "" {
		t, err := time.Parse(time.RFC3339, q.DeadlineTo)
		if err != nil {
			return f, domain.Sort{}, domain.Page{}, domain.Validation("deadline_to", "must be RFC3339")
		}
		f.DeadlineTo = &t
	}
	s := domain.Sort{By: q.Sort, Desc: q.Order != "asc"}
	return f, s, domain.Page{Offset: q.Offset, Limit: q.Limit}, nil
}

type competitionIn struct {
	Title        string   `json:"title"        binding:"required"`
	Introduction string   `json:"introduction"`
	History      string   `json:"history"`
	Scoring      string   `json:"scoring"`
	Awards       string   `json:"awards"`
	Location     string   `json:"location"`
	Format       string   `json:"format"       binding:"required"`
	Scale        string   `json:"scale"        binding:"required"`
	Deadline     string   `json:"deadline"     binding:"required"`
	AgeMin       *int     `json:"age_min"`
	AgeMax       *int     `json:"age_max"`
	Capacity     *int     `json:"capacity"`
	ImageURLs    []string `json:"image_urls"`
}

func parseDeadline(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, domain.Validation("deadline", "must be an RFC3339 timestamp")
	}
	return t, nil
}

func mountCompetitionActions(public, authed *gin.RouterGroup, d Deps) {
	ezPublic := httpez.New(public)
	ezAuth := httpez.New(authed)

	httpez.Register(ezPublic, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/competitions",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			f, s, page, err := in.filter()
			if err != nil {
				return listOut{}, err
			}
			items, total, err := d.Listing.ListPublic(c.Request.Context(), f, s, page)
			if err != nil {
				return listOut{}, err
			}
			return listOut{Total: total, Items: items}, nil
		},
	})

	httpez.Register(ezPublic, httpez.Action[struct{}, *domain.Competition]{
		Method: http.MethodGet,
		Path:   "/competitions/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Competition, error) {
			return d.Comps.Get(c.Request.Context(), httpez.Actor(c), c.Param("id"))
		},
	})

	httpez.Register(ezAuth, httpez.Action[competitionIn, *domain.Competition]{
		Method: http.MethodPost,
		Path:   "/competitions",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *competitionIn) (*domain.Competition, error) {
			actor, err := httpez.MustActor(c)
			if err != nil {
				return nil, err
			}
			deadline, err := parseDeadline(in.Deadline)
			if err != nil {
				return nil, err
			}
			return d.Comps.Create(c.Request.Context(), actor, service.CompetitionInput{
				Title: in.Title, Introduction: in.Introduction, History: in.History,
				Scoring: in.Scoring, Awards: in.Awards, Location: in.Location,
				Format: domain.Format(in.Format), Scale: domain.Scale(in.Scale),
				Deadline: deadline, AgeMin: in.AgeMin, AgeMax: in.AgeMax,
				Capacity: in.Capacity, ImageURLs: in.ImageURLs,
			})
		},
	})

	type competitionPatchIn struct {
		Title        *string   `json:"title"`
		Introduction *string   `json:"introduction"`
		History      *string   `json:"history"`
		Scoring      *string   `json:"scoring"`
		Awards       *string   `json:"awards"`
		Location     *string   `json:"location"`
		Format       *string   `json:"format"`
		Scale        *string   `json:"scale"`
		Deadline     *string   `json:"deadline"`
		AgeMin       *int      `json:"age_min"`
		AgeMax       *int      `json:"age_max"`
		Capacity     *int      `json:"capacity"`
		ImageURLs    *[]string `json:"image_urls"`

		// Moderation flags are bound so the service can refuse them
		// explicitly rather than silently dropping them.
		IsActive        *bool   `json:"is_active"`
		IsApproved      *bool   `json:"is_approved"`
		IsFeatured      *bool   `json:"is_featured"`
		RejectionReason *string `json:"rejection_reason"`
	}
	httpez.Register(ezAuth, httpez.Action[competitionPatchIn, *domain.Competition]{
		Method: http.MethodPut,
		Path:   "/competitions/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *competitionPatchIn) (*domain.Competition, error) {
			actor, err := httpez.MustActor(c)
			if err != nil {
				return nil, err
			}
			patch := service.CompetitionPatch{
				Title: in.Title, Introduction: in.Introduction, History: in.History,
				Scoring: in.Scoring, Awards: in.Awards, Location: in.Location,
				AgeMin: in.AgeMin, AgeMax: in.AgeMax, Capacity: in.Capacity,
				ImageURLs: in.ImageURLs,
				IsActive:  in.IsActive, IsApproved: in.IsApproved,
				IsFeatured: in.IsFeatured, RejectionReason: in.RejectionReason,
			}
			if in.Format != nil {
				f := domain.Format(*in.Format)
				patch.Format = &f
			}
			if in.Scale != nil {
				s := domain.Scale(*in.Scale)
				patch.Scale = &s
			}
			if in.Deadline != nil {
				t, err := parseDeadline(*in.Deadline)
				if err != nil {
					return nil, err
				}
				patch.Deadline = &t
			}
			return d.Comps.Update(c.Request.Context(), actor, c.Param("id"), patch)
		},
	})

	httpez.Register(ezAuth, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/competitions/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			actor, err := httpez.MustActor(c)
			if err != nil {
				return nil, err
			}
			if err := d.Comps.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
				return nil, err
			}
			return gin.H{"id": c.Param("id")}, nil
		},
	})

	type pageQ struct {
		Offset int `form:"offset,default=0"`
		Limit  int `form:"limit,default=20"`
	}
	httpez.Register(ezAuth, httpez.Action[pageQ, listOut]{
		Method: http.MethodGet,
		Path:   "/my/competitions",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *pageQ) (listOut, error) {
			actor, err := httpez.MustActor(c)
			if err != nil {
				return listOut{}, err
			}
			items, total, err := d.Listing.ListMine(c.Request.Context(), actor, domain.Page{Offset: in.Offset, Limit: in.Limit})
			if err != nil {
				return listOut{}, err
			}
			return listOut{Total: total, Items: items}, nil
		},
	})
}

func mountUploadActions(authed *gin.RouterGroup, d Deps) {
	// Multipart, so it stays outside the Action bind step.
	authed.POST("/uploads/images", func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusOK, resp.FromError(domain.Validation("file", "file field is required")))
			return
		}
		// Cheap size check before the body is read into memory. The uploader
		// enforces its own limit again on the actual bytes.
		if d.MaxUpload > 0 && fh.Size > d.MaxUpload {
			c.JSON(http.StatusOK, resp.FromError(domain.Validation("file", "file too large")))
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusOK, resp.FromError(err))
			return
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusOK, resp.FromError(err))
			return
		}
		url, err := d.Uploader.Upload(c.Request.Context(), data, fh.Header.Get("Content-Type"))
		if err != nil {
			c.JSON(http.StatusOK, resp.FromError(err))
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"url": url}))
	})
}
