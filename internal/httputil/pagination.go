package httputil

import (
	"errors"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// Page is an offset/limit window read from the query string.
type Page struct {
	Offset int `form:"offset,default=0"`
	Limit  int `form:"limit,default=50"`
}

// ErrInvalidPage is returned when offset or limit is malformed or out of range.
var ErrInvalidPage = errors.New("invalid pagination: offset must be >= 0 and limit between 1 and 100")

// BindPage reads ?offset= and ?limit=, applying DefaultPageLimit when limit is absent.
func BindPage(c *gin.Context) (Page, error) {
	var page Page
	if err := c.ShouldBindQuery(&page); err != nil {
		return Page{}, ErrInvalidPage
	}

	err := validation.ValidateStruct(&page,
		validation.Field(&page.Offset, validation.Min(0)),
		validation.Field(&page.Limit, validation.Required, validation.Min(1), validation.Max(MaxPageLimit)),
	)
	if err != nil {
		return Page{}, ErrInvalidPage
	}
	return page, nil
}
