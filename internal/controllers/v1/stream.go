package v1

import (
	"io"
	"strings"

	"github.com/classfund/backend/internal/httputil"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterStreamRoutes registers the routes for the update stream with
// the RouterGroup that is passed.
func (co Controller) RegisterStreamRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsStream)
	r.GET("", co.GetStream)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Stream
// @Success		204
// @Router			/v1/stream [options]
func OptionsStream(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Subscribe to updates
// @Description	Server-sent event stream of read model change hints. Clients re-fetch the named resource on every event.
// @Tags			Stream
// @Produce		text/event-stream
// @Success		200
// @Param			resources	query	string	false	"Comma-separated resources to subscribe to. All resources when empty."
// @Router			/v1/stream [get]
func (co Controller) GetStream(c *gin.Context) {
	var resources []string
	if raw := c.Query("resources"); raw != "" {
		resources = strings.Split(raw, ",")
	}

	updates, cancel := co.Broadcaster.Subscribe()
	defer cancel()

	c.Stream(func(w io.Writer) bool {
		select {
		case update, ok := <-updates:
			if !ok {
				return false
			}

			if len(resources) > 0 && !slices.Contains(resources, update.Resource) {
				return true
			}

			c.SSEvent("update", update)
			return true

		case <-c.Request.Context().Done():
			return false
		}
	})
}
