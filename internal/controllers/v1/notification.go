package v1

import (
	"net/http"
	"strconv"

	"github.com/classfund/backend/internal/httperror"
	"github.com/classfund/backend/internal/httputil"
	"github.com/gin-gonic/gin"
)

// RegisterNotificationRoutes registers the routes for notifications with
// the RouterGroup that is passed.
func (co Controller) RegisterNotificationRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsNotifications)
	r.GET("", co.GetNotifications)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Notifications
// @Success		204
// @Router			/v1/notifications [options]
func OptionsNotifications(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get notifications
// @Description	Derives the notification events from the current ledger and collection state. Pass the lastSeq of the previous response as "since" to suppress withdrawal events already seen.
// @Tags			Notifications
// @Produce		json
// @Success		200	{object}	NotificationResponse
// @Failure		400	{object}	httperror.Error
// @Param			since	query	uint64	false	"Class log sequence number of the last pull"
// @Router			/v1/notifications [get]
func (co Controller) GetNotifications(c *gin.Context) {
	var since uint64
	if raw := c.Query("since"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, httperror.NewFromString("the since parameter must be a non-negative integer"))
			return
		}
		since = parsed
	}

	snapshot := co.Store.Snapshot()
	events := co.Engine.Events(snapshot, co.Planner.Snapshot(), since)

	c.JSON(http.StatusOK, NotificationResponse{
		Data:    events,
		LastSeq: snapshot.LastSeq,
	})
}
