package v1

import (
	"net/http"

	"github.com/classfund/backend/internal/httperror"
	"github.com/classfund/backend/internal/httputil"
	"github.com/classfund/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterCollectionRoutes registers the routes for the collection
// configuration with the RouterGroup that is passed.
func (co Controller) RegisterCollectionRoutes(r *gin.RouterGroup) {
	// Current configuration
	{
		r.OPTIONS("", OptionsCollection)
		r.GET("", co.GetCollection)
		r.PATCH("", co.UpdateCollection)
		r.DELETE("", co.DeleteCollection)
	}

	// Months and active days
	{
		r.OPTIONS("/months", OptionsMonths)
		r.POST("/months", co.SelectMonth)
		r.OPTIONS("/months/:name", OptionsMonthDetail)
		r.GET("/months/:name", co.GetMonth)
		r.POST("/months/:name/days", co.CreateActiveDay)
	}

	// Persisted collection records
	{
		r.OPTIONS("/save", OptionsSave)
		r.POST("/save", co.SaveCollection)
		r.GET("/records", co.GetCollectionRecord)
		r.DELETE("/records/:id", co.DeleteCollectionRecord)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Collection
// @Success		204
// @Router			/v1/collection [options]
func OptionsCollection(c *gin.Context) {
	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Collection
// @Success		204
// @Router			/v1/collection/months [options]
func OptionsMonths(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Collection
// @Success		204
// @Router			/v1/collection/months/{name} [options]
func OptionsMonthDetail(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Collection
// @Success		204
// @Router			/v1/collection/save [options]
func OptionsSave(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Get collection configuration
// @Description	Returns the current settings and the selected month with its monthly fund
// @Tags			Collection
// @Produce		json
// @Success		200	{object}	CollectionResponse
// @Router			/v1/collection [get]
func (co Controller) GetCollection(c *gin.Context) {
	c.JSON(http.StatusOK, CollectionResponse{Data: co.Planner.Snapshot()})
}

// @Summary		Update collection settings
// @Description	Sets the duration and/or the daily fund from treasurer input. Only values to be updated need to be specified.
// @Tags			Collection
// @Accept			json
// @Produce		json
// @Success		200			{object}	CollectionResponse
// @Failure		400			{object}	httperror.Error
// @Param			settings	body		SettingsEditable	true	"Settings"
// @Router			/v1/collection [patch]
func (co Controller) UpdateCollection(c *gin.Context) {
	var editable SettingsEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	if editable.Duration != nil {
		if _, err := co.Planner.SetDuration(*editable.Duration); err != nil {
			c.JSON(httperror.Status(err), httperror.New(err))
			return
		}
	}

	if editable.DailyFund != nil {
		if _, err := co.Planner.SetDailyFund(*editable.DailyFund); err != nil {
			c.JSON(httperror.Status(err), httperror.New(err))
			return
		}
	}

	co.publish("collection")

	c.JSON(http.StatusOK, CollectionResponse{Data: co.Planner.Snapshot()})
}

// @Summary		Delete collection configuration
// @Description	Resets the in-memory configuration. Persisted collection records are kept.
// @Tags			Collection
// @Success		204
// @Router			/v1/collection [delete]
func (co Controller) DeleteCollection(c *gin.Context) {
	co.Planner.Delete()
	co.publish("collection")

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Select month
// @Description	Selects a month for the collection cycle, creating its record on first selection. Selecting a known month is idempotent.
// @Tags			Collection
// @Accept			json
// @Produce		json
// @Success		200		{object}	MonthResponse
// @Failure		400		{object}	httperror.Error
// @Param			month	body		MonthEditable	true	"Month"
// @Router			/v1/collection/months [post]
func (co Controller) SelectMonth(c *gin.Context) {
	var editable MonthEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	month, err := types.ParseCollectionMonth(editable.MonthName)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	detail := co.Planner.SelectMonth(month)
	co.publish("collection")

	c.JSON(http.StatusOK, MonthResponse{Data: detail})
}

// @Summary		Get month
// @Description	Returns the record of a previously selected month
// @Tags			Collection
// @Produce		json
// @Success		200		{object}	MonthResponse
// @Failure		400		{object}	httperror.Error
// @Failure		404		{object}	httperror.Error
// @Param			name	path		string	true	"Canonical month name"
// @Router			/v1/collection/months/{name} [get]
func (co Controller) GetMonth(c *gin.Context) {
	month, err := types.ParseCollectionMonth(c.Param("name"))
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	detail, err := co.Planner.Month(month)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusOK, MonthResponse{Data: detail})
}

// @Summary		Add active day
// @Description	Appends a collection day to a previously selected month and recomputes the monthly fund
// @Tags			Collection
// @Accept			json
// @Produce		json
// @Success		201		{object}	MonthResponse
// @Failure		400		{object}	httperror.Error
// @Failure		404		{object}	httperror.Error
// @Param			name	path		string				true	"Canonical month name"
// @Param			day		body		ActiveDayEditable	true	"Active day"
// @Router			/v1/collection/months/{name}/days [post]
func (co Controller) CreateActiveDay(c *gin.Context) {
	month, err := types.ParseCollectionMonth(c.Param("name"))
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	var editable ActiveDayEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	day, err := types.ParseDate(editable.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.New(err))
		return
	}

	detail, err := co.Planner.AddActiveDay(month, day)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	co.publish("collection")

	c.JSON(http.StatusCreated, MonthResponse{Data: detail})
}

// @Summary		Save collection
// @Description	Emits an immutable collection record from the current configuration and persists it
// @Tags			Collection
// @Produce		json
// @Success		201	{object}	CollectionRecordResponse
// @Failure		412	{object}	httperror.Error
// @Failure		500	{object}	httperror.Error
// @Router			/v1/collection/save [post]
func (co Controller) SaveCollection(c *gin.Context) {
	record, err := co.Planner.Save(c.Request.Context())
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	co.publish("collection")

	c.JSON(http.StatusCreated, CollectionRecordResponse{Data: record})
}

// @Summary		Get collection record
// @Description	Returns the most recently persisted collection record for a month
// @Tags			Collection
// @Produce		json
// @Success		200	{object}	CollectionRecordResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			month	query	string	true	"Canonical month name"
// @Router			/v1/collection/records [get]
func (co Controller) GetCollectionRecord(c *gin.Context) {
	month, err := types.ParseCollectionMonth(c.Query("month"))
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	record, err := co.Planner.FetchRecord(c.Request.Context(), month)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	if record == nil {
		c.JSON(http.StatusNotFound, httperror.NewFromString("there is no collection record for this month"))
		return
	}

	c.JSON(http.StatusOK, CollectionRecordResponse{Data: *record})
}

// @Summary		Delete collection record
// @Description	Deletes one persisted collection record
// @Tags			Collection
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		500	{object}	httperror.Error
// @Param			id	path	string	true	"ID of the record"
// @Router			/v1/collection/records/{id} [delete]
func (co Controller) DeleteCollectionRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httperror.NewFromString("the specified resource ID is not a valid UUID"))
		return
	}

	err = co.Planner.DeleteRecord(c.Request.Context(), id)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
