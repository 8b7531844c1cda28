package v1

import (
	"net/http"

	"github.com/classfund/backend/internal/httperror"
	"github.com/classfund/backend/internal/httputil"
	"github.com/classfund/backend/internal/ledger"
	"github.com/gin-gonic/gin"
)

// RegisterClassRoutes registers the routes for the class-wide fund with
// the RouterGroup that is passed.
func (co Controller) RegisterClassRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsClass)
		r.GET("", co.GetClass)
	}

	{
		r.OPTIONS("/transactions", OptionsClassTransactions)
		r.GET("/transactions", co.GetClassTransactions)
	}

	{
		r.OPTIONS("/withdrawals", OptionsWithdrawals)
		r.POST("/withdrawals", co.CreateWithdrawal)
	}

	{
		r.OPTIONS("/external-funds", OptionsExternalFunds)
		r.POST("/external-funds", co.CreateExternalFund)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Class
// @Success		204
// @Router			/v1/class [options]
func OptionsClass(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Class
// @Success		204
// @Router			/v1/class/transactions [options]
func OptionsClassTransactions(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Class
// @Success		204
// @Router			/v1/class/withdrawals [options]
func OptionsWithdrawals(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Class
// @Success		204
// @Router			/v1/class/external-funds [options]
func OptionsExternalFunds(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Class fund
// @Description	Returns the class-wide balance and the student count
// @Tags			Class
// @Produce		json
// @Success		200	{object}	ClassResponse
// @Router			/v1/class [get]
func (co Controller) GetClass(c *gin.Context) {
	c.JSON(http.StatusOK, ClassResponse{Data: ClassObject{
		Balance:      co.Store.ClassBalance(),
		StudentCount: co.Store.StudentCount(),
	}})
}

// @Summary		Class transaction log
// @Description	Returns the class-level transaction log: withdrawals and external funds
// @Tags			Class
// @Produce		json
// @Success		200	{object}	ClassLogResponse
// @Router			/v1/class/transactions [get]
func (co Controller) GetClassTransactions(c *gin.Context) {
	snapshot := co.Store.Snapshot()
	c.JSON(http.StatusOK, ClassLogResponse{Data: snapshot.ClassLog})
}

// @Summary		Record withdrawal
// @Description	Takes money out of the class balance, appending a withdrawal entry to the class-level log
// @Tags			Class
// @Accept			json
// @Produce		json
// @Success		201			{object}	BalanceResponse
// @Failure		400			{object}	httperror.Error
// @Failure		500			{object}	httperror.Error
// @Param			withdrawal	body		WithdrawalEditable	true	"Withdrawal"
// @Router			/v1/class/withdrawals [post]
func (co Controller) CreateWithdrawal(c *gin.Context) {
	var editable WithdrawalEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	balance, err := co.Processor.RecordWithdrawal(c.Request.Context(), ledger.WithdrawalCommand{
		Amount:  editable.Amount,
		Purpose: editable.Purpose,
	})
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	co.publish("class")

	c.JSON(http.StatusCreated, BalanceResponse{Data: BalanceObject{Balance: balance}})
}

// @Summary		Record external fund
// @Description	Records externally sourced money on the class balance
// @Tags			Class
// @Accept			json
// @Produce		json
// @Success		201		{object}	BalanceResponse
// @Failure		400		{object}	httperror.Error
// @Failure		500		{object}	httperror.Error
// @Param			fund	body		ExternalFundEditable	true	"External fund"
// @Router			/v1/class/external-funds [post]
func (co Controller) CreateExternalFund(c *gin.Context) {
	var editable ExternalFundEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	balance, err := co.Processor.RecordExternalFund(c.Request.Context(), ledger.ExternalFundCommand{
		Amount: editable.Amount,
		Source: editable.Source,
	})
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	co.publish("class")

	c.JSON(http.StatusCreated, BalanceResponse{Data: BalanceObject{Balance: balance}})
}
