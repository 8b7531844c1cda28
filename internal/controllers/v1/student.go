package v1

import (
	"net/http"

	"github.com/classfund/backend/internal/httperror"
	"github.com/classfund/backend/internal/httputil"
	"github.com/classfund/backend/internal/ledger"
	"github.com/gin-gonic/gin"
	"github.com/ryanuber/go-glob"
)

// RegisterStudentRoutes registers the routes for students with the
// RouterGroup that is passed.
func (co Controller) RegisterStudentRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsStudentList)
		r.GET("", co.GetStudents)
		r.POST("", co.CreateStudent)
	}

	// Student with ID
	{
		r.OPTIONS("/:id", OptionsStudentDetail)
		r.GET("/:id", co.GetStudent)
		r.DELETE("/:id", co.DeleteStudent)
		r.OPTIONS("/:id/payments", OptionsPayments)
		r.POST("/:id/payments", co.CreatePayment)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Students
// @Success		204
// @Router			/v1/students [options]
func OptionsStudentList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Students
// @Success		204
// @Router			/v1/students/{id} [options]
func OptionsStudentDetail(c *gin.Context) {
	httputil.OptionsGetDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Students
// @Success		204
// @Router			/v1/students/{id}/payments [options]
func OptionsPayments(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Add student
// @Description	Adds a student to the class with the next sequential ID
// @Tags			Students
// @Accept			json
// @Produce		json
// @Success		201		{object}	StudentResponse
// @Failure		400		{object}	httperror.Error
// @Failure		500		{object}	httperror.Error
// @Param			student	body		StudentEditable	true	"Student"
// @Router			/v1/students [post]
func (co Controller) CreateStudent(c *gin.Context) {
	var editable StudentEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	id, err := co.Processor.AddStudent(c.Request.Context(), ledger.AddStudentCommand{Name: editable.Name})
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	snapshot, _ := co.Store.Student(id)
	co.publish("students")

	c.JSON(http.StatusCreated, StudentResponse{Data: newStudent(snapshot)})
}

// @Summary		List students
// @Description	Returns the students with balances and progress percentages
// @Tags			Students
// @Produce		json
// @Success		200	{object}	StudentListResponse
// @Router			/v1/students [get]
// @Param			name	query	string	false	"Filter by name, glob syntax is supported"
func (co Controller) GetStudents(c *gin.Context) {
	pattern := c.Query("name")

	snapshot := co.Store.Snapshot()

	students := make([]Student, 0, len(snapshot.Students))
	for _, student := range snapshot.Students {
		if pattern != "" && !glob.Glob(pattern, student.Name) {
			continue
		}

		students = append(students, newStudent(student))
	}

	c.JSON(http.StatusOK, StudentListResponse{Data: students})
}

// @Summary		Get student
// @Description	Returns a specific student
// @Tags			Students
// @Produce		json
// @Success		200	{object}	StudentResponse
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Param			id	path		uint64	true	"ID of the student"
// @Router			/v1/students/{id} [get]
func (co Controller) GetStudent(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	snapshot, ok := co.Store.Student(id)
	if !ok {
		c.JSON(http.StatusNotFound, httperror.New(ledger.ErrUnknownStudent))
		return
	}

	c.JSON(http.StatusOK, StudentResponse{Data: newStudent(snapshot)})
}

// @Summary		Remove student
// @Description	Removes a student and their transaction log. Removing an absent ID is a no-op.
// @Tags			Students
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		500	{object}	httperror.Error
// @Param			id	path		uint64	true	"ID of the student"
// @Router			/v1/students/{id} [delete]
func (co Controller) DeleteStudent(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	err = co.Processor.RemoveStudent(c.Request.Context(), ledger.RemoveStudentCommand{ID: id})
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	co.publish("students")

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Record payment
// @Description	Records a contribution payment for a student, raising the student and class balances
// @Tags			Students
// @Accept			json
// @Produce		json
// @Success		201		{object}	BalanceResponse
// @Failure		400		{object}	httperror.Error
// @Failure		404		{object}	httperror.Error
// @Failure		500		{object}	httperror.Error
// @Param			id		path		uint64			true	"ID of the student"
// @Param			payment	body		PaymentEditable	true	"Payment"
// @Router			/v1/students/{id}/payments [post]
func (co Controller) CreatePayment(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	var editable PaymentEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	balance, err := co.Processor.RecordPayment(c.Request.Context(), ledger.PaymentCommand{
		StudentID: id,
		Amount:    editable.Amount,
	})
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	co.publish("students")
	co.publish("class")

	c.JSON(http.StatusCreated, BalanceResponse{Data: BalanceObject{Balance: balance}})
}

func (co Controller) publish(resource string) {
	if co.Broadcaster != nil {
		co.Broadcaster.Publish(resource)
	}
}
