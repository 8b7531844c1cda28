package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/classfund/backend/internal/controllers/v1"
	"github.com/classfund/backend/internal/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestCreateStudent() {
	student := suite.createTestStudent("Ana")

	assert.Equal(suite.T(), uint64(1), student.ID)
	assert.Equal(suite.T(), "Ana", student.Name)
	assert.True(suite.T(), student.Balance.IsZero())

	// IDs are sequential
	student = suite.createTestStudent("Ben")
	assert.Equal(suite.T(), uint64(2), student.ID)
}

func (suite *TestSuiteStandard) TestCreateStudentTarget() {
	suite.configureCollection()

	student := suite.createTestStudent("Ana")
	assert.True(suite.T(), student.Target.Equal(decimal.NewFromInt(150)), "target is %s", student.Target)
}

func (suite *TestSuiteStandard) TestCreateStudentInvalid() {
	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"blank name", v1.StudentEditable{Name: "   "}, http.StatusBadRequest},
		{"missing name", `{}`, http.StatusBadRequest},
		{"broken body", `{ broken`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		recorder := test.Request(suite.controller, suite.T(), http.MethodPost, "/v1/students", tt.body)
		test.AssertHTTPStatus(suite.T(), &recorder, tt.status)
	}
}

func (suite *TestSuiteStandard) TestCreateStudentDuplicate() {
	_ = suite.createTestStudent("Ben")

	recorder := test.Request(suite.controller, suite.T(), http.MethodPost, "/v1/students", v1.StudentEditable{Name: "Ben"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetStudents() {
	_ = suite.createTestStudent("Ana")
	_ = suite.createTestStudent("Ben")
	_ = suite.createTestStudent("Annika")

	recorder := test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/students", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.StudentListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 3)

	// Glob filter on the name
	recorder = test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/students?name=An*", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 2)
}

func (suite *TestSuiteStandard) TestGetStudent() {
	student := suite.createTestStudent("Ana")

	recorder := test.Request(suite.controller, suite.T(), http.MethodGet, fmt.Sprintf("/v1/students/%d", student.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.StudentResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), "Ana", response.Data.Name)
}

func (suite *TestSuiteStandard) TestGetStudentNotFound() {
	recorder := test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/students/42", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestGetStudentInvalidID() {
	recorder := test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/students/notanumber", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestDeleteStudent() {
	student := suite.createTestStudent("Ana")

	recorder := test.Request(suite.controller, suite.T(), http.MethodDelete, fmt.Sprintf("/v1/students/%d", student.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.controller, suite.T(), http.MethodGet, fmt.Sprintf("/v1/students/%d", student.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	// Deleting an absent ID is a no-op
	recorder = test.Request(suite.controller, suite.T(), http.MethodDelete, "/v1/students/42", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	// The name is free for a new student
	student = suite.createTestStudent("Ana")
	assert.Equal(suite.T(), uint64(2), student.ID)
}

func (suite *TestSuiteStandard) TestCreatePayment() {
	student := suite.createTestStudent("Ana")

	recorder := test.Request(suite.controller, suite.T(), http.MethodPost, fmt.Sprintf("/v1/students/%d/payments", student.ID), v1.PaymentEditable{Amount: decimal.NewFromInt(60)})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.BalanceResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.True(suite.T(), response.Data.Balance.Equal(decimal.NewFromInt(60)), "balance is %s", response.Data.Balance)

	// The student progress reflects the payment
	suite.configureCollection()
	recorder = test.Request(suite.controller, suite.T(), http.MethodGet, fmt.Sprintf("/v1/students/%d", student.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var studentResponse v1.StudentResponse
	test.DecodeResponse(suite.T(), &recorder, &studentResponse)
	require.Len(suite.T(), studentResponse.Data.TransactionLogs, 1)
}

func (suite *TestSuiteStandard) TestCreatePaymentInvalid() {
	student := suite.createTestStudent("Ana")

	tests := []struct {
		name   string
		amount string
		status int
	}{
		{"negative", `{"amount": -5}`, http.StatusBadRequest},
		{"zero", `{"amount": 0}`, http.StatusBadRequest},
		{"sub-cent", `{"amount": 10.123}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		recorder := test.Request(suite.controller, suite.T(), http.MethodPost, fmt.Sprintf("/v1/students/%d/payments", student.ID), tt.amount)
		test.AssertHTTPStatus(suite.T(), &recorder, tt.status)
	}
}

func (suite *TestSuiteStandard) TestCreatePaymentUnknownStudent() {
	recorder := test.Request(suite.controller, suite.T(), http.MethodPost, "/v1/students/42/payments", v1.PaymentEditable{Amount: decimal.NewFromInt(10)})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}
