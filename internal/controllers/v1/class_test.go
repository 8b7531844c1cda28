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

func (suite *TestSuiteStandard) payForStudent(id uint64, amount int64) {
	recorder := test.Request(suite.controller, suite.T(), http.MethodPost, fmt.Sprintf("/v1/students/%d/payments", id), v1.PaymentEditable{Amount: decimal.NewFromInt(amount)})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)
}

func (suite *TestSuiteStandard) TestGetClass() {
	ana := suite.createTestStudent("Ana")
	_ = suite.createTestStudent("Ben")
	suite.payForStudent(ana.ID, 60)

	recorder := test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/class", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ClassResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.True(suite.T(), response.Data.Balance.Equal(decimal.NewFromInt(60)), "balance is %s", response.Data.Balance)
	assert.Equal(suite.T(), 2, response.Data.StudentCount)
}

func (suite *TestSuiteStandard) TestClassBalanceAfterStudentRemoval() {
	ana := suite.createTestStudent("Ana")
	suite.payForStudent(ana.ID, 60)

	recorder := test.Request(suite.controller, suite.T(), http.MethodDelete, fmt.Sprintf("/v1/students/%d", ana.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	// The removed student's contributions stay in the class fund
	recorder = test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/class", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ClassResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.True(suite.T(), response.Data.Balance.Equal(decimal.NewFromInt(60)), "balance is %s", response.Data.Balance)
	assert.Equal(suite.T(), 0, response.Data.StudentCount)
}

func (suite *TestSuiteStandard) TestCreateWithdrawal() {
	ana := suite.createTestStudent("Ana")
	suite.payForStudent(ana.ID, 60)

	recorder := test.Request(suite.controller, suite.T(), http.MethodPost, "/v1/class/withdrawals", v1.WithdrawalEditable{Amount: decimal.NewFromInt(40), Purpose: "class party"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.BalanceResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.True(suite.T(), response.Data.Balance.Equal(decimal.NewFromInt(20)), "balance is %s", response.Data.Balance)

	// The withdrawal is in the class-level log as a negative amount
	recorder = test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/class/transactions", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var logResponse v1.ClassLogResponse
	test.DecodeResponse(suite.T(), &recorder, &logResponse)
	require.Len(suite.T(), logResponse.Data, 1)
	assert.True(suite.T(), logResponse.Data[0].Amount.Equal(decimal.NewFromInt(-40)))
	assert.Equal(suite.T(), "class party", logResponse.Data[0].Note)
}

func (suite *TestSuiteStandard) TestCreateWithdrawalInsufficient() {
	ana := suite.createTestStudent("Ana")
	suite.payForStudent(ana.ID, 60)

	recorder := test.Request(suite.controller, suite.T(), http.MethodPost, "/v1/class/withdrawals", v1.WithdrawalEditable{Amount: decimal.NewFromInt(100)})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	// The balance is unchanged
	recorder = test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/class", "")
	var response v1.ClassResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.True(suite.T(), response.Data.Balance.Equal(decimal.NewFromInt(60)))
}

func (suite *TestSuiteStandard) TestCreateExternalFund() {
	ana := suite.createTestStudent("Ana")
	suite.payForStudent(ana.ID, 20)

	recorder := test.Request(suite.controller, suite.T(), http.MethodPost, "/v1/class/external-funds", v1.ExternalFundEditable{Amount: decimal.RequireFromString("25.50"), Source: "bake sale"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.BalanceResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.True(suite.T(), response.Data.Balance.Equal(decimal.RequireFromString("45.50")), "balance is %s", response.Data.Balance)

	// The student balance is untouched
	recorder = test.Request(suite.controller, suite.T(), http.MethodGet, fmt.Sprintf("/v1/students/%d", ana.ID), "")
	var studentResponse v1.StudentResponse
	test.DecodeResponse(suite.T(), &recorder, &studentResponse)
	assert.True(suite.T(), studentResponse.Data.Balance.Equal(decimal.NewFromInt(20)))
}
