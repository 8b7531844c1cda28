package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/classfund/backend/internal/controllers/v1"
	"github.com/classfund/backend/internal/notify"
	"github.com/classfund/backend/internal/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) getNotifications(query string) v1.NotificationResponse {
	recorder := test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/notifications"+query, "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.NotificationResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	return response
}

func kinds(events []notify.Event) []notify.EventKind {
	found := make([]notify.EventKind, 0, len(events))
	for _, event := range events {
		found = append(found, event.Kind)
	}
	return found
}

func (suite *TestSuiteStandard) TestGetNotifications() {
	suite.configureCollection()

	ana := suite.createTestStudent("Ana")
	_ = suite.createTestStudent("Ben")
	suite.payForStudent(ana.ID, 150)

	response := suite.getNotifications("")

	found := kinds(response.Data)
	assert.Contains(suite.T(), found, notify.KindContributionSummary)
	assert.Contains(suite.T(), found, notify.KindProgress)
	assert.Contains(suite.T(), found, notify.KindTargetCompleted)
}

func (suite *TestSuiteStandard) TestGetNotificationsWithdrawalCursor() {
	ana := suite.createTestStudent("Ana")
	suite.payForStudent(ana.ID, 60)

	recorder := test.Request(suite.controller, suite.T(), http.MethodPost, "/v1/class/withdrawals", v1.WithdrawalEditable{Amount: decimal.NewFromInt(40), Purpose: "class party"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	response := suite.getNotifications("")
	assert.Contains(suite.T(), kinds(response.Data), notify.KindWithdrawal)
	require.NotZero(suite.T(), response.LastSeq)

	// Pulling again with the returned cursor suppresses the withdrawal
	response = suite.getNotifications(fmt.Sprintf("?since=%d", response.LastSeq))
	assert.NotContains(suite.T(), kinds(response.Data), notify.KindWithdrawal)
}

func (suite *TestSuiteStandard) TestGetNotificationsInvalidCursor() {
	recorder := test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/notifications?since=later", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}
