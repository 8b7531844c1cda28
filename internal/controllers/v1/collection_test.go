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

func (suite *TestSuiteStandard) TestGetCollection() {
	suite.configureCollection()

	recorder := test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/collection", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.CollectionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), 10, response.Data.Duration)
	assert.True(suite.T(), response.Data.DailyFund.Equal(decimal.NewFromInt(50)))
	assert.Equal(suite.T(), "June", response.Data.Selected.Name.String())
	assert.Len(suite.T(), response.Data.Selected.ActiveDays, 3)
	assert.True(suite.T(), response.Data.Selected.MonthlyFund.Equal(decimal.NewFromInt(150)), "monthly fund is %s", response.Data.Selected.MonthlyFund)
}

func (suite *TestSuiteStandard) TestUpdateCollectionPartial() {
	duration := "10"
	recorder := test.Request(suite.controller, suite.T(), http.MethodPatch, "/v1/collection", v1.SettingsEditable{Duration: &duration})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.CollectionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), 10, response.Data.Duration)
	assert.True(suite.T(), response.Data.DailyFund.IsZero(), "daily fund must stay untouched")
}

func (suite *TestSuiteStandard) TestUpdateCollectionInvalid() {
	tests := []struct {
		name string
		body string
	}{
		{"invalid duration", `{"duration": "abc"}`},
		{"invalid daily fund", `{"dailyFund": "1.2.3"}`},
		{"broken body", `{ broken`},
	}

	for _, tt := range tests {
		recorder := test.Request(suite.controller, suite.T(), http.MethodPatch, "/v1/collection", tt.body)
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	}
}

func (suite *TestSuiteStandard) TestSelectMonthInvalid() {
	recorder := test.Request(suite.controller, suite.T(), http.MethodPost, "/v1/collection/months", v1.MonthEditable{MonthName: "Juneuary"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetMonth() {
	suite.configureCollection()

	recorder := test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/collection/months/June", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.MonthResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data.ActiveDays, 3)

	// The month name is parsed case-insensitively
	recorder = test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/collection/months/june", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
}

func (suite *TestSuiteStandard) TestGetMonthNotSelected() {
	recorder := test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/collection/months/July", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestCreateActiveDayUnknownMonth() {
	recorder := test.Request(suite.controller, suite.T(), http.MethodPost, "/v1/collection/months/July/days", v1.ActiveDayEditable{Date: "2026-07-01"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestCreateActiveDayInvalidDate() {
	suite.configureCollection()

	recorder := test.Request(suite.controller, suite.T(), http.MethodPost, "/v1/collection/months/June/days", v1.ActiveDayEditable{Date: "03.06.2026"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestSaveCollection() {
	suite.configureCollection()

	recorder := test.Request(suite.controller, suite.T(), http.MethodPost, "/v1/collection/save", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.CollectionRecordResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), "June", response.Data.Month.String())
	assert.True(suite.T(), response.Data.Fund.Equal(decimal.NewFromInt(150)))

	// The record can be fetched back by month
	recorder = test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/collection/records?month=June", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var fetched v1.CollectionRecordResponse
	test.DecodeResponse(suite.T(), &recorder, &fetched)
	assert.Equal(suite.T(), response.Data.ID, fetched.Data.ID)
}

func (suite *TestSuiteStandard) TestSaveCollectionIncomplete() {
	recorder := test.Request(suite.controller, suite.T(), http.MethodPost, "/v1/collection/save", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusPreconditionFailed)
}

func (suite *TestSuiteStandard) TestGetCollectionRecordMissing() {
	recorder := test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/collection/records?month=July", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestDeleteCollectionRecord() {
	suite.configureCollection()

	recorder := test.Request(suite.controller, suite.T(), http.MethodPost, "/v1/collection/save", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.CollectionRecordResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	recorder = test.Request(suite.controller, suite.T(), http.MethodDelete, fmt.Sprintf("/v1/collection/records/%s", response.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/collection/records?month=June", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestDeleteCollectionRecordInvalidID() {
	recorder := test.Request(suite.controller, suite.T(), http.MethodDelete, "/v1/collection/records/notauuid", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestDeleteCollection() {
	suite.configureCollection()

	recorder := test.Request(suite.controller, suite.T(), http.MethodDelete, "/v1/collection", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.controller, suite.T(), http.MethodGet, "/v1/collection", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.CollectionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), 0, response.Data.Duration)
	assert.False(suite.T(), response.Data.HasSelection())
}

func (suite *TestSuiteStandard) TestDuplicateActiveDays() {
	suite.configureCollection()

	recorder := test.Request(suite.controller, suite.T(), http.MethodPost, "/v1/collection/months/June/days", v1.ActiveDayEditable{Date: "2026-06-03"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.MonthResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	// The duplicate day counts towards the fund
	require.Len(suite.T(), response.Data.ActiveDays, 4)
	assert.True(suite.T(), response.Data.MonthlyFund.Equal(decimal.NewFromInt(200)), "monthly fund is %s", response.Data.MonthlyFund)
}
