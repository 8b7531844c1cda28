package models_test

import (
	"github.com/classfund/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestQueryCallback() {
	var collection models.Collection

	err := models.DB.First(&collection).Error
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
	assert.Equal(suite.T(), "there is no collection matching your query", err.Error())
}

func (suite *TestSuiteStandard) TestGeneralCallbackClosedDB() {
	suite.CloseDB()

	err := models.DB.Create(&models.Student{ID: 1, Name: "Ana"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrGeneral)
}
