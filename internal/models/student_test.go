package models_test

import (
	"time"

	"github.com/classfund/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestStudentTrimName() {
	student := suite.createTestStudent(models.Student{ID: 1, Name: "  Ana "})
	assert.Equal(suite.T(), "Ana", student.Name)
}

func (suite *TestSuiteStandard) TestStudentNameNotUnique() {
	_ = suite.createTestStudent(models.Student{ID: 1, Name: "Ben"})

	err := models.DB.Create(&models.Student{ID: 2, Name: "Ben"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrStudentNameNotUnique)
}

func (suite *TestSuiteStandard) TestStudentWithLogs() {
	student := suite.createTestStudent(models.Student{ID: 1, Name: "Ana", Balance: decimal.NewFromInt(60)})

	id := student.ID
	err := models.DB.Create(&models.TransactionLog{
		StudentID: &id,
		Seq:       1,
		Kind:      "payment",
		Amount:    decimal.NewFromInt(60),
		Date:      time.Date(2026, 6, 3, 10, 0, 0, 0, time.UTC),
	}).Error
	require.NoError(suite.T(), err)

	var loaded models.Student
	err = models.DB.Preload("TransactionLogs").First(&loaded, student.ID).Error
	require.NoError(suite.T(), err)
	require.Len(suite.T(), loaded.TransactionLogs, 1)
	assert.True(suite.T(), loaded.TransactionLogs[0].Amount.Equal(decimal.NewFromInt(60)))
	assert.Equal(suite.T(), time.UTC, loaded.TransactionLogs[0].Date.Location())
}

func (suite *TestSuiteStandard) TestTransactionLogSeqUnique() {
	err := models.DB.Create(&models.TransactionLog{Seq: 1, Kind: "withdrawal", Amount: decimal.NewFromInt(-40)}).Error
	require.NoError(suite.T(), err)

	err = models.DB.Create(&models.TransactionLog{Seq: 1, Kind: "withdrawal", Amount: decimal.NewFromInt(-40)}).Error
	assert.Error(suite.T(), err, "duplicate sequence numbers must be rejected")
}
