package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careplushealth/lab-scheduler/internal/models"
)

func screeningTest() *models.LabTest {
	return &models.LabTest{
		Name:                     "CT Scan with Contrast",
		RequiresEligibilityCheck: true,
		EligibilityQuestions: []models.EligibilityQuestion{
			{Key: "kidney_disease", RiskLevel: "high", Warning: "Contrast is unsafe with impaired kidney function."},
			{Key: "contrast_allergy", RiskLevel: "medium", Warning: "Prior contrast reactions need pre-medication."},
			{Key: "claustrophobia", RiskLevel: "low", Warning: ""},
		},
	}
}

func TestEvaluateAllNo(t *testing.T) {
	v := Evaluate(screeningTest(), map[string]bool{
		"kidney_disease":   false,
		"contrast_allergy": false,
		"claustrophobia":   false,
	})

	assert.True(t, v.CanProceed)
	assert.Empty(t, v.Warnings)
}

func TestEvaluateHighRiskBlocks(t *testing.T) {
	v := Evaluate(screeningTest(), map[string]bool{
		"kidney_disease": true,
	})

	assert.False(t, v.CanProceed)
	require.Len(t, v.Warnings, 1)
	assert.Equal(t, "CT Scan with Contrast: Contrast is unsafe with impaired kidney function.", v.Warnings[0])
}

func TestEvaluateMediumRiskWarnsButProceeds(t *testing.T) {
	v := Evaluate(screeningTest(), map[string]bool{
		"contrast_allergy": true,
		"claustrophobia":   true, // no warning text, must not surface
	})

	assert.True(t, v.CanProceed)
	require.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "pre-medication")
}

func TestEvaluateAllWarningsShownWhenBlocked(t *testing.T) {
	v := Evaluate(screeningTest(), map[string]bool{
		"kidney_disease":   true,
		"contrast_allergy": true,
	})

	assert.False(t, v.CanProceed)
	assert.Len(t, v.Warnings, 2)
}

func TestEvaluateTolerantOfEmptyQuestions(t *testing.T) {
	test := &models.LabTest{Name: "X-Ray", RequiresEligibilityCheck: true}

	v := Evaluate(test, map[string]bool{"anything": true})
	assert.True(t, v.CanProceed)
	assert.Empty(t, v.Warnings)

	v = Evaluate(nil, nil)
	assert.True(t, v.CanProceed)
}

func TestScreeningLifecycle(t *testing.T) {
	s := NewScreening()
	assert.Equal(t, ScreeningNotStarted, s.Status)

	require.NoError(t, s.Answer("kidney_disease", true))
	assert.Equal(t, ScreeningInProgress, s.Status)

	v := s.Finish(screeningTest())
	assert.False(t, v.CanProceed)
	assert.Equal(t, ScreeningBlocked, s.Status)

	// no answers can land while blocked
	assert.Error(t, s.Answer("contrast_allergy", true))

	// revise, flip the answer, re-finish
	require.NoError(t, s.Revise())
	assert.Equal(t, ScreeningInProgress, s.Status)
	require.NoError(t, s.Answer("kidney_disease", false))

	v = s.Finish(screeningTest())
	assert.True(t, v.CanProceed)
	assert.Equal(t, ScreeningCleared, s.Status)

	assert.Error(t, s.Revise())
}
