package booking

import (
	"fmt"

	"github.com/careplushealth/lab-scheduler/internal/httperr"
	"github.com/careplushealth/lab-scheduler/internal/models"
)

// ===============================
// Risk Levels
// ===============================

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ===============================
// Screening State
// ===============================

type ScreeningStatus string

const (
	ScreeningNotStarted ScreeningStatus = "not_started"
	ScreeningInProgress ScreeningStatus = "in_progress"
	ScreeningBlocked    ScreeningStatus = "blocked"
	ScreeningCleared    ScreeningStatus = "cleared"
)

type Screening struct {
	Status  ScreeningStatus
	Answers map[string]bool
}

func NewScreening() Screening {
	return Screening{
		Status:  ScreeningNotStarted,
		Answers: make(map[string]bool),
	}
}

// Answer records a yes/no response for a question key.
func (s *Screening) Answer(key string, yes bool) error {
	if s.Status == ScreeningBlocked || s.Status == ScreeningCleared {
		return httperr.ErrBusiness("screening_finished")
	}

	if s.Answers == nil {
		s.Answers = make(map[string]bool)
	}
	s.Answers[key] = yes
	s.Status = ScreeningInProgress
	return nil
}

// Finish evaluates the collected answers against the test's questions and
// settles the screening as Blocked or Cleared.
func (s *Screening) Finish(test *models.LabTest) Verdict {
	v := Evaluate(test, s.Answers)
	if v.CanProceed {
		s.Status = ScreeningCleared
	} else {
		s.Status = ScreeningBlocked
	}
	return v
}

// Revise reopens a blocked screening so answers can be changed. There is no
// override path: the only ways out of Blocked are revised answers or
// abandoning the attempt.
func (s *Screening) Revise() error {
	if s.Status != ScreeningBlocked {
		return httperr.ErrBusiness("invalid_state")
	}
	s.Status = ScreeningInProgress
	return nil
}

// ===============================
// Verdict
// ===============================

type Verdict struct {
	CanProceed bool     `json:"can_proceed"`
	Warnings   []string `json:"warnings"`
}

// Evaluate computes the proceed/block verdict. Every "yes" answer with a
// warning message contributes to the warnings list; any "yes" answer on a
// high-risk question blocks. All triggered warnings are returned even when
// proceeding is still allowed.
func Evaluate(test *models.LabTest, answers map[string]bool) Verdict {
	v := Verdict{CanProceed: true}
	if test == nil {
		return v
	}

	for _, q := range test.EligibilityQuestions {
		if !answers[q.Key] {
			continue
		}

		if q.Warning != "" {
			v.Warnings = append(v.Warnings, fmt.Sprintf("%s: %s", test.Name, q.Warning))
		}

		if RiskLevel(q.RiskLevel) == RiskHigh {
			v.CanProceed = false
		}
	}

	return v
}
