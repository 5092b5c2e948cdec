package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmittedData_Merge(t *testing.T) {
	t.Run("incoming keys win, existing keys survive", func(t *testing.T) {
		existing := SubmittedData{"LastName": "Ivanov", "StartDate": "2024-01-01"}
		merged := existing.Merge(SubmittedData{"StartDate": "2024-02-02", "OrderNumber": "42"})

		assert.Equal(t, SubmittedData{
			"LastName":    "Ivanov",
			"StartDate":   "2024-02-02",
			"OrderNumber": "42",
		}, merged)
	})

	t.Run("does not mutate the receiver", func(t *testing.T) {
		existing := SubmittedData{"LastName": "Ivanov"}
		_ = existing.Merge(SubmittedData{"LastName": "Petrov"})
		assert.Equal(t, "Ivanov", existing["LastName"])
	})

	t.Run("merge on nil receiver", func(t *testing.T) {
		var existing SubmittedData
		merged := existing.Merge(SubmittedData{"LastName": "Ivanov"})
		assert.Equal(t, "Ivanov", merged["LastName"])
	})
}

func TestParseDocumentStatus(t *testing.T) {
	for _, valid := range []string{"AWAITING_INPUT", "SUBMITTED", "SENT_BACK", "APPROVED_BY_TEACHER", "COMPLETED"} {
		status, ok := ParseDocumentStatus(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, DocumentStatus(valid), status)
	}

	for _, invalid := range []string{"", "DRAFT", "completed", "APPROVED"} {
		_, ok := ParseDocumentStatus(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"STUDENT", "TEACHER", "CURATOR"} {
		role, ok := ParseRole(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, RoleType(valid), role)
	}

	for _, invalid := range []string{"", "ADMIN", "student"} {
		_, ok := ParseRole(invalid)
		assert.False(t, ok, invalid)
	}
}
