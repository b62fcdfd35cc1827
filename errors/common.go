package errors

import "fmt"

func InvalidParamsErr(err error) error {
	return E(Invalid, "invalid params", err)
}

func InvalidBodyErr(err error) error {
	return E(Invalid, "invalid request body", err)
}

func ValidationFailedErr(err error) error {
	return E(Invalid, "validation failed", err)
}

func EmptyParamErr(field string) error {
	ve := ValidationErrs()
	ve.Add(field, "cannot be empty")
	return E(Invalid, "validation failed", ve.Err())
}

// JobNotFoundErr returns a formated error for a missing disbursement job
func JobNotFoundErr(jobID string) error {
	return E(NotFound, fmt.Sprintf("disbursement job %s not found", jobID), nil)
}

// AlertNotFoundErr returns a formated error for a missing system alert
func AlertNotFoundErr(alertID string) error {
	return E(NotFound, fmt.Sprintf("alert %s not found", alertID), nil)
}

// DuplicateJobErr returns a formated error for a duplicate enqueue attempt
// on a transaction code that already has a live or completed job
func DuplicateJobErr(transactionCode string, err error) error {
	return E(Conflict, fmt.Sprintf("disbursement already enqueued for %s", transactionCode), err)
}
