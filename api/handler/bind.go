package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/use-agent/shopsight/models"
)

// bindJSON binds and validates the request body, writing the 400 envelope
// with field-level issues on failure. Returns false when the request was
// rejected.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, models.ValidationErrorResponse{
			Message: "Invalid request payload",
			Issues:  bindingIssues(err),
		})
		return false
	}
	return true
}

// bindingIssues unpacks validator field errors into per-field issues. Field
// names are json tag names (see api.registerValidatorTagNames). Non-validator
// errors (malformed JSON, type mismatches) become a single body-level issue.
func bindingIssues(err error) []models.Issue {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []models.Issue{{Field: "body", Message: err.Error()}}
	}

	issues := make([]models.Issue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, models.Issue{
			Field:   fe.Field(),
			Message: issueMessage(fe),
		})
	}
	return issues
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}
