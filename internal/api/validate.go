package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ProfileRequest is the payload checked by /v1/validate. The binding
// tags are the schema; gin runs them through validator/v10.
type ProfileRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=64"`
	Email   string `json:"email" binding:"required,email"`
	Age     int    `json:"age" binding:"omitempty,gte=0,lte=150"`
	Website string `json:"website" binding:"omitempty,url"`
	Country string `json:"country" binding:"omitempty,iso3166_1_alpha2"`
}

// Violation describes one failed validation rule.
type Violation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// Validate checks a profile payload against its schema and reports
// per-field violations.
func (h *Handlers) Validate(c *gin.Context) {
	var req ProfileRequest
	err := c.ShouldBindJSON(&req)
	if err == nil {
		c.JSON(200, gin.H{"valid": true})
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(400, gin.H{"error": "Body must be valid JSON"})
		return
	}

	violations := make([]Violation, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, Violation{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}

	c.JSON(422, gin.H{
		"valid":      false,
		"violations": violations,
	})
}
