package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	ContentType string `json:"contentType" validate:"required,content_type"`
	Status      string `json:"status" validate:"omitempty,report_status"`
	Reason      string `json:"reason" validate:"omitempty,report_reason"`
	BanType     string `json:"banType" validate:"omitempty,ban_type"`
}

func TestCustomValidators(t *testing.T) {
	t.Run("合法值", func(t *testing.T) {
		err := Validate(sampleRequest{ContentType: "dua-request", Status: "resolved", Reason: "spam", BanType: "permanent"})
		assert.NoError(t, err)
	})

	t.Run("非法值", func(t *testing.T) {
		err := Validate(sampleRequest{ContentType: "story", Status: "closed", Reason: "boring", BanType: "forever"})
		require.Error(t, err)

		fields := ValidationErrors(err)
		assert.Equal(t, "contentType must be one of: post, comment, dua-request", fields["contentType"])
		assert.Contains(t, fields["status"], "pending")
		assert.Contains(t, fields["reason"], "harassment")
		assert.Contains(t, fields["banType"], "temporary")
	})

	t.Run("缺少必填字段", func(t *testing.T) {
		fields := ValidationErrors(Validate(sampleRequest{}))
		assert.Equal(t, "contentType is required", fields["contentType"])
	})
}
