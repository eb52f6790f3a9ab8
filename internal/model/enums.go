package model

// BanType 封禁类型
type BanType string

const (
	BanTypeTemporary BanType = "temporary" // 临时封禁，必须带过期时间
	BanTypePermanent BanType = "permanent" // 永久封禁，没有过期时间
)

// IsValid 检查封禁类型是否合法
func (t BanType) IsValid() bool {
	return t == BanTypeTemporary || t == BanTypePermanent
}

// ReportStatus 举报处理状态
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusReviewed  ReportStatus = "reviewed"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// IsValid 检查举报状态是否合法
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusPending, ReportStatusReviewed, ReportStatusResolved, ReportStatusDismissed:
		return true
	}
	return false
}

// ReportReason 人工举报原因
type ReportReason string

const (
	ReportReasonSpam          ReportReason = "spam"
	ReportReasonInappropriate ReportReason = "inappropriate"
	ReportReasonHarassment    ReportReason = "harassment"
	ReportReasonFake          ReportReason = "fake"
	ReportReasonOther         ReportReason = "other"
)

// ContentType 被审核内容的类型
type ContentType string

const (
	ContentTypePost       ContentType = "post"
	ContentTypeComment    ContentType = "comment"
	ContentTypeDuaRequest ContentType = "dua-request"
)

// IsValid 检查内容类型是否合法
func (c ContentType) IsValid() bool {
	switch c {
	case ContentTypePost, ContentTypeComment, ContentTypeDuaRequest:
		return true
	}
	return false
}
